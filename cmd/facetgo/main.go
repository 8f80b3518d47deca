// Command facetgo browses a games library from the terminal: it indexes
// playlists against their metadata databases and answers faceted
// navigation queries (categories, values, entry lists).
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hupe1980/facetgo"
	"github.com/hupe1980/facetgo/facet"
	"github.com/hupe1980/facetgo/metadb"
	"github.com/hupe1980/facetgo/playlist"
	"github.com/hupe1980/facetgo/registry"
)

var rootCmd = &cobra.Command{
	Use:   "facetgo",
	Short: "faceted games library browser",
	Long: `facetgo indexes playlist collections against keyed metadata
databases and answers multi-facet navigation queries over the result.`,
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("playlists", "./playlists", "directory containing playlist files")
	pf.String("databases", "./database", "directory containing metadata databases")
	pf.String("cores", "", "JSON file mapping core names to system names")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")

	viper.SetEnvPrefix("facetgo")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	cobra.OnInitialize(func() {
		cobra.CheckErr(viper.BindPFlags(rootCmd.PersistentFlags()))
	})

	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(valuesCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(watchCmd)
}

func newLogger() *facetgo.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(viper.GetString("log-level"))); err != nil {
		level = slog.LevelInfo
	}
	return facetgo.NewLogger(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05",
	}))
}

func loadRegistry() (*registry.Registry, error) {
	path := viper.GetString("cores")
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read core registry: %w", err)
	}
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse core registry: %w", err)
	}
	return registry.FromMap(m), nil
}

func playlistDir() string { return viper.GetString("playlists") }

func newExplorer(extra ...facetgo.Option) (*facetgo.Explorer, error) {
	log := newLogger()
	reg, err := loadRegistry()
	if err != nil {
		return nil, err
	}
	opts := append([]facetgo.Option{
		facetgo.WithLogger(log),
		facetgo.WithRegistry(reg),
	}, extra...)
	return facetgo.New(
		playlist.DirStore{Dir: viper.GetString("playlists"), Logger: log.Logger},
		metadb.FileOpener{Dir: viper.GetString("databases")},
		opts...,
	), nil
}

// parseConstraints turns repeated --where flags of the form
// "Category=Label" (or "Category=?" for the unknown bucket) into
// resolved constraints against the built index.
func parseConstraints(ctx context.Context, ex *facetgo.Explorer, where []string) ([]facet.Constraint, error) {
	var cons []facet.Constraint
	for _, w := range where {
		name, label, ok := strings.Cut(w, "=")
		if !ok {
			return nil, fmt.Errorf("invalid constraint %q, want Category=Label", w)
		}
		cat, ok := facet.CategoryByName(name)
		if !ok {
			return nil, fmt.Errorf("unknown category %q", name)
		}
		if label == "?" {
			cons = append(cons, facet.Unknown(cat))
			continue
		}
		v, err := ex.Value(ctx, cat, label)
		if err != nil {
			return nil, fmt.Errorf("category %s has no value %q", cat, label)
		}
		cons = append(cons, facet.Is(v))
	}
	return cons, nil
}

func mainContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
