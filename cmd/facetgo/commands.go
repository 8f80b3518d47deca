package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/spf13/cobra"

	"github.com/hupe1980/facetgo"
	"github.com/hupe1980/facetgo/facet"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List categories and their distinct value counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := mainContext()
		defer stop()

		ex, err := newExplorer()
		if err != nil {
			return err
		}
		defer ex.Close()

		s, err := ex.State(ctx)
		if err != nil {
			return err
		}
		for cat := facet.Category(0); cat < facet.CategoryCount; cat++ {
			n := len(s.Values(cat))
			mark := ""
			if s.HasUnknown(cat) {
				mark = " (+unknown)"
			}
			fmt.Printf("%-14s %d%s\n", cat, n, mark)
		}
		fmt.Printf("%-14s %d\n", "entries", s.Len())
		return nil
	},
}

var valuesCmd = &cobra.Command{
	Use:   "values <category>",
	Short: "List distinct values of a category, optionally under constraints",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := mainContext()
		defer stop()

		target, ok := facet.CategoryByName(args[0])
		if !ok {
			return fmt.Errorf("unknown category %q", args[0])
		}
		where, _ := cmd.Flags().GetStringArray("where")
		find, _ := cmd.Flags().GetString("find")

		ex, err := newExplorer()
		if err != nil {
			return err
		}
		defer ex.Close()

		cons, err := parseConstraints(ctx, ex, where)
		if err != nil {
			return err
		}
		values, hasUnknown, err := ex.DistinctValues(ctx, cons, target, find)
		if err != nil {
			return err
		}
		for _, v := range values {
			fmt.Println(v.Label)
		}
		if hasUnknown {
			fmt.Println("Unknown")
		}
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List entries matching constraints and a free-text filter",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := mainContext()
		defer stop()

		where, _ := cmd.Flags().GetStringArray("where")
		find, _ := cmd.Flags().GetString("find")
		long, _ := cmd.Flags().GetBool("long")

		ex, err := newExplorer()
		if err != nil {
			return err
		}
		defer ex.Close()

		cons, err := parseConstraints(ctx, ex, where)
		if err != nil {
			return err
		}
		entries, err := ex.Entries(ctx, cons, find)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if !long {
				fmt.Println(e.Title())
				continue
			}
			fmt.Printf("%s\t%s\t%s\t%s\n",
				e.Title(), e.By[facet.System], e.By[facet.Publisher], e.By[facet.ReleaseYear])
		}
		return nil
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep the index warm, rebuilding on playlist changes",
	Long: `watch builds the index, then watches the playlist directory and
rebuilds whenever it changes. Prometheus metrics are served on
--metrics-addr.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := mainContext()
		defer stop()

		addr, _ := cmd.Flags().GetString("metrics-addr")

		ex, err := newExplorer(
			facetgo.WithMetricsCollector(newVMCollector()),
			facetgo.WithWatch(playlistDir()),
		)
		if err != nil {
			return err
		}
		defer ex.Close()

		if err := ex.Build(ctx); err != nil {
			return err
		}

		// Rebuild promptly after the watcher invalidates instead of
		// waiting for the next query. Build is a no-op while the index
		// is current.
		go func() {
			tick := time.NewTicker(time.Second)
			defer tick.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-tick.C:
					_ = ex.Build(ctx)
				}
			}
		}()

		mux := http.NewServeMux()
		mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
			metrics.WritePrometheus(w, true)
		})
		srv := &http.Server{Addr: addr, Handler: mux}
		go func() {
			<-ctx.Done()
			_ = srv.Close()
		}()
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			return err
		}
		return nil
	},
}

func init() {
	valuesCmd.Flags().StringArray("where", nil, "constraint Category=Label, repeatable ('?' selects unknown)")
	valuesCmd.Flags().String("find", "", "case-insensitive substring filter on entry labels")
	listCmd.Flags().StringArray("where", nil, "constraint Category=Label, repeatable ('?' selects unknown)")
	listCmd.Flags().String("find", "", "case-insensitive substring filter on entry labels")
	listCmd.Flags().Bool("long", false, "show system, publisher and release year columns")
	watchCmd.Flags().String("metrics-addr", "localhost:9090", "address for the Prometheus metrics endpoint")
}
