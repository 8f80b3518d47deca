package facet

import "strings"

// Category is one of the fixed classification axes of the index.
type Category uint8

const (
	Developer Category = iota
	Publisher
	ReleaseYear
	PlayerCount
	Genre
	Origin
	Region
	Franchise
	Tags
	System

	// CategoryCount is the number of categories.
	CategoryCount
)

// Descriptor describes one category.
type Descriptor struct {
	// Name is the display name.
	Name string
	// DBKey is the record field key in the metadata database.
	DBKey string
	// Split permits multiple simultaneous values per entry, produced by
	// splitting the raw field on delimiters.
	Split bool
	// Organization marks values as organization names, enabling legal
	// suffix stripping ("Inc", "Ltd", "The").
	Organization bool
	// Numeric marks fields stored as integers in the database.
	Numeric bool
}

// Descriptors is the static category table. Adding a category is a
// code-level change; there is no runtime registration.
var Descriptors = [CategoryCount]Descriptor{
	Developer:   {Name: "Developer", DBKey: "developer", Split: true, Organization: true},
	Publisher:   {Name: "Publisher", DBKey: "publisher", Split: true, Organization: true},
	ReleaseYear: {Name: "Release Year", DBKey: "releaseyear", Numeric: true},
	PlayerCount: {Name: "Player Count", DBKey: "users", Numeric: true},
	Genre:       {Name: "Genre", DBKey: "genre", Split: true},
	Origin:      {Name: "Origin", DBKey: "origin"},
	Region:      {Name: "Region", DBKey: "region"},
	Franchise:   {Name: "Franchise", DBKey: "franchise"},
	Tags:        {Name: "Tags", DBKey: "tags", Split: true},
	System:      {Name: "System", DBKey: "system"},
}

// String returns the display name.
func (c Category) String() string {
	if c >= CategoryCount {
		return "invalid"
	}
	return Descriptors[c].Name
}

// Desc returns the category descriptor.
func (c Category) Desc() Descriptor { return Descriptors[c] }

// CategoryByName resolves a display name, case-insensitively.
func CategoryByName(name string) (Category, bool) {
	for c := Category(0); c < CategoryCount; c++ {
		if strings.EqualFold(Descriptors[c].Name, name) {
			return c, true
		}
	}
	return 0, false
}
