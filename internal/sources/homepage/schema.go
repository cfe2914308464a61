// Package homepage imports gethomepage.dev configuration files as bookmarks.
package homepage

// BookmarkEntry is a single bookmark of bookmarks.yaml.
type BookmarkEntry struct {
	Icon string `yaml:"icon"`
	Abbr string `yaml:"abbr"`
	Href string `yaml:"href"`
}

// BookmarkCategory maps a category name to its bookmarks.
// The YAML structure is: - CategoryName: [ - BookmarkName: [{ icon, abbr, href }] ]
type BookmarkCategory map[string][]map[string][]BookmarkEntry

// BookmarksConfig is the root of bookmarks.yaml.
type BookmarksConfig []BookmarkCategory

// ServicesConfig is the root of services.yaml.
// Homepage uses dynamic keys: - GroupName: [ - ServiceName: { href, ... } ]
type ServicesConfig []map[string][]map[string]ServiceProps

// ServiceProps holds the service fields an import cares about.
// Widgets and monitors are ignored.
type ServiceProps struct {
	Href        string `yaml:"href"`
	Icon        string `yaml:"icon,omitempty"`
	Description string `yaml:"description,omitempty"`
}
