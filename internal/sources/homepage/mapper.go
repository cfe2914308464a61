package homepage

import (
	"net/url"
	"sort"
	"strings"

	"github.com/MrSnakeDoc/marks/internal/domain"
)

// Skipped is an entry that could not become a bookmark.
type Skipped struct {
	Folder string
	Name   string
	Reason string
}

// MapBookmarks converts bookmarks.yaml into create requests:
// the category becomes the folder, the name the title and abbr a tag.
func MapBookmarks(cfg BookmarksConfig) ([]domain.CreateBookmark, []Skipped) {
	var (
		out     []domain.CreateBookmark
		skipped []Skipped
	)

	for _, category := range cfg {
		for _, folder := range sortedKeys(category) {
			for _, item := range category[folder] {
				for _, name := range sortedKeys(item) {
					entries := item[name]
					// Each bookmark has a list with a single entry.
					if len(entries) == 0 || entries[0].Href == "" {
						skipped = append(skipped, Skipped{Folder: folder, Name: name, Reason: "missing href"})
						continue
					}
					entry := entries[0]
					href := strings.TrimSpace(entry.Href)
					if !domain.IsValidURL(href) {
						skipped = append(skipped, Skipped{Folder: folder, Name: name, Reason: "invalid URL " + href})
						continue
					}

					out = append(out, domain.CreateBookmark{
						URL:    href,
						Title:  nonEmpty(name),
						Folder: nonEmpty(folder),
						Tags:   domain.NormalizeTags([]string{entry.Abbr}),
					})
				}
			}
		}
	}
	return out, skipped
}

// MapServices converts services.yaml into create requests:
// the group becomes the folder and the first DNS label a tag.
func MapServices(cfg ServicesConfig) ([]domain.CreateBookmark, []Skipped) {
	var (
		out     []domain.CreateBookmark
		skipped []Skipped
	)

	for _, group := range cfg {
		for _, folder := range sortedKeys(group) {
			for _, item := range group[folder] {
				for _, name := range sortedKeys(item) {
					props := item[name]
					href := strings.TrimSpace(props.Href)
					if href == "" {
						skipped = append(skipped, Skipped{Folder: folder, Name: name, Reason: "missing href"})
						continue
					}
					u, err := url.Parse(href)
					if err != nil || u.Hostname() == "" || !domain.IsValidURL(href) {
						skipped = append(skipped, Skipped{Folder: folder, Name: name, Reason: "invalid URL " + href})
						continue
					}

					out = append(out, domain.CreateBookmark{
						URL:         href,
						Title:       nonEmpty(name),
						Description: nonEmpty(props.Description),
						Folder:      nonEmpty(folder),
						Tags:        domain.NormalizeTags([]string{extractServiceName(u.Hostname())}),
					})
				}
			}
		}
	}
	return out, skipped
}

// extractServiceName extracts the first DNS label.
// Example: "jellyfin.domain.ext" -> "jellyfin"
func extractServiceName(hostname string) string {
	name, _, _ := strings.Cut(hostname, ".")
	return name
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func nonEmpty(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
