package homepage

import (
	"testing"
)

func TestMapBookmarks(t *testing.T) {
	cfg := BookmarksConfig{
		{
			"Developer": []map[string][]BookmarkEntry{
				{"Github": {{Abbr: "GH", Href: "https://github.com/"}}},
				{"Broken": {{Abbr: "BR", Href: "not a url"}}},
				{"Empty": {}},
			},
		},
	}

	got, skipped := MapBookmarks(cfg)
	if len(got) != 1 {
		t.Fatalf("MapBookmarks() returned %d bookmarks, want 1", len(got))
	}
	b := got[0]
	if b.URL != "https://github.com/" || *b.Title != "Github" || *b.Folder != "Developer" {
		t.Errorf("unexpected bookmark %+v", b)
	}
	if len(b.Tags) != 1 || b.Tags[0] != "GH" {
		t.Errorf("tags = %v, want [GH]", b.Tags)
	}
	if len(skipped) != 2 {
		t.Fatalf("skipped = %+v, want 2 entries", skipped)
	}
}

func TestMapBookmarksWithoutAbbr(t *testing.T) {
	cfg := BookmarksConfig{
		{"Misc": []map[string][]BookmarkEntry{{"Go": {{Href: "https://go.dev"}}}}},
	}
	got, _ := MapBookmarks(cfg)
	if len(got) != 1 || got[0].Tags != nil {
		t.Fatalf("got %+v, want one bookmark without tags", got)
	}
}

func TestMapServices(t *testing.T) {
	cfg := ServicesConfig{
		{
			"Infrastructure": []map[string]ServiceProps{
				{"AdGuard Home": {Href: "https://adguard.domain.ext", Description: "Network-wide ads blocking"}},
				{"Traefik": {Href: "https://traefik.domain.ext"}},
			},
		},
		{
			"Test": []map[string]ServiceProps{
				{"Invalid Service": {Href: "not-a-valid-url"}},
				{"No Href": {}},
			},
		},
	}

	got, skipped := MapServices(cfg)
	if len(got) != 2 {
		t.Fatalf("MapServices() returned %d bookmarks, want 2", len(got))
	}
	if got[0].Tags[0] != "adguard" || *got[0].Description != "Network-wide ads blocking" {
		t.Errorf("unexpected first bookmark %+v", got[0])
	}
	if got[1].Description != nil {
		t.Error("empty description should not be sent")
	}
	if len(skipped) != 2 {
		t.Errorf("skipped = %+v, want 2 entries", skipped)
	}
}

func TestExtractServiceName(t *testing.T) {
	for in, want := range map[string]string{
		"jellyfin.domain.ext": "jellyfin",
		"localhost":           "localhost",
	} {
		if got := extractServiceName(in); got != want {
			t.Errorf("extractServiceName(%q) = %q, want %q", in, got, want)
		}
	}
}
