package gallery_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/Zachkp/folio/gallery"
)

func TestIngest_DropsNonObjects(t *testing.T) {
	entries := []any{
		nil,
		42,
		"x",
		[]any{"nested"},
		map[string]any{"id": "a", "title": "Kept"},
		true,
	}

	got := gallery.Ingest(entries)
	if len(got) != 1 {
		t.Fatalf("expected 1 project, got %d: %+v", len(got), got)
	}
	if got[0].ID != "a" || got[0].Title != "Kept" {
		t.Errorf("unexpected project %+v", got[0])
	}
}

func TestIngest_DecodedJSON(t *testing.T) {
	raw := `[null, 42, "x", {"id": 7, "title": "Seven", "technologies": ["Go", 3, "HTMX"], "featured": true}]`
	var entries []any
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		t.Fatal(err)
	}

	got := gallery.Ingest(entries)
	if len(got) != 1 {
		t.Fatalf("expected 1 project, got %d", len(got))
	}
	p := got[0]
	if p.ID != "7" {
		t.Errorf("ID = %q, want %q", p.ID, "7")
	}
	if !p.Featured {
		t.Error("expected featured")
	}
	if len(p.Technologies) != 2 || p.Technologies[0] != "Go" || p.Technologies[1] != "HTMX" {
		t.Errorf("Technologies = %v", p.Technologies)
	}
}

func TestIngest_AllOptionalFieldsMissing(t *testing.T) {
	got := gallery.Ingest([]any{map[string]any{}})
	if len(got) != 1 {
		t.Fatalf("expected 1 project, got %d", len(got))
	}
	p := got[0]
	if p.Title != gallery.UntitledProject || p.HasTitle {
		t.Errorf("Title = %q HasTitle = %v", p.Title, p.HasTitle)
	}
	if p.Image != gallery.PlaceholderImage {
		t.Errorf("Image = %q, want placeholder", p.Image)
	}
	if p.ID == "" {
		t.Error("expected positional ID")
	}
	if p.Featured || p.GitHub != "" || p.Video != "" || len(p.Technologies) != 0 {
		t.Errorf("unexpected defaults %+v", p)
	}
}

func TestIngest_FeaturedRequiresBooleanTrue(t *testing.T) {
	got := gallery.Ingest([]any{
		map[string]any{"featured": "true"},
		map[string]any{"featured": 1},
		map[string]any{"featured": true},
	})
	for i, want := range []bool{false, false, true} {
		if got[i].Featured != want {
			t.Errorf("entry %d: Featured = %v, want %v", i, got[i].Featured, want)
		}
	}
}

func TestIngest_IDsUnique(t *testing.T) {
	got := gallery.Ingest([]any{
		map[string]any{"id": "project-1"},
		map[string]any{},
		map[string]any{"id": "dup"},
		map[string]any{"id": "dup"},
	})

	seen := map[string]bool{}
	for _, p := range got {
		if seen[p.ID] {
			t.Fatalf("duplicate ID %q in %+v", p.ID, got)
		}
		seen[p.ID] = true
	}
	if got[2].ID != "dup" {
		t.Errorf("first dup keeps its id, got %q", got[2].ID)
	}
}

func TestIngest_IDsStableAcrossIngests(t *testing.T) {
	entries := []any{map[string]any{"title": "A"}, nil, map[string]any{"title": "B"}}
	a := gallery.Ingest(entries)
	b := gallery.Ingest(entries)
	for i := range a {
		if a[i].ID != b[i].ID {
			t.Errorf("entry %d: %q != %q", i, a[i].ID, b[i].ID)
		}
	}
}

func TestIngest_KeepsAngleBrackets(t *testing.T) {
	got := gallery.Ingest([]any{
		map[string]any{
			"title":       "Vec<T> Weather Lib",
			"description": "Caches results in a Map<String, Integer> keyed by city name.",
		},
		map[string]any{"title": "<Weather>"},
		map[string]any{"title": "  <b>Bold</b> & Co  "},
	})

	if got[0].Title != "Vec<T> Weather Lib" {
		t.Errorf("Title = %q", got[0].Title)
	}
	if got[0].Description != "Caches results in a Map<String, Integer> keyed by city name." {
		t.Errorf("Description = %q", got[0].Description)
	}

	p := got[1]
	if !p.HasTitle || p.Title != "<Weather>" {
		t.Errorf("Title = %q HasTitle = %v", p.Title, p.HasTitle)
	}
	if p.Image != "/images/projects/weather.svg" {
		t.Errorf("Image = %q, want keyword match", p.Image)
	}

	if got[2].Title != "<b>Bold</b> & Co" {
		t.Errorf("Title = %q", got[2].Title)
	}
}

func TestIngest_ExcerptCountsRawWords(t *testing.T) {
	desc := "Generic List<T> and Map<K, V> helpers for Go with iterators, sorting, grouping and set algebra over slices"
	got := gallery.Ingest([]any{map[string]any{"description": desc}})
	if _, long := gallery.Excerpt(got[0].Description); !long {
		t.Errorf("%d words should truncate", len(strings.Fields(desc)))
	}
}

func TestIngest_SuppliedImageWins(t *testing.T) {
	got := gallery.Ingest([]any{map[string]any{"title": "Weather", "image": "/images/custom.png"}})
	if got[0].Image != "/images/custom.png" {
		t.Errorf("Image = %q", got[0].Image)
	}
}
