// Package gallery holds the project gallery: ingestion of raw content
// entries, fallback images, video classification, description truncation
// and the per-visitor interaction state.
package gallery

import (
	"fmt"
	"strconv"
	"strings"
)

// UntitledProject is shown for records without a title.
const UntitledProject = "Untitled Project"

// Project is one ingested project record. All defaulting has been applied,
// so templates never need to check for missing fields.
type Project struct {
	ID           string
	Title        string
	HasTitle     bool
	Description  string
	Technologies []string
	Image        string
	GitHub       string
	Video        string
	Featured     bool
}

// HasTech reports whether tag is one of the project's technologies.
// Matching is exact.
func (p Project) HasTech(tag string) bool {
	for _, t := range p.Technologies {
		if t == tag {
			return true
		}
	}
	return false
}

// Ingest turns raw decoded content entries into projects. Entries that are
// not objects are dropped. IDs are unique within the returned slice. Text
// is kept verbatim apart from trimming; templates escape it on output.
func Ingest(entries []any) []Project {
	out := make([]Project, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))

	for i, e := range entries {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}

		p := Project{
			Description:  strings.TrimSpace(stringField(m, "description")),
			Technologies: stringsField(m, "technologies"),
			GitHub:       strings.TrimSpace(stringField(m, "github")),
			Video:        strings.TrimSpace(stringField(m, "video")),
		}
		if f, ok := m["featured"].(bool); ok && f {
			p.Featured = true
		}

		title := strings.TrimSpace(stringField(m, "title"))
		p.HasTitle = title != ""
		p.Title = title
		if !p.HasTitle {
			p.Title = UntitledProject
		}

		p.Image = strings.TrimSpace(stringField(m, "image"))
		if p.Image == "" {
			p.Image = FallbackImage(title)
		}

		p.ID = uniqueID(idField(m), i, seen)
		out = append(out, p)
	}
	return out
}

func uniqueID(id string, index int, seen map[string]struct{}) string {
	if id == "" {
		id = fmt.Sprintf("project-%d", index)
	}
	candidate := id
	for n := 2; ; n++ {
		if _, dup := seen[candidate]; !dup {
			break
		}
		candidate = fmt.Sprintf("%s-%d", id, n)
	}
	seen[candidate] = struct{}{}
	return candidate
}

func idField(m map[string]any) string {
	switch v := m["id"].(type) {
	case string:
		return strings.TrimSpace(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func stringsField(m map[string]any, key string) []string {
	switch v := m[key].(type) {
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, x := range v {
			if s, ok := x.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
