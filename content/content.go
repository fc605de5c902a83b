// Package content loads the static site content: the about blurb, skills,
// experience, education and the project list fed to the gallery.
package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Zachkp/folio/gallery"
)

// ErrNoProjects is returned when the content directory has no projects file.
var ErrNoProjects = errors.New("content: no projects file")

// Extensions are tried in this order for every content file.
var Extensions = []string{".json", ".yaml", ".yml"}

type About struct {
	Name     string `json:"name" yaml:"name"`
	Title    string `json:"title" yaml:"title"`
	Bio      string `json:"bio" yaml:"bio"`
	Email    string `json:"email" yaml:"email"`
	Location string `json:"location" yaml:"location"`
	GitHub   string `json:"github" yaml:"github"`
	LinkedIn string `json:"linkedin" yaml:"linkedin"`
	Twitter  string `json:"twitter" yaml:"twitter"`
}

type Skill struct {
	Name  string `json:"name" yaml:"name"`
	Level string `json:"level" yaml:"level"`
	Icon  string `json:"icon" yaml:"icon"`
}

type Highlight struct {
	Name        string `json:"name" yaml:"name"`
	Icon        string `json:"icon" yaml:"icon"`
	Description string `json:"description" yaml:"description"`
}

type Skills struct {
	Languages  []Skill    `json:"languages" yaml:"languages"`
	Frameworks []Skill    `json:"frameworks" yaml:"frameworks"`
	Tools      []Skill    `json:"tools" yaml:"tools"`
	AISkills   []Skill    `json:"ai_skills" yaml:"ai_skills"`
	DSA        *Highlight `json:"dsa,omitempty" yaml:"dsa,omitempty"`
}

type Experience struct {
	ID           string   `json:"id" yaml:"id"`
	Role         string   `json:"role" yaml:"role"`
	Company      string   `json:"company" yaml:"company"`
	Location     string   `json:"location" yaml:"location"`
	Duration     string   `json:"duration" yaml:"duration"`
	Logo         string   `json:"logo" yaml:"logo"`
	Description  string   `json:"description" yaml:"description"`
	Achievements []string `json:"achievements" yaml:"achievements"`
}

type Education struct {
	Degree      string   `json:"degree" yaml:"degree"`
	Institution string   `json:"institution" yaml:"institution"`
	StartDate   string   `json:"start_date" yaml:"start_date"`
	EndDate     string   `json:"end_date" yaml:"end_date"`
	Logo        string   `json:"logo" yaml:"logo"`
	Highlights  []string `json:"highlights" yaml:"highlights"`
}

// Site is one immutable snapshot of the content directory.
type Site struct {
	About      About
	Skills     Skills
	Experience []Experience
	Education  []Education
	Projects   []gallery.Project

	// Entries is the number of raw project entries before ingestion.
	Entries int
}

// Dropped is the number of project entries discarded as malformed.
func (s *Site) Dropped() int { return s.Entries - len(s.Projects) }

// Load reads every content file from dir. Only the projects file is
// required; a projects file that does not hold a list yields no projects.
func Load(dir string) (*Site, error) {
	site := &Site{}

	var raw any
	found, err := decode(dir, "projects", &raw)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w in %s", ErrNoProjects, dir)
	}
	entries, _ := raw.([]any)
	site.Entries = len(entries)
	site.Projects = gallery.Ingest(entries)

	optional := []struct {
		name string
		dst  any
	}{
		{"about", &site.About},
		{"skills", &site.Skills},
		{"experience", &site.Experience},
		{"education", &site.Education},
	}
	for _, o := range optional {
		if _, err := decode(dir, o.name, o.dst); err != nil {
			return nil, err
		}
	}
	return site, nil
}

// decode finds dir/name with one of Extensions and decodes it into dst.
func decode(dir, name string, dst any) (bool, error) {
	for _, ext := range Extensions {
		path := filepath.Join(dir, name+ext)
		b, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return false, fmt.Errorf("read %s: %w", path, err)
		}

		if ext == ".json" {
			err = json.Unmarshal(b, dst)
		} else {
			err = yaml.Unmarshal(b, dst)
		}
		if err != nil {
			return false, fmt.Errorf("decode %s: %w", path, err)
		}
		return true, nil
	}
	return false, nil
}
