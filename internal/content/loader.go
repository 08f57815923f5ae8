// Package content serves the static site catalog: levels, services,
// testimonials, the registration course list and page copy.
package content

import (
	"embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/frenchcercle/cercle/internal/models"
)

//go:embed defaults/site.yaml
var defaults embed.FS

// Loader holds the site content. Built-in defaults are loaded first;
// YAML files from a directory replace whole sections.
type Loader struct {
	mu      sync.RWMutex
	content models.Content
}

// NewLoader creates a loader populated with the built-in content
func NewLoader() (*Loader, error) {
	data, err := defaults.ReadFile("defaults/site.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read default content: %w", err)
	}

	var f contentFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse default content: %w", err)
	}

	l := &Loader{}
	l.content = f.apply(models.Content{})
	if err := validate(l.content); err != nil {
		return nil, fmt.Errorf("invalid default content: %w", err)
	}
	return l, nil
}

// LoadFromDir applies every *.yaml / *.yml file of dir in name order. A
// missing directory is not an error; invalid files are skipped with a
// warning.
func (l *Loader) LoadFromDir(dir string) error {
	if dir == "" {
		return nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		slog.Debug("content directory not found, using defaults", "dir", dir)
		return nil
	}

	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return fmt.Errorf("failed to list content files: %w", err)
		}
		files = append(files, matches...)
	}
	sort.Strings(files)

	loaded := 0
	for _, file := range files {
		if err := l.LoadFromFile(file); err != nil {
			slog.Warn("failed to load content file", "file", file, "error", err)
			continue
		}
		loaded++
	}

	slog.Info("site content loaded", "dir", dir, "files", loaded)
	return nil
}

// LoadFromFile applies the sections present in one YAML file
func (l *Loader) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var f contentFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	next := f.apply(l.content)
	if err := validate(next); err != nil {
		return err
	}
	l.content = next
	return nil
}

// Get returns a copy of the catalog
func (l *Loader) Get() models.Content {
	l.mu.RLock()
	defer l.mu.RUnlock()

	c := l.content
	c.Levels = append([]models.LevelInfo(nil), c.Levels...)
	c.Services = append([]models.Service(nil), c.Services...)
	c.Testimonials = append([]models.Testimonial(nil), c.Testimonials...)
	c.Courses = append([]string(nil), c.Courses...)
	c.About.Contact = append([]string(nil), c.About.Contact...)
	return c
}

// Courses returns the course titles offered on the registration form
func (l *Loader) Courses() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]string(nil), l.content.Courses...)
}

func validate(c models.Content) error {
	for _, lv := range c.Levels {
		if !lv.Code.Valid() {
			return fmt.Errorf("unknown level code: %q", lv.Code)
		}
	}

	seen := make(map[string]bool, len(c.Services))
	for _, s := range c.Services {
		if s.ID == "" || s.Title == "" {
			return fmt.Errorf("service id and title are required")
		}
		if seen[s.ID] {
			return fmt.Errorf("duplicate service id: %q", s.ID)
		}
		seen[s.ID] = true
	}

	for _, t := range c.Testimonials {
		if t.Rating < 1 || t.Rating > 5 {
			return fmt.Errorf("testimonial %q: rating must be between 1 and 5, got %d", t.ID, t.Rating)
		}
	}

	if len(c.Courses) == 0 {
		return fmt.Errorf("at least one course is required")
	}
	return nil
}

// --- YAML file structs ---

// contentFile is one YAML file. Absent sections keep their current value.
type contentFile struct {
	Hero         *models.Hero         `yaml:"hero"`
	Levels       []models.LevelInfo   `yaml:"levels"`
	Services     []models.Service     `yaml:"services"`
	Testimonials []models.Testimonial `yaml:"testimonials"`
	Courses      []string             `yaml:"courses"`
	About        *models.About        `yaml:"about"`
}

func (f contentFile) apply(c models.Content) models.Content {
	if f.Hero != nil {
		c.Hero = *f.Hero
	}
	if f.Levels != nil {
		c.Levels = f.Levels
	}
	if f.Services != nil {
		c.Services = f.Services
	}
	if f.Testimonials != nil {
		c.Testimonials = f.Testimonials
	}
	if f.Courses != nil {
		c.Courses = f.Courses
	}
	if f.About != nil {
		c.About = *f.About
	}
	return c
}
