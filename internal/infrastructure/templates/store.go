package templates

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Store serves raw page template strings keyed "page_layout" (for example
// "home_hero", "about_default"). Templates are read from disk once and
// cached; the set is static for the life of the process.
type Store struct {
	dir string

	once      sync.Once
	loadErr   error
	templates map[string]string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) load() {
	s.templates = make(map[string]string)

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		s.loadErr = fmt.Errorf("failed to read templates dir %s: %w", s.dir, err)
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".html") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			s.loadErr = fmt.Errorf("failed to read template %s: %w", entry.Name(), err)
			return
		}
		key := strings.TrimSuffix(entry.Name(), ".html")
		s.templates[key] = string(data)
	}
}

// Get returns the raw template for a page and layout, falling back to the
// page's "default" variant.
func (s *Store) Get(page, layout string) (string, error) {
	s.once.Do(s.load)
	if s.loadErr != nil {
		return "", s.loadErr
	}

	if layout != "" {
		if tpl, ok := s.templates[page+"_"+layout]; ok {
			return tpl, nil
		}
	}
	if tpl, ok := s.templates[page+"_default"]; ok {
		return tpl, nil
	}
	return "", fmt.Errorf("no template for page %q layout %q", page, layout)
}
