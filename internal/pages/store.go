package pages

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"SuperBoard/internal/logging"
	"SuperBoard/internal/raster"
)

const indexFile = "pages.json"

type indexEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	File string `json:"file,omitempty"`
}

// Save writes every page to dir: an index file plus one PNG per saved page.
// The current page is saved from the board first. PNGs of pages no longer
// in the index are removed.
func (m *Manager) Save(dir string) error {
	if err := m.SaveCurrent(); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("pages: create %s: %w", dir, err)
	}
	index := make([]indexEntry, 0, len(m.pages))
	listed := make(map[string]struct{}, len(m.pages))
	for _, p := range m.pages {
		e := indexEntry{ID: p.ID, Name: p.Name}
		if p.Data != nil {
			e.File = p.ID + ".png"
			listed[e.File] = struct{}{}
			if err := os.WriteFile(filepath.Join(dir, e.File), p.Data, 0o644); err != nil {
				return fmt.Errorf("pages: write %s: %w", p.Name, err)
			}
		}
		index = append(index, e)
	}
	data, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return fmt.Errorf("pages: encode index: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, indexFile), data, 0o644); err != nil {
		return fmt.Errorf("pages: write index: %w", err)
	}
	return prune(dir, listed)
}

// prune deletes the PNG files in dir that are not listed.
func prune(dir string, listed map[string]struct{}) error {
	files, err := filepath.Glob(filepath.Join(dir, "*.png"))
	if err != nil {
		return fmt.Errorf("pages: list %s: %w", dir, err)
	}
	for _, f := range files {
		if _, ok := listed[filepath.Base(f)]; ok {
			continue
		}
		if err := os.Remove(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("pages: remove %s: %w", f, err)
		}
		logging.Logger().Debug("pages: removed stale page", "file", f)
	}
	return nil
}

// Load reads pages written by Save. A missing index yields no pages and no
// error.
func Load(dir string) ([]*Page, error) {
	data, err := os.ReadFile(filepath.Join(dir, indexFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("pages: read index: %w", err)
	}
	var index []indexEntry
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("pages: parse index: %w", err)
	}
	out := make([]*Page, 0, len(index))
	for _, e := range index {
		p := &Page{ID: e.ID, Name: e.Name}
		if e.File != "" {
			p.Data, err = os.ReadFile(filepath.Join(dir, filepath.Base(e.File)))
			if err != nil {
				return nil, fmt.Errorf("pages: read %s: %w", e.Name, err)
			}
			img, err := raster.Decode(context.Background(), p.Data)
			if err != nil {
				return nil, fmt.Errorf("pages: decode %s: %w", e.Name, err)
			}
			p.Thumb = Thumbnail(img)
		}
		out = append(out, p)
	}
	return out, nil
}
