// Package pages keeps the board's pages. Only one page is live on the board
// at a time; the others are held as encoded snapshots.
package pages

import (
	"context"
	"errors"
	"fmt"
	"image"

	"SuperBoard/internal/event"
	"SuperBoard/internal/logging"
	"SuperBoard/internal/raster"

	"github.com/google/uuid"
	"github.com/nfnt/resize"
)

// Thumbnail bounds used by the page browser.
const (
	ThumbWidth  = 240
	ThumbHeight = 160
)

var (
	ErrFirstPage = errors.New("pages: already on the first page")
	ErrNoPage    = errors.New("pages: no such page")
)

// Board is the part of the drawing board the page manager drives.
type Board interface {
	ExportImage() ([]byte, error)
	Snapshot() *image.RGBA
	LoadRaster(img image.Image)
}

type Page struct {
	ID   string
	Name string
	// Data is the PNG snapshot of the page, nil until it was first saved.
	Data  []byte
	Thumb image.Image
}

type Manager struct {
	board   Board
	pages   []*Page
	current int

	// OnChange is called with the current index and page count after every
	// navigation.
	OnChange func(current, total int)
}

func NewManager(b Board) *Manager {
	m := &Manager{board: b}
	m.pages = []*Page{m.newPage()}
	return m
}

func (m *Manager) Current() int { return m.current }
func (m *Manager) Len() int     { return len(m.pages) }

// Pages returns the pages in order. The pages are shared.
func (m *Manager) Pages() []*Page {
	out := make([]*Page, len(m.pages))
	copy(out, m.pages)
	return out
}

// Page returns the page at i.
func (m *Manager) Page(i int) (*Page, error) {
	if i < 0 || i >= len(m.pages) {
		return nil, fmt.Errorf("%w: %d", ErrNoPage, i)
	}
	return m.pages[i], nil
}

// SaveCurrent stores the board contents into the current page.
func (m *Manager) SaveCurrent() error {
	data, err := m.board.ExportImage()
	if err != nil {
		return fmt.Errorf("pages: snapshot: %w", err)
	}
	p := m.pages[m.current]
	p.Data = data
	p.Thumb = Thumbnail(m.board.Snapshot())
	return nil
}

// New saves the current page, appends an empty page after the last one and
// shows it.
func (m *Manager) New() error {
	if err := m.SaveCurrent(); err != nil {
		return err
	}
	m.pages = append(m.pages, m.newPage())
	m.current = len(m.pages) - 1
	m.board.LoadRaster(nil)
	logging.Logger().Info("pages: created", "page", m.current+1, "total", len(m.pages))
	m.changed()
	return nil
}

// Prev shows the previous page.
func (m *Manager) Prev() error {
	if m.current == 0 {
		return ErrFirstPage
	}
	return m.Go(m.current - 1)
}

// Next shows the following page, creating one when the current page is the
// last.
func (m *Manager) Next() error {
	if m.current == len(m.pages)-1 {
		return m.New()
	}
	return m.Go(m.current + 1)
}

// Go saves the current page and shows page i.
func (m *Manager) Go(i int) error {
	if i < 0 || i >= len(m.pages) {
		return fmt.Errorf("%w: %d", ErrNoPage, i)
	}
	if err := m.SaveCurrent(); err != nil {
		return err
	}
	m.current = i
	if err := m.load(m.pages[i]); err != nil {
		return err
	}
	m.changed()
	return nil
}

// Delete removes the pages at the given indices. Deleting every page leaves
// one empty page. The current page is reloaded when it was removed.
func (m *Manager) Delete(indices ...int) error {
	doomed := make(map[int]struct{}, len(indices))
	for _, i := range indices {
		if i < 0 || i >= len(m.pages) {
			return fmt.Errorf("%w: %d", ErrNoPage, i)
		}
		doomed[i] = struct{}{}
	}
	if len(doomed) == 0 {
		return nil
	}
	if _, ok := doomed[m.current]; !ok {
		if err := m.SaveCurrent(); err != nil {
			return err
		}
	}

	cur := m.pages[m.current]
	kept := make([]*Page, 0, len(m.pages))
	for i, p := range m.pages {
		if _, ok := doomed[i]; !ok {
			kept = append(kept, p)
		}
	}
	m.pages = kept
	if len(m.pages) == 0 {
		m.pages = append(m.pages, m.newPage())
	}

	for i, p := range m.pages {
		if p == cur {
			m.current = i
			m.changed()
			return nil
		}
	}
	m.current = min(m.current, len(m.pages)-1)
	if err := m.load(m.pages[m.current]); err != nil {
		return err
	}
	m.changed()
	return nil
}

// Handle creates a page on PageNew.
func (m *Manager) Handle(e event.Event) {
	if e.Type != event.PageNew {
		return
	}
	if err := m.New(); err != nil {
		logging.Logger().Error("pages: new page failed", "err", err)
	}
}

// Attach subscribes the manager to bus.
func (m *Manager) Attach(bus *event.Bus) func() {
	return bus.Subscribe(m.Handle, event.PageNew)
}

// Restore replaces every page, typically with pages read by Load, and shows
// the first one.
func (m *Manager) Restore(list []*Page) error {
	m.pages = list
	if len(m.pages) == 0 {
		m.pages = []*Page{m.newPage()}
	}
	m.current = 0
	if err := m.load(m.pages[0]); err != nil {
		return err
	}
	m.changed()
	return nil
}

// Images saves the current page and decodes every page in order. Pages that
// were never saved come back blank at the board's size.
func (m *Manager) Images() ([]image.Image, error) {
	if err := m.SaveCurrent(); err != nil {
		return nil, err
	}
	size := m.board.Snapshot().Bounds()
	out := make([]image.Image, 0, len(m.pages))
	for _, p := range m.pages {
		if p.Data == nil {
			out = append(out, image.NewRGBA(size))
			continue
		}
		img, err := raster.Decode(context.Background(), p.Data)
		if err != nil {
			return nil, fmt.Errorf("pages: decode %s: %w", p.Name, err)
		}
		out = append(out, img)
	}
	return out, nil
}

// Thumbnail scales img down to fit ThumbWidth x ThumbHeight.
func Thumbnail(img image.Image) image.Image {
	if img == nil || img.Bounds().Empty() {
		return nil
	}
	return resize.Thumbnail(ThumbWidth, ThumbHeight, img, resize.Bilinear)
}

func (m *Manager) load(p *Page) error {
	if p.Data == nil {
		m.board.LoadRaster(nil)
		return nil
	}
	img, err := raster.Decode(context.Background(), p.Data)
	if err != nil {
		return fmt.Errorf("pages: load %s: %w", p.Name, err)
	}
	m.board.LoadRaster(img)
	return nil
}

func (m *Manager) newPage() *Page {
	return &Page{
		ID:   uuid.NewString(),
		Name: fmt.Sprintf("Page %d", len(m.pages)+1),
	}
}

func (m *Manager) changed() {
	if m.OnChange != nil {
		m.OnChange(m.current, len(m.pages))
	}
}
