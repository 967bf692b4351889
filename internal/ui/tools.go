package ui

import (
	"errors"
	"fmt"
	"image/color"
	"log"

	"SuperBoard/internal/event"
	"SuperBoard/internal/pages"
	"SuperBoard/internal/tools"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

type colorSwatch struct {
	widget.BaseWidget
	Color    color.NRGBA
	OnTapped func(color.NRGBA)
}

func newColorSwatch(c color.NRGBA, tapped func(color.NRGBA)) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(s.Color)
	rect.SetMinSize(fyne.NewSize(24, 24))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Color)
	}
}

// Toolbar holds the board controls and keeps them in step with the board's
// events.
type Toolbar struct {
	w     *BoardWidget
	pages *pages.Manager
	win   fyne.Window

	toolButtons map[string]*widget.Button
	penType     *widget.Select
	sizeSlider  *widget.Slider
	eraserSize  *widget.RadioGroup
	colors      *fyne.Container
	undo, redo  *widget.Button
	zoom        *widget.Label
	page        *widget.Label

	// OnPaletteChanged is called with the custom colours after one is added.
	OnPaletteChanged func(custom []string)

	Object fyne.CanvasObject
}

func NewToolbar(w *BoardWidget, pm *pages.Manager, win fyne.Window) *Toolbar {
	t := &Toolbar{w: w, pages: pm, win: win, toolButtons: make(map[string]*widget.Button)}
	b := w.Board()
	set := b.Tools()

	for _, tool := range []struct {
		name string
		icon fyne.Resource
	}{
		{tools.NamePen, theme.DocumentCreateIcon()},
		{tools.NameEraser, theme.ContentClearIcon()},
		{tools.NameSelect, theme.ViewFullScreenIcon()},
	} {
		name := tool.name
		t.toolButtons[name] = widget.NewButtonWithIcon("", tool.icon, func() {
			if err := b.SetTool(name); err != nil {
				log.Printf("[UI] %v", err)
			}
		})
	}

	typeNames := make([]string, 0, len(tools.PenTypes))
	for _, pt := range tools.PenTypes {
		typeNames = append(typeNames, string(pt))
	}
	t.sizeSlider = widget.NewSlider(tools.MinPenSize, tools.MaxPenSize)
	t.sizeSlider.SetValue(set.Pen.Size())
	t.sizeSlider.OnChanged = func(val float64) {
		set.Pen.SetSize(val)
	}
	t.penType = widget.NewSelect(typeNames, func(s string) {
		if tools.PenType(s) == set.Pen.Type() {
			return
		}
		if err := set.Pen.SetType(tools.PenType(s)); err != nil {
			log.Printf("[UI] %v", err)
			return
		}
		t.sizeSlider.SetValue(set.Pen.Size())
		if b.Tool() != tools.NamePen {
			_ = b.SetTool(tools.NamePen)
		}
	})
	t.penType.SetSelected(string(set.Pen.Type()))

	eraserNames := make([]string, 0, len(tools.EraserSizes))
	for _, es := range tools.EraserSizes {
		eraserNames = append(eraserNames, string(es))
	}
	t.eraserSize = widget.NewRadioGroup(eraserNames, func(s string) {
		if err := set.Eraser.SetSize(tools.EraserSize(s)); err != nil {
			log.Printf("[UI] %v", err)
		}
	})
	t.eraserSize.Horizontal = true
	t.eraserSize.Required = true
	t.eraserSize.SetSelected(string(set.Eraser.Size()))

	t.colors = container.NewHBox()
	t.rebuildPalette()

	t.undo = widget.NewButtonWithIcon("", theme.ContentUndoIcon(), func() { b.Undo() })
	t.redo = widget.NewButtonWithIcon("", theme.ContentRedoIcon(), func() { b.Redo() })
	t.undo.Disable()
	t.redo.Disable()
	clearBtn := widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
		dialog.ShowConfirm("Clear board", "Erase everything on this page?", func(ok bool) {
			if ok {
				b.Clear()
			}
		}, win)
	})
	deleteSel := widget.NewButtonWithIcon("", theme.ContentCutIcon(), b.DeleteSelection)

	t.zoom = widget.NewLabel(fmt.Sprintf("%d%%", b.Viewport().ZoomPercent()))
	zoomOut := widget.NewButtonWithIcon("", theme.ZoomOutIcon(), func() { b.ZoomStep(-1) })
	zoomIn := widget.NewButtonWithIcon("", theme.ZoomInIcon(), func() { b.ZoomStep(1) })
	origin := widget.NewButtonWithIcon("", theme.ViewRestoreIcon(), b.ResetToOrigin)
	bottom := widget.NewButtonWithIcon("", theme.MoveDownIcon(), func() {
		b.BackToBottom(float64(w.Size().Height))
	})
	grid := widget.NewButtonWithIcon("", theme.GridIcon(), w.ToggleGrid)

	t.page = widget.NewLabel("")
	t.updatePage(pm.Current(), pm.Len())
	prev := widget.NewButtonWithIcon("", theme.NavigateBackIcon(), func() {
		if err := pm.Prev(); errors.Is(err, pages.ErrFirstPage) {
			w.SetStatus("Already on the first page")
		} else if err != nil {
			dialog.ShowError(err, win)
		}
	})
	next := widget.NewButtonWithIcon("", theme.NavigateNextIcon(), func() {
		if err := pm.Next(); err != nil {
			dialog.ShowError(err, win)
		}
	})
	browse := widget.NewButtonWithIcon("", theme.ListIcon(), func() { ShowPageBrowser(pm, win) })

	importBtn := widget.NewButtonWithIcon("", theme.FolderOpenIcon(), func() { ShowImportDialog(w, win) })
	exportBtn := widget.NewButtonWithIcon("", theme.DocumentSaveIcon(), func() { ShowExportDialog(w, pm, win) })

	sliderContainer := container.New(layout.NewGridWrapLayout(fyne.NewSize(150, 35)), t.sizeSlider)
	t.Object = container.NewHScroll(container.NewHBox(
		t.toolButtons[tools.NamePen], t.toolButtons[tools.NameEraser], t.toolButtons[tools.NameSelect],
		widget.NewSeparator(),
		t.penType, t.colors, sliderContainer,
		widget.NewSeparator(),
		t.eraserSize,
		widget.NewSeparator(),
		t.undo, t.redo, deleteSel, clearBtn,
		widget.NewSeparator(),
		zoomOut, t.zoom, zoomIn, origin, bottom, grid,
		widget.NewSeparator(),
		prev, t.page, next, browse,
		layout.NewSpacer(),
		importBtn, exportBtn,
	))

	b.Bus().Subscribe(t.handle, event.ToolSwitched, event.HistoryChanged, event.ViewChanged)
	pm.OnChange = t.updatePage
	t.highlight(b.Tool())
	return t
}

func (t *Toolbar) handle(e event.Event) {
	switch e.Type {
	case event.ToolSwitched:
		t.highlight(e.Tool)
	case event.HistoryChanged:
		setEnabled(t.undo, e.CanUndo)
		setEnabled(t.redo, e.CanRedo)
	case event.ViewChanged:
		t.zoom.SetText(fmt.Sprintf("%d%%", e.Count))
	}
}

func (t *Toolbar) highlight(name string) {
	for n, btn := range t.toolButtons {
		if n == name {
			btn.Importance = widget.HighImportance
		} else {
			btn.Importance = widget.MediumImportance
		}
		btn.Refresh()
	}
}

func (t *Toolbar) updatePage(current, total int) {
	t.page.SetText(fmt.Sprintf("%d / %d", current+1, total))
}

func (t *Toolbar) rebuildPalette() {
	set := t.w.Board().Tools()
	onColor := func(c color.NRGBA) {
		set.Pen.SetColor(c)
		if t.w.Board().Tool() != tools.NamePen {
			_ = t.w.Board().SetTool(tools.NamePen)
		}
	}
	t.colors.RemoveAll()
	for _, hex := range set.Palette.Colors() {
		c, err := tools.ParseHexColor(hex)
		if err != nil {
			continue
		}
		t.colors.Add(newColorSwatch(c, onColor))
	}
	t.colors.Add(widget.NewButtonWithIcon("", theme.ContentAddIcon(), t.pickColor))
}

func (t *Toolbar) pickColor() {
	picker := dialog.NewColorPicker("Custom colour", "Add a colour to the palette", func(c color.Color) {
		nc := color.NRGBAModel.Convert(c).(color.NRGBA)
		set := t.w.Board().Tools()
		if err := set.Palette.Add(tools.HexColor(nc)); err != nil {
			dialog.ShowError(err, t.win)
			return
		}
		set.Pen.SetColor(nc)
		t.rebuildPalette()
		if t.OnPaletteChanged != nil {
			t.OnPaletteChanged(set.Palette.Custom())
		}
	}, t.win)
	picker.Advanced = true
	picker.Show()
}

func setEnabled(w fyne.Disableable, on bool) {
	if on {
		w.Enable()
	} else {
		w.Disable()
	}
}
