package ui

import (
	"fmt"

	"SuperBoard/internal/board"
	"SuperBoard/internal/event"
	"SuperBoard/internal/pages"
	"SuperBoard/internal/tools"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

type AppOptions struct {
	// ShareLink is shown in the status bar when the bridge is running.
	ShareLink string
	// OnPaletteChanged is called with the custom colours after one is added.
	OnPaletteChanged func(custom []string)
	// OnClose runs after the window has closed.
	OnClose func()
}

func RunApp(b *board.Board, pm *pages.Manager, opts AppOptions) {
	myApp := app.New()
	myWindow := myApp.NewWindow("SuperBoard")
	myWindow.Resize(fyne.NewSize(1024, 768))

	// Create the interactive board widget
	boardWidget := NewBoardWidget(b)

	// Create the toolbar and pass it a reference to the board
	toolbar := NewToolbar(boardWidget, pm, myWindow)
	toolbar.OnPaletteChanged = opts.OnPaletteChanged

	status := container.NewHBox(boardWidget.statusBar, layout.NewSpacer())
	if opts.ShareLink != "" {
		link := opts.ShareLink
		status.Add(widget.NewLabel(link))
		status.Add(widget.NewButtonWithIcon("", theme.ContentCopyIcon(), func() {
			myWindow.Clipboard().SetContent(link)
			boardWidget.SetStatus("Link copied")
		}))
	}

	b.Bus().Subscribe(func(e event.Event) {
		switch e.Type {
		case event.SelectionChanged:
			if e.Count > 0 {
				boardWidget.SetStatus(fmt.Sprintf("%d selected", e.Count))
			}
		case event.PageNew:
			boardWidget.SetStatus("New page")
		}
	}, event.SelectionChanged, event.PageNew)

	addShortcuts(myWindow, boardWidget)

	// Set up the main layout
	content := container.NewBorder(toolbar.Object, status, nil, nil, boardWidget)

	myWindow.SetContent(content)
	myWindow.ShowAndRun()

	if opts.OnClose != nil {
		opts.OnClose()
	}
}

func addShortcuts(win fyne.Window, w *BoardWidget) {
	b := w.Board()
	c := win.Canvas()
	shortcut := func(key fyne.KeyName, mod fyne.KeyModifier, fn func()) {
		c.AddShortcut(&desktop.CustomShortcut{KeyName: key, Modifier: mod}, func(fyne.Shortcut) { fn() })
	}
	shortcut(fyne.KeyZ, fyne.KeyModifierShortcutDefault, func() { b.Undo() })
	shortcut(fyne.KeyY, fyne.KeyModifierShortcutDefault, func() { b.Redo() })
	shortcut(fyne.KeyZ, fyne.KeyModifierShortcutDefault|fyne.KeyModifierShift, func() { b.Redo() })

	c.SetOnTypedKey(func(k *fyne.KeyEvent) {
		switch k.Name {
		case fyne.KeyDelete, fyne.KeyBackspace:
			b.DeleteSelection()
		case fyne.KeyP:
			_ = b.SetTool(tools.NamePen)
		case fyne.KeyE:
			_ = b.SetTool(tools.NameEraser)
		case fyne.KeyS:
			_ = b.SetTool(tools.NameSelect)
		case fyne.KeyG:
			w.ToggleGrid()
		case fyne.KeyEqual:
			b.ZoomStep(1)
		case fyne.KeyMinus:
			b.ZoomStep(-1)
		case fyne.KeyHome:
			b.ResetToOrigin()
		case fyne.KeyEnd:
			b.BackToBottom(float64(w.Size().Height))
		}
	})
}
