package ui

import (
	"errors"
	"fmt"
	"image/color"
	"log"

	"SuperBoard/internal/export"
	"SuperBoard/internal/pages"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

var importExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp"}

// ShowImportDialog asks for an image and places it centred on the board.
func ShowImportDialog(w *BoardWidget, win fyne.Window) {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, win)
			return
		}
		if reader == nil {
			return
		}
		defer func() {
			if err := reader.Close(); err != nil {
				log.Printf("Error closing reader: %v", err)
			}
		}()

		img, format, err := export.Decode(reader)
		if err != nil {
			log.Printf("[UI] Import of %s failed: %v", reader.URI().Name(), err)
			dialog.ShowError(err, win)
			return
		}
		r := w.Board().PlaceImage(img)
		w.SetStatus(fmt.Sprintf("Imported %s (%s) at %dx%d", reader.URI().Name(), format, r.Dx(), r.Dy()))
	}, win)
	d.SetFilter(storage.NewExtensionFileFilter(importExtensions))
	d.Show()
}

// ShowExportDialog asks where to save and writes the board in the format
// named by the file extension. PDF and ZIP hold every page.
func ShowExportDialog(w *BoardWidget, pm *pages.Manager, win fyne.Window) {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, win)
			return
		}
		if writer == nil {
			return
		}
		defer func() {
			if err := writer.Close(); err != nil {
				log.Printf("Error closing writer: %v", err)
			}
		}()

		f, err := export.ParseFormat(writer.URI().Extension())
		if err != nil {
			dialog.ShowError(fmt.Errorf("%w: use one of png, jpg, bmp, tiff, pdf, zip", err), win)
			return
		}
		imgs, err := pm.Images()
		if err != nil {
			dialog.ShowError(err, win)
			return
		}
		doc := export.Document{Pages: imgs, Current: pm.Current(), Background: w.Board().Background()}
		if err := export.Write(writer, f, doc); err != nil {
			log.Printf("[UI] Export failed: %v", err)
			dialog.ShowError(err, win)
			return
		}
		w.SetStatus(fmt.Sprintf("Saved %s", writer.URI().Name()))
	}, win)
	d.SetFileName("board.png")
	d.Show()
}

// ShowPageBrowser lists the pages as thumbnails. A page can be opened or
// marked for deletion.
func ShowPageBrowser(pm *pages.Manager, win fyne.Window) {
	if err := pm.SaveCurrent(); err != nil {
		dialog.ShowError(err, win)
		return
	}

	var d dialog.Dialog
	marked := make(map[int]bool)
	cards := container.NewGridWrap(fyne.NewSize(pages.ThumbWidth, pages.ThumbHeight+80))
	for i, p := range pm.Pages() {
		var thumb fyne.CanvasObject = canvas.NewRectangle(color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x1a})
		if p.Thumb != nil {
			img := canvas.NewImageFromImage(p.Thumb)
			img.FillMode = canvas.ImageFillContain
			thumb = img
		}
		title := p.Name
		if i == pm.Current() {
			title += " (current)"
		}
		open := widget.NewButton(title, func() {
			d.Hide()
			if err := pm.Go(i); err != nil {
				dialog.ShowError(err, win)
			}
		})
		mark := widget.NewCheck("Delete", func(on bool) { marked[i] = on })
		cards.Add(container.NewBorder(nil, container.NewVBox(open, mark), nil, nil, thumb))
	}

	deleteBtn := widget.NewButton("Delete marked", func() {
		var indices []int
		for i, on := range marked {
			if on {
				indices = append(indices, i)
			}
		}
		if len(indices) == 0 {
			return
		}
		d.Hide()
		if err := pm.Delete(indices...); err != nil && !errors.Is(err, pages.ErrNoPage) {
			dialog.ShowError(err, win)
		}
	})
	deleteBtn.Importance = widget.DangerImportance

	content := container.NewBorder(nil, deleteBtn, nil, nil, container.NewVScroll(cards))
	d = dialog.NewCustom("Pages", "Close", content, win)
	d.Resize(fyne.NewSize(800, 600))
	d.Show()
}
