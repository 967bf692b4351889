package ui

import (
	"fmt"
	"image/color"
	"log"

	"SuperBoard/internal/net"
	"SuperBoard/internal/tools"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// RemotePad forwards the pointer input on its area to a board over the
// bridge.
type RemotePad struct {
	widget.BaseWidget
	client *net.Client

	OnError func(error)
}

var _ fyne.Draggable = (*RemotePad)(nil)
var _ desktop.Mouseable = (*RemotePad)(nil)

func NewRemotePad(client *net.Client) *RemotePad {
	p := &RemotePad{client: client}
	p.ExtendBaseWidget(p)
	return p
}

func (p *RemotePad) send(m net.Message) {
	if err := p.client.Send(m); err != nil && p.OnError != nil {
		p.OnError(err)
	}
}

func (p *RemotePad) MouseDown(e *desktop.MouseEvent) {
	p.send(net.Message{
		Type:    net.MsgPointerDown,
		X:       float64(e.Position.X),
		Y:       float64(e.Position.Y),
		Primary: e.Button == desktop.MouseButtonPrimary,
		Target:  canvasTarget,
	})
}

func (p *RemotePad) MouseUp(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	p.send(net.Message{Type: net.MsgPointerUp})
}

func (p *RemotePad) Dragged(e *fyne.DragEvent) {
	p.send(net.Message{Type: net.MsgPointerMove, X: float64(e.Position.X), Y: float64(e.Position.Y)})
}

func (p *RemotePad) DragEnd() {}

func (p *RemotePad) Scrolled(e *fyne.ScrollEvent) {
	if e.Scrolled.DY != 0 {
		p.send(net.Message{Type: net.MsgWheel, DeltaY: float64(-e.Scrolled.DY)})
	}
}

func (p *RemotePad) DoubleTapped(*fyne.PointEvent) {
	p.send(net.Message{Type: net.MsgDoubleTap, Target: canvasTarget})
}

func (p *RemotePad) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.NRGBA{R: 0x1b, G: 0x3a, B: 0x2e, A: 0xff})
	hint := canvas.NewText("Draw here", color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x60})
	return widget.NewSimpleRenderer(container.NewStack(bg, container.NewCenter(hint)))
}

// RunRemote shows a pad that drives the board behind client.
func RunRemote(client *net.Client) {
	myApp := app.New()
	myWindow := myApp.NewWindow("SuperBoard Remote")
	myWindow.Resize(fyne.NewSize(800, 600))

	status := widget.NewLabel("Connected as " + client.LocalAddr())
	setStatus := func(text string) {
		fyne.Do(func() { status.SetText(text) })
	}

	pad := NewRemotePad(client)
	pad.OnError = func(err error) { setStatus(err.Error()) }

	button := func(icon fyne.Resource, m net.Message) *widget.Button {
		return widget.NewButtonWithIcon("", icon, func() { pad.send(m) })
	}
	toolbar := container.NewHBox(
		button(theme.DocumentCreateIcon(), net.Message{Type: net.MsgTool, Tool: tools.NamePen}),
		button(theme.ContentClearIcon(), net.Message{Type: net.MsgTool, Tool: tools.NameEraser}),
		button(theme.ViewFullScreenIcon(), net.Message{Type: net.MsgTool, Tool: tools.NameSelect}),
		widget.NewSeparator(),
		button(theme.ContentUndoIcon(), net.Message{Type: net.MsgUndo}),
		button(theme.ContentRedoIcon(), net.Message{Type: net.MsgRedo}),
		button(theme.DeleteIcon(), net.Message{Type: net.MsgClear}),
		button(theme.ContentAddIcon(), net.Message{Type: net.MsgPageNew}),
	)

	client.OnStatus = func(st net.Status) {
		setStatus(fmt.Sprintf("%s | %d%% | %d strokes", st.Tool, st.Zoom, st.Strokes))
	}
	go func() {
		if err := client.Listen(); err != nil {
			log.Printf("[REMOTE] %v", err)
			setStatus(fmt.Sprintf("Disconnected from board: %v", err))
		}
	}()

	myWindow.SetContent(container.NewBorder(toolbar, status, nil, nil, pad))
	myWindow.ShowAndRun()

	if err := client.Close(); err != nil {
		log.Printf("[REMOTE] Error closing connection: %v", err)
	}
}
