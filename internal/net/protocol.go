// Package net is the remote input bridge: a second device, such as a tablet
// on the same network, drives the board over a websocket while the board
// reports its status back.
package net

import (
	"errors"
	"fmt"
	"strings"

	"SuperBoard/internal/gesture"
	"SuperBoard/internal/state"
)

const (
	CustomURLScheme = "superboard://"
	InputPath       = "/input"
)

var ErrUnknownMessage = errors.New("net: unknown message type")

type MessageType string

const (
	MsgPointerDown MessageType = "pointer_down"
	MsgPointerMove MessageType = "pointer_move"
	MsgPointerUp   MessageType = "pointer_up"
	MsgTouch       MessageType = "touch"
	MsgWheel       MessageType = "wheel"
	MsgDoubleTap   MessageType = "double_tap"
	MsgTool        MessageType = "tool"
	MsgUndo        MessageType = "undo"
	MsgRedo        MessageType = "redo"
	MsgClear       MessageType = "clear"
	MsgPageNew     MessageType = "page_new"
)

// Contact is one touch point of a touch frame.
type Contact struct {
	ID int64   `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// Message is sent from a remote device to the board. Coordinates are screen
// pixels of the board's view.
type Message struct {
	Type     MessageType `json:"type"`
	X        float64     `json:"x,omitempty"`
	Y        float64     `json:"y,omitempty"`
	Primary  bool        `json:"primary,omitempty"`
	Target   string      `json:"target,omitempty"`
	Contacts []Contact   `json:"contacts,omitempty"`
	DeltaY   float64     `json:"delta_y,omitempty"`
	Tool     string      `json:"tool,omitempty"`
}

// Status is pushed from the board to every connected device.
type Status struct {
	Tool    string `json:"tool"`
	Zoom    int    `json:"zoom"`
	CanUndo bool   `json:"can_undo"`
	CanRedo bool   `json:"can_redo"`
	Strokes int    `json:"strokes"`
}

// Target is what the bridge drives. *board.Board satisfies it.
type Target interface {
	PointerDown(p state.Point, primary bool, target string)
	PointerMove(p state.Point)
	PointerUp()
	Touch(frame []gesture.Contact, target string)
	Wheel(deltaY float64)
	DoubleTap(target string)
	SetTool(name string) error
	Undo() bool
	Redo() bool
	Clear()
	NewPage()
}

// Apply feeds m to t.
func Apply(t Target, m Message) error {
	p := state.Point{X: m.X, Y: m.Y}
	switch m.Type {
	case MsgPointerDown:
		t.PointerDown(p, m.Primary, m.Target)
	case MsgPointerMove:
		t.PointerMove(p)
	case MsgPointerUp:
		t.PointerUp()
	case MsgTouch:
		frame := make([]gesture.Contact, 0, len(m.Contacts))
		for _, c := range m.Contacts {
			frame = append(frame, gesture.Contact{ID: c.ID, X: c.X, Y: c.Y})
		}
		t.Touch(frame, m.Target)
	case MsgWheel:
		t.Wheel(m.DeltaY)
	case MsgDoubleTap:
		t.DoubleTap(m.Target)
	case MsgTool:
		return t.SetTool(m.Tool)
	case MsgUndo:
		t.Undo()
	case MsgRedo:
		t.Redo()
	case MsgClear:
		t.Clear()
	case MsgPageNew:
		t.NewPage()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMessage, m.Type)
	}
	return nil
}

// ParseLink turns a share link or a bare host:port into a websocket URL.
func ParseLink(link string) (string, error) {
	address := strings.TrimPrefix(strings.TrimSpace(link), CustomURLScheme)
	address = strings.TrimSuffix(address, "/")
	if address == "" || strings.ContainsAny(address, "/ ") {
		return "", fmt.Errorf("net: bad link %q", link)
	}
	return "ws://" + address + InputPath, nil
}

// ShareLink is the link another device opens to connect to this board.
func ShareLink(host string, port int) string {
	return fmt.Sprintf("%s%s:%d", CustomURLScheme, host, port)
}
