package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublishInOrder(t *testing.T) {
	b := NewBus()
	var got []string
	b.Subscribe(func(Event) { got = append(got, "a") }, DrawStart)
	b.Subscribe(func(Event) { got = append(got, "b") }, DrawStart, DrawEnd)

	b.Publish(Event{Type: DrawStart})
	b.Publish(Event{Type: DrawEnd})
	b.Publish(Event{Type: PageNew})

	assert.Equal(t, []string{"a", "b", "b"}, got)
}

func TestUnsubscribe(t *testing.T) {
	b := NewBus()
	n := 0
	off := b.Subscribe(func(Event) { n++ }, PageNew, ToolSwitched)
	b.Publish(Event{Type: PageNew})
	off()
	b.Publish(Event{Type: PageNew})
	b.Publish(Event{Type: ToolSwitched})
	assert.Equal(t, 1, n)
}

func TestHandlerMayPublish(t *testing.T) {
	b := NewBus()
	var seen []Type
	b.Subscribe(func(e Event) {
		seen = append(seen, e.Type)
		b.Publish(Event{Type: HistoryChanged})
	}, DrawEnd)
	b.Subscribe(func(e Event) { seen = append(seen, e.Type) }, HistoryChanged)

	b.Publish(Event{Type: DrawEnd})
	assert.Equal(t, []Type{DrawEnd, HistoryChanged}, seen)
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "page:new", PageNew.String())
	assert.Equal(t, "unknown", Type(99).String())
}
