package net

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Client is the remote device side of the bridge.
type Client struct {
	conn *websocket.Conn
	mu   sync.Mutex

	// OnStatus is called from Listen for every status the board pushes.
	OnStatus func(Status)
}

// Dial connects to the board behind link, a share link or host:port.
func Dial(ctx context.Context, link string) (*Client, error) {
	url, err := ParseLink(link)
	if err != nil {
		return nil, err
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("net: dial %s: %w", url, err)
	}
	return &Client{conn: conn}, nil
}

func (c *Client) LocalAddr() string { return c.conn.LocalAddr().String() }

func (c *Client) Send(m Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	if err := c.conn.WriteJSON(m); err != nil {
		return fmt.Errorf("net: send %s: %w", m.Type, err)
	}
	return nil
}

// Listen reads statuses until the connection closes.
func (c *Client) Listen() error {
	for {
		var st Status
		if err := c.conn.ReadJSON(&st); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return nil
			}
			return fmt.Errorf("net: receive: %w", err)
		}
		if c.OnStatus != nil {
			c.OnStatus(st)
		}
	}
}

// Close says goodbye and closes the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	c.mu.Unlock()
	return c.conn.Close()
}
