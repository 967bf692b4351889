package net

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"SuperBoard/internal/history"

	"github.com/gorilla/websocket"
)

const (
	writeWait = 5 * time.Second
	// outboxSize is how many messages wait for a slow device before the
	// oldest are dropped.
	outboxSize = 16
)

// Peer is one connected remote device. Messages are queued and written by
// the peer's own goroutine, so a stalled device never holds up the board.
type Peer struct {
	Conn *websocket.Conn
	addr string
	out  chan any
	done chan struct{}
	once sync.Once
}

func newPeer(conn *websocket.Conn, addr string) *Peer {
	return &Peer{
		Conn: conn,
		addr: addr,
		out:  make(chan any, outboxSize),
		done: make(chan struct{}),
	}
}

// queue hands v to the writer without blocking. When the outbox is full the
// oldest message is dropped; statuses only matter in their latest form.
func (p *Peer) queue(v any) {
	for {
		select {
		case p.out <- v:
			return
		default:
		}
		select {
		case <-p.out:
		default:
		}
	}
}

// writePump writes queued messages until the peer is closed or a write
// fails.
func (p *Peer) writePump() {
	for {
		select {
		case v := <-p.out:
			if err := p.send(v); err != nil {
				log.Printf("[BRIDGE] Error sending to %s: %v", p.addr, err)
				p.Conn.Close()
				return
			}
		case <-p.done:
			return
		}
	}
}

func (p *Peer) send(v any) error {
	if err := p.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return p.Conn.WriteJSON(v)
}

func (p *Peer) close() {
	p.once.Do(func() { close(p.done) })
}

// PeerManager tracks the connected devices.
type PeerManager struct {
	peers map[*Peer]struct{}
	mu    sync.RWMutex
}

func NewPeerManager() *PeerManager {
	return &PeerManager{
		peers: make(map[*Peer]struct{}),
	}
}

func (pm *PeerManager) Add(peer *Peer) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.peers[peer] = struct{}{}
	log.Printf("[BRIDGE] Device connected from %s", peer.addr)
}

func (pm *PeerManager) Remove(peer *Peer) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	delete(pm.peers, peer)
	log.Printf("[BRIDGE] Device disconnected: %s", peer.addr)
}

func (pm *PeerManager) Len() int {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return len(pm.peers)
}

// Broadcast queues v for every peer. It never blocks on the network.
func (pm *PeerManager) Broadcast(v any) {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	for p := range pm.peers {
		p.queue(v)
	}
}

// Bridge accepts remote devices and applies their input to the target on
// the UI goroutine.
type Bridge struct {
	target   Target
	dispatch history.Dispatcher
	peers    *PeerManager
	upgrader websocket.Upgrader

	mu     sync.Mutex
	status Status
	server *http.Server
}

func NewBridge(target Target, dispatch history.Dispatcher) *Bridge {
	return &Bridge{
		target:   target,
		dispatch: dispatch,
		peers:    NewPeerManager(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

func (b *Bridge) Peers() *PeerManager { return b.peers }

func (b *Bridge) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+InputPath, b.handleInput)
	return mux
}

// Broadcast records st as the latest status and queues it for every device.
// Devices that connect later receive it first. It does not wait for the
// network.
func (b *Bridge) Broadcast(st Status) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.status = st
	b.peers.Broadcast(st)
}

// ListenAndServe serves the bridge on port until Shutdown.
func (b *Bridge) ListenAndServe(port int) error {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("net: listen on %d: %w", port, err)
	}
	srv := &http.Server{Handler: b.Handler(), ReadHeaderTimeout: 10 * time.Second}
	b.mu.Lock()
	b.server = srv
	b.mu.Unlock()
	log.Printf("[BRIDGE] Listening on port %d", port)
	if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("net: serve: %w", err)
	}
	return nil
}

func (b *Bridge) Shutdown(ctx context.Context) error {
	b.mu.Lock()
	srv := b.server
	b.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

func (b *Bridge) handleInput(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[BRIDGE] Upgrade failed: %v", err)
		return
	}
	peer := newPeer(conn, conn.RemoteAddr().String())
	b.mu.Lock()
	peer.queue(b.status)
	b.peers.Add(peer)
	b.mu.Unlock()
	go peer.writePump()
	defer func() {
		b.peers.Remove(peer)
		peer.close()
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[BRIDGE] Read from %s: %v", conn.RemoteAddr(), err)
			}
			return
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("[BRIDGE] Bad message from %s: %v", conn.RemoteAddr(), err)
			continue
		}
		b.dispatch.Dispatch(func() {
			if err := Apply(b.target, msg); err != nil {
				log.Printf("[BRIDGE] Ignored '%s': %v", msg.Type, err)
			}
		})
	}
}
