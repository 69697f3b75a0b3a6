package ipc

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Battle clients are local harnesses, not browsers.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSFramer carries one envelope per websocket text frame and keeps the
// connection alive with pings until closed.
type WSFramer struct {
	conn      *websocket.Conn
	writeMu   sync.Mutex
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

func newWSFramer(conn *websocket.Conn) *WSFramer {
	f := &WSFramer{conn: conn, done: make(chan struct{})}
	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	f.wg.Add(1)
	go f.pingLoop()
	return f
}

// Upgrade turns an HTTP request into a websocket framer.
func Upgrade(w http.ResponseWriter, r *http.Request) (*WSFramer, error) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, fmt.Errorf("websocket upgrade: %w", err)
	}
	return newWSFramer(conn), nil
}

// DialWS connects to a websocket endpoint, e.g. ws://localhost:8765/ws.
func DialWS(ctx context.Context, url string) (*WSFramer, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return newWSFramer(conn), nil
}

func (f *WSFramer) ReadEnvelope() (Envelope, error) {
	for {
		kind, payload, err := f.conn.ReadMessage()
		if err != nil {
			return Envelope{}, fmt.Errorf("read message: %w", err)
		}
		if kind != websocket.TextMessage && kind != websocket.BinaryMessage {
			continue
		}
		var env Envelope
		if err := json.Unmarshal(payload, &env); err != nil {
			return Envelope{}, fmt.Errorf("unmarshal envelope: %w", err)
		}
		return env, nil
	}
}

func (f *WSFramer) WriteEnvelope(env Envelope) error {
	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	f.writeMu.Lock()
	defer f.writeMu.Unlock()
	f.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := f.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}

// Close sends a close frame, stops the ping loop and closes the socket.
// Safe to call more than once.
func (f *WSFramer) Close() error {
	var err error
	f.closeOnce.Do(func() {
		close(f.done)
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = f.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		err = f.conn.Close()
		f.wg.Wait()
	})
	return err
}

func (f *WSFramer) pingLoop() {
	defer f.wg.Done()
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-f.done:
			return
		case <-ticker.C:
			if err := f.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
