package transport

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Conn is a persistent bidirectional JSON-frame link over a WebSocket. A
// single Conn is safe for one reader goroutine and many concurrent writer
// goroutines (writes are serialized internally; gorilla/websocket itself
// permits only one writer at a time).
type Conn struct {
	ws      *websocket.Conn
	writeMu sync.Mutex
	closeMu sync.Mutex
	closed  bool
}

// NewConn wraps an established *websocket.Conn.
func NewConn(ws *websocket.Conn) *Conn {
	return &Conn{ws: ws}
}

// Dial opens a client-side connection to a server's WebSocket endpoint.
func Dial(url string) (*Conn, error) {
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return NewConn(ws), nil
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Accept upgrades an incoming HTTP request to a server-side Conn.
func Accept(w http.ResponseWriter, r *http.Request) (*Conn, error) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, fmt.Errorf("upgrade: %w", err)
	}
	return NewConn(ws), nil
}

// Send writes one frame, serialized against any other writer on this Conn.
func (c *Conn) Send(f Frame) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return c.ws.WriteJSON(f)
}

// SendType encodes data into a frame of the given type and sends it.
func (c *Conn) SendType(frameType string, data any) error {
	f, err := Encode(frameType, data)
	if err != nil {
		return err
	}
	return c.Send(f)
}

// Recv blocks until the next frame arrives, or returns an error when the
// link closes or a read fails.
func (c *Conn) Recv() (Frame, error) {
	var f Frame
	err := c.ws.ReadJSON(&f)
	return f, err
}

// Close closes the underlying connection. Safe to call more than once.
func (c *Conn) Close() error {
	c.closeMu.Lock()
	defer c.closeMu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.ws.Close()
}
