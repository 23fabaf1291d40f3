package signaling

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/prabaharan-saminathan/Teacher-Connect/internal/middleware"
)

const (
	writeWait      = 5 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxFrameSize   = 64 * 1024
	sendBufferSize = 100
)

// peer is one signaling socket. Every write goes through send and is
// performed by writeLoop, the connection's only writer.
type peer struct {
	id        string
	principal middleware.Principal
	conn      *websocket.Conn
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once

	// rooms is owned by the read goroutine.
	rooms map[string]struct{}
}

func newPeer(id string, principal middleware.Principal, conn *websocket.Conn) *peer {
	return &peer{
		id:        id,
		principal: principal,
		conn:      conn,
		send:      make(chan []byte, sendBufferSize),
		done:      make(chan struct{}),
		rooms:     make(map[string]struct{}),
	}
}

// enqueue never blocks. It reports false when the peer is closed or its
// buffer is full.
func (p *peer) enqueue(data []byte) bool {
	select {
	case <-p.done:
		return false
	default:
	}

	select {
	case p.send <- data:
		return true
	case <-p.done:
		return false
	default:
		return false
	}
}

func (p *peer) sendFrame(f Frame) bool {
	data, err := json.Marshal(f)
	if err != nil {
		return false
	}
	return p.enqueue(data)
}

func (p *peer) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		p.close()
	}()

	for {
		select {
		case data := <-p.send:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-p.done:
			return
		}
	}
}

func (p *peer) close() {
	p.closeOnce.Do(func() {
		close(p.done)
		p.conn.Close()
	})
}
