package signaling

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/prabaharan-saminathan/Teacher-Connect/internal/middleware"
)

const brokerTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:   1024,
	WriteBufferSize:  1024,
	HandshakeTimeout: 10 * time.Second,
	CheckOrigin:      func(r *http.Request) bool { return true },
}

// Relay is a pass-through for WebRTC handshakes. It groups sockets by room,
// announces joins, and forwards offer/answer/ice-candidate frames to a named
// target socket. It never inspects payloads or checks who may talk to whom.
type Relay struct {
	broker  Broker
	jwtAuth *middleware.JWTAuth
	logger  *zap.Logger

	mu    sync.RWMutex
	peers map[string]*peer
}

func NewRelay(broker Broker, jwtAuth *middleware.JWTAuth, logger *zap.Logger) *Relay {
	return &Relay{
		broker:  broker,
		jwtAuth: jwtAuth,
		logger:  logger,
		peers:   make(map[string]*peer),
	}
}

// Start wires the broker's delivery to local sockets.
func (r *Relay) Start(ctx context.Context) error {
	return r.broker.Subscribe(ctx, r.deliver)
}

// ServeWS upgrades an authenticated request (?token=<access token>) into a
// signaling socket.
func (r *Relay) ServeWS(w http.ResponseWriter, req *http.Request) {
	principal, err := r.jwtAuth.ParseToken(req.URL.Query().Get("token"))
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		r.logger.Warn("signaling: upgrade failed", zap.Error(err))
		return
	}

	p := newPeer(uuid.NewString(), principal, conn)
	r.mu.Lock()
	r.peers[p.id] = p
	r.mu.Unlock()

	r.logger.Debug("signaling: connected", zap.String("socket_id", p.id), zap.Stringer("user_id", principal.UserID))

	go p.writeLoop()
	p.sendFrame(Frame{Event: EventConnected, SocketID: p.id})
	go r.readLoop(p)
}

func (r *Relay) readLoop(p *peer) {
	defer r.disconnect(p)

	p.conn.SetReadLimit(maxFrameSize)
	p.conn.SetReadDeadline(time.Now().Add(pongWait))
	p.conn.SetPongHandler(func(string) error {
		return p.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := p.conn.ReadMessage()
		if err != nil {
			return
		}
		p.conn.SetReadDeadline(time.Now().Add(pongWait))

		var f Frame
		if err := json.Unmarshal(data, &f); err != nil {
			p.sendFrame(errorFrame("Malformed frame"))
			continue
		}
		r.handle(p, f)
	}
}

func (r *Relay) handle(p *peer, f Frame) {
	ctx, cancel := context.WithTimeout(context.Background(), brokerTimeout)
	defer cancel()

	switch f.Event {
	case EventJoinRoom:
		r.joinRoom(ctx, p, f)
	case EventOffer, EventAnswer, EventICECandidate:
		r.forward(ctx, p, f)
	default:
		p.sendFrame(errorFrame("Unknown event: " + f.Event))
	}
}

// joinRoom tells the room about the newcomer and the newcomer about the room.
func (r *Relay) joinRoom(ctx context.Context, p *peer, f Frame) {
	if f.RoomID == "" {
		p.sendFrame(errorFrame("roomId is required"))
		return
	}

	me := Member{SocketID: p.id, UserID: f.UserID, Role: f.Role}
	if me.UserID == "" {
		me.UserID = p.principal.UserID.String()
	}
	if me.Role == "" {
		me.Role = string(p.principal.Role)
	}

	existing, err := r.broker.Join(ctx, f.RoomID, me)
	if err != nil {
		r.logger.Error("signaling: join failed", zap.String("room_id", f.RoomID), zap.Error(err))
		p.sendFrame(errorFrame("Could not join room"))
		return
	}
	p.rooms[f.RoomID] = struct{}{}

	announce, err := json.Marshal(me.joinedFrame(f.RoomID))
	if err != nil {
		return
	}
	for _, other := range existing {
		if err := r.broker.Send(ctx, other.SocketID, announce); err != nil {
			r.logger.Warn("signaling: announce failed", zap.String("socket_id", other.SocketID), zap.Error(err))
		}
		p.sendFrame(other.joinedFrame(f.RoomID))
	}

	r.logger.Debug("signaling: joined room",
		zap.String("room_id", f.RoomID),
		zap.String("socket_id", p.id),
		zap.Int("existing", len(existing)),
	)
}

func (r *Relay) forward(ctx context.Context, p *peer, f Frame) {
	if f.Target == "" {
		p.sendFrame(errorFrame("target is required"))
		return
	}

	data, err := json.Marshal(Frame{
		Event:   f.Event,
		RoomID:  f.RoomID,
		From:    p.id,
		Payload: f.Payload,
	})
	if err != nil {
		return
	}
	if err := r.broker.Send(ctx, f.Target, data); err != nil {
		r.logger.Warn("signaling: forward failed", zap.String("event", f.Event), zap.Error(err))
	}
}

// deliver writes to a local socket. Slow sockets whose buffer is full are
// dropped.
func (r *Relay) deliver(socketID string, data []byte) {
	r.mu.RLock()
	p := r.peers[socketID]
	r.mu.RUnlock()

	if p == nil {
		return
	}
	if !p.enqueue(data) {
		r.logger.Debug("signaling: dropping slow socket", zap.String("socket_id", socketID))
		p.close()
	}
}

// disconnect removes membership without telling the other peers.
func (r *Relay) disconnect(p *peer) {
	r.mu.Lock()
	delete(r.peers, p.id)
	r.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), brokerTimeout)
	defer cancel()
	for roomID := range p.rooms {
		if err := r.broker.Leave(ctx, roomID, p.id); err != nil {
			r.logger.Warn("signaling: leave failed", zap.String("room_id", roomID), zap.Error(err))
		}
	}
	p.close()

	r.logger.Debug("signaling: disconnected", zap.String("socket_id", p.id))
}

// Close drops every socket and the broker subscription.
func (r *Relay) Close() error {
	r.mu.Lock()
	peers := make([]*peer, 0, len(r.peers))
	for _, p := range r.peers {
		peers = append(peers, p)
	}
	r.mu.Unlock()

	for _, p := range peers {
		p.close()
	}
	return r.broker.Close()
}
