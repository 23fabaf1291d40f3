package signaling

import (
	"context"
	"sync"
)

// DeliverFunc hands an encoded frame to the local socket socketID, if any.
type DeliverFunc func(socketID string, data []byte)

// Broker owns room membership and routes frames to sockets, possibly
// living on another server process.
type Broker interface {
	// Join adds m to roomID and returns the members that were already there.
	Join(ctx context.Context, roomID string, m Member) ([]Member, error)
	Leave(ctx context.Context, roomID, socketID string) error
	// Send routes data to socketID wherever it is connected. Unknown
	// sockets are ignored.
	Send(ctx context.Context, socketID string, data []byte) error
	// Subscribe registers the local delivery callback. It does not block.
	Subscribe(ctx context.Context, deliver DeliverFunc) error
	Close() error
}

// MemoryBroker keeps rooms in process. It suits a single server.
type MemoryBroker struct {
	mu      sync.Mutex
	rooms   map[string][]Member
	deliver DeliverFunc
}

func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{rooms: make(map[string][]Member)}
}

func (b *MemoryBroker) Join(ctx context.Context, roomID string, m Member) ([]Member, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	members := b.rooms[roomID]
	existing := make([]Member, 0, len(members))
	for _, other := range members {
		if other.SocketID != m.SocketID {
			existing = append(existing, other)
		}
	}
	b.rooms[roomID] = append(append(make([]Member, 0, len(existing)+1), existing...), m)
	return existing, nil
}

func (b *MemoryBroker) Leave(ctx context.Context, roomID, socketID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	members := b.rooms[roomID]
	for i, m := range members {
		if m.SocketID == socketID {
			members = append(members[:i], members[i+1:]...)
			break
		}
	}
	if len(members) == 0 {
		delete(b.rooms, roomID)
	} else {
		b.rooms[roomID] = members
	}
	return nil
}

func (b *MemoryBroker) Send(ctx context.Context, socketID string, data []byte) error {
	b.mu.Lock()
	deliver := b.deliver
	b.mu.Unlock()

	if deliver != nil {
		deliver(socketID, data)
	}
	return nil
}

func (b *MemoryBroker) Subscribe(ctx context.Context, deliver DeliverFunc) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deliver = deliver
	return nil
}

func (b *MemoryBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deliver = nil
	return nil
}

// Members returns a copy of roomID's membership in join order.
func (b *MemoryBroker) Members(roomID string) []Member {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Member(nil), b.rooms[roomID]...)
}
