package signaling

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func TestMemoryBroker_JoinLeave(t *testing.T) {
	b := NewMemoryBroker()
	ctx := context.Background()

	existing, err := b.Join(ctx, "r", Member{SocketID: "s1", UserID: "u1", Role: "teacher"})
	if err != nil || len(existing) != 0 {
		t.Fatalf("Expected empty room, got %v (%v)", existing, err)
	}
	existing, _ = b.Join(ctx, "r", Member{SocketID: "s2", UserID: "u2", Role: "student"})
	if len(existing) != 1 || existing[0].SocketID != "s1" {
		t.Fatalf("Expected s1 to be reported, got %v", existing)
	}

	// Rejoining does not duplicate membership.
	existing, _ = b.Join(ctx, "r", Member{SocketID: "s2", UserID: "u2", Role: "student"})
	if len(existing) != 1 || len(b.Members("r")) != 2 {
		t.Fatalf("Expected two members after rejoin, got %v", b.Members("r"))
	}

	b.Leave(ctx, "r", "s1")
	b.Leave(ctx, "r", "s2")
	if len(b.Members("r")) != 0 {
		t.Errorf("Expected empty room after leaves")
	}
}

func TestMemoryBroker_SendUsesSubscriber(t *testing.T) {
	b := NewMemoryBroker()
	var gotTarget, gotData string
	b.Subscribe(context.Background(), func(socketID string, data []byte) {
		gotTarget, gotData = socketID, string(data)
	})

	b.Send(context.Background(), "s9", []byte(`{"event":"offer"}`))
	if gotTarget != "s9" || gotData != `{"event":"offer"}` {
		t.Errorf("Unexpected delivery %q %q", gotTarget, gotData)
	}

	b.Close()
	gotTarget = ""
	b.Send(context.Background(), "s9", []byte(`{}`))
	if gotTarget != "" {
		t.Errorf("Expected no delivery after Close")
	}
}

func TestDecodeMembers_SkipsSelfAndGarbage(t *testing.T) {
	hash := map[string]string{
		"me":    `{"socketId":"me","userId":"u0","role":"teacher"}`,
		"other": `{"socketId":"other","userId":"u1","role":"student"}`,
		"bad":   `not json`,
	}
	members := decodeMembers(hash, "me", zap.NewNop())
	if len(members) != 1 || members[0].SocketID != "other" {
		t.Fatalf("Expected only the other member, got %v", members)
	}
}

func newTestRedisBroker(t *testing.T) (*RedisBroker, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisBroker(client, client, zap.NewNop()), client
}

func TestRedisBroker_RoundTrip(t *testing.T) {
	b, client := newTestRedisBroker(t)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	delivered := make(chan string, 1)
	if err := b.Subscribe(ctx, func(socketID string, data []byte) {
		delivered <- socketID + " " + string(data)
	}); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	room := "test-" + uuid.NewString()
	if _, err := b.Join(ctx, room, Member{SocketID: "s1", UserID: "u1", Role: "teacher"}); err != nil {
		t.Fatalf("Join: %v", err)
	}
	existing, err := b.Join(ctx, room, Member{SocketID: "s2", UserID: "u2", Role: "student"})
	if err != nil || len(existing) != 1 || existing[0].UserID != "u1" {
		t.Fatalf("Expected u1 in room, got %v (%v)", existing, err)
	}

	ttl, err := client.TTL(ctx, roomKey(room)).Result()
	if err != nil || ttl <= 0 {
		t.Errorf("Expected room key to carry a TTL, got %s (%v)", ttl, err)
	}

	if err := b.Leave(ctx, room, "s1"); err != nil {
		t.Fatalf("Leave: %v", err)
	}
	existing, _ = b.Join(ctx, room, Member{SocketID: "s3", UserID: "u3", Role: "student"})
	if len(existing) != 1 || existing[0].SocketID != "s2" {
		t.Errorf("Expected only s2 after s1 left, got %v", existing)
	}

	if err := b.Send(ctx, "s1", []byte(`{"event":"offer"}`)); err != nil {
		t.Fatalf("Send: %v", err)
	}
	select {
	case got := <-delivered:
		if got != `s1 {"event":"offer"}` {
			t.Errorf("Unexpected delivery %q", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no delivery")
	}
}

func TestRedisBroker_ConcurrentJoinsSeeEachOther(t *testing.T) {
	b, _ := newTestRedisBroker(t)
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		room := fmt.Sprintf("race-%d", i)

		var wg sync.WaitGroup
		results := make([][]Member, 2)
		errs := make([]error, 2)
		for j, socketID := range []string{"A", "B"} {
			wg.Add(1)
			go func(j int, socketID string) {
				defer wg.Done()
				results[j], errs[j] = b.Join(ctx, room, Member{SocketID: socketID})
			}(j, socketID)
		}
		wg.Wait()

		if errs[0] != nil || errs[1] != nil {
			t.Fatalf("Join errors: %v, %v", errs[0], errs[1])
		}
		// Exactly one of the two joins must observe the other.
		if seen := len(results[0]) + len(results[1]); seen != 1 {
			t.Fatalf("room %s: expected one join to see the other, got %v and %v", room, results[0], results[1])
		}
	}
}
