package relay

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sachinsingh018/networkqy/utils"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	m.Run()
}

type fakeConn struct {
	mu     sync.Mutex
	frames [][]byte
	closed bool
}

func (f *fakeConn) WriteMessage(messageType int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = append(f.frames, data)
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) events(t *testing.T) []string {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()

	events := make([]string, 0, len(f.frames))
	for _, frame := range f.frames {
		var msg Message
		assert.NoError(t, json.Unmarshal(frame, &msg))
		events = append(events, msg.Event)
	}
	return events
}

func TestSendToUserReachesOnlyTargetRoom(t *testing.T) {
	hub := NewHub()
	x := &fakeConn{}
	y := &fakeConn{}
	hub.Authenticate(x, 1)
	hub.Authenticate(y, 2)

	sent := hub.SendToUser(2, Message{Event: EventNewMessage, Data: "hi"})

	assert.Equal(t, 1, sent)
	assert.Equal(t, []string{EventNewMessage}, y.events(t))
	assert.Empty(t, x.events(t))
}

func TestSendToOfflineUserIsSilentNoop(t *testing.T) {
	hub := NewHub()

	sent := hub.SendToUser(42, Message{Event: EventNewMessage, Data: "hi"})

	assert.Equal(t, 0, sent)
}

func TestPresenceIsReferenceCounted(t *testing.T) {
	hub := NewHub()
	tab1 := &fakeConn{}
	tab2 := &fakeConn{}

	assert.True(t, hub.Authenticate(tab1, 7), "first socket should report online transition")
	assert.False(t, hub.Authenticate(tab2, 7), "second socket should not")
	assert.True(t, hub.Online(7))

	_, last := hub.Unregister(tab1)
	assert.False(t, last, "closing one of two tabs must not mark the user offline")
	assert.True(t, hub.Online(7))

	userID, last := hub.Unregister(tab2)
	assert.True(t, last)
	assert.Equal(t, uint(7), userID)
	assert.False(t, hub.Online(7))
}

func TestUnregisterRemovesSocketFromRoom(t *testing.T) {
	hub := NewHub()
	conn := &fakeConn{}
	hub.Authenticate(conn, 3)
	hub.Unregister(conn)

	assert.True(t, conn.closed)
	assert.Equal(t, 0, hub.SendToUser(3, Message{Event: EventNewMessage}))
}

func TestUnregisterUnauthenticatedSocket(t *testing.T) {
	hub := NewHub()
	conn := &fakeConn{}

	userID, last := hub.Unregister(conn)

	assert.Equal(t, uint(0), userID)
	assert.False(t, last)
	assert.True(t, conn.closed)
}

func TestReauthenticateMovesSocketBetweenRooms(t *testing.T) {
	hub := NewHub()
	conn := &fakeConn{}
	hub.Authenticate(conn, 1)

	first := hub.Authenticate(conn, 2)

	assert.True(t, first)
	assert.False(t, hub.Online(1), "socket must leave the previous user's room")
	assert.True(t, hub.Online(2))
	assert.Equal(t, 0, hub.SendToUser(1, Message{Event: EventNewMessage}))
	assert.Equal(t, 1, hub.SendToUser(2, Message{Event: EventNewMessage}))
}

func TestReauthenticateSameUserIsIdempotent(t *testing.T) {
	hub := NewHub()
	conn := &fakeConn{}

	assert.True(t, hub.Authenticate(conn, 1))
	assert.False(t, hub.Authenticate(conn, 1),
		"re-binding the same socket must not re-report the online transition")
	assert.Equal(t, 1, hub.SendToUser(1, Message{Event: EventNewMessage}))
}

// exclusiveConn flags overlapping WriteMessage calls. Gorilla connections
// permit at most one concurrent writer, so any overlap the hub lets
// through would corrupt frames in production.
type exclusiveConn struct {
	writing  int32
	overlaps int32
}

func (c *exclusiveConn) WriteMessage(messageType int, data []byte) error {
	if !atomic.CompareAndSwapInt32(&c.writing, 0, 1) {
		atomic.AddInt32(&c.overlaps, 1)
		return nil
	}
	time.Sleep(20 * time.Microsecond)
	atomic.StoreInt32(&c.writing, 0)
	return nil
}

func (c *exclusiveConn) Close() error { return nil }

func TestWritesToOneSocketAreSerialized(t *testing.T) {
	hub := NewHub()
	conn := &exclusiveConn{}
	hub.Authenticate(conn, 1)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				hub.SendTo(conn, Message{Event: EventMessageSent})
				hub.SendToUser(1, Message{Event: EventNewMessage})
				hub.Broadcast(Message{Event: EventUserOnline}, nil)
			}
		}()
	}
	wg.Wait()

	assert.Zero(t, atomic.LoadInt32(&conn.overlaps),
		"SendTo, SendToUser and Broadcast must never write the same socket concurrently")
}

func TestBroadcastSkipsOriginator(t *testing.T) {
	hub := NewHub()
	origin := &fakeConn{}
	other := &fakeConn{}
	hub.Authenticate(origin, 1)
	hub.Authenticate(other, 2)

	hub.Broadcast(Message{Event: EventUserOnline, Data: "x"}, origin)

	assert.Empty(t, origin.events(t))
	assert.Equal(t, []string{EventUserOnline}, other.events(t))
}
