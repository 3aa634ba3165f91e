package tracksrvc

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeFrame struct {
	channel string
	payload []byte
}

// fakeConn delivers scripted frames and fails with io.EOF once
// closed, imitating a dropped connection.
type fakeConn struct {
	frames    chan fakeFrame
	closed    chan struct{}
	closeOnce sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		frames: make(chan fakeFrame, 16),
		closed: make(chan struct{}),
	}
}

func (c *fakeConn) ReadFrame() (string, []byte, error) {
	select {
	case f := <-c.frames:
		return f.channel, f.payload, nil
	case <-c.closed:
		return "", nil, io.EOF
	}
}

func (c *fakeConn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

func (c *fakeConn) send(channel string, payload string) {
	c.frames <- fakeFrame{channel: channel, payload: []byte(payload)}
}

type fakeDialer struct {
	lock      sync.Mutex
	conns     []*fakeConn
	failFirst int // fail this many dials before succeeding
	dials     int
}

func (d *fakeDialer) dial(ctx context.Context, channel string) (Conn, error) {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.dials++
	if d.failFirst > 0 {
		d.failFirst--
		return nil, fmt.Errorf("connection refused")
	}
	conn := newFakeConn()
	d.conns = append(d.conns, conn)
	return conn, nil
}

func (d *fakeDialer) dialCount() int {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.dials
}

func (d *fakeDialer) conn(i int) *fakeConn {
	d.lock.Lock()
	defer d.lock.Unlock()
	if i >= len(d.conns) {
		return nil
	}
	return d.conns[i]
}

func newTestPushChan(dialer *fakeDialer) (*PushChan, *Registry, *recorder) {
	reg := NewRegistry()
	rec := &recorder{}
	proc := NewProcessor(slog.Default(), reg, NewInMemResultRepo(), rec.callback)
	push := NewPushChan(slog.Default(), dialer.dial, reg, proc)
	return push, reg, rec
}

func TestPushChanNoConnectionWhileRegistryEmpty(t *testing.T) {
	dialer := &fakeDialer{}
	push, _, _ := newTestPushChan(dialer)

	push.EnsureActive()
	require.Equal(t, 0, dialer.dialCount())
}

func TestPushChanDeliversResultFrames(t *testing.T) {
	dialer := &fakeDialer{}
	push, reg, rec := newTestPushChan(dialer)
	defer push.Stop()

	reg.Put(TrackEntry{JobId: "a", RemoteId: "r-a", LastProgress: time.Now()})
	push.EnsureActive()
	require.Equal(t, 1, dialer.dialCount())

	// a second call while connected is a no-op
	push.EnsureActive()
	require.Equal(t, 1, dialer.dialCount())

	conn := dialer.conn(0)
	require.NotNil(t, conn)

	// frames on foreign channels are ignored
	conn.send("judge.metrics", `{"load":0.5}`)
	// malformed result frames are skipped
	conn.send(ResultChannel, `{not json`)
	// a well-formed result frame reaches the processor
	conn.send(ResultChannel,
		`{"track_id":"a","result":{"judge":{"status":"J"}}}`)

	require.Eventually(t, func() bool {
		return rec.count() == 1
	}, 2*time.Second, 10*time.Millisecond)

	_, ok := reg.Get("a")
	require.True(t, ok)
}

func TestPushChanTerminalFrameEvictsEntry(t *testing.T) {
	dialer := &fakeDialer{}
	push, reg, rec := newTestPushChan(dialer)
	defer push.Stop()

	reg.Put(TrackEntry{JobId: "a", RemoteId: "r-a", LastProgress: time.Now()})
	push.EnsureActive()

	conn := dialer.conn(0)
	require.NotNil(t, conn)
	conn.send(ResultChannel,
		`{"track_id":"a","result":{"judge":{"status":"AC","score":100}}}`)

	require.Eventually(t, func() bool {
		_, ok := reg.Get("a")
		return rec.count() == 1 && !ok
	}, 2*time.Second, 10*time.Millisecond)
}

func TestPushChanReconnectsAfterConnectionLoss(t *testing.T) {
	dialer := &fakeDialer{}
	push, reg, _ := newTestPushChan(dialer)
	defer push.Stop()

	reg.Put(TrackEntry{JobId: "a", RemoteId: "r-a", LastProgress: time.Now()})
	push.EnsureActive()

	conn := dialer.conn(0)
	require.NotNil(t, conn)
	conn.Close() // simulate unexpected connection loss

	require.Eventually(t, func() bool {
		return dialer.dialCount() == 2
	}, 2*time.Second, 10*time.Millisecond)

	// no entries lost or duplicated by the reconnect
	require.Equal(t, []string{"a"}, reg.Ids())
}

func TestPushChanRetriesFailedDial(t *testing.T) {
	dialer := &fakeDialer{failFirst: 2}
	push, reg, rec := newTestPushChan(dialer)
	defer push.Stop()

	reg.Put(TrackEntry{JobId: "a", RemoteId: "r-a", LastProgress: time.Now()})
	push.EnsureActive()

	// the first dial fails inline, the background redial loop
	// keeps retrying until one succeeds
	require.Eventually(t, func() bool {
		return dialer.conn(0) != nil
	}, 5*time.Second, 10*time.Millisecond)

	dialer.conn(0).send(ResultChannel,
		`{"track_id":"a","result":{"judge":{"status":"J"}}}`)
	require.Eventually(t, func() bool {
		return rec.count() == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestPushChanStopPreventsReconnect(t *testing.T) {
	dialer := &fakeDialer{}
	push, reg, _ := newTestPushChan(dialer)

	reg.Put(TrackEntry{JobId: "a", RemoteId: "r-a", LastProgress: time.Now()})
	push.EnsureActive()
	require.Equal(t, 1, dialer.dialCount())

	push.Stop()

	// the read loop observes the closed connection; give it a
	// moment to (incorrectly) attempt a reconnect
	time.Sleep(100 * time.Millisecond)
	require.Equal(t, 1, dialer.dialCount())

	push.EnsureActive()
	require.Equal(t, 1, dialer.dialCount())
}
