package tracksrvc

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// ResultChannel is the name of the push stream carrying job
// result envelopes. Frames tagged with other channels are
// ignored.
const ResultChannel = "judge.result"

// Conn is a persistent duplex connection delivering frames
// tagged with a channel name.
type Conn interface {
	// ReadFrame blocks until the next inbound frame or a
	// connection failure.
	ReadFrame() (channel string, payload []byte, err error)
	Close() error
}

// Dialer opens a connection subscribed to the given channel.
type Dialer func(ctx context.Context, channel string) (Conn, error)

// resultFrame is the envelope carried on the result channel.
type resultFrame struct {
	JobId  string    `json:"track_id"`
	Result JobResult `json:"result"`
}

// PushChan owns the single push connection to the judge:
// opens it on demand, demultiplexes inbound frames, feeds
// result envelopes to the processor and reconnects after
// failures until Stop is called.
type PushChan struct {
	logger *slog.Logger
	dial   Dialer
	reg    *Registry
	proc   *Processor

	lock    sync.Mutex
	conn    Conn
	stopped bool
}

func NewPushChan(
	logger *slog.Logger,
	dial Dialer,
	reg *Registry,
	proc *Processor,
) *PushChan {
	return &PushChan{
		logger: logger,
		dial:   dial,
		reg:    reg,
		proc:   proc,
	}
}

// EnsureActive opens the push connection unless one is already
// open, nothing is in flight, or the manager has been stopped.
// A failed dial hands over to a background redial loop instead
// of failing the caller: push delivery is advisory and the
// poll loop keeps the tracker correct meanwhile.
func (p *PushChan) EnsureActive() {
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.stopped || p.conn != nil || p.reg.Empty() {
		return
	}
	conn, err := p.dial(context.Background(), ResultChannel)
	if err != nil {
		p.logger.Error("failed to open push channel", "error", err)
		go p.redial()
		return
	}
	p.conn = conn
	go p.readLoop(conn)
}

// redial retries the dial with exponential backoff until it
// succeeds, the manager is stopped, or no jobs remain in
// flight.
func (p *PushChan) redial() {
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 0 // retry indefinitely
	for {
		time.Sleep(bo.NextBackOff())

		p.lock.Lock()
		if p.stopped || p.conn != nil || p.reg.Empty() {
			p.lock.Unlock()
			return
		}
		conn, err := p.dial(context.Background(), ResultChannel)
		if err != nil {
			p.lock.Unlock()
			p.logger.Error("push channel redial failed", "error", err)
			continue
		}
		p.conn = conn
		go p.readLoop(conn)
		p.lock.Unlock()
		return
	}
}

// readLoop drains one connection. Frames on foreign channels
// are skipped; malformed result payloads are logged and
// skipped rather than tearing the connection down. Any read
// error ends the loop and triggers a reconnect attempt.
func (p *PushChan) readLoop(conn Conn) {
	for {
		channel, payload, err := conn.ReadFrame()
		if err != nil {
			p.connLost(conn, err)
			return
		}
		if channel != ResultChannel {
			continue
		}
		var frame resultFrame
		err = json.Unmarshal(payload, &frame)
		if err != nil {
			p.logger.Error(
				"malformed push frame skipped",
				"error", err,
			)
			continue
		}
		p.proc.Process(frame.JobId, frame.Result)
	}
}

func (p *PushChan) connLost(conn Conn, err error) {
	p.lock.Lock()
	if p.conn == conn {
		p.conn = nil
	}
	stopped := p.stopped
	p.lock.Unlock()

	conn.Close()
	if stopped {
		return
	}
	p.logger.Warn("push channel lost, reconnecting", "error", err)
	p.EnsureActive()
}

// Stop permanently stops the manager and closes the current
// connection. No reconnect attempts occur afterwards.
func (p *PushChan) Stop() {
	p.lock.Lock()
	p.stopped = true
	conn := p.conn
	p.conn = nil
	p.lock.Unlock()

	if conn != nil {
		conn.Close()
	}
}
