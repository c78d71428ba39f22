package trace

import (
	"context"
	"strconv"
	"time"
)

// Heartbeat emits periodic driver-scope events so a stalled watch loop shows up
// in the trace.
type Heartbeat struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// StartHeartbeat returns nil when tracing is off or interval is not positive.
func StartHeartbeat(t Tracer, interval time.Duration) *Heartbeat {
	if t == nil || !t.Enabled() || interval <= 0 {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	h := &Heartbeat{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(h.done)
		tick := time.NewTicker(interval)
		defer tick.Stop()
		for n := 1; ; n++ {
			select {
			case <-ctx.Done():
				return
			case now := <-tick.C:
				t.Emit(&Event{Time: now, Kind: KindHeartbeat, Scope: ScopeDriver, Name: "heartbeat", Detail: "#" + strconv.Itoa(n)})
			}
		}
	}()
	return h
}

// Stop waits for the emitting goroutine to exit. Safe on nil and when repeated.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.cancel()
	<-h.done
}
