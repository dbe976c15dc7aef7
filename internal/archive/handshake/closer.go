package handshake

import (
	"context"
	"time"

	"github.com/mc-mysterria/archive-forum/internal/archive/domain"
	"github.com/mc-mysterria/archive-forum/pkg/slogx"
	"github.com/mc-mysterria/archive-forum/pkg/winrelay"
)

const (
	defaultCloserPollInterval = 500 * time.Millisecond
	defaultCloserFailsafe     = time.Minute
)

// Closer is the stuck-popup recovery page. In the nested-redirect flow the
// provider sometimes lands its own window on this page instead of the user's
// popup; the page watches shared storage for the completion flag, and when it
// appears closes the stale auth window (and itself).
type Closer struct {
	storage winrelay.Storage

	// Poll cadence and give-up bound, overridable in tests.
	PollInterval time.Duration
	Failsafe     time.Duration
}

func NewCloser(storage winrelay.Storage) *Closer {
	return &Closer{
		storage:      storage,
		PollInterval: defaultCloserPollInterval,
		Failsafe:     defaultCloserFailsafe,
	}
}

// Observe checks the completion flag once, clearing it when present. The
// clear-on-observe means a second closer racing on the same storage finds
// nothing to act on; clearing an already-absent flag is a no-op either way.
func (c *Closer) Observe() bool {
	if _, ok := c.storage.Get(domain.CompletionFlagKey); !ok {
		return false
	}
	c.storage.Delete(domain.CompletionFlagKey)
	return true
}

// Watch polls until the completion flag appears, the failsafe expires or ctx
// is canceled, then closes win.
func (c *Closer) Watch(ctx context.Context, win winrelay.Window) {
	logger := slogx.FromContext(ctx)

	poll := time.NewTicker(c.PollInterval)
	defer poll.Stop()
	failsafe := time.NewTimer(c.Failsafe)
	defer failsafe.Stop()

	for {
		if c.Observe() {
			logger.Info("completion flag observed, closing auth window")
			c.closeBoth(win)
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-failsafe.C:
			logger.Warn("popup closer gave up waiting", "failsafe", c.Failsafe)
			c.closeBoth(win)
			return
		case <-poll.C:
		}
	}
}

// closeBoth closes the window that opened us first, then ourselves. Closing
// an already-closed window is a no-op, so both calls are unconditional.
func (c *Closer) closeBoth(win winrelay.Window) {
	if win == nil {
		return
	}
	if opener, ok := win.Opener(); ok {
		opener.Close()
	}
	win.Close()
}
