package utils

import (
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/golang/glog"
)

// ErrPollTimeout is returned by Poll when the condition never held before the timeout.
var ErrPollTimeout = errors.New("timed out waiting for the condition")

var errConditionNotMet = errors.New("condition not met")

// ConditionFunc is evaluated on every poll attempt. Returning an error stops
// the poll at once and the error is handed back to the caller.
type ConditionFunc func() (done bool, err error)

// Poller evaluates a condition at a fixed interval until it holds or the
// timeout elapses.
type Poller struct {
	Interval time.Duration
	Timeout  time.Duration

	// Clock and Timer default to wall clock time, tests swap in a FakeClock.
	Clock backoff.Clock
	Timer backoff.Timer
}

// NewPoller create a wall clock poller.
func NewPoller(interval, timeout time.Duration) *Poller {
	return &Poller{Interval: interval, Timeout: timeout, Clock: backoff.SystemClock}
}

func (p *Poller) clock() backoff.Clock {
	if p.Clock == nil {
		return backoff.SystemClock
	}
	return p.Clock
}

// Poll runs condition until it reports done. The first attempt is immediate,
// the last one happens at Timeout. It returns the time spent polling.
func (p *Poller) Poll(name string, condition ConditionFunc) (time.Duration, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.Interval
	b.MaxInterval = p.Interval
	b.Multiplier = 1
	b.RandomizationFactor = 0
	b.MaxElapsedTime = p.Timeout
	b.Clock = p.clock()

	attempts := 0
	operation := func() error {
		attempts++
		done, err := condition()
		if err != nil {
			return backoff.Permanent(err)
		}
		if !done {
			return errConditionNotMet
		}
		return nil
	}

	notify := func(err error, next time.Duration) {
		glog.V(4).Infof("%s not ready after %d attempts, retry in %s", name, attempts, next)
	}

	start := b.Clock.Now()
	err := backoff.RetryNotifyWithTimer(operation, b, notify, p.Timer)
	elapsed := b.Clock.Now().Sub(start)

	// the backoff stops once the next interval would overrun the timeout,
	// the last attempt is made at the timeout itself
	if remaining := p.Timeout - elapsed; err == errConditionNotMet && remaining > 0 {
		p.wait(remaining)
		err = operation()
		if permanent, ok := err.(*backoff.PermanentError); ok {
			err = permanent.Err
		}
		elapsed = b.Clock.Now().Sub(start)
	}

	if err == errConditionNotMet {
		glog.Warningf("%s timed out after %s and %d attempts", name, elapsed, attempts)
		return elapsed, ErrPollTimeout
	}
	return elapsed, err
}

func (p *Poller) wait(d time.Duration) {
	if p.Timer == nil {
		time.Sleep(d)
		return
	}
	p.Timer.Start(d)
	<-p.Timer.C()
	p.Timer.Stop()
}
