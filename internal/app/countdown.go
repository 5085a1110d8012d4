package app

import "time"

// Ticker abstracts time.Ticker so tests can drive ticks by hand.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// NewTickerFunc creates a Ticker firing every d.
type NewTickerFunc func(d time.Duration) Ticker

type timeTicker struct {
	t *time.Ticker
}

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

// NewTimeTicker is the production NewTickerFunc.
func NewTimeTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}

// Countdown emits tick events for the active question. Every Start opens a new generation;
// ticks from an older generation are still tagged with it, which lets the game loop drop them.
// Countdown is owned by the game loop and must only be used from that goroutine.
type Countdown struct {
	interval  time.Duration
	newTicker NewTickerFunc

	gen  uint64
	stop chan struct{}
}

func NewCountdown(interval time.Duration, newTicker NewTickerFunc) *Countdown {
	if interval <= 0 {
		interval = time.Second
	}
	if newTicker == nil {
		newTicker = NewTimeTicker
	}
	return &Countdown{interval: interval, newTicker: newTicker}
}

// Start cancels any running countdown and begins a new one that delivers ticks to out.
func (c *Countdown) Start(out chan<- event) {
	c.Cancel()

	stop := make(chan struct{})
	c.stop = stop
	gen := c.gen
	t := c.newTicker(c.interval)

	go func() {
		defer t.Stop()
		for {
			select {
			case <-stop:
				return
			case <-t.C():
				select {
				case out <- event{kind: eventTick, gen: gen}:
				case <-stop:
					return
				}
			}
		}
	}()
}

// Cancel stops the running countdown. Ticks already queued become stale.
func (c *Countdown) Cancel() {
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
	c.gen++
}

// Live reports whether a tick of generation gen belongs to the running countdown.
func (c *Countdown) Live(gen uint64) bool {
	return c.stop != nil && gen == c.gen
}

// Running reports whether a countdown is active.
func (c *Countdown) Running() bool {
	return c.stop != nil
}
