// Package display redraws a status region of a terminal at an interval.
package display

import (
	"bytes"
	"io"
	"sync"
	"time"

	"github.com/gosuri/uilive"
)

type Displayer interface {
	// Display writes the current status to w and reports whether the
	// display should keep updating.
	Display(w io.Writer) bool
}

type Display struct {
	live     *uilive.Writer
	interval time.Duration
	updater  Displayer
	mu       sync.Mutex
	buffer   bytes.Buffer
	close    chan struct{}
	once     sync.Once
	done     sync.WaitGroup
}

func New(updater Displayer, interval time.Duration, w io.Writer) *Display {
	live := uilive.New()
	live.Out = w
	return &Display{
		live:     live,
		interval: interval,
		updater:  updater,
		close:    make(chan struct{}),
	}
}

func (d *Display) update() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.buffer.Reset()
	cont := d.updater.Display(&d.buffer)
	// Ignore any errors.
	_, _ = io.Copy(d.live, &d.buffer)
	_ = d.live.Flush()
	return cont
}

// Run updates the display until Close is called or the Displayer says to
// stop.
func (d *Display) Run() {
	d.done.Add(1)
	defer d.done.Done()
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	for d.update() {
		select {
		case <-d.close:
			return
		case <-ticker.C:
		}
	}
}

// Close stops Run and draws the display one last time.
func (d *Display) Close() {
	d.once.Do(func() { close(d.close) })
	d.done.Wait()
	d.update()
}
