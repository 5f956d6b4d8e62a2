package tui

import (
	"time"

	"github.com/sadopc/sitelog/internal/store"
)

// shiftState tracks the live shift clock.
type shiftState int

const (
	shiftStopped shiftState = iota
	shiftRunning
	shiftPaused
)

const clockLayout = "15:04"

// shiftClock records a shift as it happens: when work started, every
// interruption taken and when work ended. Stopping it yields the times a
// daily log needs.
type shiftClock struct {
	now func() time.Time

	state     shiftState
	startTime time.Time
	elapsed   time.Duration
	pausedAt  time.Time
	pauseGap  time.Duration
	reason    string

	projectID     int64
	projectName   string
	interruptions []store.Interruption
}

// shiftRecord is a finished shift in HH:MM form.
type shiftRecord struct {
	ProjectID     int64
	StartTime     string
	EndTime       string
	Interruptions []store.Interruption
}

func newShiftClock(now func() time.Time) shiftClock {
	if now == nil {
		now = time.Now
	}
	return shiftClock{now: now, state: shiftStopped}
}

func (c *shiftClock) start(projectID int64, projectName string) {
	c.state = shiftRunning
	c.startTime = c.now()
	c.elapsed = 0
	c.pauseGap = 0
	c.projectID = projectID
	c.projectName = projectName
	c.interruptions = nil
}

// pause opens an interruption. It is closed by resume or stop.
func (c *shiftClock) pause(reason string) {
	if c.state != shiftRunning {
		return
	}
	c.state = shiftPaused
	c.pausedAt = c.now()
	c.reason = reason
}

func (c *shiftClock) resume() {
	if c.state != shiftPaused {
		return
	}
	now := c.now()
	c.pauseGap += now.Sub(c.pausedAt)
	c.interruptions = append(c.interruptions, store.Interruption{
		Reason:    c.reason,
		StartTime: c.pausedAt.Format(clockLayout),
		EndTime:   now.Format(clockLayout),
	})
	c.state = shiftRunning
}

func (c *shiftClock) toggle() {
	switch c.state {
	case shiftRunning:
		c.pause("Interruption")
	case shiftPaused:
		c.resume()
	}
}

func (c *shiftClock) stop() (shiftRecord, bool) {
	if c.state == shiftStopped {
		return shiftRecord{}, false
	}
	c.resume()
	rec := shiftRecord{
		ProjectID:     c.projectID,
		StartTime:     c.startTime.Format(clockLayout),
		EndTime:       c.now().Format(clockLayout),
		Interruptions: append([]store.Interruption(nil), c.interruptions...),
	}
	c.state = shiftStopped
	c.elapsed = 0
	c.interruptions = nil
	return rec, true
}

func (c *shiftClock) tick() {
	if c.state == shiftRunning {
		c.elapsed = c.now().Sub(c.startTime) - c.pauseGap
	}
}

func (c shiftClock) running() bool {
	return c.state != shiftStopped
}

func (c shiftClock) paused() bool {
	return c.state == shiftPaused
}

// currentElapsed is the working time so far, excluding interruptions.
func (c shiftClock) currentElapsed() time.Duration {
	switch c.state {
	case shiftStopped:
		return 0
	case shiftPaused:
		return c.pausedAt.Sub(c.startTime) - c.pauseGap
	}
	return c.now().Sub(c.startTime) - c.pauseGap
}
