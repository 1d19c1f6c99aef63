// Package clock paces a CHIP-8 machine against wall time. Instructions
// run at a configurable rate and the timers at a fixed 60 Hz.
package clock

import (
	"time"
)

const (
	// DefaultSpeed is the number of instructions per second. The RCA 1802
	// ran at 4-5 MHz and each instruction took 16-24 clock cycles, best
	// estimations put the interpreter at about 500 instructions per second.
	DefaultSpeed = 500

	// MinSpeed and MaxSpeed bound Faster and Slower.
	MinSpeed = 50
	MaxSpeed = 50000

	// TimerRate is the frequency of the delay and sound timers.
	TimerRate = 60

	// MaxLag is the most wall time a single Process call will catch up on.
	MaxLag = time.Second
)

// Machine is anything the clock can drive.
type Machine interface {
	Step() error
	TickTimers() bool
}

// Waiter is implemented by machines that can block on input. While it
// reports true the remaining due steps are skipped.
type Waiter interface {
	Waiting() bool
}

// Report describes the work done by a call to Process.
type Report struct {
	Steps    int  // instructions executed
	Ticks    int  // timer ticks
	StopTone bool // the sound timer expired during one of the ticks
}

// Clock converts elapsed wall time into instruction steps and timer ticks.
type Clock struct {
	// Speed is the instruction rate in Hz.
	Speed int

	// Paused clocks still consume time but run nothing.
	Paused bool

	now  func() time.Time
	last time.Time

	// nanosecond remainders carried between calls, scaled by the rate
	stepDebt int64
	tickDebt int64
}

// New returns a clock running at speed instructions per second.
func New(speed int) *Clock {
	return NewWithTime(speed, time.Now)
}

// NewWithTime returns a clock reading the current time from now.
func NewWithTime(speed int, now func() time.Time) *Clock {
	c := &Clock{
		Speed: clamp(speed),
		now:   now,
	}
	c.Reset()
	return c
}

// Reset restarts timing from the current time, discarding any work due.
func (c *Clock) Reset() {
	c.last = c.now()
	c.stepDebt = 0
	c.tickDebt = 0
}

// Faster raises the speed by a quarter.
func (c *Clock) Faster() int {
	c.Speed = clamp(c.Speed + c.Speed/4)
	return c.Speed
}

// Slower lowers the speed by a fifth, undoing Faster.
func (c *Clock) Slower() int {
	c.Speed = clamp(c.Speed - c.Speed/5)
	return c.Speed
}

// Process runs every step and timer tick that has come due since the
// previous call, interleaved in the order they fall in time. It stops at
// the first step error and returns it along with the work done so far.
func (c *Clock) Process(m Machine) (Report, error) {
	var r Report

	now := c.now()
	elapsed := now.Sub(c.last)
	c.last = now

	if elapsed <= 0 {
		return r, nil
	}
	if elapsed > MaxLag {
		elapsed = MaxLag
	}

	ns := int64(time.Second)

	c.stepDebt += int64(elapsed) * int64(c.Speed)
	steps := c.stepDebt / ns
	c.stepDebt %= ns

	c.tickDebt += int64(elapsed) * TimerRate
	ticks := c.tickDebt / ns
	c.tickDebt %= ns

	// if paused, count cycles without running them
	if c.Paused {
		return r, nil
	}

	waiter, _ := m.(Waiter)
	waiting := false

	// step k falls at k/steps of the interval and tick j at j/ticks,
	// compare them by cross multiplying
	var k, j int64
	for k < steps || j < ticks {
		stepNext := k < steps && (j >= ticks || (k+1)*ticks <= (j+1)*steps)

		if !stepNext {
			j++
			r.Ticks++
			if m.TickTimers() {
				r.StopTone = true
			}
			continue
		}

		k++
		if waiting {
			continue
		}

		if err := m.Step(); err != nil {
			return r, err
		}
		r.Steps++

		// if waiting for a key, skip the rest of the steps
		if waiter != nil && waiter.Waiting() {
			waiting = true
		}
	}

	return r, nil
}

func clamp(speed int) int {
	switch {
	case speed < MinSpeed:
		return MinSpeed
	case speed > MaxSpeed:
		return MaxSpeed
	}
	return speed
}
