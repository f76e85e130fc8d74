// Package frame implements the host pacing loop: running the 8080 for a
// half-frame's worth of cycles, injecting the mid-screen and VBlank
// interrupts, and sleeping to hold 60 Hz (spec.md §5, §6). It is the "frame
// driver" collaborator spec.md §2 describes, grounded on the teacher's
// atari2600.VCS.Tick clock-slowdown accounting.
package frame

import (
	"context"
	"errors"
	"time"

	"github.com/jmchacon/i8080invaders/invaders"
	"github.com/jmchacon/i8080invaders/irq"
)

// Defaults per spec.md §5: a 2 MHz cabinet clock paced to 60 frames/sec,
// giving a budget of ~33,333 T-states per frame.
const (
	DefaultClockHz = 2000000
	DefaultFPS     = 60
)

// Driver runs a Cabinet at a fixed clock rate, delivering the two Space
// Invaders interrupts once per frame.
type Driver struct {
	Cabinet   *invaders.Cabinet
	ClockHz   int
	FPS       int
	FrameDone func(*invaders.Cabinet)

	deficit int
}

// DriverDef configures a Driver. ClockHz and FPS default to DefaultClockHz
// and DefaultFPS when zero.
type DriverDef struct {
	Cabinet   *invaders.Cabinet
	ClockHz   int
	FPS       int
	FrameDone func(*invaders.Cabinet)
}

// Init builds a Driver per def.
func Init(def *DriverDef) (*Driver, error) {
	if def == nil || def.Cabinet == nil {
		return nil, errors.New("frame: DriverDef.Cabinet must be non-nil")
	}
	clockHz := def.ClockHz
	if clockHz == 0 {
		clockHz = DefaultClockHz
	}
	fps := def.FPS
	if fps == 0 {
		fps = DefaultFPS
	}
	return &Driver{
		Cabinet:   def.Cabinet,
		ClockHz:   clockHz,
		FPS:       fps,
		FrameDone: def.FrameDone,
	}, nil
}

func (d *Driver) cyclesPerFrame() int {
	return d.ClockHz / d.FPS
}

// runHalf ticks the cabinet until it has run at least budget cycles, minus
// whatever the previous half over-ran by. Since an instruction cannot be
// interrupted mid-flight, the actual cycle count will generally overshoot
// target by a few T-states; that overshoot becomes next half's deficit so
// the long-run rate still holds (spec.md §5).
func (d *Driver) runHalf(budget int) error {
	target := budget - d.deficit
	ran := 0
	for ran < target {
		n, err := d.Cabinet.Tick()
		if err != nil {
			return err
		}
		ran += n
	}
	d.deficit = ran - target
	return nil
}

// Run drives frames until ctx is cancelled. Each frame runs a half-frame
// budget of cycles, delivers the mid-screen interrupt, runs the remaining
// budget, delivers VBlank, invokes FrameDone, then sleeps out the remainder
// of the frame interval.
func (d *Driver) Run(ctx context.Context) error {
	frameBudget := d.cyclesPerFrame()
	firstHalf := frameBudget / 2
	secondHalf := frameBudget - firstHalf
	frameInterval := time.Second / time.Duration(d.FPS)

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		start := time.Now()

		if err := d.runHalf(firstHalf); err != nil {
			return err
		}
		d.Cabinet.Interrupt(irq.MidScreen)

		if err := d.runHalf(secondHalf); err != nil {
			return err
		}
		d.Cabinet.Interrupt(irq.VBlank)

		if d.FrameDone != nil {
			d.FrameDone(d.Cabinet)
		}

		if elapsed := time.Since(start); elapsed < frameInterval {
			time.Sleep(frameInterval - elapsed)
		}
	}
}
