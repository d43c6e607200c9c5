package platform

import (
	"github.com/spaghettifunk/planar/engine/core"
	"github.com/spaghettifunk/planar/engine/tracking"
)

// FrameClock reports tracking progress. tracking.Session implements it.
type FrameClock interface {
	LastFrame() uint64
	Exhausted() bool
}

// HeadlessPlatform replays recorded touches. A touch is delivered once the
// clock has reached the frame it was recorded on, and the platform stops
// when every touch was delivered and the clock is exhausted.
type HeadlessPlatform struct {
	taps  []tracking.Tap
	next  int
	clock FrameClock
	input *core.Input

	width, height uint32
}

func NewHeadlessPlatform(input *core.Input, clock FrameClock, taps []tracking.Tap) *HeadlessPlatform {
	return &HeadlessPlatform{taps: taps, clock: clock, input: input}
}

func (p *HeadlessPlatform) Startup(applicationName string, x, y, width, height uint32) error {
	p.width, p.height = width, height
	core.LogInfo("%s running headless with %d recorded touches", applicationName, len(p.taps))
	return nil
}

func (p *HeadlessPlatform) PumpMessages() bool {
	exhausted := p.clock.Exhausted()
	frame := p.clock.LastFrame()
	for p.next < len(p.taps) {
		tap := p.taps[p.next]
		// once the session ended every remaining touch is due
		if tap.Frame > frame && !exhausted {
			break
		}
		// recorded touches are in viewport units
		p.input.ProcessTouch(tap.Point.X*float32(p.width), tap.Point.Y*float32(p.height))
		p.next++
	}
	return !(exhausted && p.next == len(p.taps))
}

// Pending is the number of touches not yet delivered.
func (p *HeadlessPlatform) Pending() int {
	return len(p.taps) - p.next
}

func (p *HeadlessPlatform) Shutdown() error {
	return nil
}
