package tracking

import (
	"context"
	"io"
	"time"
)

// ReplayProvider plays back a recorded session, one frame per interval.
type ReplayProvider struct {
	frames   []*Frame
	next     int
	interval time.Duration
}

func NewReplayProvider(rec *Recording) (*ReplayProvider, error) {
	frames, err := rec.BuildFrames()
	if err != nil {
		return nil, err
	}
	return &ReplayProvider{
		frames:   frames,
		interval: time.Duration(rec.FrameIntervalMS) * time.Millisecond,
	}, nil
}

// NewFrameProvider replays frames as fast as they are consumed.
func NewFrameProvider(frames ...*Frame) *ReplayProvider {
	return &ReplayProvider{frames: frames}
}

func (p *ReplayProvider) NextFrame(ctx context.Context) (*Frame, error) {
	if p.next >= len(p.frames) {
		return nil, io.EOF
	}
	if p.interval > 0 {
		timer := time.NewTimer(p.interval)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}
	f := p.frames[p.next]
	p.next++
	return f, nil
}

func (p *ReplayProvider) Len() int {
	return len(p.frames)
}
