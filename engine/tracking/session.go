package tracking

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/spaghettifunk/planar/engine/containers"
	"github.com/spaghettifunk/planar/engine/core"
)

const defaultQueueSize = 64

// Session fuses provider frames into a set of live anchors. The provider runs
// on its own goroutine; frames are queued and only applied, and reported to
// subscribers, from Update, which the owner calls once per rendered frame.
type Session struct {
	provider Provider
	queue    *containers.RingQueue[*Frame]

	config  Configuration
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	exhausted atomic.Bool

	anchors  map[uuid.UUID]Anchor
	order    []uuid.UUID
	filtered map[uuid.UUID]struct{}

	lastFrame uint64
	camera    CameraPose

	frameUpdated   core.Signal[CameraPose]
	anchorsAdded   core.Signal[[]Anchor]
	anchorsUpdated core.Signal[[]Anchor]
	anchorsRemoved core.Signal[[]Anchor]
}

func NewSession(provider Provider) *Session {
	return &Session{
		provider: provider,
		queue:    containers.NewRingQueue[*Frame](defaultQueueSize),
		anchors:  make(map[uuid.UUID]Anchor),
		filtered: make(map[uuid.UUID]struct{}),
	}
}

// Run starts, or restarts with a new configuration, the tracking provider.
// Anchors found so far are kept.
func (s *Session) Run(config Configuration) {
	if s.running {
		s.stop()
	}
	s.config = config
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.running = true

	s.wg.Add(1)
	go s.pump(ctx)
	core.LogInfo("tracking session running, plane detection: %s", config.PlaneDetection)
}

// Pause stops the provider. Frames that were not yet applied are dropped.
func (s *Session) Pause() {
	if !s.running {
		return
	}
	s.stop()
	dropped := len(s.queue.Drain())
	core.LogInfo("tracking session paused (%d pending frames dropped)", dropped)
}

func (s *Session) stop() {
	s.cancel()
	s.wg.Wait()
	s.running = false
}

func (s *Session) pump(ctx context.Context) {
	defer s.wg.Done()
	for {
		frame, err := s.provider.NextFrame(ctx)
		if err != nil {
			switch {
			case errors.Is(err, io.EOF):
				s.exhausted.Store(true)
				core.LogDebug("tracking provider exhausted")
			case errors.Is(err, context.Canceled):
			default:
				core.LogError("tracking provider failed: %s", err)
			}
			return
		}
		for {
			if err := s.queue.Enqueue(frame); err == nil {
				break
			}
			// the frame thread is behind, wait for it
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Millisecond):
			}
		}
	}
}

func (s *Session) Running() bool {
	return s.running
}

func (s *Session) Configuration() Configuration {
	return s.config
}

// Exhausted reports whether the provider has ended and every frame it
// produced has been applied.
func (s *Session) Exhausted() bool {
	return s.exhausted.Load() && s.queue.IsEmpty()
}

// LastFrame is the index of the last applied frame, zero before the first.
func (s *Session) LastFrame() uint64 {
	return s.lastFrame
}

func (s *Session) Camera() CameraPose {
	return s.camera
}

// Anchors lists live anchors in the order they were added.
func (s *Session) Anchors() []Anchor {
	out := make([]Anchor, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.anchors[id].Clone())
	}
	return out
}

func (s *Session) Anchor(id uuid.UUID) (Anchor, bool) {
	a, ok := s.anchors[id]
	if !ok {
		return Anchor{}, false
	}
	return a.Clone(), true
}

func (s *Session) OnFrameUpdated(fn func(CameraPose)) core.Subscription {
	return s.frameUpdated.Subscribe(fn)
}

func (s *Session) OnAnchorsAdded(fn func([]Anchor)) core.Subscription {
	return s.anchorsAdded.Subscribe(fn)
}

func (s *Session) OnAnchorsUpdated(fn func([]Anchor)) core.Subscription {
	return s.anchorsUpdated.Subscribe(fn)
}

func (s *Session) OnAnchorsRemoved(fn func([]Anchor)) core.Subscription {
	return s.anchorsRemoved.Subscribe(fn)
}

func (s *Session) Unsubscribe(sub core.Subscription) bool {
	return s.frameUpdated.Unsubscribe(sub) ||
		s.anchorsAdded.Unsubscribe(sub) ||
		s.anchorsUpdated.Unsubscribe(sub) ||
		s.anchorsRemoved.Unsubscribe(sub)
}

// Update applies the oldest queued frame, if any, and notifies subscribers.
// One tracking frame is applied per rendered frame so touches recorded
// against a frame see that frame's camera. It must be called from the frame
// thread and returns the number of frames applied.
func (s *Session) Update() int {
	if !s.running {
		return 0
	}
	f, err := s.queue.Dequeue()
	if err != nil {
		return 0
	}
	s.apply(f)
	return 1
}

func (s *Session) apply(f *Frame) {
	s.lastFrame = f.Index
	s.camera = f.Camera
	s.frameUpdated.Emit(f.Camera)

	var added, updated, removed []Anchor
	for _, a := range f.Added {
		if !s.surfaces(a) {
			s.filtered[a.ID] = struct{}{}
			continue
		}
		if _, known := s.anchors[a.ID]; known {
			// provider repeated an add, treat it as a refinement
			updated = append(updated, s.store(a))
			continue
		}
		s.order = append(s.order, a.ID)
		added = append(added, s.store(a))
	}
	for _, a := range f.Updated {
		if _, known := s.anchors[a.ID]; !known {
			if _, skip := s.filtered[a.ID]; !skip {
				core.LogDebug("update for unknown anchor %s dropped", a.ID)
			}
			continue
		}
		updated = append(updated, s.store(a))
	}
	for _, id := range f.Removed {
		delete(s.filtered, id)
		a, known := s.anchors[id]
		if !known {
			continue
		}
		delete(s.anchors, id)
		for i, o := range s.order {
			if o == id {
				s.order = append(s.order[:i:i], s.order[i+1:]...)
				break
			}
		}
		removed = append(removed, a.Clone())
	}

	if len(added) > 0 {
		s.anchorsAdded.Emit(added)
	}
	if len(updated) > 0 {
		s.anchorsUpdated.Emit(updated)
	}
	if len(removed) > 0 {
		s.anchorsRemoved.Emit(removed)
	}
}

func (s *Session) store(a Anchor) Anchor {
	a = a.Clone()
	s.anchors[a.ID] = a
	return a.Clone()
}

// surfaces applies the plane detection setting. Non plane anchors always pass.
func (s *Session) surfaces(a Anchor) bool {
	plane, ok := a.AsPlane()
	if !ok {
		return a.Kind != AnchorKindPlane
	}
	return s.config.PlaneDetection.Allows(plane.Alignment)
}
