package ui

import (
	"context"
	"sync"
)

// frameDropThreshold specifies how many consecutive frames can be cancelled
// before a frame is allowed to finish regardless.
const frameDropThreshold = 10

// painter draws frames on its own goroutine. A new frame replaces one that
// is still queued and cancels the one being drawn, unless too many frames
// in a row were already dropped.
type painter struct {
	draw    func(ctx context.Context, st frame)
	discard func(st frame)

	ctx    context.Context
	stop   context.CancelFunc
	frames chan frame
	wg     sync.WaitGroup

	mu        sync.Mutex
	cancel    context.CancelFunc
	dropCount int
	closed    bool
}

// newPainter starts the paint goroutine. discard is called for every frame
// that is not drawn, and after draw for every frame that is.
func newPainter(draw func(ctx context.Context, st frame), discard func(st frame)) *painter {
	ctx, stop := context.WithCancel(context.Background())
	p := &painter{
		draw:    draw,
		discard: discard,
		ctx:     ctx,
		stop:    stop,
		frames:  make(chan frame, 1),
	}
	p.wg.Add(1)
	go p.loop()
	return p
}

func (p *painter) loop() {
	defer p.wg.Done()
	for st := range p.frames {
		if p.ctx.Err() != nil {
			p.discard(st)
			continue
		}
		ctx, cancel := context.WithCancel(p.ctx)
		p.mu.Lock()
		p.cancel = cancel
		p.mu.Unlock()

		p.draw(ctx, st)
		p.discard(st)

		p.mu.Lock()
		p.cancel = nil
		if ctx.Err() == nil {
			p.dropCount = 0
		}
		p.mu.Unlock()
		cancel()
	}
}

// submit queues st for drawing. It never blocks on the paint goroutine.
func (p *painter) submit(st frame) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		p.discard(st)
		return
	}
	if p.cancel != nil && p.dropCount < frameDropThreshold {
		p.cancel()
		p.dropCount++
	}
	select {
	case p.frames <- st:
		return
	default:
	}
	select {
	case old := <-p.frames:
		p.discard(old)
	default:
	}
	p.frames <- st
}

// close cancels the frame being drawn, drops queued ones and waits for the
// paint goroutine to exit. Nothing touches the window after it returns.
func (p *painter) close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.stop()
	close(p.frames)
	p.mu.Unlock()
	p.wg.Wait()
}
