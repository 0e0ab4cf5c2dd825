package ui

import (
	"image"
	"image/draw"
	"sync"
)

// frameBuffers recycles copies of the working buffer for the paint
// goroutine. Each buffer remembers the area that changed since it was last
// filled, so a reused buffer only copies what the session reports as damaged.
type frameBuffers struct {
	mu    sync.Mutex
	free  []*image.RGBA
	stale map[*image.RGBA]image.Rectangle
}

func newFrameBuffers() *frameBuffers {
	return &frameBuffers{stale: map[*image.RGBA]image.Rectangle{}}
}

// get returns a buffer equal to src. damage is the area of src changed since
// the previous call.
func (p *frameBuffers) get(src *image.RGBA, damage image.Rectangle) *image.RGBA {
	p.mu.Lock()
	defer p.mu.Unlock()
	for b, r := range p.stale {
		if b.Rect != src.Rect {
			delete(p.stale, b)
			continue
		}
		p.stale[b] = r.Union(damage)
	}

	var buf *image.RGBA
	for len(p.free) > 0 && buf == nil {
		last := len(p.free) - 1
		b := p.free[last]
		p.free = p.free[:last]
		if _, ok := p.stale[b]; ok {
			buf = b
		}
	}
	if buf == nil {
		buf = image.NewRGBA(src.Rect)
		p.stale[buf] = src.Rect
	}
	if r := p.stale[buf].Intersect(src.Rect); !r.Empty() {
		draw.Draw(buf, r, src, r.Min, draw.Src)
	}
	p.stale[buf] = image.Rectangle{}
	return buf
}

// put hands a buffer back once it has been drawn.
func (p *frameBuffers) put(b *image.RGBA) {
	if b == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.stale[b]; ok {
		p.free = append(p.free, b)
	}
}
