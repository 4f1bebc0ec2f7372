package bvh

import "time"

// Player advances the current frame from elapsed wall-clock time.
// It owns no timer; the caller drives it by calling Advance.
type Player struct {
	// Animate enables pose evaluation when the frame changes.
	Animate bool

	doc     *Document
	eval    *Evaluator
	frame   int
	elapsed time.Duration
}

func NewPlayer(doc *Document, sink TransformSink) *Player {
	return &Player{Animate: true, doc: doc, eval: NewEvaluator(doc, sink)}
}

func (p *Player) Frame() int {
	return p.frame
}

// Seek jumps to the given frame and evaluates it.
func (p *Player) Seek(frame int) error {
	if err := p.eval.Evaluate(frame); err != nil {
		return err
	}
	p.frame = frame
	p.elapsed = 0
	return nil
}

// Advance accumulates elapsed time and moves forward by the number of whole
// frame intervals it contains, wrapping around at the last frame.
// The remainder is carried to the next call. advanced reports whether at
// least one frame interval passed.
func (p *Player) Advance(elapsed time.Duration) (frame int, advanced bool, err error) {
	n := p.doc.NumFrames()
	interval := p.doc.FrameInterval()
	if n == 0 || interval <= 0 {
		return p.frame, false, nil
	}
	p.elapsed += elapsed
	if p.elapsed < interval {
		return p.frame, false, nil
	}
	steps := p.elapsed / interval
	p.elapsed -= steps * interval
	p.frame = int((int64(p.frame) + int64(steps)) % int64(n))
	if p.Animate {
		if err := p.eval.Evaluate(p.frame); err != nil {
			return p.frame, true, err
		}
	}
	return p.frame, true, nil
}
