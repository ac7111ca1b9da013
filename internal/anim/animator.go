package anim

import (
	"time"

	"github.com/inamate/chartview/internal/graphic"
)

// Config describes one transition. A zero Duration applies the target at once.
type Config struct {
	Duration time.Duration
	Delay    time.Duration
	Easing   string
}

// Enabled reports whether the transition takes any time.
func (c Config) Enabled() bool {
	return c.Duration > 0
}

// Props is the target of a transition. Nil fields are left alone.
type Props struct {
	Shape   graphic.Shape
	Opacity *float64
}

type tween struct {
	el  *graphic.Node
	cfg Config

	fromShape graphic.Shape
	toShape   graphic.Shape

	animOpacity bool
	fromOpacity float64
	toOpacity   float64

	elapsed time.Duration
	done    func()
}

// Animator interpolates element shapes and opacity between frames. At most
// one tween runs per element; a new target replaces the running one.
type Animator struct {
	tweens []*tween
	index  map[*graphic.Node]*tween
}

// New creates an idle animator.
func New() *Animator {
	return &Animator{index: make(map[*graphic.Node]*tween)}
}

// InitProps animates a freshly created element toward its first target.
func (a *Animator) InitProps(el *graphic.Node, target Props, cfg Config, done func()) {
	a.animate(el, target, cfg, done)
}

// UpdateProps animates an existing element toward a new target.
func (a *Animator) UpdateProps(el *graphic.Node, target Props, cfg Config, done func()) {
	a.animate(el, target, cfg, done)
}

// RemoveElement animates el toward target while fading it out, then detaches
// it from its parent and calls done. The element stays in the scene until
// the transition settles.
func (a *Animator) RemoveElement(el *graphic.Node, target Props, cfg Config, done func()) {
	if target.Opacity == nil {
		target.Opacity = graphic.Num(0)
	}
	a.animate(el, target, cfg, func() {
		if el.Parent != nil {
			el.Parent.Remove(el)
		}
		if done != nil {
			done()
		}
	})
}

func (a *Animator) animate(el *graphic.Node, target Props, cfg Config, done func()) {
	if el == nil {
		return
	}
	a.Stop(el)

	if !cfg.Enabled() {
		apply(el, target)
		if done != nil {
			done()
		}
		return
	}

	tw := &tween{
		el:        el,
		cfg:       cfg,
		fromShape: el.Shape,
		toShape:   target.Shape,
		done:      done,
	}
	if target.Opacity != nil {
		tw.animOpacity = true
		tw.fromOpacity = el.Style.Opacity
		tw.toOpacity = *target.Opacity
	}
	a.tweens = append(a.tweens, tw)
	a.index[el] = tw
}

func apply(el *graphic.Node, target Props) {
	if target.Shape != nil {
		el.Shape = target.Shape
	}
	if target.Opacity != nil {
		el.Style.Opacity = *target.Opacity
	}
}

// Stop drops the running tween of el, leaving it where it is. The dropped
// tween's callback does not fire.
func (a *Animator) Stop(el *graphic.Node) {
	tw, ok := a.index[el]
	if !ok {
		return
	}
	delete(a.index, el)
	for i, t := range a.tweens {
		if t == tw {
			a.tweens = append(a.tweens[:i], a.tweens[i+1:]...)
			break
		}
	}
}

// IsAnimating reports whether el has a running tween.
func (a *Animator) IsAnimating(el *graphic.Node) bool {
	_, ok := a.index[el]
	return ok
}

// Pending returns the number of running tweens.
func (a *Animator) Pending() int {
	return len(a.tweens)
}

// Tick advances every tween by dt and returns true while any are left.
// Completion callbacks run after all tweens have been stepped, in start order.
func (a *Animator) Tick(dt time.Duration) bool {
	var finished []*tween
	running := a.tweens[:0]
	for _, tw := range a.tweens {
		tw.elapsed += dt
		if tw.elapsed < tw.cfg.Delay {
			running = append(running, tw)
			continue
		}
		t := float64(tw.elapsed-tw.cfg.Delay) / float64(tw.cfg.Duration)
		if t >= 1 {
			apply(tw.el, Props{Shape: tw.toShape, Opacity: opacityTarget(tw)})
			delete(a.index, tw.el)
			finished = append(finished, tw)
			continue
		}
		step(tw, Ease(tw.cfg.Easing, t))
		running = append(running, tw)
	}
	a.tweens = running

	for _, tw := range finished {
		if tw.done != nil {
			tw.done()
		}
	}
	return len(a.tweens) > 0
}

// Finish settles every tween, including ones started by completion callbacks.
func (a *Animator) Finish() {
	for i := 0; i < 64 && len(a.tweens) > 0; i++ {
		a.Tick(time.Hour)
	}
}

func opacityTarget(tw *tween) *float64 {
	if !tw.animOpacity {
		return nil
	}
	return graphic.Num(tw.toOpacity)
}

func step(tw *tween, t float64) {
	if tw.toShape != nil && tw.fromShape != nil {
		tw.el.Shape = tw.fromShape.Interpolate(tw.toShape, t)
	}
	if tw.animOpacity {
		tw.el.Style.Opacity = tw.fromOpacity + (tw.toOpacity-tw.fromOpacity)*t
	}
}
