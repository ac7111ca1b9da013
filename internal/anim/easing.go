package anim

import "math"

// Easing names accepted in animationEasing / animationEasingUpdate.
const (
	EasingLinear         = "linear"
	EasingQuadraticIn    = "quadraticIn"
	EasingQuadraticOut   = "quadraticOut"
	EasingQuadraticInOut = "quadraticInOut"
	EasingCubicIn        = "cubicIn"
	EasingCubicOut       = "cubicOut"
	EasingCubicInOut     = "cubicInOut"
	EasingBackIn         = "backIn"
	EasingBackOut        = "backOut"
	EasingBackInOut      = "backInOut"
	EasingElasticOut     = "elasticOut"
	EasingBounceOut      = "bounceOut"
)

// Ease maps linear progress t in [0, 1] through the named curve.
// Unknown names fall back to linear.
func Ease(name string, t float64) float64 {
	switch name {
	case EasingQuadraticIn:
		return t * t

	case EasingQuadraticOut:
		return t * (2 - t)

	case EasingQuadraticInOut:
		if t < 0.5 {
			return 2 * t * t
		}
		return -1 + (4-2*t)*t

	case EasingCubicIn:
		return t * t * t

	case EasingCubicOut:
		u := 1 - t
		return 1 - u*u*u

	case EasingCubicInOut:
		if t < 0.5 {
			return 4 * t * t * t
		}
		u := -2*t + 2
		return 1 - u*u*u/2

	case EasingBackIn:
		c1 := 1.70158
		return (c1+1)*t*t*t - c1*t*t

	case EasingBackOut:
		c1 := 1.70158
		u := t - 1
		return 1 + (c1+1)*u*u*u + c1*u*u

	case EasingBackInOut:
		c2 := 1.70158 * 1.525
		if t < 0.5 {
			return (math.Pow(2*t, 2) * ((c2+1)*2*t - c2)) / 2
		}
		return (math.Pow(2*t-2, 2)*((c2+1)*(t*2-2)+c2) + 2) / 2

	case EasingElasticOut:
		if t == 0 || t == 1 {
			return t
		}
		c4 := (2 * math.Pi) / 3
		return math.Pow(2, -10*t)*math.Sin((t*10-0.75)*c4) + 1

	case EasingBounceOut:
		return bounceOut(t)

	default:
		return t
	}
}

func bounceOut(t float64) float64 {
	const n1, d1 = 7.5625, 2.75
	switch {
	case t < 1/d1:
		return n1 * t * t
	case t < 2/d1:
		t -= 1.5 / d1
		return n1*t*t + 0.75
	case t < 2.5/d1:
		t -= 2.25 / d1
		return n1*t*t + 0.9375
	default:
		t -= 2.625 / d1
		return n1*t*t + 0.984375
	}
}
