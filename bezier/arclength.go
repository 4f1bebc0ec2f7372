package bezier

import (
	"errors"
	"sort"

	"gonum.org/v1/gonum/integrate/quad"
)

var ErrNoLengthTable = errors.New("bezier: arc length table is not calculated")

// CalcCumLengths samples the curve at NumSteps+1 evenly spaced parameters and
// stores the cumulative chord length at each sample.
func (c *Curve) CalcCumLengths() {
	n := c.NumSteps
	if n < 1 {
		n = DefaultNumSteps
	}
	c.cumLengths = make([]float32, n+1)
	prev := c.GetPoint(0)
	for i := 1; i <= n; i++ {
		p := c.GetPoint(float32(i) / float32(n))
		c.cumLengths[i] = c.cumLengths[i-1] + p.Sub(prev).Len()
		prev = p
	}
}

// CumLengths returns the length table, or nil if it is not calculated.
func (c *Curve) CumLengths() []float32 {
	return c.cumLengths
}

// ArcLength returns the total length from the table.
func (c *Curve) ArcLength() (float32, error) {
	if len(c.cumLengths) == 0 {
		return 0, ErrNoLengthTable
	}
	return c.cumLengths[len(c.cumLengths)-1], nil
}

// ArcLengthToT returns the parameter t at which the curve has the given arc length.
// Lengths are clamped to [0, ArcLength()]. NaN maps to 0.
func (c *Curve) ArcLengthToT(a float32) (float32, error) {
	total, err := c.ArcLength()
	if err != nil {
		return 0, err
	}
	if !(a > 0) {
		return 0, nil
	}
	if a >= total {
		return 1, nil
	}
	n := len(c.cumLengths) - 1
	// first sample beyond a. 1 <= i <= n since c[0] = 0 < a < c[n].
	i := sort.Search(len(c.cumLengths), func(i int) bool { return c.cumLengths[i] > a })
	l0, l1 := c.cumLengths[i-1], c.cumLengths[i]
	var f float32
	if l1 > l0 {
		f = (a - l0) / (l1 - l0)
	}
	return (float32(i-1) + f) / float32(n), nil
}

// IntegratedLength integrates |B'(t)| over [0, 1] by Gauss-Legendre quadrature.
// It does not use the length table.
func (c *Curve) IntegratedLength() float64 {
	speed := func(t float64) float64 {
		return float64(c.GetFirstDerivative(float32(t)).Len())
	}
	return quad.Fixed(speed, 0, 1, 32, quad.Legendre{}, 0)
}
