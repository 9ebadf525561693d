package types

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreSummary(t *testing.T) {
	r := &ScoreResult{
		LnProb: []float64{-2, math.Inf(-1), -4, -1, math.Inf(-1), -3},
	}
	s := r.Summary()

	assert.Equal(t, 4, s.Finite)
	assert.Equal(t, 2, s.Rejected)
	assert.Equal(t, -2.5, s.Mean)
	assert.Equal(t, -4.0, s.Min)
	assert.Equal(t, -1.0, s.Max)
	assert.Equal(t, -3.0, s.Median)
}

func TestScoreSummary_AllRejected(t *testing.T) {
	r := &ScoreResult{LnProb: []float64{math.Inf(-1), math.Inf(-1)}}
	s := r.Summary()

	assert.Equal(t, 0, s.Finite)
	assert.Equal(t, 2, s.Rejected)
	assert.Zero(t, s.Mean)
	assert.Zero(t, s.Min)
}

func TestScoreSummary_Empty(t *testing.T) {
	r := &ScoreResult{}
	s := r.Summary()
	assert.Equal(t, 0, s.Finite)
	assert.Equal(t, 0, s.Rejected)
}

func TestBest(t *testing.T) {
	r := &ScoreResult{
		LnProb: []float64{-3, math.Inf(-1), -0.5, -7, -0.5},
	}

	// Ties keep input order; the rejected candidate ranks last.
	assert.Equal(t, []int{2, 4, 0}, r.Best(3))
	assert.Equal(t, []int{2, 4, 0, 3, 1}, r.Best(10))
	assert.Empty(t, r.Best(0))
}

func TestBest_Empty(t *testing.T) {
	r := &ScoreResult{}
	assert.Empty(t, r.Best(5))
}
