package report

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gradebook-api/internal/models"
)

func f(v float64) *float64 { return &v }

func TestAverageIgnoresAbsentValues(t *testing.T) {
	assert.Equal(t, 7.5, Average([]*float64{f(10), nil, f(5)}))
}

func TestAverageEmpty(t *testing.T) {
	assert.Equal(t, 0.0, Average(nil))
	assert.Equal(t, 0.0, Average([]*float64{}))
	assert.Equal(t, 0.0, Average([]*float64{nil, nil}))
}

func TestAverageDoesNotRound(t *testing.T) {
	assert.InDelta(t, 17.0/3.0, Average([]*float64{f(10), f(7), f(0)}), 1e-12)
}

func TestRound2HalfUp(t *testing.T) {
	assert.Equal(t, 5.67, Round2(17.0/3.0))
	assert.Equal(t, 7.13, Round2(7.125))
	assert.Equal(t, 8.5, Round2(8.5))
	assert.Equal(t, 0.0, Round2(0))
	assert.Equal(t, 3.33, Round2(10.0/3.0))
	assert.Equal(t, 1.03, Round2(41.0/40.0))
	assert.Equal(t, 4.73, Round2(189.0/40.0))
	assert.Equal(t, 2.18, Round2(87.0/40.0))
}

func TestGoalAverageRoundsHalfUpForEveryMix(t *testing.T) {
	const classSize = 40
	for ma := 0; ma <= classSize; ma++ {
		for mpa := 0; ma+mpa <= classSize; mpa++ {
			mana := classSize - ma - mpa
			enrollments := make([]models.SnapshotEnrollment, 0, classSize)
			add := func(n int, grade models.Grade) {
				for i := 0; i < n; i++ {
					enrollments = append(enrollments, models.SnapshotEnrollment{
						StudentID:   fmt.Sprintf("s-%d", len(enrollments)),
						Evaluations: []models.EvaluationRecord{{Goal: "Tests", Grade: grade}},
					})
				}
			}
			add(ma, models.GradeMA)
			add(mpa, models.GradeMPA)
			add(mana, models.GradeMANA)

			performance, err := AggregatePerformance(enrollments)
			require.NoError(t, err)
			require.Len(t, performance, 1)

			exact := big.NewRat(int64(10*ma+7*mpa), classSize)
			assert.Equal(t, halfUp2(exact), performance[0].Average, "MA=%d MPA=%d MANA=%d", ma, mpa, mana)
		}
	}
}

// halfUp2 rounds a non-negative rational half up to two decimals.
func halfUp2(r *big.Rat) float64 {
	scaled := new(big.Rat).Mul(r, big.NewRat(100, 1))
	scaled.Add(scaled, big.NewRat(1, 2))
	cents := new(big.Int).Quo(scaled.Num(), scaled.Denom())
	out, _ := new(big.Rat).SetFrac(cents, big.NewInt(100)).Float64()
	return out
}
