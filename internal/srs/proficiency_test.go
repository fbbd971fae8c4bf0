package srs

import (
	"fmt"
	"testing"

	"github.com/lexvault/lexvault-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestNextProficiency_AlwaysInRange(t *testing.T) {
	t.Parallel()

	for grade := domain.GradeAgain; grade <= domain.GradeEasy; grade++ {
		for prev := 0; prev <= 5; prev++ {
			score := NextProficiency(prev, grade, nil)
			assert.GreaterOrEqual(t, score, 0, "prev=%d grade=%d", prev, grade)
			assert.LessOrEqual(t, score, 5, "prev=%d grade=%d", prev, grade)
		}
	}
}

func TestNextProficiency_Deltas(t *testing.T) {
	t.Parallel()

	tests := []struct {
		prev  int
		grade domain.Grade
		want  int
	}{
		{prev: 3, grade: domain.GradeGood, want: 3},  // good is neutral
		{prev: 3, grade: domain.GradeEasy, want: 4},  // easy +1
		{prev: 3, grade: domain.GradeHard, want: 2},  // hard -1
		{prev: 3, grade: domain.GradeAgain, want: 1}, // again -2
		{prev: 1, grade: domain.GradeAgain, want: 0}, // clamped at 0
		{prev: 5, grade: domain.GradeEasy, want: 5},  // clamped at 5
		{prev: 0, grade: domain.GradeGood, want: 1},  // first correct floors at 1
		{prev: 0, grade: domain.GradeEasy, want: 1},
		{prev: 0, grade: domain.GradeHard, want: 0},  // no floor below good
		{prev: 0, grade: domain.GradeAgain, want: 0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("prev=%d_grade=%d", tt.prev, tt.grade), func(t *testing.T) {
			assert.Equal(t, tt.want, NextProficiency(tt.prev, tt.grade, nil))
		})
	}
}

func TestNextProficiency_ConfigurableFloor(t *testing.T) {
	t.Parallel()

	params := NewDefaultProficiencyParams()
	params.FirstCorrectFloor = 2

	assert.Equal(t, 2, NextProficiency(0, domain.GradeGood, params))
}
