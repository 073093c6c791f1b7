package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateOutcome(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		actual   string
		want     TestStatus
	}{
		{"no expectation passes", "", "anything at all", TestPass},
		{"whitespace expectation passes", "   ", "anything", TestPass},
		{"substring match passes", "appointment booked", "Great, your appointment booked for Tuesday.", TestPass},
		{"match is case insensitive", "Appointment Booked", "your appointment booked for Tuesday", TestPass},
		{"no match fails", "appointment booked", "sorry, no availability this week", TestFail},
		{"empty actual fails", "appointment booked", "", TestFail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EvaluateOutcome(tt.expected, tt.actual))
		})
	}
}
