package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"studio/internal/domains/dashboard/model"
)

func TestRevenueSince(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "mid year",
			now:  time.Date(2026, time.October, 18, 15, 30, 0, 0, time.UTC),
			want: time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "crosses the year boundary",
			now:  time.Date(2026, time.February, 2, 8, 0, 0, 0, time.UTC),
			want: time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(model.RevenueSince(tt.now)))
		})
	}
}
