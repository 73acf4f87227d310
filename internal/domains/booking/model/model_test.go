package model_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"studio/internal/domains/booking/model"
)

var allStatuses = []model.Status{
	model.StatusPending,
	model.StatusConfirmed,
	model.StatusCompleted,
	model.StatusCancelled,
}

func TestStatus_CanTransition(t *testing.T) {
	allowed := map[model.Status]map[model.Status]bool{
		model.StatusPending:   {model.StatusConfirmed: true, model.StatusCancelled: true},
		model.StatusConfirmed: {model.StatusCompleted: true, model.StatusCancelled: true},
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			want := allowed[from][to]

			assert.Equal(t, want, from.CanTransition(to), "%s -> %s", from, to)
		}
	}
}

func TestStatus_Flags(t *testing.T) {
	tests := []struct {
		status   model.Status
		terminal bool
		editable bool
	}{
		{status: model.StatusPending, editable: true},
		{status: model.StatusConfirmed, editable: true},
		{status: model.StatusCompleted, terminal: true},
		{status: model.StatusCancelled, terminal: true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.True(t, tt.status.Valid())
			assert.Equal(t, tt.terminal, tt.status.IsTerminal())
			assert.Equal(t, tt.editable, tt.status.IsEditable())
		})
	}

	assert.False(t, model.Status("archived").Valid())
}

func TestAvailableSlots(t *testing.T) {
	tests := []struct {
		name   string
		booked []string
		want   []string
	}{
		{
			name: "nothing booked",
			want: model.Slots,
		},
		{
			name:   "keeps universe order",
			booked: []string{"15:00", "10:00", "09:00"},
			want:   []string{"11:00", "12:00", "13:00", "14:00", "16:00", "17:00"},
		},
		{
			name:   "labels outside the universe are ignored",
			booked: []string{"08:00", "10:00"},
			want:   []string{"09:00", "11:00", "12:00", "13:00", "14:00", "15:00", "16:00", "17:00"},
		},
		{
			name:   "fully booked",
			booked: model.Slots,
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := model.AvailableSlots(tt.booked)

			assert.Equal(t, tt.want, got)

			for _, slot := range got {
				assert.NotContains(t, tt.booked, slot)
			}
		})
	}

	assert.Len(t, model.Slots, 9)
	assert.True(t, model.IsSlot("17:00"))
	assert.False(t, model.IsSlot("18:00"))
}

func TestNewQuote(t *testing.T) {
	tests := []struct {
		name         string
		price        string
		addons       []model.Addon
		wantSubtotal string
		wantTax      string
		wantTotal    string
	}{
		{
			name:         "service with one addon line",
			price:        "1000.00",
			addons:       []model.Addon{{Price: decimal.RequireFromString("500"), Quantity: 2}},
			wantSubtotal: "2000.00",
			wantTax:      "240.00",
			wantTotal:    "2240.00",
		},
		{
			name:         "no addons",
			price:        "1500.00",
			wantSubtotal: "1500.00",
			wantTax:      "180.00",
			wantTotal:    "1680.00",
		},
		{
			name:         "tax rounds to cents",
			price:        "10.05",
			wantSubtotal: "10.05",
			wantTax:      "1.21",
			wantTotal:    "11.26",
		},
		{
			name:  "several addon lines",
			price: "999.99",
			addons: []model.Addon{
				{Price: decimal.RequireFromString("10.10"), Quantity: 3},
				{Price: decimal.RequireFromString("0"), Quantity: 1},
			},
			wantSubtotal: "1030.29",
			wantTax:      "123.63",
			wantTotal:    "1153.92",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quote := model.NewQuote(decimal.RequireFromString(tt.price), tt.addons)

			assert.Equal(t, tt.wantSubtotal, quote.Subtotal.StringFixed(2))
			assert.Equal(t, tt.wantTax, quote.Tax.StringFixed(2))
			assert.Equal(t, tt.wantTotal, quote.Total.StringFixed(2))
			assert.True(t, quote.Discount.IsZero())
		})
	}
}
