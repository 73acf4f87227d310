package dto_test

import (
	"studio/shared/dto"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter_GetWhereClause(t *testing.T) {
	tests := []struct {
		name      string
		filter    dto.Filter
		wantWhere string
		wantArgs  map[string]any
	}{
		{
			name:      "equality with table",
			filter:    dto.Filter{Field: "status", Value: "pending", Operator: dto.FilterOperatorEq, Table: "bookings"},
			wantWhere: "bookings.status = :status",
			wantArgs:  map[string]any{"status": "pending"},
		},
		{
			name:      "not equal with explicit arg name",
			filter:    dto.Filter{ArgName: "excluded", Field: "status", Value: "cancelled", Operator: dto.FilterOperatorNotEq},
			wantWhere: "status <> :excluded",
			wantArgs:  map[string]any{"excluded": "cancelled"},
		},
		{
			name:      "like is case insensitive",
			filter:    dto.Filter{Field: "name", Value: "Wedding", Operator: dto.FilterOperatorLike, Table: "services"},
			wantWhere: "services.name ILIKE :name",
			wantArgs:  map[string]any{"name": "%Wedding%"},
		},
		{
			name:      "in expands each value",
			filter:    dto.Filter{Field: "id", Value: []string{"a", "b"}, Operator: dto.FilterOperatorIn},
			wantWhere: "id IN (:id_0, :id_1)",
			wantArgs:  map[string]any{"id_0": "a", "id_1": "b"},
		},
		{
			name:      "empty in matches nothing",
			filter:    dto.Filter{Field: "id", Value: []string{}, Operator: dto.FilterOperatorIn},
			wantWhere: "FALSE",
			wantArgs:  map[string]any{},
		},
		{
			name:      "range bounds",
			filter:    dto.Filter{Field: "booking_date", Value: "2026-01-01", Operator: dto.FilterOperatorGreaterEq},
			wantWhere: "booking_date >= :booking_date",
			wantArgs:  map[string]any{"booking_date": "2026-01-01"},
		},
		{
			name:      "null check binds nothing",
			filter:    dto.Filter{Field: "image", Operator: dto.FilterIsNull, Table: "categories"},
			wantWhere: "categories.image IS NULL",
			wantArgs:  map[string]any{},
		},
		{
			name:      "unknown operator is ignored",
			filter:    dto.Filter{Field: "id", Value: "x", Operator: "between"},
			wantWhere: "",
			wantArgs:  map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.filter.GetWhereClause()

			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestFilterGroup_GetWhereClause(t *testing.T) {
	group := dto.FilterGroup{
		Filters: []any{
			dto.Filter{Field: "user_id", Value: "u-1", Operator: dto.FilterOperatorEq, Table: "bookings"},
			dto.FilterGroup{
				Operator: dto.FilterGroupOperatorOr,
				Filters: []any{
					dto.Filter{ArgName: "s1", Field: "status", Value: "pending", Operator: dto.FilterOperatorEq},
					dto.Filter{ArgName: "s2", Field: "status", Value: "confirmed", Operator: dto.FilterOperatorEq},
				},
			},
			dto.Filter{Field: "id", Operator: "between"},
		},
	}

	where, args := group.GetWhereClause()

	assert.Equal(t, "(bookings.user_id = :user_id AND (status = :s1 OR status = :s2))", where)
	assert.Equal(t, map[string]any{"user_id": "u-1", "s1": "pending", "s2": "confirmed"}, args)

	empty := dto.FilterGroup{}
	where, args = empty.GetWhereClause()

	assert.Empty(t, where)
	assert.Empty(t, args)
}
