package shared

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strings"

	"studio/shared/cache"
	"studio/shared/constant"
	"studio/shared/dto"
	"studio/shared/timezone"

	"github.com/rs/zerolog/log"
)

const cacheKeySeparator = ":"

// CalculateTotalPage reports at least one page so empty lists still paginate.
func CalculateTotalPage(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 1
	}

	return int(math.Ceil(float64(total) / float64(limit)))
}

// TransformFields converts the fields of a struct into a map of updated fields.
// Zero-valued fields and fields without a db tag are skipped, so nil pointers mean "unchanged".
func TransformFields(data any, username string) map[string]any {
	val := reflect.Indirect(reflect.ValueOf(data))
	typ := val.Type()

	updatedFields := make(map[string]any, typ.NumField()+2)

	for index := range val.NumField() {
		column, ok := typ.Field(index).Tag.Lookup("db")
		if !ok || column == "" || column == "-" || val.Field(index).IsZero() {
			continue
		}

		updatedFields[column] = val.Field(index).Interface()
	}

	updatedFields[constant.FieldModifiedAt] = timezone.Now()
	updatedFields[constant.FieldModifiedBy] = username

	return updatedFields
}

// FilterByID matches a single row by its primary key.
func FilterByID(id, fieldID, table string) dto.FilterGroup {
	return FilterBy(fieldID, id, table)
}

// BuildCacheKey joins a cache prefix with the identifying parts of a single entry.
func BuildCacheKey(prefix string, parts ...string) string {
	return strings.Join(append([]string{prefix}, parts...), cacheKeySeparator)
}

// BuildCacheKeyWithQuery derives a stable key for a list query. Filter arguments are
// marshalled from a map, so the key does not depend on the order the filters were added.
func BuildCacheKeyWithQuery(prefix string, params dto.QueryParams, filter dto.FilterGroup) string {
	where, args := filter.GetWhereClause()

	encodedArgs, err := json.Marshal(args)
	if err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to encode cache key arguments")
	}

	query := fmt.Sprintf("p=%d&l=%d&s=%s&d=%s", params.Page, params.Limit, params.SortBy, params.SortDir)

	return BuildCacheKey(prefix, query, where, string(encodedArgs))
}

// InvalidateCaches removes every entry stored under prefix.
func InvalidateCaches(ctx context.Context, redisCache cache.RedisCache, prefix string) {
	if err := redisCache.Clear(ctx, prefix+constant.Asterix); err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to invalidate caches")
	}
}

// FilterBy builds a single equality filter group.
func FilterBy(field string, value any, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    field,
				Value:    value,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
		},
	}
}

// FilterIn builds a membership filter group. An empty values slice matches nothing.
func FilterIn(field string, values []string, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    field,
				Value:    values,
				Operator: dto.FilterOperatorIn,
				Table:    table,
			},
		},
	}
}
