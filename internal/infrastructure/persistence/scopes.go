package persistence

import (
	"strings"

	"github.com/furniflow/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// paginate applies page/page size from the filter
func paginate(filter shared.Filter) func(*gorm.DB) *gorm.DB {
	return func(query *gorm.DB) *gorm.DB {
		if filter.Page > 0 && filter.PageSize > 0 {
			query = query.Offset(filter.Offset()).Limit(filter.Limit())
		}
		return query
	}
}

// order applies ordering from the filter, falling back to newest first.
// Column names are checked against the allowed set to keep user input out
// of the ORDER BY clause.
func order(filter shared.Filter, allowed ...string) func(*gorm.DB) *gorm.DB {
	return func(query *gorm.DB) *gorm.DB {
		if filter.OrderBy != "" {
			for _, col := range allowed {
				if col == filter.OrderBy {
					dir := "ASC"
					if strings.ToLower(filter.OrderDir) == "desc" {
						dir = "DESC"
					}
					return query.Order(col + " " + dir)
				}
			}
		}
		return query.Order("created_at DESC")
	}
}
