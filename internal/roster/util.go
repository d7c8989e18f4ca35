package roster

import (
	"maps"
	"slices"
	"time"

	"github.com/ward-roster/roster/backend/internal/domain"
)

func sortedKeys(m map[string]domain.Assignment) []string {
	return slices.Sorted(maps.Keys(m))
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(domain.DateLayout, s)
}
