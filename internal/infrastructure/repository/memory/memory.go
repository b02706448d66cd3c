// Package memory holds mutex-guarded in-memory repositories, used by unit
// tests and local development without a database.
package memory

import "sort"

func sortByID[T any](rows []T, id func(T) int64) {
	sort.Slice(rows, func(i, j int) bool { return id(rows[i]) < id(rows[j]) })
}

func paginate[T any](rows []T, limit, offset int) []T {
	if offset >= len(rows) {
		return nil
	}
	rows = rows[offset:]
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	out := make([]T, len(rows))
	copy(out, rows)
	return out
}
