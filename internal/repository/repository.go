// Package repository holds the SQL for every resource. Methods take a
// context, run raw queries over the pgx pool and scan rows into model types.
//
// Missing rows are reported with sqlerr.NotFound so the error handler can
// name the entity in its 404 message.
package repository

import (
	"strings"
)

// likePattern escapes LIKE metacharacters and wraps q for substring search.
func likePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.TrimSpace(q)) + "%"
}
