// Package utils contains small helper functions used across the project.
//
// These are usually generic helpers that don't belong to a specific domain.
package utils

import (
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
	MaxPage      = 100000
)

// NormalizeEmail trims and lowercases an address so it can be used as a
// lookup key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Union merges local into server, keeping server order first, then the new
// local items in their original order. Blank and duplicate entries are dropped.
func Union(server, local []string) []string {
	seen := make(map[string]struct{}, len(server)+len(local))
	out := make([]string, 0, len(server)+len(local))

	for _, list := range [][]string{server, local} {
		for _, item := range list {
			item = strings.TrimSpace(item)
			if item == "" {
				continue
			}
			if _, ok := seen[item]; ok {
				continue
			}
			seen[item] = struct{}{}
			out = append(out, item)
		}
	}

	return out
}

// Missing returns the local items not present in server, de-duplicated.
func Missing(server, local []string) []string {
	have := make(map[string]struct{}, len(server))
	for _, item := range server {
		have[strings.TrimSpace(item)] = struct{}{}
	}

	var out []string
	for _, item := range local {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if _, ok := have[item]; ok {
			continue
		}
		have[item] = struct{}{}
		out = append(out, item)
	}

	return out
}

// Paginate normalizes page/limit query values and returns the row offset.
// Page defaults to 1 and is capped at MaxPage. Limit defaults to 20, capped
// at 100.
func Paginate(page, limit int) (int, int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit, (page - 1) * limit
}

// TotalPages returns how many pages of size limit cover total rows.
func TotalPages(total, limit int) int {
	if limit < 1 || total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
