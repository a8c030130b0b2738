// internal/app/system/search/search.go
package search

import (
	"strings"

	"github.com/dalemusser/syncadmin/internal/domain/models"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Normalize trims a query and collapses inner whitespace.
func Normalize(q string) string {
	return strings.Join(strings.Fields(q), " ")
}

// FilterUsers keeps the users whose username fuzzily matches q,
// case-insensitively, in their original order. An empty query keeps all.
//
// "jsm" matches "john.smith"; characters must appear in order but need not
// be adjacent.
func FilterUsers(users []models.User, q string) []models.User {
	q = strings.ReplaceAll(Normalize(q), " ", "")
	if q == "" {
		return users
	}
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		if fuzzy.MatchFold(q, u.Username) {
			out = append(out, u)
		}
	}
	return out
}
