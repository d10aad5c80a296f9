package users

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/odyssey-erp/admin-console/internal/apiclient"
)

// FilterUsers returns the users matching every non-empty predicate of f, in
// snapshot order. It never mutates all.
func FilterUsers(all []apiclient.User, f Filter) []apiclient.User {
	lower := cases.Lower(language.Und)
	term := lower.String(f.Search)

	out := make([]apiclient.User, 0, len(all))
	for _, u := range all {
		if !matchesSearch(u, term, lower) {
			continue
		}
		if !matchesStatus(u, f.Status) || !matchesRole(u, f.Role) {
			continue
		}
		out = append(out, u)
	}
	return out
}

func matchesSearch(u apiclient.User, term string, lower cases.Caser) bool {
	if term == "" {
		return true
	}
	return strings.Contains(lower.String(u.Username), term) || strings.Contains(lower.String(u.Email), term)
}

func matchesStatus(u apiclient.User, status string) bool {
	switch status {
	case "":
		return true
	case StatusActive:
		return u.IsActive
	case StatusInactive:
		return !u.IsActive
	default:
		return false
	}
}

func matchesRole(u apiclient.User, role string) bool {
	switch role {
	case "":
		return true
	case RoleAdmin:
		return u.IsAdmin
	case RoleRegular:
		return !u.IsAdmin
	default:
		return false
	}
}
