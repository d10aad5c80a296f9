package groups

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/odyssey-erp/admin-console/internal/apiclient"
)

// FilterGroups keeps the groups whose name or description contains term,
// ignoring case. An empty term keeps everything.
func FilterGroups(all []apiclient.Group, term string) []apiclient.Group {
	lower := cases.Lower(language.Und)
	needle := lower.String(term)

	out := make([]apiclient.Group, 0, len(all))
	for _, g := range all {
		if needle == "" ||
			strings.Contains(lower.String(g.Name), needle) ||
			(g.Description != "" && strings.Contains(lower.String(g.Description), needle)) {
			out = append(out, g)
		}
	}
	return out
}
