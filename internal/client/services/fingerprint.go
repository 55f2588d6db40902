package services

import (
	"net/url"
	"strconv"
	"strings"

	"paneldesk/internal/client/models"
)

// Fingerprint derives the canonical key of the effective query: committed
// search text, the filter set (order-independent) and pagination. Two states
// with the same semantic content fingerprint identically regardless of how
// they were built. Raw (unsettled) search text does not participate.
//
// The controller uses fingerprints both to suppress duplicate requests and to
// tag in-flight ones so stale responses can be discarded.
func Fingerprint(s models.QueryState) string {
	var b strings.Builder

	b.WriteString("q=")
	b.WriteString(url.QueryEscape(s.CommittedSearchText))

	for _, k := range s.Filters.Keys() {
		b.WriteString("|")
		b.WriteString(url.QueryEscape(k))
		b.WriteString("=")
		vals := s.Filters.Values(k)
		for i, v := range vals {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(url.QueryEscape(v))
		}
	}

	b.WriteString("|page=")
	b.WriteString(strconv.Itoa(s.Page))
	b.WriteString("|size=")
	b.WriteString(strconv.Itoa(s.PageSize))

	return b.String()
}
