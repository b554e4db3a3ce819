package usecase

import (
	"log"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// DefaultPageLimit is the page size used when the caller sends no
// usable limit on the faceted listing endpoint.
const DefaultPageLimit = 100

// AllValues is the sentinel meaning "do not filter on this field".
const AllValues = "All"

const defaultSortField = "title"

var yearRangeRx = regexp.MustCompile(`^\d{4}-\d{4}$`)

// ParseListParams normalizes the raw query parameters of the faceted
// listing endpoint. Fields are evaluated independently; malformed
// values fall back to their defaults instead of erroring.
func ParseListParams(q url.Values) ListParams {
	return ListParams{
		Limit:  positiveInt(q.Get("limit"), DefaultPageLimit),
		Offset: nonNegativeInt(q.Get("offset"), 0),
		Sort:   parseSort(q.Get("sort")),
		Filter: BookFilter{
			Search:  q.Get("search"),
			Genres:  splitValues(q.Get("genre"), true),
			Authors: splitValues(q.Get("author"), false),
			Titles:  splitValues(q.Get("title"), false),
			Years:   parseYearRange(q.Get("publicationDate")),
		},
	}
}

// ParseListAllParams normalizes the parameters of the light listing
// endpoint. Unlike ParseListParams there is no default limit: an
// absent or unusable limit means the result is not capped.
func ParseListAllParams(q url.Values) ListParams {
	return ListParams{
		Limit:  nonNegativeInt(q.Get("limit"), 0),
		Offset: nonNegativeInt(q.Get("offset"), 0),
		Filter: BookFilter{
			Search: q.Get("search"),
			Titles: splitValues(q.Get("title"), false),
		},
	}
}

// splitValues turns a comma-separated parameter into a trimmed value
// set. An empty value means no constraint; when allSentinel is set the
// literal "All" does too.
func splitValues(raw string, allSentinel bool) []string {
	if raw == "" {
		return nil
	}
	if allSentinel && raw == AllValues {
		return nil
	}
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		values = append(values, strings.TrimSpace(p))
	}
	return values
}

// parseSort reads a "field,direction" pair. Direction defaults to
// ascending when omitted or unrecognized.
func parseSort(raw string) BookSort {
	if raw == "" {
		return BookSort{Field: defaultSortField}
	}
	parts := strings.Split(raw, ",")
	s := BookSort{Field: strings.TrimSpace(parts[0])}
	if s.Field == "" {
		s.Field = defaultSortField
	}
	if len(parts) > 1 && strings.EqualFold(strings.TrimSpace(parts[1]), "desc") {
		s.Desc = true
	}
	return s
}

// parseYearRange reads a "YYYY-YYYY" inclusive range. The sentinel
// "All" and the empty string mean no range; anything else is logged as
// invalid and ignored rather than rejected.
func parseYearRange(raw string) *YearRange {
	if raw == "" || raw == AllValues {
		return nil
	}
	if !yearRangeRx.MatchString(raw) {
		log.Printf("listing: invalid publicationDate filter %q ignored", raw)
		return nil
	}
	bounds := strings.SplitN(raw, "-", 2)
	from, _ := strconv.Atoi(bounds[0])
	to, _ := strconv.Atoi(bounds[1])
	return &YearRange{From: from, To: to}
}

func positiveInt(raw string, def int) int {
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func nonNegativeInt(raw string, def int) int {
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	return v
}
