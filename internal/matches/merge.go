package matches

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidBackup is returned when a restore payload is not a JSON array.
// The caller surfaces it and leaves the store untouched.
var ErrInvalidBackup = errors.New("invalid backup file")

// MergeResult is what a restore reports back to the user.
type MergeResult struct {
	Merged  []Match `json:"-"`
	Added   int     `json:"added"`
	Skipped int     `json:"skipped"`
}

// matchKey identifies a match for merging. Team order matters here, unlike in
// the comparator; flipping that would silently collapse records the app has
// always treated as distinct.
func matchKey(m Match) string {
	return strings.TrimSpace(m.Date) + "|" +
		strings.ToLower(strings.TrimSpace(m.Team1)) + "|" +
		strings.ToLower(strings.TrimSpace(m.Team2))
}

func validSport(s Sport) bool {
	return s == SportFootball || s == SportHurling
}

func validOutcome(o Outcome) bool {
	switch o {
	case OutcomeResult, OutcomeGameOff, OutcomeConceded, OutcomeFixture:
		return true
	}
	return false
}

// ensureMatch repairs a record so nothing malformed survives a merge: unknown
// enum values, blank ids and missing timestamps all get defaults.
func ensureMatch(m Match) Match {
	if !validSport(m.Sport) {
		m.Sport = SportFootball
	}
	if !validOutcome(m.Outcome) {
		m.Outcome = OutcomeResult
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.CreatedAt == "" {
		m.CreatedAt = time.Now().Format(time.RFC3339)
	}
	return m
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func strOr(v any, def string) string {
	if s, ok := v.(string); ok {
		return s
	}
	return def
}

// truthy mirrors how the persisted format treats loosely-typed report flags:
// absent, false, zero and "" are false, anything else is true.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	}
	return true
}

// fromRaw coerces one untrusted backup element into a Match, or reports that
// it is unusable. Only the identity fields are required: a date plus at least
// one team name.
func fromRaw(raw any) (Match, bool) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return Match{}, false
	}
	m := Match{
		ID:              str(obj["id"]),
		Sport:           Sport(str(obj["sport"])),
		Date:            str(obj["date"]),
		Competition:     str(obj["competition"]),
		Team1:           str(obj["team1"]),
		Team2:           str(obj["team2"]),
		Location:        str(obj["location"]),
		Score1:          strOr(obj["score1"], "–"),
		Score2:          strOr(obj["score2"], "–"),
		ReportSubmitted: truthy(obj["reportSubmitted"]),
		Outcome:         Outcome(str(obj["outcome"])),
		Notes:           str(obj["notes"]),
		CreatedAt:       str(obj["createdAt"]),
	}
	if strings.TrimSpace(m.Date) == "" {
		return Match{}, false
	}
	if strings.TrimSpace(m.Team1) == "" && strings.TrimSpace(m.Team2) == "" {
		return Match{}, false
	}
	return ensureMatch(m), true
}

// prefer reports whether the incoming record should replace the existing one
// under the same key: a submitted report always wins, otherwise the newer or
// equally-new createdAt does.
func prefer(incoming, existing Match) bool {
	if incoming.ReportSubmitted != existing.ReportSubmitted {
		return incoming.ReportSubmitted
	}
	return incoming.CreatedAt >= existing.CreatedAt
}

func sortByDateDesc(list []Match) {
	sort.SliceStable(list, func(i, j int) bool { return list[i].Date > list[j].Date })
}

// MergeMatches folds a decoded backup payload into the current collection and
// returns the new authoritative collection plus counts. Elements that are not
// record-shaped are dropped without touching either counter. The merge is
// pure; the caller decides whether to persist the result.
func MergeMatches(current []Match, fromFile any) (MergeResult, error) {
	external, ok := fromFile.([]any)
	if !ok {
		return MergeResult{}, ErrInvalidBackup
	}

	// Current records enter the index first and keep their slot on replace,
	// so records sharing a date come out in a stable, predictable order.
	order := make([]string, 0, len(current))
	byKey := make(map[string]Match, len(current))
	put := func(m Match) {
		key := matchKey(m)
		if _, seen := byKey[key]; !seen {
			order = append(order, key)
		}
		byKey[key] = m
	}
	for _, m := range current {
		put(ensureMatch(m))
	}

	var res MergeResult
	for _, raw := range external {
		m, ok := fromRaw(raw)
		if !ok {
			continue
		}
		existing, found := byKey[matchKey(m)]
		switch {
		case !found:
			put(m)
			res.Added++
		case prefer(m, existing):
			put(m)
			res.Added++
		default:
			res.Skipped++
		}
	}

	merged := make([]Match, 0, len(order))
	for _, key := range order {
		merged = append(merged, ensureMatch(byKey[key]))
	}
	sortByDateDesc(merged)
	res.Merged = merged
	return res, nil
}
