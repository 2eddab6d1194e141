package matches

import "strings"

// normTeam lower-cases a team name and collapses whitespace runs, so the
// admin's "  Naomh   Conaill " and a logged "naomh conaill" compare equal.
func normTeam(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// sameFixture reports whether a logged match and an admin row denote the same
// fixture: identical calendar date and the same pair of teams in either
// order. An admin row whose date failed to parse carries "" and never
// matches.
func sameFixture(m Match, a AdminRow) bool {
	if m.Date != a.Date {
		return false
	}
	straight := normTeam(m.Team1) == normTeam(a.Team1) && normTeam(m.Team2) == normTeam(a.Team2)
	swapped := normTeam(m.Team1) == normTeam(a.Team2) && normTeam(m.Team2) == normTeam(a.Team1)
	return straight || swapped
}

// CompareWithAdmin reconciles the referee's log against the admin sheet and
// classifies every match and every row exactly once. Pairing is greedy: each
// logged match, in order, claims the first still-unclaimed admin row that
// denotes the same fixture.
func CompareWithAdmin(yours []Match, adminRows []AdminRow) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(yours))
	used := make(map[int]bool, len(adminRows))

	for i := range yours {
		m := yours[i]
		idx := -1
		for j := range adminRows {
			if !used[j] && sameFixture(m, adminRows[j]) {
				idx = j
				break
			}
		}
		if idx == -1 {
			results = append(results, ComparisonResult{Match: &yours[i], Status: StatusOnlyInYours})
			continue
		}
		used[idx] = true
		row := &adminRows[idx]
		status := StatusInBoth
		if m.Outcome == OutcomeResult && m.ReportSubmitted != row.ReportSubmitted {
			status = StatusReportMismatch
		}
		submitted := row.ReportSubmitted
		results = append(results, ComparisonResult{
			Match:                &yours[i],
			AdminRow:             row,
			Status:               status,
			AdminReportSubmitted: &submitted,
		})
	}

	// A leftover row only counts as missing locally when no logged match fits
	// it at all. A row that merely lost the greedy race to a structural twin
	// stays quiet, otherwise every duplicate fixture would show up as a
	// spurious only_in_admin.
	for j := range adminRows {
		if used[j] {
			continue
		}
		matched := false
		for i := range yours {
			if sameFixture(yours[i], adminRows[j]) {
				matched = true
				break
			}
		}
		if !matched {
			results = append(results, ComparisonResult{AdminRow: &adminRows[j], Status: StatusOnlyInAdmin})
		}
	}

	return results
}
