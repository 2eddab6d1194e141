package matches

type Sport string

const (
	SportFootball Sport = "Football"
	SportHurling  Sport = "Hurling"
)

type Outcome string

const (
	OutcomeResult   Outcome = "Result"
	OutcomeGameOff  Outcome = "Game Off"
	OutcomeConceded Outcome = "Conceded"
	OutcomeFixture  Outcome = "Fixture"
)

// Match is one officiated or scheduled fixture. JSON tags match the persisted
// backup format, so exported files restore cleanly.
type Match struct {
	ID              string  `json:"id"`
	Sport           Sport   `json:"sport"`
	Date            string  `json:"date"` // YYYY-MM-DD, no time component
	Competition     string  `json:"competition"`
	Team1           string  `json:"team1"`
	Team2           string  `json:"team2"`
	Location        string  `json:"location,omitempty"`
	Score1          string  `json:"score1"`
	Score2          string  `json:"score2"`
	ReportSubmitted bool    `json:"reportSubmitted"`
	Outcome         Outcome `json:"outcome"`
	Notes           string  `json:"notes,omitempty"`
	CreatedAt       string  `json:"createdAt"` // RFC3339
}

// AdminRow is one row of the county admin sheet (columns A-L). It carries no
// identity of its own and lives only for the duration of one comparison.
type AdminRow struct {
	Date            string `json:"date"` // normalised to YYYY-MM-DD, "" if unparseable
	Competition     string `json:"competition"`
	Team1           string `json:"team1"`
	Team2           string `json:"team2"`
	Location        string `json:"location,omitempty"`
	Score1          string `json:"score1"`
	Score2          string `json:"score2"`
	ReportSubmitted bool   `json:"reportSubmitted"`
	GameCalledOff   string `json:"gameCalledOff,omitempty"`
	ReasonNotPlayed string `json:"reasonNotPlayed,omitempty"`
	Played          string `json:"played,omitempty"`
}

type ComparisonStatus string

const (
	StatusInBoth         ComparisonStatus = "in_both"
	StatusOnlyInYours    ComparisonStatus = "only_in_yours"
	StatusOnlyInAdmin    ComparisonStatus = "only_in_admin"
	StatusReportMismatch ComparisonStatus = "report_mismatch"
)

// ComparisonResult classifies one reconciled unit. Match and AdminRow are both
// set for in_both and report_mismatch; exactly one is set otherwise.
type ComparisonResult struct {
	Match                *Match           `json:"match"`
	AdminRow             *AdminRow        `json:"adminRow"`
	Status               ComparisonStatus `json:"status"`
	AdminReportSubmitted *bool            `json:"adminReportSubmitted,omitempty"`
}

// MatchUpdate is a partial update; nil fields keep their current value.
type MatchUpdate struct {
	Sport           *Sport   `json:"sport"`
	Date            *string  `json:"date"`
	Competition     *string  `json:"competition"`
	Team1           *string  `json:"team1"`
	Team2           *string  `json:"team2"`
	Location        *string  `json:"location"`
	Score1          *string  `json:"score1"`
	Score2          *string  `json:"score2"`
	ReportSubmitted *bool    `json:"reportSubmitted"`
	Outcome         *Outcome `json:"outcome"`
	Notes           *string  `json:"notes"`
}
