package matches

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Admin sheet columns: A=date, B=competition, C=team1, D=team2, E=location,
// F=score1, G=score2, H=report status, I unused, J=game called off, K=reason
// not played, L=played.

var (
	headerish     = regexp.MustCompile(`(?i)^(dates?|competition|team|report|played)`)
	ordinalSuffix = regexp.MustCompile(`(?i)(\d+)(st|nd|rd|th)\b`)
)

var sheetDateLayouts = []string{
	"2006-01-02",
	"2 January 2006",
	"2 January, 2006",
	"Monday 2 January 2006",
	"Monday 2 January, 2006",
	"Monday, 2 January 2006",
	"Monday, 2 January, 2006",
	"January 2, 2006",
	"January 2 2006",
	"02/01/2006",
	"2/1/2006",
}

// parseSheetDate turns spellings like "Monday 18th March, 2024" into
// YYYY-MM-DD. Anything unparseable becomes the empty string, which can never
// match a logged date.
func parseSheetDate(s string) string {
	s = strings.TrimSpace(ordinalSuffix.ReplaceAllString(s, "$1"))
	if s == "" {
		return ""
	}
	for _, layout := range sheetDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}

// ParseAdminSheet extracts rows from the first sheet of the admin workbook.
// Rows with no teams and no competition are skipped, as are header rows.
func ParseAdminSheet(r io.Reader) ([]AdminRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	var out []AdminRow
	for _, row := range rows {
		cell := func(i int) string {
			if i < len(row) {
				return strings.TrimSpace(row[i])
			}
			return ""
		}
		dateRaw := cell(0)
		competition := cell(1)
		team1, team2 := cell(2), cell(3)
		if team1 == "" && team2 == "" && competition == "" {
			continue
		}
		probe := dateRaw
		if probe == "" {
			probe = competition
		}
		if headerish.MatchString(probe) {
			continue
		}
		out = append(out, AdminRow{
			Date:            parseSheetDate(dateRaw),
			Competition:     competition,
			Team1:           team1,
			Team2:           team2,
			Location:        cell(4),
			Score1:          cell(5),
			Score2:          cell(6),
			ReportSubmitted: strings.Contains(strings.ToLower(cell(7)), "submitted"),
			GameCalledOff:   cell(9),
			ReasonNotPlayed: cell(10),
			Played:          cell(11),
		})
	}
	return out, nil
}
