package matches

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// csvHeader is the backup CSV column order. The CSV export is write-only;
// restores go through the JSON backup.
var csvHeader = []string{
	"date", "sport", "competition", "team1", "team2",
	"location", "score1", "score2", "reportSubmitted", "outcome", "notes",
}

func csvRecord(m Match) []string {
	return []string{
		m.Date,
		string(m.Sport),
		m.Competition,
		m.Team1,
		m.Team2,
		m.Location,
		m.Score1,
		m.Score2,
		strconv.FormatBool(m.ReportSubmitted),
		string(m.Outcome),
		m.Notes,
	}
}

// icsEscape escapes calendar text values per RFC 5545.
func icsEscape(s string) string {
	return strings.NewReplacer(
		"\\", "\\\\",
		",", "\\,",
		";", "\\;",
		"\n", "\\n",
	).Replace(s)
}

// writeICS renders every match as an all-day event so the season drops into a
// phone calendar. Matches without a parseable date are left out.
func writeICS(w io.Writer, list []Match, now time.Time) {
	fmt.Fprintln(w, "BEGIN:VCALENDAR")
	fmt.Fprintln(w, "VERSION:2.0")
	fmt.Fprintln(w, "PRODID:-//refbook//EN")
	fmt.Fprintln(w, "CALSCALE:GREGORIAN")

	stamp := now.UTC().Format("20060102T150405Z")
	for _, m := range list {
		day, err := time.Parse("2006-01-02", m.Date)
		if err != nil {
			continue
		}
		fmt.Fprintln(w, "BEGIN:VEVENT")
		fmt.Fprintf(w, "UID:match-%s@refbook\n", m.ID)
		fmt.Fprintf(w, "DTSTAMP:%s\n", stamp)
		fmt.Fprintf(w, "DTSTART;VALUE=DATE:%s\n", day.Format("20060102"))
		fmt.Fprintf(w, "SUMMARY:%s\n", icsEscape(m.Team1+" v "+m.Team2))
		if m.Location != "" {
			fmt.Fprintf(w, "LOCATION:%s\n", icsEscape(m.Location))
		}
		desc := m.Competition
		if m.Notes != "" {
			if desc != "" {
				desc += " / "
			}
			desc += m.Notes
		}
		if desc != "" {
			fmt.Fprintf(w, "DESCRIPTION:%s\n", icsEscape(desc))
		}
		fmt.Fprintln(w, "END:VEVENT")
	}
	fmt.Fprintln(w, "END:VCALENDAR")
}
