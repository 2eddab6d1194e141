package matches

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*gin.Engine, *Repository) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	repo := newTestRepo(t)
	r := gin.New()
	RegisterRoutes(r, repo, zerolog.Nop())
	return r, repo
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func uploadFile(t *testing.T, r *gin.Engine, path, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMatchesCRUD(t *testing.T) {
	r, _ := newTestServer(t)

	w := doJSON(t, r, http.MethodPost, "/api/matches", gin.H{
		"sport": "Hurling", "date": "2024-03-18", "team1": "A", "team2": "B",
		"competition": "Senior Championship", "outcome": "Result",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created Match
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, SportHurling, created.Sport)

	w = doJSON(t, r, http.MethodPost, "/api/matches", gin.H{"team1": "A"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/matches", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []Match
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	w = doJSON(t, r, http.MethodPatch, "/api/matches/"+created.ID, gin.H{"reportSubmitted": true})
	require.Equal(t, http.StatusOK, w.Code)

	// A match with a submitted report is no longer pending.
	w = doJSON(t, r, http.MethodGet, "/api/matches?pending=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Empty(t, list)

	w = doJSON(t, r, http.MethodDelete, "/api/matches/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = doJSON(t, r, http.MethodDelete, "/api/matches/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPendingFilter(t *testing.T) {
	r, repo := newTestServer(t)
	ctx := context.Background()

	_, err := repo.Add(ctx, Match{Date: "2024-03-18", Team1: "A", Team2: "B", Outcome: OutcomeResult})
	require.NoError(t, err)
	_, err = repo.Add(ctx, Match{Date: "2024-03-19", Team1: "C", Team2: "D", Outcome: OutcomeGameOff})
	require.NoError(t, err)
	_, err = repo.Add(ctx, Match{Date: "2024-03-20", Team1: "E", Team2: "F", Outcome: OutcomeResult, ReportSubmitted: true})
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodGet, "/api/matches?pending=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []Match
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "A", list[0].Team1)
}

func TestCompareEndpoint(t *testing.T) {
	r, repo := newTestServer(t)

	_, err := repo.Add(context.Background(), Match{
		Date: "2024-03-18", Team1: "St Marys", Team2: "Round Towers",
		Outcome: OutcomeResult, ReportSubmitted: true,
	})
	require.NoError(t, err)

	sheet := buildSheet(t, [][]any{
		{"Date", "Competition", "Team 1", "Team 2"},
		{"18th March, 2024", "Senior Championship", "round towers", "ST MARYS", "", "1(12)", "0(9)", "outstanding"},
		{"1st April, 2024", "Junior League", "Cuala", "Na Fianna", "", "", "", "Submitted"},
	})

	w := uploadFile(t, r, "/api/matches/compare", "admin.xlsx", sheet.Bytes())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var results []ComparisonResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &results))
	require.Len(t, results, 2)
	assert.Equal(t, StatusReportMismatch, results[0].Status)
	assert.Equal(t, StatusOnlyInAdmin, results[1].Status)
}

func TestCompareEndpoint_BadWorkbook(t *testing.T) {
	r, _ := newTestServer(t)
	w := uploadFile(t, r, "/api/matches/compare", "admin.xlsx", []byte("this is not a workbook"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRestoreEndpoint(t *testing.T) {
	r, repo := newTestServer(t)
	ctx := context.Background()

	_, err := repo.Add(ctx, Match{Date: "2024-03-18", Team1: "A", Team2: "B", Outcome: OutcomeResult})
	require.NoError(t, err)

	backup := `[
		{"date":"2024-05-01","team1":"C","team2":"D","sport":"Hurling","outcome":"Fixture"},
		{"date":"","team1":"ignored"},
		{}
	]`
	w := uploadFile(t, r, "/api/matches/restore", "backup.json", []byte(backup))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res struct {
		Added   int `json:"added"`
		Skipped int `json:"skipped"`
		Total   int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, 1, res.Added)
	assert.Equal(t, 0, res.Skipped)
	assert.Equal(t, 2, res.Total)

	list, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "2024-05-01", list[0].Date) // newest first
}

func TestRestoreEndpoint_InvalidPayloadLeavesStoreUntouched(t *testing.T) {
	r, repo := newTestServer(t)
	ctx := context.Background()

	_, err := repo.Add(ctx, Match{Date: "2024-03-18", Team1: "A", Team2: "B", Outcome: OutcomeResult})
	require.NoError(t, err)

	// Valid JSON, wrong shape.
	w := uploadFile(t, r, "/api/matches/restore", "backup.json", []byte(`{"oops":true}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Not JSON at all.
	w = uploadFile(t, r, "/api/matches/restore", "backup.json", []byte("garbage"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	list, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCSVExport(t *testing.T) {
	r, repo := newTestServer(t)

	_, err := repo.Add(context.Background(), Match{
		Date: "2024-03-18", Team1: "A", Team2: "B",
		Outcome: OutcomeResult, Score1: "1(12)", Score2: "no score",
	})
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodGet, "/api/matches.csv", nil)
	require.Equal(t, http.StatusOK, w.Code)
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "date,sport,competition,team1,team2,location,score1,score2,reportSubmitted,outcome,notes", strings.TrimSpace(lines[0]))
	assert.Contains(t, lines[1], "1(12)")
}

func TestJSONExportRoundTripsThroughRestore(t *testing.T) {
	r, repo := newTestServer(t)

	_, err := repo.Add(context.Background(), Match{
		Date: "2024-03-18", Team1: "A", Team2: "B",
		Competition: "Senior Championship", Outcome: OutcomeResult,
		Score1: "2(8)", Score2: "1(10)", ReportSubmitted: true,
	})
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodGet, "/api/matches.json", nil)
	require.Equal(t, http.StatusOK, w.Code)
	exported := w.Body.Bytes()

	// Restoring the export over the same store changes nothing material.
	w = uploadFile(t, r, "/api/matches/restore", "backup.json", exported)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	list, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Senior Championship", list[0].Competition)
	assert.Equal(t, "2(8)", list[0].Score1)
	assert.True(t, list[0].ReportSubmitted)
}
