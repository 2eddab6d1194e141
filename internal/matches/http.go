package matches

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// uploadLimit caps admin sheet and backup uploads.
const uploadLimit = 10 << 20

type createReq struct {
	Sport           Sport   `json:"sport"`
	Date            string  `json:"date"`
	Competition     string  `json:"competition"`
	Team1           string  `json:"team1"`
	Team2           string  `json:"team2"`
	Location        string  `json:"location"`
	Score1          string  `json:"score1"`
	Score2          string  `json:"score2"`
	ReportSubmitted bool    `json:"reportSubmitted"`
	Outcome         Outcome `json:"outcome"`
	Notes           string  `json:"notes"`
}

// RegisterRoutes wires the JSON API the views talk to.
func RegisterRoutes(r *gin.Engine, repo *Repository, logger zerolog.Logger) {
	api := r.Group("/api")
	{
		api.GET("/matches", func(c *gin.Context) {
			list, err := repo.Load(c.Request.Context())
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			if c.Query("pending") != "" {
				pending := []Match{}
				for _, m := range list {
					if m.Outcome == OutcomeResult && !m.ReportSubmitted {
						pending = append(pending, m)
					}
				}
				list = pending
			}
			c.JSON(http.StatusOK, list)
		})

		api.GET("/matches/:id", func(c *gin.Context) {
			m, ok, err := repo.Get(c.Request.Context(), c.Param("id"))
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			if !ok {
				c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
				return
			}
			c.JSON(http.StatusOK, m)
		})

		api.POST("/matches", func(c *gin.Context) {
			var req createReq
			if err := c.BindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "bad json"})
				return
			}
			if req.Date == "" || req.Team1 == "" || req.Team2 == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "date, team1 and team2 are required"})
				return
			}
			m := ensureMatch(Match{
				Sport:           req.Sport,
				Date:            req.Date,
				Competition:     req.Competition,
				Team1:           req.Team1,
				Team2:           req.Team2,
				Location:        req.Location,
				Score1:          req.Score1,
				Score2:          req.Score2,
				ReportSubmitted: req.ReportSubmitted,
				Outcome:         req.Outcome,
				Notes:           req.Notes,
			})
			saved, err := repo.Add(c.Request.Context(), m)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusCreated, saved)
		})

		api.PATCH("/matches/:id", func(c *gin.Context) {
			var upd MatchUpdate
			if err := c.BindJSON(&upd); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "bad json"})
				return
			}
			m, ok, err := repo.Update(c.Request.Context(), c.Param("id"), upd)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			if !ok {
				c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
				return
			}
			c.JSON(http.StatusOK, m)
		})

		api.DELETE("/matches/:id", func(c *gin.Context) {
			ok, err := repo.Delete(c.Request.Context(), c.Param("id"))
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			if !ok {
				c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
				return
			}
			c.Status(http.StatusNoContent)
		})

		api.GET("/competitions", func(c *gin.Context) {
			names, err := repo.Competitions(c.Request.Context())
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, names)
		})

		// Reconcile the log against an uploaded admin sheet. Read-only: the
		// result is a classification, never a mutation.
		api.POST("/matches/compare", func(c *gin.Context) {
			fh, err := c.FormFile("file")
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "missing file"})
				return
			}
			file, err := fh.Open()
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			defer file.Close()

			rows, err := ParseAdminSheet(io.LimitReader(file, uploadLimit))
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "could not read admin sheet"})
				return
			}
			yours, err := repo.Load(c.Request.Context())
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			results := CompareWithAdmin(yours, rows)
			logger.Info().
				Int("matches", len(yours)).
				Int("admin_rows", len(rows)).
				Int("results", len(results)).
				Msg("compared against admin sheet")
			c.JSON(http.StatusOK, results)
		})

		// Merge an uploaded JSON backup into the store.
		api.POST("/matches/restore", func(c *gin.Context) {
			fh, err := c.FormFile("file")
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "missing file"})
				return
			}
			file, err := fh.Open()
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			defer file.Close()

			b, err := io.ReadAll(io.LimitReader(file, uploadLimit))
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var payload any
			if err := json.Unmarshal(b, &payload); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "could not read backup file"})
				return
			}
			current, err := repo.Load(c.Request.Context())
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			res, err := MergeMatches(current, payload)
			if err != nil {
				if errors.Is(err, ErrInvalidBackup) {
					c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
					return
				}
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			if err := repo.Save(c.Request.Context(), res.Merged); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			logger.Info().
				Int("added", res.Added).
				Int("skipped", res.Skipped).
				Int("total", len(res.Merged)).
				Msg("restored backup")
			c.JSON(http.StatusOK, gin.H{"added": res.Added, "skipped": res.Skipped, "total": len(res.Merged)})
		})

		// CSV export of the full log.
		api.GET("/matches.csv", func(c *gin.Context) {
			list, err := repo.Load(c.Request.Context())
			if err != nil {
				c.String(http.StatusInternalServerError, err.Error())
				return
			}
			filename := fmt.Sprintf("referee-matches-%s.csv", time.Now().Format("2006-01-02"))
			c.Header("Content-Type", "text/csv; charset=utf-8")
			c.Header("Content-Disposition", "attachment; filename="+filename)

			w := csv.NewWriter(c.Writer)
			_ = w.Write(csvHeader)
			for _, m := range list {
				_ = w.Write(csvRecord(m))
			}
			w.Flush()
			if err := w.Error(); err != nil {
				c.String(http.StatusInternalServerError, err.Error())
			}
		})

		// JSON backup export, the verbatim persisted array.
		api.GET("/matches.json", func(c *gin.Context) {
			list, err := repo.Load(c.Request.Context())
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			filename := fmt.Sprintf("referee-matches-%s.json", time.Now().Format("2006-01-02"))
			c.Header("Content-Disposition", "attachment; filename="+filename)
			c.JSON(http.StatusOK, list)
		})

		// iCal export of all fixtures.
		api.GET("/matches.ics", func(c *gin.Context) {
			list, err := repo.Load(c.Request.Context())
			if err != nil {
				c.String(http.StatusInternalServerError, err.Error())
				return
			}
			c.Header("Content-Type", "text/calendar; charset=utf-8")
			c.Header("Content-Disposition", "attachment; filename=matches.ics")
			writeICS(c.Writer, list, time.Now())
		})
	}
}
