package matches

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// storageKey is the single well-known key the whole collection lives under.
const storageKey = "gaa-referee-matches"

type kvEntry struct {
	Key   string `gorm:"primaryKey;column:key"`
	Value string `gorm:"column:value"`
}

func (kvEntry) TableName() string { return "kv" }

// Migrate creates the backing key-value table.
func Migrate(d *gorm.DB) error {
	return d.AutoMigrate(&kvEntry{})
}

// Repository persists the match collection as one JSON array under
// storageKey. Every mutation is a wholesale read-modify-write; there is
// exactly one writer.
type Repository struct {
	db *gorm.DB
}

func NewRepository(d *gorm.DB) *Repository { return &Repository{db: d} }

// Load returns the full collection. A missing or unreadable blob loads as an
// empty collection; the next save overwrites it.
func (r *Repository) Load(ctx context.Context) ([]Match, error) {
	var entry kvEntry
	err := r.db.WithContext(ctx).First(&entry, "key = ?", storageKey).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []Match{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load matches: %w", err)
	}
	var list []Match
	if err := json.Unmarshal([]byte(entry.Value), &list); err != nil || list == nil {
		return []Match{}, nil
	}
	return list, nil
}

// Save replaces the stored collection.
func (r *Repository) Save(ctx context.Context, list []Match) error {
	if list == nil {
		list = []Match{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode matches: %w", err)
	}
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&kvEntry{Key: storageKey, Value: string(b)}).Error
	if err != nil {
		return fmt.Errorf("save matches: %w", err)
	}
	return nil
}

// Add assigns the identity fields and keeps the collection sorted newest
// fixture first.
func (r *Repository) Add(ctx context.Context, m Match) (Match, error) {
	list, err := r.Load(ctx)
	if err != nil {
		return Match{}, err
	}
	m.ID = uuid.NewString()
	m.CreatedAt = time.Now().Format(time.RFC3339)
	list = append(list, m)
	sortByDateDesc(list)
	if err := r.Save(ctx, list); err != nil {
		return Match{}, err
	}
	return m, nil
}

// Get returns the match with the given id, if present.
func (r *Repository) Get(ctx context.Context, id string) (Match, bool, error) {
	list, err := r.Load(ctx)
	if err != nil {
		return Match{}, false, err
	}
	for _, m := range list {
		if m.ID == id {
			return m, true, nil
		}
	}
	return Match{}, false, nil
}

// Update applies the non-nil fields of upd to the match with the given id.
// The second return value is false when no such match exists.
func (r *Repository) Update(ctx context.Context, id string, upd MatchUpdate) (Match, bool, error) {
	list, err := r.Load(ctx)
	if err != nil {
		return Match{}, false, err
	}
	for i := range list {
		if list[i].ID != id {
			continue
		}
		applyUpdate(&list[i], upd)
		if err := r.Save(ctx, list); err != nil {
			return Match{}, false, err
		}
		return list[i], true, nil
	}
	return Match{}, false, nil
}

func applyUpdate(m *Match, upd MatchUpdate) {
	if upd.Sport != nil {
		m.Sport = *upd.Sport
	}
	if upd.Date != nil {
		m.Date = *upd.Date
	}
	if upd.Competition != nil {
		m.Competition = *upd.Competition
	}
	if upd.Team1 != nil {
		m.Team1 = *upd.Team1
	}
	if upd.Team2 != nil {
		m.Team2 = *upd.Team2
	}
	if upd.Location != nil {
		m.Location = *upd.Location
	}
	if upd.Score1 != nil {
		m.Score1 = *upd.Score1
	}
	if upd.Score2 != nil {
		m.Score2 = *upd.Score2
	}
	if upd.ReportSubmitted != nil {
		m.ReportSubmitted = *upd.ReportSubmitted
	}
	if upd.Outcome != nil {
		m.Outcome = *upd.Outcome
	}
	if upd.Notes != nil {
		m.Notes = *upd.Notes
	}
}

// Delete removes the match with the given id and reports whether it existed.
func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	list, err := r.Load(ctx)
	if err != nil {
		return false, err
	}
	kept := list[:0]
	for _, m := range list {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	if len(kept) == len(list) {
		return false, nil
	}
	if err := r.Save(ctx, kept); err != nil {
		return false, err
	}
	return true, nil
}

// Competitions returns the distinct non-empty competition names, sorted.
func (r *Repository) Competitions(ctx context.Context) ([]string, error) {
	list, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	out := []string{}
	for _, m := range list {
		if m.Competition != "" && !seen[m.Competition] {
			seen[m.Competition] = true
			out = append(out, m.Competition)
		}
	}
	sort.Strings(out)
	return out, nil
}
