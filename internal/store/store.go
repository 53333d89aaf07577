// Package store persists saved ROI scenarios in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Simplici0/councilroi/internal/pricing"
	"github.com/Simplici0/councilroi/internal/roi"
)

var (
	// ErrNotFound is returned when no scenario has the requested id.
	ErrNotFound = errors.New("scenario not found")
	// ErrTitleRequired is returned when a scenario is saved without a title.
	ErrTitleRequired = errors.New("scenario title is required")
)

// Fixed width so text ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Scenario is a saved report with its metadata.
type Scenario struct {
	ID        string     `json:"id"`
	CreatedAt time.Time  `json:"createdAt"`
	Title     string     `json:"title"`
	Notes     string     `json:"notes"`
	Report    roi.Report `json:"report"`
}

// Summary is a scenario as shown in a list.
type Summary struct {
	ID                  string       `json:"id"`
	CreatedAt           time.Time    `json:"createdAt"`
	Title               string       `json:"title"`
	Notes               string       `json:"notes"`
	Tier                pricing.Tier `json:"tier"`
	ApplicationsPerYear int          `json:"applicationsPerYear"`
	NetAnnualBenefit    int64        `json:"netAnnualBenefit"`
	ROIPercentage       int64        `json:"roiPercentage"`
}

// Store reads and writes scenarios.
type Store struct {
	db    *sql.DB
	now   func() time.Time
	newID func() string
}

// New returns a Store over an already migrated database.
func New(db *sql.DB) *Store {
	return &Store{
		db:    db,
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}
}

// Save stores report under a new id.
func (s *Store) Save(ctx context.Context, title, notes string, report roi.Report) (Scenario, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Scenario{}, ErrTitleRequired
	}

	reportJSON, err := json.Marshal(report)
	if err != nil {
		return Scenario{}, fmt.Errorf("encode report: %w", err)
	}

	sc := Scenario{
		ID:        s.newID(),
		CreatedAt: s.now().UTC(),
		Title:     title,
		Notes:     strings.TrimSpace(notes),
		Report:    report,
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO scenarios (
			id, created_at, title, notes, tier, applications_per_year,
			net_annual_benefit, roi_percentage, report_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		sc.ID, sc.CreatedAt.Format(timeLayout), sc.Title, sc.Notes, string(report.Tier),
		report.Inputs.ApplicationsPerYear, report.Summary.NetAnnualBenefit, report.Summary.ROIPercentage,
		string(reportJSON),
	)
	if err != nil {
		return Scenario{}, fmt.Errorf("insert scenario: %w", err)
	}

	return sc, nil
}

// Get loads one scenario. A missing id returns ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (Scenario, error) {
	var (
		sc         Scenario
		createdAt  string
		reportJSON string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, title, notes, report_json
		FROM scenarios
		WHERE id = ?
	`, id).Scan(&sc.ID, &createdAt, &sc.Title, &sc.Notes, &reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return Scenario{}, ErrNotFound
	}
	if err != nil {
		return Scenario{}, fmt.Errorf("query scenario %s: %w", id, err)
	}

	if sc.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return Scenario{}, fmt.Errorf("parse scenario %s created_at: %w", id, err)
	}
	if err := json.Unmarshal([]byte(reportJSON), &sc.Report); err != nil {
		return Scenario{}, fmt.Errorf("decode scenario %s report: %w", id, err)
	}
	return sc, nil
}

// List returns scenarios newest first. A non-empty query keeps those whose title
// or notes contain it.
func (s *Store) List(ctx context.Context, query string) ([]Summary, error) {
	query = strings.TrimSpace(query)
	search := "%" + query + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			id, created_at, title, notes, tier, applications_per_year,
			net_annual_benefit, roi_percentage
		FROM scenarios
		WHERE (? = '' OR title LIKE ? OR notes LIKE ?)
		ORDER BY created_at DESC, id DESC
	`, query, search, search)
	if err != nil {
		return nil, fmt.Errorf("query scenarios: %w", err)
	}
	defer rows.Close()

	out := make([]Summary, 0)
	for rows.Next() {
		var (
			item      Summary
			createdAt string
			tier      string
		)
		if err := rows.Scan(
			&item.ID, &createdAt, &item.Title, &item.Notes, &tier,
			&item.ApplicationsPerYear, &item.NetAnnualBenefit, &item.ROIPercentage,
		); err != nil {
			return nil, fmt.Errorf("scan scenario: %w", err)
		}
		if item.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
			return nil, fmt.Errorf("parse scenario %s created_at: %w", item.ID, err)
		}
		item.Tier = pricing.Tier(tier)
		out = append(out, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scenarios: %w", err)
	}
	return out, nil
}

// TitleExists reports whether any scenario already uses title.
func (s *Store) TitleExists(ctx context.Context, title string) (bool, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM scenarios WHERE title = ? LIMIT 1)`, title).Scan(&exists); err != nil {
		return false, fmt.Errorf("check scenario title: %w", err)
	}
	return exists, nil
}
