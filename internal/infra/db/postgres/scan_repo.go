package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	domain "github.com/adwatch/adscan/internal/domain/scans"
)

type ScanRepository struct{ db *sql.DB }

func NewScanRepository(db *sql.DB) *ScanRepository { return &ScanRepository{db: db} }

// Create inserts the scan and fills in the assigned id. The violations and
// recommendations columns are jsonb so the structured shape round-trips
// without a secondary parse step downstream.
func (r *ScanRepository) Create(ctx context.Context, s *domain.Scan) error {
	const q = `
INSERT INTO ad_scans
(user_id, ad_copy, image_name, image_url,
 compliance_score, risk_level, violations, recommendations, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
RETURNING id;`

	violations := s.Violations
	if violations == nil {
		violations = []domain.Violation{}
	}
	recommendations := s.Recommendations
	if recommendations == nil {
		recommendations = []string{}
	}
	vb, err := json.Marshal(violations)
	if err != nil {
		return fmt.Errorf("encoding violations: %w", err)
	}
	rb, err := json.Marshal(recommendations)
	if err != nil {
		return fmt.Errorf("encoding recommendations: %w", err)
	}
	created := s.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}

	var id int64
	if err := r.db.QueryRowContext(ctx, q,
		s.UserID, s.AdCopy, s.ImageName, s.ImageURL,
		s.ComplianceScore, string(s.RiskLevel), vb, rb, created,
	).Scan(&id); err != nil {
		return err
	}
	s.ID = domain.ScanID(id)
	s.CreatedAt = created
	return nil
}

// Get by ID
func (r *ScanRepository) Get(ctx context.Context, id domain.ScanID) (*domain.Scan, error) {
	const q = `
SELECT id, user_id, ad_copy, image_name, image_url,
       compliance_score, risk_level, violations, recommendations, created_at
FROM ad_scans
WHERE id=$1;`
	row := r.db.QueryRowContext(ctx, q, id)

	var s domain.Scan
	var vb, rb []byte
	if err := row.Scan(
		&s.ID, &s.UserID, &s.AdCopy, &s.ImageName, &s.ImageURL,
		&s.ComplianceScore, &s.RiskLevel, &vb, &rb, &s.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	s.Violations = []domain.Violation{}
	s.Recommendations = []string{}
	if len(vb) > 0 {
		if err := json.Unmarshal(vb, &s.Violations); err != nil {
			return nil, fmt.Errorf("decoding violations: %w", err)
		}
	}
	if len(rb) > 0 {
		if err := json.Unmarshal(rb, &s.Recommendations); err != nil {
			return nil, fmt.Errorf("decoding recommendations: %w", err)
		}
	}
	return &s, nil
}

// ListByUser returns history summaries, most recent first.
func (r *ScanRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.HistoryEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	const q = `
SELECT id, compliance_score, risk_level, created_at, ad_copy
FROM ad_scans
WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2;`
	rows, err := r.db.QueryContext(ctx, q, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.HistoryEntry{}
	for rows.Next() {
		var e domain.HistoryEntry
		var adCopy string
		if err := rows.Scan(&e.ScanID, &e.ComplianceScore, &e.RiskLevel, &e.CreatedAt, &adCopy); err != nil {
			return nil, err
		}
		e.AdCopyPreview = domain.PreviewAdCopy(adCopy)
		out = append(out, e)
	}
	return out, rows.Err()
}
