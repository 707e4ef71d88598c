// services/report_store_service.go
package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/AI-Template-SDK/senso-competitive/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// reportStoreService persists analysis snapshots in Postgres. One row per
// brand: saving again replaces the previous snapshot, matching the
// keyed-by-brand contract.
type reportStoreService struct {
	db *sqlx.DB
}

func NewReportStoreService(db *sqlx.DB) ReportStore {
	return &reportStoreService{db: db}
}

// EnsureSchema creates the snapshot table when it does not exist yet
func (s *reportStoreService) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS competitive_analyses (
			brand_id      UUID PRIMARY KEY,
			brand_name    TEXT NOT NULL,
			report_id     UUID NOT NULL,
			win_rate      DOUBLE PRECISION NOT NULL,
			total_queries INTEGER NOT NULL,
			snapshot      JSONB NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("failed to ensure analyses table: %w", err)
	}
	return nil
}

type analysisRow struct {
	BrandID      uuid.UUID `db:"brand_id"`
	BrandName    string    `db:"brand_name"`
	ReportID     uuid.UUID `db:"report_id"`
	WinRate      float64   `db:"win_rate"`
	TotalQueries int       `db:"total_queries"`
	Snapshot     []byte    `db:"snapshot"`
	CreatedAt    time.Time `db:"created_at"`
}

func (s *reportStoreService) SaveAnalysis(ctx context.Context, analysis *models.SavedAnalysis) (uuid.UUID, error) {
	brandID := analysis.BrandConfig.BrandID
	if brandID == uuid.Nil {
		brandID = uuid.New()
	}
	if analysis.SavedAt.IsZero() {
		analysis.SavedAt = time.Now().UTC()
	}

	snapshot, err := json.Marshal(analysis)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal analysis snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO competitive_analyses (brand_id, brand_name, report_id, win_rate, total_queries, snapshot, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (brand_id) DO UPDATE SET
			brand_name    = EXCLUDED.brand_name,
			report_id     = EXCLUDED.report_id,
			win_rate      = EXCLUDED.win_rate,
			total_queries = EXCLUDED.total_queries,
			snapshot      = EXCLUDED.snapshot,
			created_at    = EXCLUDED.created_at`,
		brandID, analysis.BrandConfig.BrandName, analysis.Report.ID,
		analysis.Report.WinRate, analysis.Report.TotalQueries, snapshot, analysis.SavedAt)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save analysis for brand %s: %w", brandID, err)
	}

	fmt.Printf("[SaveAnalysis] 💾 Saved analysis for %s (brand %s, win rate %.1f%%)\n",
		analysis.BrandConfig.BrandName, brandID, analysis.Report.WinRate)
	return brandID, nil
}

func (s *reportStoreService) GetAnalysis(ctx context.Context, brandID uuid.UUID) (*models.SavedAnalysis, error) {
	var row analysisRow
	err := s.db.GetContext(ctx, &row,
		`SELECT brand_id, brand_name, report_id, win_rate, total_queries, snapshot, created_at
		 FROM competitive_analyses WHERE brand_id = $1`, brandID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no analysis found for brand %s", brandID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load analysis for brand %s: %w", brandID, err)
	}

	var analysis models.SavedAnalysis
	if err := json.Unmarshal(row.Snapshot, &analysis); err != nil {
		return nil, fmt.Errorf("failed to decode analysis snapshot for brand %s: %w", brandID, err)
	}
	return &analysis, nil
}

func (s *reportStoreService) ListAnalyses(ctx context.Context) ([]models.AnalysisSummary, error) {
	var rows []analysisRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT brand_id, brand_name, report_id, win_rate, total_queries, snapshot, created_at
		 FROM competitive_analyses ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}

	summaries := make([]models.AnalysisSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, models.AnalysisSummary{
			BrandID:      row.BrandID,
			BrandName:    row.BrandName,
			ReportID:     row.ReportID,
			WinRate:      row.WinRate,
			TotalQueries: row.TotalQueries,
			CreatedAt:    row.CreatedAt,
		})
	}
	return summaries, nil
}
