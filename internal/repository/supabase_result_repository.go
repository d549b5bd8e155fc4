package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pdf-diff/internal/domain"

	"github.com/supabase-community/postgrest-go"
)

// SupabaseResultRepository stores one row per different document in a
// Supabase table
type SupabaseResultRepository struct {
	supabaseClient domain.SupabaseClient
	table          string
	logger         domain.Logger
}

// NewSupabaseResultRepository creates a new Supabase result repository
func NewSupabaseResultRepository(supabaseClient domain.SupabaseClient, table string, logger domain.Logger) *SupabaseResultRepository {
	return &SupabaseResultRepository{
		supabaseClient: supabaseClient,
		table:          table,
		logger:         logger,
	}
}

// resultRow builds the row inserted for a result
func resultRow(runID string, result domain.PairResult, now time.Time) map[string]interface{} {
	pages := result.DifferentPages
	if pages == nil {
		pages = []int{}
	}
	return map[string]interface{}{
		"run_id":          runID,
		"document":        result.Name,
		"path_a":          result.PathA,
		"path_b":          result.PathB,
		"state":           string(result.State),
		"different":       result.Different,
		"different_pages": pages,
		"artifacts":       result.Artifacts,
		"error":           result.Error,
		"created_at":      now,
	}
}

// resultRecord mirrors the columns written by resultRow
type resultRecord struct {
	Document       string   `json:"document"`
	PathA          string   `json:"path_a"`
	PathB          string   `json:"path_b"`
	State          string   `json:"state"`
	Different      bool     `json:"different"`
	DifferentPages []int    `json:"different_pages"`
	Artifacts      []string `json:"artifacts"`
	Error          string   `json:"error"`
}

func (r resultRecord) toDomain() domain.PairResult {
	return domain.PairResult{
		Name:           r.Document,
		PathA:          r.PathA,
		PathB:          r.PathB,
		State:          domain.PairState(r.State),
		Different:      r.Different,
		DifferentPages: r.DifferentPages,
		Artifacts:      r.Artifacts,
		Error:          r.Error,
	}
}

// Save inserts the result row
func (r *SupabaseResultRepository) Save(ctx context.Context, runID string, result domain.PairResult) error {
	client := r.supabaseClient.DB()
	if client == nil {
		return fmt.Errorf("supabase client not initialized")
	}

	row := resultRow(runID, result, time.Now().UTC())
	_, _, err := client.From(r.table).Insert(row, false, "", "", "").Execute()
	if err != nil {
		r.logger.Error("Failed to insert comparison result in Supabase", err,
			"run_id", runID,
			"document", result.Name,
		)
		return fmt.Errorf("failed to store comparison result: %w", err)
	}

	r.logger.Info(
		"Comparison result stored",
		"run_id", runID,
		"document", result.Name,
	)
	return nil
}

// ListByRun returns the stored results of a run in insertion order
func (r *SupabaseResultRepository) ListByRun(ctx context.Context, runID string) ([]domain.PairResult, error) {
	client := r.supabaseClient.DB()
	if client == nil {
		return nil, fmt.Errorf("supabase client not initialized")
	}

	data, _, err := client.From(r.table).
		Select("*", "", false).
		Eq("run_id", runID).
		Order("created_at", &postgrest.OrderOpts{Ascending: true}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to list comparison results: %w", err)
	}

	return decodeResults(data)
}

func decodeResults(data []byte) ([]domain.PairResult, error) {
	var rows []resultRecord
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	out := make([]domain.PairResult, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
