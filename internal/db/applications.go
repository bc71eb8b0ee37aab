package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/auto-applier/internal/types"
)

// SaveApplication stores one application outcome and returns the row ID
func (db *DB) SaveApplication(ctx context.Context, rec *types.ApplicationRecord) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO applications
		   (user_id, job_id, job_title, company, platform, job_url,
		    application_method, application_result, failure_reason,
		    cover_letter, search_keywords, search_location, applied_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING id`,
		rec.UserID, rec.JobID, rec.JobTitle, rec.Company, string(rec.Platform), rec.JobURL,
		string(rec.Method), string(rec.Result), rec.FailureReason,
		rec.CoverLetter, rec.SearchKeywords, rec.SearchLocation, rec.AppliedAt,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save application: %w", err)
	}
	return id, nil
}

// ApplicationFilters holds optional filters for listing application history
type ApplicationFilters struct {
	Platform types.Platform
	Result   types.ApplyStatus
	Company  string
	Limit    int
	Offset   int
}

// ListApplications retrieves a user's application history, newest first
func (db *DB) ListApplications(ctx context.Context, userID string, filters ApplicationFilters) ([]types.ApplicationRecord, error) {
	if filters.Limit == 0 {
		filters.Limit = 50
	}

	query := `SELECT user_id, job_id, job_title, company, platform, job_url,
		       application_method, application_result, COALESCE(failure_reason, ''),
		       COALESCE(cover_letter, ''), COALESCE(search_keywords, ''),
		       COALESCE(search_location, ''), applied_at
		FROM applications WHERE user_id = $1`
	args := []any{userID}
	argNum := 2

	if filters.Platform != "" {
		query += fmt.Sprintf(" AND platform = $%d", argNum)
		args = append(args, string(filters.Platform))
		argNum++
	}
	if filters.Result != "" {
		query += fmt.Sprintf(" AND application_result = $%d", argNum)
		args = append(args, string(filters.Result))
		argNum++
	}
	if filters.Company != "" {
		query += fmt.Sprintf(" AND company ILIKE $%d", argNum)
		args = append(args, "%"+filters.Company+"%")
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY applied_at DESC LIMIT $%d OFFSET $%d", argNum, argNum+1)
	args = append(args, filters.Limit, filters.Offset)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var records []types.ApplicationRecord
	for rows.Next() {
		var rec types.ApplicationRecord
		var platform, method, result string
		if err := rows.Scan(&rec.UserID, &rec.JobID, &rec.JobTitle, &rec.Company, &platform, &rec.JobURL,
			&method, &result, &rec.FailureReason,
			&rec.CoverLetter, &rec.SearchKeywords, &rec.SearchLocation, &rec.AppliedAt); err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		rec.Platform = types.Platform(platform)
		rec.Method = types.ApplyMethod(method)
		rec.Result = types.ApplyStatus(result)
		records = append(records, rec)
	}
	return records, nil
}

// AppliedURLs returns the job URLs a user has successfully applied to,
// used to seed the orchestrator's dedup set across runs
func (db *DB) AppliedURLs(ctx context.Context, userID string) ([]string, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT DISTINCT job_url FROM applications
		 WHERE user_id = $1 AND application_result = 'success' AND job_url <> ''`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list applied urls: %w", err)
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("failed to scan applied url: %w", err)
		}
		urls = append(urls, u)
	}
	return urls, nil
}
