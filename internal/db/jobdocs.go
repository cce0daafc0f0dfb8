package db

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/job-capture/internal/resolve"
	"github.com/jonathan/job-capture/internal/types"
)

const jobDocColumns = `id, normalized_url, source_url, title, company, industry, location,
	        salary, remote_type, role_type, seniority,
	        years_experience_min, years_experience_max,
	        required_skills, preferred_skills, easy_apply, summary,
	        confidence, save_count, created_at, updated_at`

// GetJobDocByURL retrieves a job doc by its normalized URL
func (db *DB) GetJobDocByURL(ctx context.Context, normalizedURL string) (*types.JobDoc, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+jobDocColumns+` FROM job_docs WHERE normalized_url = $1`,
		normalizedURL,
	)
	return scanJobDoc(row)
}

// GetJobDocByID retrieves a job doc by its ID
func (db *DB) GetJobDocByID(ctx context.Context, id uuid.UUID) (*types.JobDoc, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+jobDocColumns+` FROM job_docs WHERE id = $1`,
		id,
	)
	return scanJobDoc(row)
}

// ListJobDocsOptions contains filters for listing job docs
type ListJobDocsOptions struct {
	Company   string
	Seniority string
	Limit     int
	Offset    int
}

// ListJobDocs lists saved docs with optional filters and pagination
func (db *DB) ListJobDocs(ctx context.Context, opts ListJobDocsOptions) ([]types.JobDoc, int, error) {
	var conditions []string
	var args []any
	argIndex := 1

	if opts.Company != "" {
		conditions = append(conditions, fmt.Sprintf("company ILIKE $%d", argIndex))
		args = append(args, "%"+opts.Company+"%")
		argIndex++
	}
	if opts.Seniority != "" {
		conditions = append(conditions, fmt.Sprintf("seniority = $%d", argIndex))
		args = append(args, opts.Seniority)
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM job_docs %s", whereClause)
	var total int
	if err := db.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count job docs: %w", err)
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(
		`SELECT `+jobDocColumns+` FROM job_docs %s
		 ORDER BY updated_at DESC
		 LIMIT $%d OFFSET $%d`,
		whereClause, argIndex, argIndex+1,
	)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list job docs: %w", err)
	}
	defer rows.Close()

	var docs []types.JobDoc
	for rows.Next() {
		doc, err := scanJobDoc(rows)
		if err != nil {
			return nil, 0, err
		}
		docs = append(docs, *doc)
	}
	return docs, total, nil
}

// SaveJobDoc upserts a freshly extracted doc, deduplicated by normalized URL.
// A new URL inserts the doc whole; a known URL merges field by field, where a
// stored field is replaced only when the incoming confidence is strictly
// higher or the field was empty. Every save increments save_count. Returns
// the stored doc and whether it already existed.
func (db *DB) SaveJobDoc(ctx context.Context, doc *types.JobDoc) (*types.JobDoc, bool, error) {
	existing, err := db.GetJobDocByURL(ctx, doc.NormalizedURL)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		inserted, err := db.insertJobDoc(ctx, doc)
		if err != nil {
			return nil, false, err
		}
		if inserted != nil {
			return inserted, false, nil
		}
		// A concurrent run inserted this URL first. Re-read the winner's row
		// and merge into it like any repeat save.
		existing, err = db.GetJobDocByURL(ctx, doc.NormalizedURL)
		if err != nil {
			return nil, true, err
		}
		if existing == nil {
			return nil, true, fmt.Errorf("job doc for %s disappeared after insert conflict", doc.NormalizedURL)
		}
	}

	if err := db.mergeJobDoc(ctx, existing, doc); err != nil {
		return nil, true, err
	}
	merged, err := db.GetJobDocByURL(ctx, doc.NormalizedURL)
	if err != nil {
		return nil, true, err
	}
	return merged, true, nil
}

// insertJobDocQuery backs off on a normalized-URL conflict instead of
// touching the winner's row; the caller routes the loser through the
// confidence-gated merge so its fields are not dropped.
const insertJobDocQuery = `INSERT INTO job_docs (normalized_url, source_url, title, company, industry, location,
		                       salary, remote_type, role_type, seniority,
		                       years_experience_min, years_experience_max,
		                       required_skills, preferred_skills, easy_apply, summary,
		                       confidence, save_count)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, 1)
		 ON CONFLICT (normalized_url) DO NOTHING
		 RETURNING ` + jobDocColumns

// insertJobDoc inserts a new doc, returning nil without error when another
// run won the insert race for the same normalized URL.
func (db *DB) insertJobDoc(ctx context.Context, doc *types.JobDoc) (*types.JobDoc, error) {
	salaryJSON, confidenceJSON, requiredJSON, preferredJSON, err := marshalJobDocJSON(doc)
	if err != nil {
		return nil, err
	}

	row := db.pool.QueryRow(ctx, insertJobDocQuery,
		doc.NormalizedURL, doc.SourceURL, doc.Title, doc.Company, doc.Industry, doc.Location,
		salaryJSON, string(doc.RemoteType), string(doc.RoleType), string(doc.Seniority),
		doc.YearsExperienceMin, doc.YearsExperienceMax,
		requiredJSON, preferredJSON, doc.EasyApply, doc.Summary,
		confidenceJSON,
	)
	inserted, err := scanJobDoc(row)
	if err != nil {
		return nil, fmt.Errorf("failed to insert job doc: %w", err)
	}
	return inserted, nil
}

// mergeJobDoc applies the confidence-gated merge inside one transaction.
// Each field is one conditional UPDATE whose WHERE re-checks the stored
// confidence tier, so a concurrent save can never downgrade a field.
func (db *DB) mergeJobDoc(ctx context.Context, existing, incoming *types.JobDoc) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	for _, update := range resolve.Merge(existing, incoming) {
		if err := applyFieldUpdate(ctx, tx, existing.ID, update); err != nil {
			return err
		}
	}

	// Summary is decorative and carries no confidence; the latest one wins.
	if incoming.HasSummary() {
		if _, err := tx.Exec(ctx,
			`UPDATE job_docs SET summary = $2 WHERE id = $1`,
			existing.ID, incoming.Summary,
		); err != nil {
			return fmt.Errorf("failed to update summary: %w", err)
		}
	}

	if _, err := tx.Exec(ctx,
		`UPDATE job_docs SET save_count = save_count + 1, source_url = $2, updated_at = NOW() WHERE id = $1`,
		existing.ID, incoming.SourceURL,
	); err != nil {
		return fmt.Errorf("failed to bump save count: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit merge: %w", err)
	}
	return nil
}

// applyFieldUpdate issues the single conditional UPDATE for one field. The
// WHERE clause only lets the write through when the stored tier for the
// field is absent or strictly below the incoming tier.
func applyFieldUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID, update resolve.FieldUpdate) error {
	assigns, args, err := fieldAssignments(update, 6)
	if err != nil {
		return err
	}

	confJSON, err := json.Marshal(update.Confidence)
	if err != nil {
		return fmt.Errorf("failed to marshal confidence for %s: %w", update.Field, err)
	}

	field := string(update.Field)
	query := fmt.Sprintf(
		`UPDATE job_docs
		 SET %s, confidence = jsonb_set(COALESCE(confidence, '{}'::jsonb), $2, $3::jsonb, true)
		 WHERE id = $1
		   AND (confidence #>> $4 IS NULL OR confidence #>> $4 = ANY($5))`,
		strings.Join(assigns, ", "),
	)

	allArgs := append([]any{
		id,
		[]string{field},
		string(confJSON),
		[]string{field, "confidence"},
		tiersBelow(update.Confidence.Confidence),
	}, args...)

	if _, err := tx.Exec(ctx, query, allArgs...); err != nil {
		return fmt.Errorf("failed to update field %s: %w", field, err)
	}
	return nil
}

// fieldAssignments maps one field update to its SET clause and arguments,
// with placeholders starting at firstArg.
func fieldAssignments(update resolve.FieldUpdate, firstArg int) ([]string, []any, error) {
	textCol := func(col string) ([]string, []any, error) {
		s, ok := stringValue(update.Value)
		if !ok {
			return nil, nil, fmt.Errorf("unexpected value type for %s: %T", update.Field, update.Value)
		}
		return []string{fmt.Sprintf("%s = $%d", col, firstArg)}, []any{s}, nil
	}
	jsonCol := func(col string) ([]string, []any, error) {
		jsonBytes, err := json.Marshal(update.Value)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to marshal %s: %w", update.Field, err)
		}
		return []string{fmt.Sprintf("%s = $%d", col, firstArg)}, []any{jsonBytes}, nil
	}

	switch update.Field {
	case types.FieldTitle:
		return textCol("title")
	case types.FieldCompany:
		return textCol("company")
	case types.FieldIndustry:
		return textCol("industry")
	case types.FieldLocation:
		return textCol("location")
	case types.FieldRemoteType:
		return textCol("remote_type")
	case types.FieldRoleType:
		return textCol("role_type")
	case types.FieldSeniority:
		return textCol("seniority")
	case types.FieldSalary:
		return jsonCol("salary")
	case types.FieldRequiredSkills:
		return jsonCol("required_skills")
	case types.FieldPreferredSkills:
		return jsonCol("preferred_skills")
	case types.FieldYearsExperience:
		v, ok := update.Value.(types.YearsExperience)
		if !ok {
			return nil, nil, fmt.Errorf("unexpected value type for years_experience: %T", update.Value)
		}
		return []string{
			fmt.Sprintf("years_experience_min = $%d", firstArg),
			fmt.Sprintf("years_experience_max = $%d", firstArg+1),
		}, []any{v.Min, v.Max}, nil
	case types.FieldEasyApply:
		v, ok := update.Value.(bool)
		if !ok {
			return nil, nil, fmt.Errorf("unexpected value type for easy_apply: %T", update.Value)
		}
		return []string{fmt.Sprintf("easy_apply = $%d", firstArg)}, []any{v}, nil
	default:
		return nil, nil, fmt.Errorf("unknown field %s", update.Field)
	}
}

func stringValue(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case types.RemoteType:
		return string(s), true
	case types.RoleType:
		return string(s), true
	case types.Seniority:
		return string(s), true
	default:
		return "", false
	}
}

// tiersBelow lists the tiers strictly below the given one, used as the
// stored-tier guard in conditional updates.
func tiersBelow(tier types.ConfidenceTier) []string {
	all := []types.ConfidenceTier{types.ConfidenceLow, types.ConfidenceMedium, types.ConfidenceHigh}
	var below []string
	for _, t := range all {
		if t.Rank() < tier.Rank() {
			below = append(below, string(t))
		}
	}
	if below == nil {
		below = []string{}
	}
	return below
}

func marshalJobDocJSON(doc *types.JobDoc) (salary, confidence, required, preferred []byte, err error) {
	if salary, err = json.Marshal(doc.Salary); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to marshal salary: %w", err)
	}
	if doc.Confidence != nil {
		if confidence, err = json.Marshal(doc.Confidence); err != nil {
			return nil, nil, nil, nil, fmt.Errorf("failed to marshal confidence: %w", err)
		}
	}
	if len(doc.RequiredSkills) > 0 {
		if required, err = json.Marshal(doc.RequiredSkills); err != nil {
			return nil, nil, nil, nil, fmt.Errorf("failed to marshal required skills: %w", err)
		}
	}
	if len(doc.PreferredSkills) > 0 {
		if preferred, err = json.Marshal(doc.PreferredSkills); err != nil {
			return nil, nil, nil, nil, fmt.Errorf("failed to marshal preferred skills: %w", err)
		}
	}
	return salary, confidence, required, preferred, nil
}

func scanJobDoc(row pgx.Row) (*types.JobDoc, error) {
	var doc types.JobDoc
	var salaryJSON, confidenceJSON, requiredJSON, preferredJSON []byte
	var remoteType, roleType, seniority *string

	err := row.Scan(&doc.ID, &doc.NormalizedURL, &doc.SourceURL,
		&doc.Title, &doc.Company, &doc.Industry, &doc.Location,
		&salaryJSON, &remoteType, &roleType, &seniority,
		&doc.YearsExperienceMin, &doc.YearsExperienceMax,
		&requiredJSON, &preferredJSON, &doc.EasyApply, &doc.Summary,
		&confidenceJSON, &doc.SaveCount, &doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job doc: %w", err)
	}

	if remoteType != nil {
		doc.RemoteType = types.RemoteType(*remoteType)
	}
	if roleType != nil {
		doc.RoleType = types.RoleType(*roleType)
	}
	if seniority != nil {
		doc.Seniority = types.Seniority(*seniority)
	}

	// Parse JSONB fields
	if salaryJSON != nil {
		_ = json.Unmarshal(salaryJSON, &doc.Salary)
	}
	if confidenceJSON != nil {
		_ = json.Unmarshal(confidenceJSON, &doc.Confidence)
	}
	if requiredJSON != nil {
		_ = json.Unmarshal(requiredJSON, &doc.RequiredSkills)
	}
	if preferredJSON != nil {
		_ = json.Unmarshal(preferredJSON, &doc.PreferredSkills)
	}

	return &doc, nil
}
