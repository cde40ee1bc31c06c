// Package history persists served recommendations in PostgreSQL.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"business-recommender/internal/common/database"
	"business-recommender/internal/common/logger"
	"business-recommender/internal/models"
)

const (
	createTableQuery = `CREATE TABLE IF NOT EXISTS recommendations (
	id UUID PRIMARY KEY,
	user_id TEXT,
	user_input JSONB NOT NULL,
	algorithm TEXT NOT NULL,
	results JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`
	createIndexQuery = `CREATE INDEX IF NOT EXISTS idx_recommendations_created_at ON recommendations (created_at DESC)`

	insertQuery = `INSERT INTO recommendations (id, user_id, user_input, algorithm, results, created_at) VALUES ($1, $2, $3, $4, $5, $6)`

	listQuery = `SELECT id, user_id, user_input, algorithm, results, created_at FROM recommendations ORDER BY created_at DESC LIMIT $1`
)

// Record is one served request.
type Record struct {
	ID        uuid.UUID               `json:"id"`
	UserID    string                  `json:"userId,omitempty"`
	UserInput models.UserProfile      `json:"userInput"`
	Algorithm string                  `json:"algorithm"`
	Results   []models.Recommendation `json:"results"`
	CreatedAt time.Time               `json:"createdAt"`
}

type Repository struct {
	db     *database.PostgresClient
	logger logger.Logger
}

func NewRepository(db *database.PostgresClient, log logger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "recommendation-history"}),
	}
}

// EnsureSchema creates the table and index when missing.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	for _, q := range []string{createTableQuery, createIndexQuery} {
		if _, err := r.db.Exec(ctx, q); err != nil {
			return fmt.Errorf("ensure history schema: %w", err)
		}
	}
	return nil
}

// Insert stores rec, assigning an id and timestamp when unset.
func (r *Repository) Insert(ctx context.Context, rec Record) (Record, error) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	input, err := json.Marshal(rec.UserInput)
	if err != nil {
		return Record{}, fmt.Errorf("encode user input: %w", err)
	}
	results, err := json.Marshal(rec.Results)
	if err != nil {
		return Record{}, fmt.Errorf("encode results: %w", err)
	}

	var userID interface{}
	if rec.UserID != "" {
		userID = rec.UserID
	}

	if _, err := r.db.Exec(ctx, insertQuery, rec.ID, userID, input, rec.Algorithm, results, rec.CreatedAt); err != nil {
		return Record{}, fmt.Errorf("insert history record: %w", err)
	}

	r.logger.Debug("history record stored", map[string]interface{}{
		"id":        rec.ID.String(),
		"algorithm": rec.Algorithm,
		"results":   len(rec.Results),
	})

	return rec, nil
}

// List returns up to limit records, newest first.
func (r *Repository) List(ctx context.Context, limit int) ([]Record, error) {
	rows, err := r.db.Query(ctx, listQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	out := make([]Record, 0, limit)
	for rows.Next() {
		var (
			rec     Record
			userID  sql.NullString
			input   []byte
			results []byte
		)
		if err := rows.Scan(&rec.ID, &userID, &input, &rec.Algorithm, &results, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		rec.UserID = userID.String
		if err := json.Unmarshal(input, &rec.UserInput); err != nil {
			return nil, fmt.Errorf("decode user input of %s: %w", rec.ID, err)
		}
		if err := json.Unmarshal(results, &rec.Results); err != nil {
			return nil, fmt.Errorf("decode results of %s: %w", rec.ID, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history rows: %w", err)
	}

	return out, nil
}
