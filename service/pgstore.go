package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kyeongry/fastmatch-admin-sub002/config"
	"github.com/kyeongry/fastmatch-admin-sub002/model"
)

// PGStore is a Postgres-backed contract repository. The aggregate is stored
// as a JSONB document; a few columns are duplicated out of the document for
// filtering and ordering.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore connects to Postgres and ensures the schema exists.
func NewPGStore(ctx context.Context, cfg *config.PostgresConfig) (*PGStore, error) {
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres dsn: %w", err)
	}
	pc.MaxConns = 10
	pc.MinConns = 1
	pc.MaxConnLifetime = 30 * time.Minute
	pc.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	s := &PGStore{pool: pool}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PGStore) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS lease_contracts (
	id              uuid PRIMARY KEY,
	contract_number text UNIQUE NOT NULL,
	status          text NOT NULL,
	doc             jsonb NOT NULL,
	created_at      timestamptz NOT NULL,
	updated_at      timestamptz NOT NULL
)`)
	if err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *PGStore) Close() {
	s.pool.Close()
}

func (s *PGStore) Create(ctx context.Context, c *model.Contract) (*model.Contract, error) {
	stored := *c
	stored.ID = uuid.New().String()
	stored.ContractNumber = model.GenerateContractNumber()
	stored.Status = model.StatusDraft
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt

	doc, err := json.Marshal(&stored)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal contract: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
INSERT INTO lease_contracts (id, contract_number, status, doc, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)`,
		stored.ID, stored.ContractNumber, stored.Status, doc, stored.CreatedAt, stored.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert contract: %w", err)
	}
	return &stored, nil
}

func (s *PGStore) Update(ctx context.Context, id string, c *model.Contract) error {
	prev, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	stored := *c
	stored.ID = id
	stored.ContractNumber = prev.ContractNumber
	stored.CreatedAt = prev.CreatedAt
	stored.UpdatedAt = time.Now()

	doc, err := json.Marshal(&stored)
	if err != nil {
		return fmt.Errorf("failed to marshal contract: %w", err)
	}
	tag, err := s.pool.Exec(ctx, `
UPDATE lease_contracts SET doc = $2, status = $3, updated_at = $4 WHERE id = $1`,
		id, doc, stored.Status, stored.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update contract: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PGStore) Get(ctx context.Context, id string) (*model.Contract, error) {
	var doc []byte
	err := s.pool.QueryRow(ctx, `SELECT doc FROM lease_contracts WHERE id = $1`, id).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query contract: %w", err)
	}
	var c model.Contract
	if err := json.Unmarshal(doc, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal contract: %w", err)
	}
	return &c, nil
}

func (s *PGStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM lease_contracts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete contract: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PGStore) List(ctx context.Context, filter ListFilter) ([]*model.Contract, int, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 20
	}

	var total int
	err := s.pool.QueryRow(ctx, `
SELECT count(*) FROM lease_contracts WHERE ($1 = '' OR status = $1)`, filter.Status).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count contracts: %w", err)
	}

	rows, err := s.pool.Query(ctx, `
SELECT doc FROM lease_contracts
WHERE ($1 = '' OR status = $1)
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`, filter.Status, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list contracts: %w", err)
	}
	defer rows.Close()

	contracts, err := scanContracts(rows)
	if err != nil {
		return nil, 0, err
	}
	return contracts, total, nil
}

func (s *PGStore) Search(ctx context.Context, keyword string) ([]*model.Contract, error) {
	pattern := "%" + keyword + "%"
	rows, err := s.pool.Query(ctx, `
SELECT doc FROM lease_contracts
WHERE contract_number ILIKE $1
   OR doc->'property'->>'address' ILIKE $1
   OR (doc->'parties')::text ILIKE $1
ORDER BY created_at DESC
LIMIT 50`, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to search contracts: %w", err)
	}
	defer rows.Close()

	return scanContracts(rows)
}

func (s *PGStore) MarkCompleted(ctx context.Context, id, pdfURL string) (*model.Contract, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Status = model.StatusCompleted
	c.PDFURL = pdfURL
	c.CompletedAt = time.Now()
	c.UpdatedAt = c.CompletedAt

	doc, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal contract: %w", err)
	}
	tag, err := s.pool.Exec(ctx, `
UPDATE lease_contracts SET doc = $2, status = $3, updated_at = $4 WHERE id = $1`,
		id, doc, c.Status, c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to complete contract: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return c, nil
}

func scanContracts(rows pgx.Rows) ([]*model.Contract, error) {
	var out []*model.Contract
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan contract: %w", err)
		}
		var c model.Contract
		if err := json.Unmarshal(doc, &c); err != nil {
			return nil, fmt.Errorf("failed to unmarshal contract: %w", err)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}
