package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/deppfellow/hierarchy-api/internal/errs"
	"github.com/deppfellow/hierarchy-api/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"
)

// HierarchyRepository persists hierarchy metadata and data rows.
//
// Lookups by id return (nil, nil) when the row does not exist.
type HierarchyRepository interface {
	CreateMetadata(ctx context.Context, params model.CreateMetadataParams) (*model.HierarchyMetadata, error)
	CreateData(ctx context.Context, metadataID uuid.UUID, data json.RawMessage) (*model.HierarchyData, error)
	GetMetadataByID(ctx context.Context, id uuid.UUID) (*model.HierarchyMetadata, error)
	GetDataByMetadataID(ctx context.Context, metadataID uuid.UUID) ([]model.HierarchyData, error)
	UpdateMetadata(ctx context.Context, id uuid.UUID, update model.MetadataUpdate) (*model.HierarchyMetadata, error)
	ListMetadata(ctx context.Context, filter model.MetadataFilter, limit, offset int) (*model.MetadataPage, error)
	DeleteMetadata(ctx context.Context, id uuid.UUID) (*model.HierarchyMetadata, error)

	// WithTx runs fn against a repository bound to a single transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	WithTx(ctx context.Context, fn func(repo HierarchyRepository) error) error
}

const (
	metadataColumns = "id, user_input, version, status, user_feedback, created_at, updated_at"
	dataColumns     = "id, metadata_id, data, created_at"
)

type hierarchyRepository struct {
	db DBTX
	// inTx is set when db is a transaction; its statements must not overlap.
	inTx bool
}

// NewHierarchyRepository returns a HierarchyRepository backed by db.
func NewHierarchyRepository(db DBTX) HierarchyRepository {
	return &hierarchyRepository{db: db}
}

func (r *hierarchyRepository) WithTx(ctx context.Context, fn func(repo HierarchyRepository) error) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		return fn(&hierarchyRepository{db: tx, inTx: true})
	})
}

func (r *hierarchyRepository) CreateMetadata(ctx context.Context, params model.CreateMetadataParams) (*model.HierarchyMetadata, error) {
	query := `
		INSERT INTO hierarchy_metadata (user_input, version, status, user_feedback)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + metadataColumns

	rows, err := r.db.Query(ctx, query, params.UserInput, params.Version, params.Status, params.UserFeedback)
	if err != nil {
		return nil, fmt.Errorf("failed to create metadata: %w", err)
	}

	metadata, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[model.HierarchyMetadata])
	if err != nil {
		return nil, fmt.Errorf("failed to create metadata: %w", err)
	}

	return metadata, nil
}

func (r *hierarchyRepository) CreateData(ctx context.Context, metadataID uuid.UUID, data json.RawMessage) (*model.HierarchyData, error) {
	query := `
		INSERT INTO hierarchy_data (metadata_id, data)
		VALUES ($1, $2)
		RETURNING ` + dataColumns

	rows, err := r.db.Query(ctx, query, metadataID, data)
	if err != nil {
		return nil, fmt.Errorf("failed to create data: %w", err)
	}

	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[model.HierarchyData])
	if err != nil {
		return nil, fmt.Errorf("failed to create data: %w", err)
	}

	return row, nil
}

func (r *hierarchyRepository) GetMetadataByID(ctx context.Context, id uuid.UUID) (*model.HierarchyMetadata, error) {
	query := `SELECT ` + metadataColumns + ` FROM hierarchy_metadata WHERE id = $1`

	return r.oneMetadata(ctx, "get metadata", query, id)
}

func (r *hierarchyRepository) GetDataByMetadataID(ctx context.Context, metadataID uuid.UUID) ([]model.HierarchyData, error) {
	query := `
		SELECT ` + dataColumns + `
		FROM hierarchy_data
		WHERE metadata_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, query, metadataID)
	if err != nil {
		return nil, fmt.Errorf("failed to get data: %w", err)
	}

	data, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.HierarchyData])
	if err != nil {
		return nil, fmt.Errorf("failed to get data: %w", err)
	}

	return data, nil
}

func (r *hierarchyRepository) UpdateMetadata(ctx context.Context, id uuid.UUID, update model.MetadataUpdate) (*model.HierarchyMetadata, error) {
	var assignments []assignment

	if update.Status != nil {
		assignments = append(assignments, assignment{column: "status", value: *update.Status})
	}
	if update.UserFeedback != nil {
		assignments = append(assignments, assignment{column: "user_feedback", value: *update.UserFeedback})
	} else if update.ClearUserFeedback {
		assignments = append(assignments, assignment{column: "user_feedback", value: nil})
	}
	if update.Version != nil {
		assignments = append(assignments, assignment{column: "version", value: *update.Version})
	}

	if len(assignments) == 0 {
		code := errs.CodeValidationFailed
		return nil, errs.NewBadRequestError("No valid fields to update", true, &code, nil, nil)
	}

	set, args := setClause(assignments, 1)
	query := `
		UPDATE hierarchy_metadata
		SET ` + set + `, updated_at = clock_timestamp()
		WHERE id = ` + nextPlaceholder(args) + `
		RETURNING ` + metadataColumns
	args = append(args, id)

	return r.oneMetadata(ctx, "update metadata", query, args...)
}

func (r *hierarchyRepository) ListMetadata(ctx context.Context, filter model.MetadataFilter, limit, offset int) (*model.MetadataPage, error) {
	var predicates []assignment

	if filter.Status != nil {
		predicates = append(predicates, assignment{column: "status", value: *filter.Status})
	}
	if filter.Version != nil {
		predicates = append(predicates, assignment{column: "version", value: *filter.Version})
	}

	where, args := whereClause(predicates, 1)

	countQuery := `SELECT COUNT(*) FROM hierarchy_metadata` + where

	pageArgs := append(append([]any{}, args...), limit)
	pageQuery := `
		SELECT ` + metadataColumns + `
		FROM hierarchy_metadata` + where + `
		ORDER BY created_at DESC, id DESC
		LIMIT ` + nextPlaceholder(args) + ` OFFSET ` + nextPlaceholder(pageArgs)
	pageArgs = append(pageArgs, offset)

	page := &model.MetadataPage{Limit: limit, Offset: offset}

	countTotal := func(ctx context.Context) error {
		if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&page.Total); err != nil {
			return fmt.Errorf("failed to count metadata: %w", err)
		}
		return nil
	}

	fetchPage := func(ctx context.Context) error {
		rows, err := r.db.Query(ctx, pageQuery, pageArgs...)
		if err != nil {
			return fmt.Errorf("failed to list metadata: %w", err)
		}

		items, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.HierarchyMetadata])
		if err != nil {
			return fmt.Errorf("failed to list metadata: %w", err)
		}

		page.Items = items
		return nil
	}

	if err := r.run(ctx, countTotal, fetchPage); err != nil {
		return nil, err
	}

	return page, nil
}

func (r *hierarchyRepository) DeleteMetadata(ctx context.Context, id uuid.UUID) (*model.HierarchyMetadata, error) {
	query := `DELETE FROM hierarchy_metadata WHERE id = $1 RETURNING ` + metadataColumns

	return r.oneMetadata(ctx, "delete metadata", query, id)
}

// oneMetadata runs a statement returning at most one metadata row.
func (r *hierarchyRepository) oneMetadata(ctx context.Context, op, query string, args ...any) (*model.HierarchyMetadata, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}

	metadata, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[model.HierarchyMetadata])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}

	return metadata, nil
}

// run executes fns concurrently on the pool and one after another inside a transaction.
func (r *hierarchyRepository) run(ctx context.Context, fns ...func(ctx context.Context) error) error {
	if r.inTx {
		for _, fn := range fns {
			if err := fn(ctx); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, fn := range fns {
		g.Go(func() error {
			return fn(gctx)
		})
	}

	return g.Wait()
}
