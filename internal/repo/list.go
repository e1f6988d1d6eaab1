package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/jpalmer/traveldex/backend/internal/domain"
)

// ListRepo defines the persistence operations for Lists.
// Items and manual_overrides are stored as Postgres text[] columns and always
// written whole — the service layer owns canonicalization and set semantics.
type ListRepo interface {
	// Create inserts a new list and returns the persisted record.
	// List names are unique; a duplicate name surfaces as a query error.
	Create(ctx context.Context, list domain.List) (domain.List, error)

	// GetByID retrieves a single list by its UUID primary key.
	// Returns domain.ErrNotFound if no list with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.List, error)

	// List returns all lists ordered by name ascending.
	List(ctx context.Context) ([]domain.List, error)

	// Update overwrites name, match_type, and items of an existing list.
	// Returns domain.ErrNotFound if no list with that ID exists.
	Update(ctx context.Context, list domain.List) (domain.List, error)

	// SetOverrides replaces the manual_overrides array of a list.
	// Returns domain.ErrNotFound if no list with that ID exists.
	SetOverrides(ctx context.Context, id uuid.UUID, overrides []string) (domain.List, error)

	// Delete removes a list by ID. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

type pgListRepo struct {
	db db
}

// NewListRepo constructs a ListRepo backed by the provided db connection.
func NewListRepo(db db) ListRepo {
	return &pgListRepo{db: db}
}

const listCols = `id, name, match_type, items, manual_overrides, created_at, updated_at`

func (r *pgListRepo) Create(ctx context.Context, list domain.List) (domain.List, error) {
	const q = `
		INSERT INTO lists (name, match_type, items)
		VALUES (@name, @match_type, @items)
		RETURNING ` + listCols

	args := pgx.NamedArgs{
		"name":       list.Name,
		"match_type": string(list.MatchType),
		"items":      notNilItems(list.Items),
	}

	result, err := scanList(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.List{}, fmt.Errorf("repo.ListRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgListRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.List, error) {
	const q = `SELECT ` + listCols + ` FROM lists WHERE id = @id`

	result, err := scanList(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.List{}, fmt.Errorf("repo.ListRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgListRepo) List(ctx context.Context) ([]domain.List, error) {
	const q = `SELECT ` + listCols + ` FROM lists ORDER BY name ASC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.ListRepo.List: %w", err)
	}
	defer rows.Close()

	lists := []domain.List{}
	for rows.Next() {
		l, err := scanList(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ListRepo.List: scan: %w", err)
		}
		lists = append(lists, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ListRepo.List: rows: %w", err)
	}
	return lists, nil
}

func (r *pgListRepo) Update(ctx context.Context, list domain.List) (domain.List, error) {
	const q = `
		UPDATE lists
		SET name       = @name,
		    match_type = @match_type,
		    items      = @items,
		    updated_at = now()
		WHERE id = @id
		RETURNING ` + listCols

	args := pgx.NamedArgs{
		"id":         list.ID,
		"name":       list.Name,
		"match_type": string(list.MatchType),
		"items":      notNilItems(list.Items),
	}

	result, err := scanList(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.List{}, fmt.Errorf("repo.ListRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgListRepo) SetOverrides(ctx context.Context, id uuid.UUID, overrides []string) (domain.List, error) {
	const q = `
		UPDATE lists
		SET manual_overrides = @overrides,
		    updated_at       = now()
		WHERE id = @id
		RETURNING ` + listCols

	args := pgx.NamedArgs{"id": id, "overrides": notNilItems(overrides)}

	result, err := scanList(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.List{}, fmt.Errorf("repo.ListRepo.SetOverrides: %w", err)
	}
	return result, nil
}

func (r *pgListRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM lists WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.ListRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ListRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// notNilItems maps a nil slice to an empty array so writes never violate the
// NOT NULL array columns.
func notNilItems(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

// scanList maps a single database row into a domain.List.
// pgx scans text[] columns directly into []string.
func scanList(s scanner) (domain.List, error) {
	var (
		l         domain.List
		id        pgtype.UUID
		matchType string
	)

	err := s.Scan(&id, &l.Name, &matchType, &l.Items, &l.ManualOverrides, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.List{}, domain.ErrNotFound
		}
		return domain.List{}, err
	}

	l.ID = uuid.UUID(id.Bytes)
	l.MatchType = domain.MatchType(matchType)
	if l.Items == nil {
		l.Items = []string{}
	}
	if l.ManualOverrides == nil {
		l.ManualOverrides = []string{}
	}
	return l, nil
}
