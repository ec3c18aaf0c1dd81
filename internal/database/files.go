package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"skyvault/internal/filetype"
	"skyvault/internal/models"
	"skyvault/internal/query"
)

var ErrUnknownQueryField = errors.New("unknown query field")

const fileColumns = `id, owner_id, account_id, name, category, extension, url, size_bytes, shared_with, storage_object_id, created_at, updated_at`

// Columns usable in Equal predicates.
var equalColumns = map[string]string{
	"owner_id":   "owner_id",
	"account_id": "account_id",
	"category":   "category",
	"extension":  "extension",
}

// Columns usable in OrderBy predicates, including the client-facing
// aliases the UI sends.
var sortColumns = map[string]string{
	"name":       "name",
	"size":       "size_bytes",
	"size_bytes": "size_bytes",
	"created_at": "created_at",
	"updated_at": "updated_at",
	"$createdAt": "created_at",
	"$updatedAt": "updated_at",
}

type CreateFileParams struct {
	ID              string
	OwnerID         int64
	AccountID       string
	Name            string
	Category        filetype.Category
	Extension       string
	URL             string
	SizeBytes       int64
	SharedWith      []string
	StorageObjectID string
}

func (q *Queries) CreateFile(ctx context.Context, arg CreateFileParams) (*models.File, error) {
	sql := `
		INSERT INTO files (id, owner_id, account_id, name, category, extension, url, size_bytes, shared_with, storage_object_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + fileColumns
	now := time.Now()

	sharedWith := arg.SharedWith
	if sharedWith == nil {
		sharedWith = []string{}
	}

	row := q.db.QueryRow(ctx, sql,
		arg.ID,
		arg.OwnerID,
		arg.AccountID,
		arg.Name,
		string(arg.Category),
		arg.Extension,
		arg.URL,
		arg.SizeBytes,
		sharedWith,
		arg.StorageObjectID,
		now,
		now,
	)

	return scanFileRow(row)
}

// ListFiles compiles the predicate list to SQL and returns the matching
// records along with the total match count (before the limit).
func (q *Queries) ListFiles(ctx context.Context, preds []query.Predicate) ([]models.File, int64, error) {
	compiled, err := compileFileQuery(preds)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	countSQL := "SELECT COUNT(*) FROM files WHERE " + compiled.where
	if err := q.db.QueryRow(ctx, countSQL, compiled.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listSQL := "SELECT " + fileColumns + " FROM files WHERE " + compiled.where
	if compiled.orderBy != "" {
		listSQL += " ORDER BY " + compiled.orderBy
	}
	if compiled.limit > 0 {
		listSQL += fmt.Sprintf(" LIMIT %d", compiled.limit)
	}

	rows, err := q.db.Query(ctx, listSQL, compiled.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	files := []models.File{}
	for rows.Next() {
		file, err := scanFileRow(rows)
		if err != nil {
			return nil, 0, err
		}
		files = append(files, *file)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return files, total, nil
}

func (q *Queries) GetFileByID(ctx context.Context, id string) (*models.File, error) {
	sql := "SELECT " + fileColumns + " FROM files WHERE id = $1"

	file, err := scanFileRow(q.db.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return file, nil
}

// RenameFile updates only the name. The update is keyed on the owner, so
// it affects zero rows for a non-owner.
func (q *Queries) RenameFile(ctx context.Context, id string, ownerID int64, newName string) (*models.File, error) {
	sql := `
		UPDATE files
		SET name = $1, updated_at = $2
		WHERE id = $3 AND owner_id = $4
		RETURNING ` + fileColumns

	file, err := scanFileRow(q.db.QueryRow(ctx, sql, newName, time.Now(), id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return file, nil
}

// ReplaceSharedWith swaps the sharing list wholesale.
func (q *Queries) ReplaceSharedWith(ctx context.Context, id string, ownerID int64, emails []string) (*models.File, error) {
	if emails == nil {
		emails = []string{}
	}

	sql := `
		UPDATE files
		SET shared_with = $1, updated_at = $2
		WHERE id = $3 AND owner_id = $4
		RETURNING ` + fileColumns

	file, err := scanFileRow(q.db.QueryRow(ctx, sql, emails, time.Now(), id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return file, nil
}

// DeleteFile removes the record and reports the storage object ID that
// backed it so the caller can delete the object afterwards.
func (q *Queries) DeleteFile(ctx context.Context, id string, ownerID int64) (string, bool, error) {
	sql := `DELETE FROM files WHERE id = $1 AND owner_id = $2 RETURNING storage_object_id`

	var objectID string
	err := q.db.QueryRow(ctx, sql, id, ownerID).Scan(&objectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}

	return objectID, true, nil
}

func (q *Queries) ListFilesByOwner(ctx context.Context, ownerID int64) ([]models.File, error) {
	sql := "SELECT " + fileColumns + " FROM files WHERE owner_id = $1"

	rows, err := q.db.Query(ctx, sql, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	files := []models.File{}
	for rows.Next() {
		file, err := scanFileRow(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, *file)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return files, nil
}

func scanFileRow(row pgx.Row) (*models.File, error) {
	var file models.File
	var category string
	err := row.Scan(
		&file.ID,
		&file.OwnerID,
		&file.AccountID,
		&file.Name,
		&category,
		&file.Extension,
		&file.URL,
		&file.SizeBytes,
		&file.SharedWith,
		&file.StorageObjectID,
		&file.CreatedAt,
		&file.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	file.Category = filetype.Category(category)
	return &file, nil
}

type compiledQuery struct {
	where   string
	orderBy string
	limit   int
	args    []any
}

func compileFileQuery(preds []query.Predicate) (*compiledQuery, error) {
	c := &compiledQuery{}
	var conds []string

	for _, p := range preds {
		switch p := p.(type) {
		case query.OrderBy:
			col, ok := sortColumns[p.Field]
			if !ok {
				return nil, fmt.Errorf("%w: cannot sort by %q", ErrUnknownQueryField, p.Field)
			}
			dir := "ASC"
			if p.Descending {
				dir = "DESC"
			}
			c.orderBy = col + " " + dir
		case query.Limit:
			if p.N > 0 {
				c.limit = p.N
			}
		default:
			cond, err := c.condition(p)
			if err != nil {
				return nil, err
			}
			conds = append(conds, cond)
		}
	}

	if len(conds) == 0 {
		return nil, errors.New("file query without any filter condition")
	}
	c.where = strings.Join(conds, " AND ")

	return c, nil
}

func (c *compiledQuery) condition(p query.Predicate) (string, error) {
	switch p := p.(type) {
	case query.Equal:
		col, ok := equalColumns[p.Field]
		if !ok {
			return "", fmt.Errorf("%w: cannot filter on %q", ErrUnknownQueryField, p.Field)
		}
		switch len(p.Values) {
		case 0:
			return "", fmt.Errorf("equality on %q without values", p.Field)
		case 1:
			c.args = append(c.args, p.Values[0])
			return fmt.Sprintf("%s = $%d", col, len(c.args)), nil
		default:
			values := make([]string, len(p.Values))
			for i, v := range p.Values {
				s, ok := v.(string)
				if !ok {
					return "", fmt.Errorf("non-string value in multi-value equality on %q", p.Field)
				}
				values[i] = s
			}
			c.args = append(c.args, values)
			return fmt.Sprintf("%s = ANY($%d)", col, len(c.args)), nil
		}
	case query.Contains:
		switch p.Field {
		case "name":
			// Literal case-insensitive substring match; strpos avoids
			// LIKE wildcard interpretation of the search text.
			c.args = append(c.args, p.Value)
			return fmt.Sprintf("strpos(lower(name), lower($%d)) > 0", len(c.args)), nil
		case "shared_with":
			c.args = append(c.args, p.Value)
			return fmt.Sprintf("$%d = ANY(shared_with)", len(c.args)), nil
		default:
			return "", fmt.Errorf("%w: cannot match containment on %q", ErrUnknownQueryField, p.Field)
		}
	case query.Or:
		if len(p.Alternatives) == 0 {
			return "", errors.New("OR predicate without alternatives")
		}
		parts := make([]string, len(p.Alternatives))
		for i, alt := range p.Alternatives {
			part, err := c.condition(alt)
			if err != nil {
				return "", err
			}
			parts[i] = part
		}
		return "(" + strings.Join(parts, " OR ") + ")", nil
	default:
		return "", fmt.Errorf("predicate %T cannot appear as a filter condition", p)
	}
}
