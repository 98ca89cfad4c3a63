package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sakif/donation-hub/internal/apperror"
	"github.com/sakif/donation-hub/internal/model"
	"github.com/sakif/donation-hub/internal/repository"
)

var _ repository.ResourceRepository = (*ResourceDB)(nil)

// ResourceDB stores donation listings.
type ResourceDB struct {
	conn *sql.DB
}

const resourceColumns = `id, name, qtty, pincode, city, state, country, phone, user_id, created_at`

func (r *ResourceDB) Create(ctx context.Context, res *model.Resource) error {
	res.ID = newID()
	res.CreatedAt = time.Now().UTC()

	_, err := r.conn.ExecContext(ctx,
		`INSERT INTO resources (`+resourceColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.ID,
		res.Name,
		res.Quantity,
		res.Pincode,
		res.City,
		res.State,
		res.Country,
		res.Phone,
		res.UserID,
		res.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting resource: %w", err)
	}
	return nil
}

func (r *ResourceDB) GetByID(ctx context.Context, id string) (*model.Resource, error) {
	if err := parseID("resource", id); err != nil {
		return nil, err
	}

	res, err := scanResource(r.conn.QueryRowContext(ctx,
		`SELECT `+resourceColumns+` FROM resources WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("No such resource exists")
		}
		return nil, fmt.Errorf("sqlite: getting resource %s: %w", id, err)
	}
	return res, nil
}

// List builds the WHERE clause from the non-empty filter fields. Column
// names are fixed strings; only values are bound as parameters.
func (r *ResourceDB) List(ctx context.Context, f repository.ResourceFilter) ([]model.Resource, error) {
	var (
		where []string
		args  []any
	)
	for _, c := range []struct {
		column, value string
	}{
		{"user_id", f.UserID},
		{"city", f.City},
		{"state", f.State},
		{"country", f.Country},
	} {
		if c.value != "" {
			where = append(where, c.column+" = ?")
			args = append(args, c.value)
		}
	}

	query := `SELECT ` + resourceColumns + ` FROM resources`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at, rowid`

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing resources: %w", err)
	}
	defer rows.Close()

	resources := []model.Resource{}
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning resource row: %w", err)
		}
		resources = append(resources, *res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating resources: %w", err)
	}
	return resources, nil
}

func (r *ResourceDB) Update(ctx context.Context, res *model.Resource) error {
	if err := parseID("resource", res.ID); err != nil {
		return err
	}

	result, err := r.conn.ExecContext(ctx,
		`UPDATE resources
		 SET name = ?, qtty = ?, pincode = ?, city = ?, state = ?, country = ?, phone = ?
		 WHERE id = ?`,
		res.Name,
		res.Quantity,
		res.Pincode,
		res.City,
		res.State,
		res.Country,
		res.Phone,
		res.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating resource %s: %w", res.ID, err)
	}
	return expectOneRow(result, "No such resource exists")
}

func (r *ResourceDB) Delete(ctx context.Context, id string) error {
	if err := parseID("resource", id); err != nil {
		return err
	}

	result, err := r.conn.ExecContext(ctx, `DELETE FROM resources WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting resource %s: %w", id, err)
	}
	return expectOneRow(result, "No such resource exists")
}

func scanResource(row rowScanner) (*model.Resource, error) {
	var res model.Resource
	if err := row.Scan(
		&res.ID,
		&res.Name,
		&res.Quantity,
		&res.Pincode,
		&res.City,
		&res.State,
		&res.Country,
		&res.Phone,
		&res.UserID,
		&res.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &res, nil
}

// expectOneRow turns "0 rows affected" into a NotFound with msg.
func expectOneRow(result sql.Result, msg string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if n == 0 {
		return apperror.NotFound(msg)
	}
	return nil
}
