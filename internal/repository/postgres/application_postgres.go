// Package postgres implements the repository interfaces on PostgreSQL using
// database/sql with parameterized queries. No business logic lives here.
package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/OnteruYallaiah21/Getiva-app/internal/model"
	"github.com/OnteruYallaiah21/Getiva-app/internal/repository"
)

const applicationColumns = `username, id, company, jobdescription, filename, "timestamp", download_link, view_link, status`

// ApplicationPostgres is the SQL implementation of
// repository.ApplicationRepository. Rows are keyed by (username, id); id
// assignment is owner-scoped inside the INSERT so concurrent creates for one
// owner cannot collide.
type ApplicationPostgres struct {
	db *sql.DB
}

// NewApplicationPostgres creates a new ApplicationPostgres repository.
func NewApplicationPostgres(db *sql.DB) *ApplicationPostgres {
	return &ApplicationPostgres{db: db}
}

var _ repository.ApplicationRepository = (*ApplicationPostgres)(nil)

// List returns one owner's rows, newest first, with the owner's total count.
func (r *ApplicationPostgres) List(ctx context.Context, username string, pq repository.PageQuery) (*repository.PageResult[model.Application], error) {
	const qCount = `SELECT COUNT(*) FROM applications WHERE username = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, username).Scan(&total); err != nil {
		return nil, err
	}

	// Limit <= 0 returns the whole collection.
	q := `
		SELECT ` + applicationColumns + `
		FROM applications
		WHERE username = $1
		ORDER BY "timestamp" DESC, id DESC
		OFFSET $2`
	offset := pq.Offset
	if offset < 0 {
		offset = 0
	}
	args := []any{username, offset}
	if pq.Limit > 0 {
		q += ` LIMIT $3`
		args = append(args, pq.Limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Application, 0)
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Application]{Items: items, Total: total}, nil
}

// Create inserts a row with the owner's next id and returns the stored row.
func (r *ApplicationPostgres) Create(ctx context.Context, username string, app *model.Application) (*model.Application, error) {
	const q = `
		INSERT INTO applications (username, id, company, jobdescription, filename, "timestamp", download_link, view_link, status)
		VALUES (
			$1,
			(SELECT COALESCE(MAX(id), 0) + 1 FROM applications WHERE username = $1),
			$2, $3, $4, $5, $6, $7, $8
		)
		RETURNING ` + applicationColumns
	row := r.db.QueryRowContext(ctx, q,
		username,
		app.Company,
		app.JobDescription,
		app.Filename,
		app.Timestamp,
		app.DownloadLink,
		app.ViewLink,
		app.Status,
	)
	return scanApplication(row)
}

// Update replaces only the supplied fields; nil pointers keep stored values.
func (r *ApplicationPostgres) Update(ctx context.Context, username string, id int, upd repository.ApplicationUpdate) (*model.Application, error) {
	var filename, downloadLink, viewLink *string
	if upd.File != nil {
		filename = &upd.File.Filename
		downloadLink = &upd.File.DownloadLink
		viewLink = &upd.File.ViewLink
	}

	const q = `
		UPDATE applications SET
			company        = COALESCE($3, company),
			jobdescription = COALESCE($4, jobdescription),
			status         = COALESCE($5, status),
			filename       = COALESCE($6, filename),
			download_link  = COALESCE($7, download_link),
			view_link      = COALESCE($8, view_link),
			"timestamp"    = $9
		WHERE username = $1 AND id = $2
		RETURNING ` + applicationColumns
	row := r.db.QueryRowContext(ctx, q,
		username, id,
		upd.Company, upd.JobDescription, upd.Status,
		filename, downloadLink, viewLink,
		upd.Timestamp,
	)
	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return app, nil
}

// Delete removes one row; a missing row reports ErrNotFound.
func (r *ApplicationPostgres) Delete(ctx context.Context, username string, id int) error {
	const q = `DELETE FROM applications WHERE username = $1 AND id = $2`
	res, err := r.db.ExecContext(ctx, q, username, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteCollection removes every row owned by username.
func (r *ApplicationPostgres) DeleteCollection(ctx context.Context, username string) error {
	const q = `DELETE FROM applications WHERE username = $1`
	_, err := r.db.ExecContext(ctx, q, username)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(row rowScanner) (*model.Application, error) {
	var a model.Application
	if err := row.Scan(
		&a.Username,
		&a.ID,
		&a.Company,
		&a.JobDescription,
		&a.Filename,
		&a.Timestamp,
		&a.DownloadLink,
		&a.ViewLink,
		&a.Status,
	); err != nil {
		return nil, err
	}
	return &a, nil
}
