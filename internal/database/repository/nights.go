package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// querier is the part of *sql.DB and *sql.Tx the repo needs.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// NightRepo handles nights.
type NightRepo struct {
	db querier
}

func NewNightRepo(db *sql.DB) *NightRepo { return &NightRepo{db: db} }

// WithTx returns a repo whose statements run inside tx.
func (r *NightRepo) WithTx(tx *sql.Tx) *NightRepo { return &NightRepo{db: tx} }

const nightColumns = "night_id, start_time_milli, end_time_milli, quality_rating"

// Insert stores n and sets its generated ID.
func (r *NightRepo) Insert(ctx context.Context, n *Night) error {
	res, err := r.db.ExecContext(ctx, `
	INSERT INTO daily_sleep_quality_table(start_time_milli, end_time_milli, quality_rating)
	VALUES(?, ?, ?);
	`, n.Start.UnixMilli(), n.End.UnixMilli(), n.Quality)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	n.ID = id
	return nil
}

func (r *NightRepo) Update(ctx context.Context, n Night) error {
	_, err := r.db.ExecContext(ctx, `
	UPDATE daily_sleep_quality_table
	SET start_time_milli = ?, end_time_milli = ?, quality_rating = ?
	WHERE night_id = ?`, n.Start.UnixMilli(), n.End.UnixMilli(), n.Quality, n.ID)
	return err
}

// Get returns the night with id, or nil when there is none.
func (r *NightRepo) Get(ctx context.Context, id int64) (*Night, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+nightColumns+` FROM daily_sleep_quality_table WHERE night_id = ?`, id)
	return scanOptional(row)
}

// Tonight returns the most recently inserted night, open or not, or nil when
// the table is empty.
func (r *NightRepo) Tonight(ctx context.Context) (*Night, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+nightColumns+` FROM daily_sleep_quality_table ORDER BY night_id DESC LIMIT 1`)
	return scanOptional(row)
}

// All returns every night, newest first.
func (r *NightRepo) All(ctx context.Context) ([]Night, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+nightColumns+` FROM daily_sleep_quality_table ORDER BY night_id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Night
	for rows.Next() {
		n, err := scanNight(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// Clear deletes every night.
func (r *NightRepo) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM daily_sleep_quality_table`)
	return err
}

// Count returns the number of stored nights.
func (r *NightRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM daily_sleep_quality_table`).Scan(&n)
	return n, err
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanOptional(row scanner) (*Night, error) {
	n, err := scanNight(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &n, nil
}

func scanNight(row scanner) (Night, error) {
	var n Night
	var start, end int64
	if err := row.Scan(&n.ID, &start, &end, &n.Quality); err != nil {
		return Night{}, err
	}
	n.Start = time.UnixMilli(start).UTC()
	n.End = time.UnixMilli(end).UTC()
	return n, nil
}
