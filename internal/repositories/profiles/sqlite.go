package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/sitepass/internal/common"
	"github.com/dmitrijs2005/sitepass/internal/dbx"
	"github.com/dmitrijs2005/sitepass/internal/derive"
	"github.com/google/uuid"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// CreateOrUpdate upserts a profile by id. On conflict, policy columns are
// updated; the site_label UNIQUE constraint still applies across rows.
func (r *SQLiteRepository) CreateOrUpdate(ctx context.Context, p *derive.Profile) error {
	query := `INSERT INTO profiles (id, site_label, length, classes, counter)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET site_label = excluded.site_label,
				length = excluded.length,
				classes = excluded.classes,
				counter = excluded.counter
	`
	_, err := r.db.ExecContext(ctx, query,
		p.ID.String(), p.SiteLabel, p.Length, int(p.Classes), p.Counter)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByLabel(ctx context.Context, label string) (*derive.Profile, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, site_label, length, classes, counter FROM profiles WHERE site_label = ?`, label)

	p, err := scanProfile(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("profile %q: %w", label, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile %q: %w", label, err)
	}
	return p, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]derive.Profile, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, site_label, length, classes, counter FROM profiles ORDER BY site_label`)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var result []derive.Profile
	for rows.Next() {
		p, err := scanProfile(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile row: %w", err)
		}
		result = append(result, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate profile rows: %w", err)
	}

	return result, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, label string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE site_label = ?`, label)
	if err != nil {
		return fmt.Errorf("failed to delete profile %q: %w", label, err)
	}
	return requireAffected(res, label)
}

func (r *SQLiteRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM profiles`)
	if err != nil {
		return fmt.Errorf("failed to delete all profiles: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) BumpCounter(ctx context.Context, label string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE profiles SET counter = counter + 1 WHERE site_label = ?`, label)
	if err != nil {
		return fmt.Errorf("failed to bump counter for %q: %w", label, err)
	}
	return requireAffected(res, label)
}

// scanProfile maps one row onto a Profile, converting the stored uuid string
// and class bitmask.
func scanProfile(scan func(dest ...any) error) (*derive.Profile, error) {
	var (
		id      string
		p       derive.Profile
		classes int
	)
	if err := scan(&id, &p.SiteLabel, &p.Length, &classes, &p.Counter); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid profile id %q: %w", id, err)
	}
	p.ID = parsed
	p.Classes = derive.ClassSet(classes)
	return &p, nil
}

func requireAffected(res sql.Result, label string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("profile %q: %w", label, common.ErrNotFound)
	}
	return nil
}
