package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	"golang.org/x/exp/slices"

	"alphaDash/internal/repositories/migrations"
	"alphaDash/internal/session"
)

const sessionTable = "alpha_session_values"

// SessionRepository keeps session values in a SQL table, one row per key.
// Driver is "mysql" or "pgx"; it picks the placeholder style and the
// migration dialect.
type SessionRepository struct {
	DB     *sql.DB
	Driver string
}

// Migrate brings the session table up to date.
func (r *SessionRepository) Migrate(ctx context.Context) error {
	return migrations.Up(ctx, r.DB, r.Driver)
}

func (r *SessionRepository) Load(ctx context.Context, sessionID string) (map[string]string, error) {
	query, args, err := r.builder().
		Select("storage_key", "value").
		From(sessionTable).
		Where(squirrel.Eq{"session_id": sessionID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		values[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return values, nil
}

// Save overwrites the given keys inside one transaction. Keys not in values are
// left untouched.
func (r *SessionRepository) Save(ctx context.Context, sessionID string, values map[string]string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, key := range sortedKeys(values) {
		del, args, err := r.builder().
			Delete(sessionTable).
			Where(squirrel.Eq{"session_id": sessionID, "storage_key": key}).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, del, args...); err != nil {
			return err
		}
		if err := r.insert(ctx, tx, sessionID, key, values[key], now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Update writes values only for a session that still has rows. The rows are
// locked first, so a concurrent Clear either runs before (and Update reports
// session.ErrNotStored) or waits for the commit.
func (r *SessionRepository) Update(ctx context.Context, sessionID string, values map[string]string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query, args, err := r.builder().
		Select("storage_key").
		From(sessionTable).
		Where(squirrel.Eq{"session_id": sessionID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return err
	}
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	stored := make(map[string]bool)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			rows.Close()
			return err
		}
		stored[key] = true
	}
	if err := rows.Close(); err != nil {
		return err
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if len(stored) == 0 {
		return session.ErrNotStored
	}

	now := time.Now().UTC()
	for _, key := range sortedKeys(values) {
		if !stored[key] {
			if err := r.insert(ctx, tx, sessionID, key, values[key], now); err != nil {
				return err
			}
			continue
		}
		upd, args, err := r.builder().
			Update(sessionTable).
			Set("value", values[key]).
			Set("updated_at", now).
			Where(squirrel.Eq{"session_id": sessionID, "storage_key": key}).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, upd, args...); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// DeleteExpired removes rows last written before the cutoff and reports how
// many went.
func (r *SessionRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	query, args, err := r.builder().
		Delete(sessionTable).
		Where(squirrel.Lt{"updated_at": before.UTC()}).
		ToSql()
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *SessionRepository) insert(ctx context.Context, tx *sql.Tx, sessionID, key, value string, now time.Time) error {
	ins, args, err := r.builder().
		Insert(sessionTable).
		Columns("session_id", "storage_key", "value", "updated_at").
		Values(sessionID, key, value, now).
		ToSql()
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, ins, args...)
	return err
}

func (r *SessionRepository) Clear(ctx context.Context, sessionID string) error {
	query, args, err := r.builder().
		Delete(sessionTable).
		Where(squirrel.Eq{"session_id": sessionID}).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query, args...)
	return err
}

// builder uses $n placeholders for postgres and ? otherwise.
func (r *SessionRepository) builder() squirrel.StatementBuilderType {
	if migrations.Dialect(r.Driver) == "postgres" {
		return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	}
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)
}

func sortedKeys(values map[string]string) []string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
