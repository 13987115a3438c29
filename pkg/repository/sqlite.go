package repository

import (
	"context"
	"database/sql"
	stderrors "errors"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/agentstation/planets/pkg/errors"
	"github.com/agentstation/planets/pkg/planets"
)

const backendSQLite = "sqlite"

// SQLite is a Repository backed by a SQLite database. Each write runs in
// its own transaction so check-then-modify sequences are atomic.
type SQLite struct {
	db *sql.DB
}

var _ Repository = (*SQLite)(nil)

// NewSQLite opens the database at dsn, migrates the schema and inserts the
// seed planets if the table is empty. Use ":memory:" for a throwaway store.
func NewSQLite(ctx context.Context, dsn string, seed ...planets.Planet) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.WrapStorage(backendSQLite, "open", err)
	}
	// A single connection keeps ":memory:" databases shared and serializes
	// writers the way SQLite expects.
	db.SetMaxOpenConns(1)

	repo := &SQLite{db: db}
	if err := repo.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, errors.WrapStorage(backendSQLite, "migrate", err)
	}
	if err := repo.seed(ctx, seed); err != nil {
		_ = db.Close()
		return nil, errors.WrapStorage(backendSQLite, "seed", err)
	}
	return repo, nil
}

func (r *SQLite) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS planets (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		key TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		radius REAL NOT NULL,
		distance_to_sun REAL NOT NULL
	);
	`
	_, err := r.db.ExecContext(ctx, schema)
	return err
}

func (r *SQLite) seed(ctx context.Context, seed []planets.Planet) error {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM planets`).Scan(&count); err != nil {
		return err
	}
	if count > 0 || len(seed) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, p := range seed {
		p = p.Normalized()
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO planets (key, name, radius, distance_to_sun) VALUES (?, ?, ?, ?)`,
			p.Name, p.Name, p.Radius, p.DistanceToSun,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Get implements Repository.
func (r *SQLite) Get(ctx context.Context, name string) (planets.Planet, bool, error) {
	var p planets.Planet
	err := r.db.QueryRowContext(ctx,
		`SELECT name, radius, distance_to_sun FROM planets WHERE key = ?`,
		planets.NormalizeName(name),
	).Scan(&p.Name, &p.Radius, &p.DistanceToSun)
	if stderrors.Is(err, sql.ErrNoRows) {
		return planets.Planet{}, false, nil
	}
	if err != nil {
		return planets.Planet{}, false, errors.WrapStorage(backendSQLite, "get", err)
	}
	return p, true, nil
}

// List implements Repository.
func (r *SQLite) List(ctx context.Context) ([]planets.Planet, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name, radius, distance_to_sun FROM planets ORDER BY seq`)
	if err != nil {
		return nil, errors.WrapStorage(backendSQLite, "list", err)
	}
	defer rows.Close()

	out := []planets.Planet{}
	for rows.Next() {
		var p planets.Planet
		if err := rows.Scan(&p.Name, &p.Radius, &p.DistanceToSun); err != nil {
			return nil, errors.WrapStorage(backendSQLite, "list", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapStorage(backendSQLite, "list", err)
	}
	return out, nil
}

// Create implements Repository.
func (r *SQLite) Create(ctx context.Context, p planets.Planet) error {
	p = p.Normalized()
	return r.inTx(ctx, "create", func(tx *sql.Tx) error {
		exists, err := keyExists(ctx, tx, p.Name)
		if err != nil {
			return err
		}
		if exists {
			return errors.NewAlreadyExistsError(Resource, p.Name)
		}
		return insertPlanet(ctx, tx, p.Name, p)
	})
}

// Update implements Repository.
func (r *SQLite) Update(ctx context.Context, name string, p planets.Planet) error {
	key := planets.NormalizeName(name)
	return r.inTx(ctx, "update", func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE planets SET name = ?, radius = ?, distance_to_sun = ? WHERE key = ?`,
			p.Name, p.Radius, p.DistanceToSun, key,
		)
		if err != nil {
			return err
		}
		return requireAffected(res, key)
	})
}

// Delete implements Repository.
func (r *SQLite) Delete(ctx context.Context, name string) error {
	key := planets.NormalizeName(name)
	return r.inTx(ctx, "delete", func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM planets WHERE key = ?`, key)
		if err != nil {
			return err
		}
		return requireAffected(res, key)
	})
}

// Replace implements Repository. Replacing under the same key keeps the
// row's sequence; a rename inserts a new row at the end.
func (r *SQLite) Replace(ctx context.Context, target string, p planets.Planet) error {
	oldKey := planets.NormalizeName(target)
	p = p.Normalized()

	return r.inTx(ctx, "replace", func(tx *sql.Tx) error {
		exists, err := keyExists(ctx, tx, oldKey)
		if err != nil {
			return err
		}
		if !exists {
			return errors.NewNotFoundError(Resource, oldKey)
		}

		if p.Name == oldKey {
			_, err := tx.ExecContext(ctx,
				`UPDATE planets SET name = ?, radius = ?, distance_to_sun = ? WHERE key = ?`,
				p.Name, p.Radius, p.DistanceToSun, oldKey,
			)
			return err
		}

		taken, err := keyExists(ctx, tx, p.Name)
		if err != nil {
			return err
		}
		if taken {
			return errors.NewAlreadyExistsError(Resource, p.Name)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM planets WHERE key = ?`, oldKey); err != nil {
			return err
		}
		return insertPlanet(ctx, tx, p.Name, p)
	})
}

// Close implements Repository.
func (r *SQLite) Close() error {
	return r.db.Close()
}

// inTx runs fn in a transaction. Domain errors from fn are returned as-is;
// driver errors are wrapped as storage errors.
func (r *SQLite) inTx(ctx context.Context, op string, fn func(*sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.WrapStorage(backendSQLite, op, err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		if errors.IsNotFound(err) || errors.IsAlreadyExists(err) {
			return err
		}
		return errors.WrapStorage(backendSQLite, op, err)
	}
	if err := tx.Commit(); err != nil {
		return errors.WrapStorage(backendSQLite, op, err)
	}
	return nil
}

func keyExists(ctx context.Context, tx *sql.Tx, key string) (bool, error) {
	var one int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM planets WHERE key = ?`, key).Scan(&one)
	if stderrors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

func insertPlanet(ctx context.Context, tx *sql.Tx, key string, p planets.Planet) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO planets (key, name, radius, distance_to_sun) VALUES (?, ?, ?, ?)`,
		key, p.Name, p.Radius, p.DistanceToSun,
	)
	return err
}

func requireAffected(res sql.Result, key string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.NewNotFoundError(Resource, key)
	}
	return nil
}
