package catalog

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const cacheSchemaVersion = 1

// ErrCacheMiss is returned by Cache.Get when no solution is stored for the
// requested star.
var ErrCacheMiss = errors.New("catalog cache miss")

// Cache is a local sqlite store of fetched catalog solutions, so repeated
// runs against the same target do not re-query VizieR.
type Cache struct {
	conn *sql.DB
}

// OpenCache opens (and if needed creates) the cache database at path.
func OpenCache(path string) (*Cache, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=10000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog cache: %w", err)
	}

	c := &Cache{conn: db}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

// migrate applies schema migrations incrementally.
func (c *Cache) migrate() error {
	tx, err := c.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var version int
	if err := tx.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return err
	}

	for version < cacheSchemaVersion {
		version++
		switch version {
		case 1:
			if err := applyCacheSchemaV1(tx); err != nil {
				return fmt.Errorf("failed to apply cache schema v%d: %w", version, err)
			}
		default:
			return fmt.Errorf("unknown cache schema version: %d", version)
		}
	}

	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", cacheSchemaVersion)); err != nil {
		return err
	}
	return tx.Commit()
}

func applyCacheSchemaV1(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS solutions (
			hip        TEXT PRIMARY KEY,
			ra         REAL NOT NULL,
			dec        REAL NOT NULL,
			plx        REAL NOT NULL,
			pm_ra      REAL NOT NULL,
			pm_dec     REAL NOT NULL,
			ra_err     REAL NOT NULL,
			dec_err    REAL NOT NULL,
			plx_err    REAL NOT NULL,
			pm_ra_err  REAL NOT NULL,
			pm_dec_err REAL NOT NULL,
			fetched_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`)
	return err
}

// Get returns the cached solution for a HIP number, or ErrCacheMiss.
func (c *Cache) Get(hip string) (*Solution, error) {
	sol := &Solution{HIP: hip}
	err := c.conn.QueryRow(`
		SELECT ra, dec, plx, pm_ra, pm_dec,
		       ra_err, dec_err, plx_err, pm_ra_err, pm_dec_err
		FROM solutions WHERE hip = ?`, hip).Scan(
		&sol.RA, &sol.Dec, &sol.Plx, &sol.PMRA, &sol.PMDec,
		&sol.RAErr, &sol.DecErr, &sol.PlxErr, &sol.PMRAErr, &sol.PMDecErr,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog cache: %w", err)
	}
	return sol, nil
}

// Put stores or replaces the solution for its HIP number.
func (c *Cache) Put(sol *Solution) error {
	if err := sol.Validate(); err != nil {
		return err
	}
	_, err := c.conn.Exec(`
		INSERT OR REPLACE INTO solutions
			(hip, ra, dec, plx, pm_ra, pm_dec,
			 ra_err, dec_err, plx_err, pm_ra_err, pm_dec_err)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sol.HIP, sol.RA, sol.Dec, sol.Plx, sol.PMRA, sol.PMDec,
		sol.RAErr, sol.DecErr, sol.PlxErr, sol.PMRAErr, sol.PMDecErr,
	)
	if err != nil {
		return fmt.Errorf("failed to write catalog cache: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.conn.Close()
}
