package store

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/cwbudde/algo-xspec/internal/store/migrations"
	"github.com/cwbudde/algo-xspec/xray/spectrum"
	"github.com/cwbudde/algo-xspec/xray/units"
)

// Errors returned by the store.
var (
	ErrNotFound       = errors.New("store: product not found")
	ErrCorruptProduct = errors.New("store: corrupt product")
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Product is a stored binned histogram and the settings that produced it.
type Product struct {
	ID          uuid.UUID
	Source      string
	Grouping    string
	BkgSub      bool
	UseBackscal bool
	Histogram   spectrum.Histogram
	CreatedAt   time.Time
}

// Info summarises a product without its bin arrays.
type Info struct {
	ID        uuid.UUID
	Source    string
	Grouping  string
	BkgSub    bool
	Unit      units.Unit
	Bins      int
	CreatedAt time.Time
}

// Store is a SQLite product database.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the database at path and applies pending
// migrations. Parent directories are created as needed.
func Open(path string) (*Store, error) {
	dsn := MemoryPath
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("store: creating directory: %w", err)
		}
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: opening database: %w", err)
	}
	if path == MemoryPath {
		// every connection would get its own empty database
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db, path: path}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: running migrations: %w", err)
	}
	return s, nil
}

// Path returns the database location.
func (s *Store) Path() string { return s.path }

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var current int
	if err := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&current); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations: %w", err)
	}
	var ups []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".up.sql") {
			ups = append(ups, e.Name())
		}
	}
	sort.Strings(ups)

	for _, name := range ups {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil || version <= current {
			continue
		}
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}
	return nil
}

// Save stores p and returns its id. A zero ID is replaced by a fresh UUID
// and a zero CreatedAt by the current time.
func (s *Store) Save(ctx context.Context, p Product) (uuid.UUID, error) {
	h := p.Histogram
	n := h.Len()
	if len(h.BinLo) != n || len(h.BinHi) != n || len(h.Err) != n {
		return uuid.Nil, fmt.Errorf("%w: array lengths differ", ErrCorruptProduct)
	}
	if !h.Unit.Valid() {
		return uuid.Nil, fmt.Errorf("%w: unit %q", ErrCorruptProduct, h.Unit)
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO products (id, source, grouping, bkgsub, usebackscal, unit, nbins,
			bin_lo, bin_hi, counts, err, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source = excluded.source,
			grouping = excluded.grouping,
			bkgsub = excluded.bkgsub,
			usebackscal = excluded.usebackscal,
			unit = excluded.unit,
			nbins = excluded.nbins,
			bin_lo = excluded.bin_lo,
			bin_hi = excluded.bin_hi,
			counts = excluded.counts,
			err = excluded.err
	`,
		p.ID.String(), p.Source, p.Grouping, p.BkgSub, p.UseBackscal, string(h.Unit), n,
		encodeFloats(h.BinLo), encodeFloats(h.BinHi), encodeFloats(h.Counts), encodeFloats(h.Err),
		p.CreatedAt,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("store: saving product: %w", err)
	}
	return p.ID, nil
}

// Load returns the product with the given id.
func (s *Store) Load(ctx context.Context, id uuid.UUID) (Product, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT source, grouping, bkgsub, usebackscal, unit, nbins,
			bin_lo, bin_hi, counts, err, created_at
		FROM products WHERE id = ?
	`, id.String())

	var (
		p                    = Product{ID: id}
		unit                 string
		nbins                int
		lo, hi, counts, errs []byte
	)
	err := row.Scan(&p.Source, &p.Grouping, &p.BkgSub, &p.UseBackscal, &unit, &nbins,
		&lo, &hi, &counts, &errs, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Product{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Product{}, fmt.Errorf("store: loading product: %w", err)
	}

	h := spectrum.Histogram{Unit: units.Unit(unit)}
	for _, col := range []struct {
		name string
		data []byte
		dst  *[]float64
	}{
		{"bin_lo", lo, &h.BinLo},
		{"bin_hi", hi, &h.BinHi},
		{"counts", counts, &h.Counts},
		{"err", errs, &h.Err},
	} {
		v, err := decodeFloats(col.data, nbins)
		if err != nil {
			return Product{}, fmt.Errorf("%w: %s: %s", ErrCorruptProduct, id, col.name)
		}
		*col.dst = v
	}
	p.Histogram = h
	return p, nil
}

// List returns all products, newest first.
func (s *Store) List(ctx context.Context) ([]Info, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, grouping, bkgsub, unit, nbins, created_at
		FROM products ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("store: listing products: %w", err)
	}
	defer rows.Close()

	var out []Info
	for rows.Next() {
		var (
			info Info
			id   string
			unit string
		)
		if err := rows.Scan(&id, &info.Source, &info.Grouping, &info.BkgSub, &unit, &info.Bins, &info.CreatedAt); err != nil {
			return nil, fmt.Errorf("store: scanning product: %w", err)
		}
		if info.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("%w: id %q", ErrCorruptProduct, id)
		}
		info.Unit = units.Unit(unit)
		out = append(out, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: listing products: %w", err)
	}
	return out, nil
}

// Delete removes the product with the given id.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id.String())
	if err != nil {
		return fmt.Errorf("store: deleting product: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: deleting product: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func encodeFloats(v []float64) []byte {
	buf := make([]byte, len(v)*8)
	for i, f := range v {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(f))
	}
	return buf
}

func decodeFloats(data []byte, n int) ([]float64, error) {
	if len(data) != n*8 {
		return nil, fmt.Errorf("want %d bytes, got %d", n*8, len(data))
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[i*8:]))
	}
	return out, nil
}
