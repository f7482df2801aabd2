package archive

import (
	"bytes"
	"compress/gzip"
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite" // SQLite driver
)

const (
	// DefaultBatchSize is the number of fish to buffer before flushing to
	// the database.
	DefaultBatchSize = 100
)

// FishEntry represents a single fish to be written.
type FishEntry struct {
	Data   []byte // PNG data (will be gzip-compressed before storage)
	Recipe []byte // JSON recipe, may be empty
	Seed   int64
}

// Writer writes fish to an archive database. It satisfies the pipeline's
// FishWriter interface and is safe for concurrent use.
type Writer struct {
	db        *sql.DB
	path      string
	batch     []FishEntry
	metadata  Metadata
	batchSize int
	mu        sync.Mutex
}

// New creates a new archive writer.
// The database is created if it doesn't exist, and the schema is initialized.
func New(path string, metadata Metadata) (*Writer, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Set performance pragmas
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA cache_size = 50000",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	// Create schema
	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	// Insert metadata
	if err := insertMetadata(db, metadata); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to insert metadata: %w", err)
	}

	return &Writer{
		db:        db,
		path:      path,
		batch:     make([]FishEntry, 0, DefaultBatchSize),
		batchSize: DefaultBatchSize,
		metadata:  metadata,
	}, nil
}

// createSchema creates the archive database schema.
func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS metadata (
			name TEXT NOT NULL,
			value TEXT
		);

		CREATE TABLE IF NOT EXISTS fish (
			seed INTEGER NOT NULL PRIMARY KEY,
			data BLOB NOT NULL,
			recipe TEXT
		);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	return nil
}

// insertMetadata inserts metadata into the database.
func insertMetadata(db *sql.DB, meta Metadata) error {
	// Clear existing metadata
	if _, err := db.Exec("DELETE FROM metadata"); err != nil {
		return fmt.Errorf("failed to clear metadata: %w", err)
	}

	stmt, err := db.Prepare("INSERT INTO metadata (name, value) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare metadata insert: %w", err)
	}
	defer stmt.Close()

	for key, value := range meta.ToMap() {
		if _, err := stmt.Exec(key, value); err != nil {
			return fmt.Errorf("failed to insert metadata %q: %w", key, err)
		}
	}

	return nil
}

// WriteFish adds a fish to the batch. When the batch is full, it is
// automatically flushed. The PNG data is gzip-compressed before storage.
func (w *Writer) WriteFish(seed int64, pngData []byte, recipe []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.batch = append(w.batch, FishEntry{
		Seed:   seed,
		Data:   pngData,
		Recipe: recipe,
	})

	if len(w.batch) >= w.batchSize {
		return w.flushLocked()
	}

	return nil
}

// Flush writes any buffered fish to the database.
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.flushLocked()
}

// flushLocked writes buffered fish to the database. Must be called with lock held.
func (w *Writer) flushLocked() error {
	if len(w.batch) == 0 {
		return nil
	}

	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // nolint:errcheck

	stmt, err := tx.Prepare("INSERT OR REPLACE INTO fish (seed, data, recipe) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, entry := range w.batch {
		// Gzip compress the PNG data
		compressed, err := gzipCompress(entry.Data)
		if err != nil {
			return fmt.Errorf("failed to compress fish %d: %w", entry.Seed, err)
		}

		var recipe any
		if len(entry.Recipe) > 0 {
			recipe = string(entry.Recipe)
		}

		if _, err := stmt.Exec(entry.Seed, compressed, recipe); err != nil {
			return fmt.Errorf("failed to insert fish %d: %w", entry.Seed, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	w.batch = w.batch[:0]
	return nil
}

// Close flushes any remaining fish and closes the database.
func (w *Writer) Close() error {
	if err := w.Flush(); err != nil {
		w.db.Close()
		return err
	}

	if err := w.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}

// gzipCompress compresses data with gzip.
func gzipCompress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)

	if _, err := gw.Write(data); err != nil {
		gw.Close()
		return nil, err
	}

	if err := gw.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
