package archive

import (
	"bytes"
	"compress/gzip"
	"database/sql"
	"fmt"
	"io"
)

// Reader reads fish from an archive database.
type Reader struct {
	db   *sql.DB
	path string
}

// OpenReader opens an archive database for reading.
func OpenReader(path string) (*Reader, error) {
	// Open in read-only mode with immutable flag
	db, err := sql.Open("sqlite", path+"?mode=ro&immutable=1")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Verify schema exists
	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='fish'").Scan(&count)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to verify schema: %w", err)
	}
	if count == 0 {
		db.Close()
		return nil, fmt.Errorf("database does not contain fish table")
	}

	return &Reader{
		db:   db,
		path: path,
	}, nil
}

// ReadFish reads a fish from the database and returns ungzipped PNG data.
func (r *Reader) ReadFish(seed int64) ([]byte, error) {
	var compressedData []byte
	err := r.db.QueryRow(
		"SELECT data FROM fish WHERE seed=?",
		seed,
	).Scan(&compressedData)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("fish not found: seed %d", seed)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query fish: %w", err)
	}

	// Decompress gzip data
	uncompressed, err := gzipDecompress(compressedData)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress fish: %w", err)
	}

	return uncompressed, nil
}

// ReadRecipe reads the JSON recipe stored for a seed. Fish archived
// without a recipe yield nil.
func (r *Reader) ReadRecipe(seed int64) ([]byte, error) {
	var recipe sql.NullString
	err := r.db.QueryRow(
		"SELECT recipe FROM fish WHERE seed=?",
		seed,
	).Scan(&recipe)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("fish not found: seed %d", seed)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query recipe: %w", err)
	}

	if !recipe.Valid {
		return nil, nil
	}
	return []byte(recipe.String), nil
}

// Seeds returns every stored seed in ascending order.
func (r *Reader) Seeds() ([]int64, error) {
	rows, err := r.db.Query("SELECT seed FROM fish ORDER BY seed")
	if err != nil {
		return nil, fmt.Errorf("failed to query seeds: %w", err)
	}
	defer rows.Close()

	var seeds []int64
	for rows.Next() {
		var seed int64
		if err := rows.Scan(&seed); err != nil {
			return nil, fmt.Errorf("failed to scan seed: %w", err)
		}
		seeds = append(seeds, seed)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating seeds: %w", err)
	}

	return seeds, nil
}

// Count returns the number of fish in the archive.
func (r *Reader) Count() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM fish").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count fish: %w", err)
	}
	return count, nil
}

// Metadata reads metadata from the database.
func (r *Reader) Metadata() (Metadata, error) {
	rows, err := r.db.Query("SELECT name, value FROM metadata")
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to query metadata: %w", err)
	}
	defer rows.Close()

	meta := Metadata{}
	metaMap := make(map[string]string)

	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return Metadata{}, fmt.Errorf("failed to scan metadata row: %w", err)
		}
		metaMap[name] = value
	}

	if err := rows.Err(); err != nil {
		return Metadata{}, fmt.Errorf("error iterating metadata: %w", err)
	}

	meta.Name = metaMap["name"]
	meta.Description = metaMap["description"]
	meta.Palette = metaMap["palette"]
	meta.Version = metaMap["version"]

	if v, ok := metaMap["size"]; ok {
		if size, ok := parseSize(v); ok {
			meta.Size = size
		}
	}

	return meta, nil
}

// Close closes the database connection.
func (r *Reader) Close() error {
	if err := r.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// gzipDecompress decompresses gzip data.
func gzipDecompress(data []byte) ([]byte, error) {
	gr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer gr.Close()

	uncompressed, err := io.ReadAll(gr)
	if err != nil {
		return nil, err
	}

	return uncompressed, nil
}
