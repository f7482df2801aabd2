package archive

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/amane-katagiri/jelatofish/internal/types"
)

func TestWriter_New(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.fishdb")

	metadata := Metadata{
		Name:        "Test Archive",
		Description: "Test description",
		Palette:     "ocean",
		Version:     "1.0",
		Size:        types.Area{Width: 256, Height: 256},
	}

	w, err := New(dbPath, metadata)
	if err != nil {
		t.Fatalf("Failed to create writer: %v", err)
	}
	defer w.Close()

	// Verify database file exists
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Fatal("Database file was not created")
	}

	// Verify schema exists
	var count int
	err = w.db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='fish'").Scan(&count)
	if err != nil {
		t.Fatalf("Failed to query schema: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected fish table to exist, got count=%d", count)
	}

	// Verify metadata was inserted
	err = w.db.QueryRow("SELECT COUNT(*) FROM metadata").Scan(&count)
	if err != nil {
		t.Fatalf("Failed to query metadata: %v", err)
	}
	if count == 0 {
		t.Error("Expected metadata to be inserted")
	}
}

func TestWriter_WriteFish(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.fishdb")

	w, err := New(dbPath, Metadata{Name: "Test"})
	if err != nil {
		t.Fatalf("Failed to create writer: %v", err)
	}
	defer w.Close()

	pngData := []byte("fake png data")
	recipe := []byte(`{"layers":[]}`)

	if err := w.WriteFish(42, pngData, recipe); err != nil {
		t.Fatalf("Failed to write fish: %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Failed to flush: %v", err)
	}

	// Verify fish was written with compressed data and the recipe text
	var data []byte
	var storedRecipe sql.NullString
	err = w.db.QueryRow("SELECT data, recipe FROM fish WHERE seed=?", 42).Scan(&data, &storedRecipe)
	if err != nil {
		t.Fatalf("Failed to read fish: %v", err)
	}
	if len(data) == 0 {
		t.Error("Expected fish data to be stored")
	}
	if !storedRecipe.Valid || storedRecipe.String != string(recipe) {
		t.Errorf("Stored recipe = %+v, want %s", storedRecipe, recipe)
	}
}

func TestWriter_BatchFlush(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.fishdb")

	w, err := New(dbPath, Metadata{Name: "Test"})
	if err != nil {
		t.Fatalf("Failed to create writer: %v", err)
	}
	defer w.Close()

	pngData := []byte("fake png data")
	for i := 0; i < 150; i++ {
		if err := w.WriteFish(int64(i), pngData, nil); err != nil {
			t.Fatalf("Failed to write fish %d: %v", i, err)
		}
	}

	// Close should flush remaining fish
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close: %v", err)
	}

	// Re-open and verify all fish were written
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM fish").Scan(&count); err != nil {
		t.Fatalf("Failed to query fish: %v", err)
	}
	if count != 150 {
		t.Errorf("Expected 150 fish, got %d", count)
	}
}

func TestWriter_ReplaceExisting(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.fishdb")

	w, err := New(dbPath, Metadata{Name: "Test"})
	if err != nil {
		t.Fatalf("Failed to create writer: %v", err)
	}

	if err := w.WriteFish(7, []byte("first version"), nil); err != nil {
		t.Fatalf("Failed to write first fish: %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Failed to flush: %v", err)
	}

	if err := w.WriteFish(7, []byte("second version"), nil); err != nil {
		t.Fatalf("Failed to write second fish: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close: %v", err)
	}

	r, err := OpenReader(dbPath)
	if err != nil {
		t.Fatalf("Failed to open reader: %v", err)
	}
	defer r.Close()

	count, err := r.Count()
	if err != nil {
		t.Fatalf("Failed to count fish: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 fish (replaced), got %d", count)
	}

	data, err := r.ReadFish(7)
	if err != nil {
		t.Fatalf("Failed to read fish: %v", err)
	}
	if string(data) != "second version" {
		t.Errorf("ReadFish = %q, want the replacement data", data)
	}
}

func TestWriter_ConcurrentWrites(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.fishdb")

	w, err := New(dbPath, Metadata{Name: "Test"})
	if err != nil {
		t.Fatalf("Failed to create writer: %v", err)
	}

	done := make(chan error, 4)
	for g := 0; g < 4; g++ {
		go func(g int) {
			for i := 0; i < 30; i++ {
				seed := int64(g*1000 + i)
				if err := w.WriteFish(seed, []byte(fmt.Sprintf("fish %d", seed)), nil); err != nil {
					done <- err
					return
				}
			}
			done <- nil
		}(g)
	}
	for g := 0; g < 4; g++ {
		if err := <-done; err != nil {
			t.Fatalf("Concurrent write failed: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close: %v", err)
	}

	r, err := OpenReader(dbPath)
	if err != nil {
		t.Fatalf("Failed to open reader: %v", err)
	}
	defer r.Close()

	count, err := r.Count()
	if err != nil {
		t.Fatalf("Failed to count fish: %v", err)
	}
	if count != 120 {
		t.Errorf("Expected 120 fish, got %d", count)
	}
}
