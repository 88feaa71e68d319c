package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Both the pool and a transaction must be usable as the Store's backend.
var (
	_ DBTX = (*pgxpool.Pool)(nil)
	_ DBTX = (pgx.Tx)(nil)
)

// fakeTx records the statements a write path issues. The embedded pgx.Tx
// panics on anything the Store is not expected to call.
type fakeTx struct {
	pgx.Tx
	importsDeleted int64
	exec           []string
	copyBatches    []int
	committed      bool
	rolledBack     bool
}

func (t *fakeTx) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	t.exec = append(t.exec, sql)
	if strings.HasPrefix(strings.TrimSpace(sql), "DELETE FROM cube_imports") {
		return pgconn.NewCommandTag(fmt.Sprintf("DELETE %d", t.importsDeleted)), nil
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (t *fakeTx) CopyFrom(_ context.Context, _ pgx.Identifier, _ []string, src pgx.CopyFromSource) (int64, error) {
	n := 0
	for src.Next() {
		if _, err := src.Values(); err != nil {
			return int64(n), err
		}
		n++
	}
	t.copyBatches = append(t.copyBatches, n)
	return int64(n), src.Err()
}

func (t *fakeTx) Commit(context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

// fakeDB hands out one fakeTx per Begin.
type fakeDB struct {
	DBTX
	tx *fakeTx
}

func (f *fakeDB) Begin(context.Context) (pgx.Tx, error) {
	return f.tx, nil
}

func testFacts(n int) []FactRow {
	facts := make([]FactRow, n)
	for i := range facts {
		facts[i] = FactRow{
			FactID:  fmt.Sprintf("fact-%d", i),
			Payload: []byte(`{"v":1}`),
		}
	}
	return facts
}

func TestSaveImportBatchesFacts(t *testing.T) {
	tx := &fakeTx{importsDeleted: 1}
	s := New(&fakeDB{tx: tx}, 5)

	rec := ImportRecord{
		ID:         uuid.New(),
		CubeName:   "11111KJ001",
		Provenance: "prov",
		FactCount:  12,
		ImportedAt: time.Now().UTC(),
	}
	if err := s.SaveImport(context.Background(), rec, []byte("raw"), testFacts(12)); err != nil {
		t.Fatalf("SaveImport() error: %v", err)
	}

	want := []int{5, 5, 2}
	if len(tx.copyBatches) != len(want) {
		t.Fatalf("got %d copy batches %v, want %v", len(tx.copyBatches), tx.copyBatches, want)
	}
	for i, n := range want {
		if tx.copyBatches[i] != n {
			t.Errorf("batch %d has %d rows, want %d", i, tx.copyBatches[i], n)
		}
	}

	if !tx.committed {
		t.Error("transaction not committed")
	}
	if tx.rolledBack {
		t.Error("transaction rolled back after commit")
	}

	var deletes, inserts int
	for _, sql := range tx.exec {
		switch {
		case strings.HasPrefix(strings.TrimSpace(sql), "DELETE"):
			deletes++
		case strings.HasPrefix(strings.TrimSpace(sql), "INSERT"):
			inserts++
		}
	}
	if deletes != 2 || inserts != 1 {
		t.Errorf("got %d deletes and %d inserts, want 2 and 1", deletes, inserts)
	}
}

func TestSaveImportNoFacts(t *testing.T) {
	tx := &fakeTx{}
	s := New(&fakeDB{tx: tx}, 5)

	rec := ImportRecord{ID: uuid.New(), CubeName: "empty", ImportedAt: time.Now().UTC()}
	if err := s.SaveImport(context.Background(), rec, []byte("raw"), nil); err != nil {
		t.Fatalf("SaveImport() error: %v", err)
	}
	if len(tx.copyBatches) != 0 {
		t.Errorf("copy batches = %v, want none", tx.copyBatches)
	}
	if !tx.committed {
		t.Error("transaction not committed")
	}
}

func TestDeleteImportNotFound(t *testing.T) {
	tx := &fakeTx{importsDeleted: 0}
	s := New(&fakeDB{tx: tx}, 5)

	err := s.DeleteImport(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
	if tx.committed {
		t.Error("transaction must not commit on missing cube")
	}
	if !tx.rolledBack {
		t.Error("transaction not rolled back")
	}
}

func TestDeleteImport(t *testing.T) {
	tx := &fakeTx{importsDeleted: 1}
	s := New(&fakeDB{tx: tx}, 5)

	if err := s.DeleteImport(context.Background(), "11111KJ001"); err != nil {
		t.Fatalf("DeleteImport() error: %v", err)
	}
	if !tx.committed {
		t.Error("transaction not committed")
	}
}
