package frame

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/go-cmp/cmp"
	_ "modernc.org/sqlite"
)

func TestReadSQL(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	defer db.Close()
	// A single connection keeps the in-memory database alive between calls
	db.SetMaxOpenConns(1)

	ctx := context.Background()
	stmts := []string{
		`CREATE TABLE t (key TEXT, key2 INTEGER, attr REAL)`,
		`INSERT INTO t VALUES ('a', 5, 1.5), ('b', 14, NULL), ('c', 4, 2.0)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			t.Fatalf("exec %q: %v", stmt, err)
		}
	}

	df, err := ReadSQL(ctx, db, `SELECT key, key2, attr FROM t WHERE key2 > ? ORDER BY key`, 0)
	if err != nil {
		t.Fatalf("ReadSQL: %v", err)
	}

	if diff := cmp.Diff([]string{"key", "key2", "attr"}, df.ColumnNames()); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]interface{}{"a", "b", "c"}, df.ColumnByName("key").Values()); diff != "" {
		t.Errorf("key mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]interface{}{int64(5), int64(14), int64(4)}, df.ColumnByName("key2").Values()); diff != "" {
		t.Errorf("key2 mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]interface{}{1.5, nil, 2.0}, df.ColumnByName("attr").Values()); diff != "" {
		t.Errorf("attr mismatch (-want +got):\n%s", diff)
	}
}

func TestReadSQLEmptyResult(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	ctx := context.Background()
	if _, err := db.ExecContext(ctx, `CREATE TABLE t (a INTEGER)`); err != nil {
		t.Fatalf("create: %v", err)
	}
	df, err := ReadSQL(ctx, db, `SELECT a FROM t`)
	if err != nil {
		t.Fatalf("ReadSQL: %v", err)
	}
	if df.Height() != 0 || df.Width() != 1 {
		t.Errorf("Shape() = (%d, %d), want (0, 1)", df.Height(), df.Width())
	}

	if _, err := ReadSQL(ctx, db, `SELECT nope FROM t`); err == nil {
		t.Error("expected error for an invalid query")
	}
}
