package ctl

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/alexwohletz/pandas-utils/frame"
	"github.com/alexwohletz/pandas-utils/internal/config"
)

// LoadTable reads the table at src. A "sqlite:<dsn>" source runs query
// against the database; anything else is a file read by its extension.
func LoadTable(ctx context.Context, src, query string) (*frame.DataFrame, error) {
	if dsn := strings.TrimPrefix(src, config.SQLitePrefix); dsn != src {
		if query == "" {
			return nil, errors.Errorf("a query is required to read from %s", src)
		}
		db, err := sql.Open("sqlite", dsn)
		if err != nil {
			return nil, errors.Wrapf(err, "opening %s", src)
		}
		defer db.Close()

		df, err := frame.ReadSQL(ctx, db, query)
		return df, errors.Wrapf(err, "querying %s", src)
	}

	var (
		df  *frame.DataFrame
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(src)); ext {
	case ".csv":
		df, err = frame.ReadCSV(src)
	case ".json":
		df, err = frame.ReadJSON(src)
	case ".parquet":
		df, err = frame.ReadParquet(src)
	case ".xlsx":
		df, err = frame.ReadExcel(src)
	case ".arrow":
		df, err = frame.ReadArrowIPC(src)
	default:
		return nil, errors.Errorf("unsupported table format %q for %s", ext, src)
	}
	return df, errors.Wrapf(err, "reading %s", src)
}

// WriteTable writes df to dst in the format named by its extension.
func WriteTable(df *frame.DataFrame, dst string) error {
	var err error
	switch ext := strings.ToLower(filepath.Ext(dst)); ext {
	case ".csv":
		err = df.WriteCSV(dst)
	case ".json":
		err = df.WriteJSON(dst)
	case ".parquet":
		err = df.WriteParquet(dst)
	case ".xlsx":
		err = df.WriteExcel(dst)
	case ".arrow":
		err = df.WriteArrowIPC(dst)
	default:
		return errors.Errorf("unsupported table format %q for %s", ext, dst)
	}
	return errors.Wrapf(err, "writing %s", dst)
}
