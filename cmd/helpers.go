package main

import (
	"context"
	"io"
	"net/url"
	"os"
	"time"

	"github.com/rotisserie/eris"

	"github.com/billingtt/ppol670-spatial/internal/export"
	"github.com/billingtt/ppol670-spatial/internal/fetcher"
	"github.com/billingtt/ppol670-spatial/internal/store"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "spatial.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// initFetcher picks a transport from the URL scheme.
func initFetcher(rawURL string) (fetcher.Fetcher, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, eris.Wrapf(err, "parse url %s", rawURL)
	}
	switch u.Scheme {
	case "ftp":
		return fetcher.NewFTPFetcher(), nil
	case "http", "https":
		return fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
			Timeout:      time.Duration(cfg.Fetch.TimeoutSecs) * time.Second,
			MaxRetries:   cfg.Fetch.MaxRetries,
			RateLimiters: fetcher.DefaultRateLimiters(),
		}), nil
	default:
		return nil, eris.Errorf("unsupported url scheme: %s", u.Scheme)
	}
}

// loadTable reads an aggregate table from a CSV file.
func loadTable(path string) ([]export.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "open table %s", path)
	}
	defer f.Close() //nolint:errcheck
	return export.ReadCSV(f)
}

// writeTable writes an aggregate table to a CSV file, or stdout when path
// is empty.
func writeTable(path string, rows []export.Row) error {
	var w io.Writer = os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return eris.Wrapf(err, "create table %s", path)
		}
		defer f.Close() //nolint:errcheck
		w = f
	}
	return export.WriteCSV(w, rows)
}
