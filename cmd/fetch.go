package main

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/billingtt/ppol670-spatial/internal/fetcher"
)

var fetchManifestPath string

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download raw input data into the cache directory",
	Long:  "Retrieves boundary and raster inputs over HTTP or FTP, either from a YAML manifest or from fetch.boundaries_url / fetch.raster_url.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		datasets, err := fetchDatasets()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(cfg.Fetch.CacheDir, 0o755); err != nil {
			return eris.Wrapf(err, "create cache dir %s", cfg.Fetch.CacheDir)
		}

		pr := message.NewPrinter(language.English)
		for _, d := range datasets {
			n, err := fetchDataset(ctx, d)
			if err != nil {
				return eris.Wrapf(err, "fetch %s", d.Name)
			}
			pr.Printf("Fetched %s (%d bytes)\n", d.Name, n)
		}
		return nil
	},
}

// fetchDatasets builds the download list, from the manifest when one is
// given and otherwise from the configured URLs.
func fetchDatasets() ([]fetcher.Dataset, error) {
	if fetchManifestPath != "" {
		m, err := fetcher.LoadManifest(fetchManifestPath)
		if err != nil {
			return nil, err
		}
		return m.Datasets, nil
	}

	if err := cfg.Validate("fetch"); err != nil {
		return nil, err
	}

	var datasets []fetcher.Dataset
	if u := cfg.Fetch.BoundariesURL; u != "" {
		datasets = append(datasets, fetcher.Dataset{
			Name:  "boundaries",
			URL:   u,
			Dest:  destFor(u, "boundaries"),
			Unzip: strings.HasSuffix(u, ".zip"),
		})
	}
	if u := cfg.Fetch.RasterURL; u != "" {
		datasets = append(datasets, fetcher.Dataset{
			Name:  "raster",
			URL:   u,
			Dest:  destFor(u, "raster"),
			Unzip: strings.HasSuffix(u, ".zip"),
		})
	}
	return datasets, nil
}

// destFor keeps the remote file name when the URL has one.
func destFor(rawURL, fallback string) string {
	base := path.Base(rawURL)
	if base == "" || base == "." || base == "/" {
		return fallback
	}
	if strings.HasSuffix(base, ".zip") {
		// Archives extract into a directory named for the dataset.
		return fallback
	}
	return base
}

func fetchDataset(ctx context.Context, d fetcher.Dataset) (int64, error) {
	f, err := initFetcher(d.URL)
	if err != nil {
		return 0, err
	}
	dest := filepath.Join(cfg.Fetch.CacheDir, d.Dest)

	if !d.Unzip {
		return f.DownloadToFile(ctx, d.URL, dest)
	}

	tmp, err := os.CreateTemp("", "spatial-fetch-*.zip")
	if err != nil {
		return 0, eris.Wrap(err, "create temp file")
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck
	_ = tmp.Close()

	n, err := f.DownloadToFile(ctx, d.URL, tmp.Name())
	if err != nil {
		return 0, err
	}

	files, err := fetcher.ExtractZIPFile(tmp.Name(), dest)
	if err != nil {
		return 0, err
	}
	zap.L().Info("extracted archive",
		zap.String("dataset", d.Name),
		zap.String("dest", dest),
		zap.Int("files", len(files)),
	)
	return n, nil
}

func init() {
	fetchCmd.Flags().StringVar(&fetchManifestPath, "manifest", "", "YAML manifest of datasets to fetch")
	rootCmd.AddCommand(fetchCmd)
}
