package fetcher

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ExtractZIP extracts a zip archive from r into destDir. Boundary downloads
// arrive as zipped shapefile bundles, so this reads the whole archive into
// memory first; TIGER county archives are tens of megabytes at most.
func ExtractZIP(r io.Reader, destDir string) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, eris.Wrap(err, "fetcher: read zip")
	}
	return extractZIPBytes(data, destDir)
}

// ExtractZIPFile extracts a zip archive on disk into destDir and returns the
// extracted paths.
func ExtractZIPFile(zipPath, destDir string) ([]string, error) {
	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: open zip %s", zipPath)
	}
	defer zr.Close() //nolint:errcheck
	return extractFiles(&zr.Reader, destDir)
}

func extractZIPBytes(data []byte, destDir string) ([]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, eris.Wrap(err, "fetcher: parse zip")
	}
	return extractFiles(zr, destDir)
}

func extractFiles(zr *zip.Reader, destDir string) ([]string, error) {
	var extracted []string
	for _, file := range zr.File {
		if file.FileInfo().IsDir() {
			continue
		}

		// Reject entries that escape the destination directory.
		dest := filepath.Join(destDir, filepath.Clean(file.Name))
		if !strings.HasPrefix(dest, filepath.Clean(destDir)+string(os.PathSeparator)) {
			return nil, eris.Errorf("fetcher: zip entry %q escapes destination", file.Name)
		}

		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return nil, eris.Wrap(err, "fetcher: create zip dest dir")
		}
		if err := extractOne(file, dest); err != nil {
			return nil, err
		}
		extracted = append(extracted, dest)
	}
	zap.L().Debug("fetcher: extracted zip", zap.Int("files", len(extracted)), zap.String("dest", destDir))
	return extracted, nil
}

func extractOne(file *zip.File, dest string) error {
	rc, err := file.Open()
	if err != nil {
		return eris.Wrapf(err, "fetcher: open zip entry %s", file.Name)
	}
	defer rc.Close() //nolint:errcheck

	out, err := os.Create(dest)
	if err != nil {
		return eris.Wrap(err, "fetcher: create extracted file")
	}
	defer out.Close() //nolint:errcheck

	if _, err := io.Copy(out, rc); err != nil {
		return eris.Wrapf(err, "fetcher: extract %s", file.Name)
	}
	return nil
}
