package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "spatial.db", cfg.Store.DatabaseURL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "lon", cfg.Data.PointXColumn)
	assert.Equal(t, "lat", cfg.Data.PointYColumn)
	assert.Equal(t, "GEOID", cfg.Data.BoundaryID)
	assert.Equal(t, "EPSG:4326", cfg.Data.PointsCRS)
	assert.Equal(t, "EPSG:4326", cfg.Data.BoundariesCRS)
	assert.Equal(t, 1, cfg.Zonal.Downsample)
	assert.Equal(t, "data/raw", cfg.Fetch.CacheDir)
	assert.Equal(t, 60, cfg.Fetch.TimeoutSecs)
	assert.Equal(t, 3, cfg.Fetch.MaxRetries)
	assert.Equal(t, "count", cfg.Render.Value)
	assert.Equal(t, "EPSG:5070", cfg.Render.CRS)
}

func TestLoadFromYAML(t *testing.T) {
	chdirTemp(t)

	yaml := `
data:
  points_path: cases.csv
  boundaries_path: tracts.shp
  points_crs: EPSG:4326
store:
  driver: postgres
  database_url: postgres://localhost/spatial
log:
  level: debug
  format: console
server:
  port: 9090
zonal:
  downsample: 4
`
	dir, _ := os.Getwd()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "cases.csv", cfg.Data.PointsPath)
	assert.Equal(t, "tracts.shp", cfg.Data.BoundariesPath)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 4, cfg.Zonal.Downsample)
	// Defaults still apply for unset values
	assert.Equal(t, "lon", cfg.Data.PointXColumn)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	chdirTemp(t)

	yaml := `
store:
  driver: sqlite
log:
  level: debug
`
	dir, _ := os.Getwd()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("SPATIAL_STORE_DRIVER", "postgres")
	t.Setenv("SPATIAL_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chdirTemp(t)

	t.Setenv("SPATIAL_SERVER_PORT", "3000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Store.Driver = "sqlite"
	cfg.Store.DatabaseURL = "spatial.db"
	cfg.Zonal.Downsample = 1
	cfg.Server.Port = 8080
	return cfg
}

func TestValidateRun_AllPresent(t *testing.T) {
	cfg := validDefaults()
	cfg.Data.PointsPath = "cases.csv"
	cfg.Data.BoundariesPath = "tracts.shp"

	assert.NoError(t, cfg.Validate("run"))
}

func TestValidateRun_MissingInputs(t *testing.T) {
	cfg := validDefaults()

	err := cfg.Validate("run")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "data.points_path is required")
	assert.Contains(t, err.Error(), "data.boundaries_path is required")
}

func TestValidateFetch(t *testing.T) {
	cfg := validDefaults()
	cfg.Fetch.CacheDir = "data/raw"

	err := cfg.Validate("fetch")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "boundaries_url or fetch.raster_url")

	cfg.Fetch.BoundariesURL = "https://www2.census.gov/geo/tiger/tl_2019_us_county.zip"
	assert.NoError(t, cfg.Validate("fetch"))
}

func TestValidateServe_InvalidPort(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 0

	err := cfg.Validate("serve")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be > 0")
}

func TestValidateUnknownMode(t *testing.T) {
	cfg := validDefaults()
	err := cfg.Validate("unknown")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestValidateBadDriverAndDownsample(t *testing.T) {
	cfg := validDefaults()
	cfg.Data.PointsPath = "cases.csv"
	cfg.Data.BoundariesPath = "tracts.shp"

	cfg.Store.Driver = "mysql"
	err := cfg.Validate("run")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "store.driver")

	cfg.Store.Driver = "sqlite"
	cfg.Zonal.Downsample = 0
	err = cfg.Validate("run")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "zonal.downsample")
}
