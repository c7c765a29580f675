package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Data   DataConfig   `yaml:"data" mapstructure:"data"`
	Join   JoinConfig   `yaml:"join" mapstructure:"join"`
	Zonal  ZonalConfig  `yaml:"zonal" mapstructure:"zonal"`
	Fetch  FetchConfig  `yaml:"fetch" mapstructure:"fetch"`
	Render RenderConfig `yaml:"render" mapstructure:"render"`
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// DataConfig names the input files and how to read them.
type DataConfig struct {
	PointsPath     string `yaml:"points_path" mapstructure:"points_path"`
	BoundariesPath string `yaml:"boundaries_path" mapstructure:"boundaries_path"`
	RasterPath     string `yaml:"raster_path" mapstructure:"raster_path"`

	// Column and field mappings.
	PointIDColumn string `yaml:"point_id_column" mapstructure:"point_id_column"`
	PointXColumn  string `yaml:"point_x_column" mapstructure:"point_x_column"`
	PointYColumn  string `yaml:"point_y_column" mapstructure:"point_y_column"`
	BoundaryID    string `yaml:"boundary_id_field" mapstructure:"boundary_id_field"`

	// CRS identifiers for each layer.
	PointsCRS     string `yaml:"points_crs" mapstructure:"points_crs"`
	BoundariesCRS string `yaml:"boundaries_crs" mapstructure:"boundaries_crs"`
	RasterCRS     string `yaml:"raster_crs" mapstructure:"raster_crs"`
}

// JoinConfig configures the point-in-polygon join.
type JoinConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
	// CountAttr optionally weights each point by a numeric attribute
	// instead of counting 1 per point.
	CountAttr string `yaml:"count_attr" mapstructure:"count_attr"`
}

// ZonalConfig configures the raster summary.
type ZonalConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
	// Downsample coarsens the raster by this factor before zonal work.
	Downsample int `yaml:"downsample" mapstructure:"downsample"`
}

// FetchConfig configures remote downloads.
type FetchConfig struct {
	BoundariesURL string `yaml:"boundaries_url" mapstructure:"boundaries_url"`
	RasterURL     string `yaml:"raster_url" mapstructure:"raster_url"`
	CacheDir      string `yaml:"cache_dir" mapstructure:"cache_dir"`
	TimeoutSecs   int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries    int    `yaml:"max_retries" mapstructure:"max_retries"`
}

// RenderConfig configures map output.
type RenderConfig struct {
	Title string `yaml:"title" mapstructure:"title"`
	Value string `yaml:"value" mapstructure:"value"`
	CRS   string `yaml:"crs" mapstructure:"crs"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the results API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("SPATIAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("data.point_x_column", "lon")
	v.SetDefault("data.point_y_column", "lat")
	v.SetDefault("data.boundary_id_field", "GEOID")
	v.SetDefault("data.points_crs", "EPSG:4326")
	v.SetDefault("data.boundaries_crs", "EPSG:4326")
	v.SetDefault("data.raster_crs", "EPSG:4326")
	v.SetDefault("join.workers", 0)
	v.SetDefault("zonal.workers", 0)
	v.SetDefault("zonal.downsample", 1)
	v.SetDefault("fetch.cache_dir", "data/raw")
	v.SetDefault("fetch.timeout_secs", 60)
	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("render.value", "count")
	v.SetDefault("render.crs", "EPSG:5070")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "spatial.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the fields the given mode requires before work starts, so
// a misconfigured run fails at the door instead of mid-pipeline.
func (c *Config) Validate(mode string) error {
	var problems []string

	switch c.Store.Driver {
	case "sqlite", "postgres":
	default:
		problems = append(problems, "store.driver must be sqlite or postgres")
	}
	if c.Zonal.Downsample < 1 {
		problems = append(problems, "zonal.downsample must be >= 1")
	}

	switch mode {
	case "run":
		if c.Data.PointsPath == "" {
			problems = append(problems, "data.points_path is required")
		}
		if c.Data.BoundariesPath == "" {
			problems = append(problems, "data.boundaries_path is required")
		}
	case "fetch":
		if c.Fetch.BoundariesURL == "" && c.Fetch.RasterURL == "" {
			problems = append(problems, "fetch.boundaries_url or fetch.raster_url is required")
		}
		if c.Fetch.CacheDir == "" {
			problems = append(problems, "fetch.cache_dir is required")
		}
	case "serve":
		if c.Server.Port <= 0 {
			problems = append(problems, "server.port must be > 0")
		}
		if c.Store.DatabaseURL == "" {
			problems = append(problems, "store.database_url is required")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
