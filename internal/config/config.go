package config

import (
	"time"
)

// Config is the root engine configuration.
type Config struct {
	Remote  RemoteConfig  `yaml:"remote"`
	Storage StorageConfig `yaml:"storage"`
	Engine  EngineConfig  `yaml:"engine"`
	Log     LogConfig     `yaml:"log"`
}

// RemoteConfig holds settings for the todos API client.
type RemoteConfig struct {
	BaseURL string        `yaml:"base_url" env:"REMOTE_BASE_URL" env-default:"https://dummyjson.com"`
	Timeout time.Duration `yaml:"timeout"  env:"REMOTE_TIMEOUT"  env-default:"10s"`
}

// StorageConfig selects and configures the persistent record store.
type StorageConfig struct {
	// Driver is "file" or "postgres".
	Driver   string         `yaml:"driver" env:"STORAGE_DRIVER" env-default:"file"`
	File     FileConfig     `yaml:"file"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// FileConfig holds settings for the JSON-file-backed store.
type FileConfig struct {
	Path string `yaml:"path" env:"STORAGE_FILE_PATH" env-default:"todo-state.json"`
}

// PostgresConfig holds PostgreSQL connection settings.
type PostgresConfig struct {
	DSN             string        `yaml:"dsn"                env:"STORAGE_POSTGRES_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"STORAGE_POSTGRES_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"STORAGE_POSTGRES_MIN_CONNS"          env-default:"2"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"STORAGE_POSTGRES_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"STORAGE_POSTGRES_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// EngineConfig holds tracker tuning parameters.
type EngineConfig struct {
	// PageSize is the fixed number of records per visible page.
	PageSize int `yaml:"page_size" env:"ENGINE_PAGE_SIZE" env-default:"10"`

	// SearchDebounce coalesces rapid search-text changes so filtering runs
	// once per quiescent period.
	SearchDebounce time.Duration `yaml:"search_debounce" env:"ENGINE_SEARCH_DEBOUNCE" env-default:"300ms"`

	// DefaultOwnerID is assigned to records created without an owner.
	DefaultOwnerID int64 `yaml:"default_owner_id" env:"ENGINE_DEFAULT_OWNER_ID" env-default:"1"`

	// SimulatedAgeDays is the window used to assign pseudo-historical
	// creation dates to records lacking a real one.
	SimulatedAgeDays int `yaml:"simulated_age_days" env:"ENGINE_SIMULATED_AGE_DAYS" env-default:"30"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}
