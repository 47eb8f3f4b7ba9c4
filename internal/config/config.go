package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	// Project settings
	ProjectPath string `mapstructure:"project_path" yaml:"project_path"`

	Output    OutputConfig    `mapstructure:"output" yaml:"output"`
	Storage   StorageConfig   `mapstructure:"storage" yaml:"storage"`
	Database  DatabaseConfig  `mapstructure:"database" yaml:"database"`
	Postgres  PostgresConfig  `mapstructure:"postgres" yaml:"postgres"`
	Redis     RedisConfig     `mapstructure:"redis" yaml:"redis"`
	Metrics   MetricsConfig   `mapstructure:"metrics" yaml:"metrics"`
	Discovery DiscoveryConfig `mapstructure:"discovery" yaml:"discovery"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`

	// Command flags
	Flags Flags `mapstructure:"-" yaml:"-"`
}

// OutputConfig locates the JSON report.
type OutputConfig struct {
	Dir  string `mapstructure:"dir" yaml:"dir"`
	File string `mapstructure:"file" yaml:"file"`
}

// StorageConfig selects where run reports are kept.
type StorageConfig struct {
	Driver string `mapstructure:"driver" yaml:"driver"`
}

// DatabaseConfig is the MySQL connection used by the mysql storage driver and migrate.
type DatabaseConfig struct {
	Host     string `mapstructure:"host" yaml:"host"`
	Port     int    `mapstructure:"port" yaml:"port"`
	Username string `mapstructure:"username" yaml:"username"`
	Password string `mapstructure:"password" yaml:"password"`
	Name     string `mapstructure:"name" yaml:"name"`
}

// PostgresConfig is the connection used by the postgres storage driver.
type PostgresConfig struct {
	Host     string `mapstructure:"host" yaml:"host"`
	Port     int    `mapstructure:"port" yaml:"port"`
	User     string `mapstructure:"user" yaml:"user"`
	Password string `mapstructure:"password" yaml:"password"`
	Name     string `mapstructure:"name" yaml:"name"`
	SSLMode  string `mapstructure:"sslmode" yaml:"sslmode"`
}

// RedisConfig is the connection used by the redis storage driver.
type RedisConfig struct {
	Addr     string `mapstructure:"addr" yaml:"addr"`
	Password string `mapstructure:"password" yaml:"password"`
	DB       int    `mapstructure:"db" yaml:"db"`
	History  int    `mapstructure:"history" yaml:"history"`
}

// MetricsConfig enables the Prometheus textfile export.
type MetricsConfig struct {
	File string `mapstructure:"file" yaml:"file"`
}

// DiscoveryConfig controls how discovery errors are treated.
type DiscoveryConfig struct {
	// Strict fails the run when a test was skipped by discovery.
	Strict bool `mapstructure:"strict" yaml:"strict"`
}

// LogConfig configures the rotated log file.
type LogConfig struct {
	Filename   string `mapstructure:"filename" yaml:"filename"`
	Level      string `mapstructure:"level" yaml:"level"`
	MaxSize    int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge     int    `mapstructure:"max_age" yaml:"max_age"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// Flags holds command-line flags
type Flags struct {
	Filter     string
	FailFast   bool
	OnlyFailed bool
	Progress   bool
	NoColor    bool
	Verbose    bool
	OpenFaills bool
	TestCases  bool
}

// New creates a new Config with defaults
func New() *Config {
	return &Config{
		ProjectPath: DefaultProjectPath,
		Output: OutputConfig{
			Dir:  DefaultOutputJSONDir,
			File: DefaultOutputJSONFile,
		},
		Storage: StorageConfig{Driver: DefaultStorageDriver},
		Database: DatabaseConfig{
			Host:     DefaultDBHost,
			Port:     DefaultDBPort,
			Username: DefaultDBUsername,
			Name:     DefaultDBName,
		},
		Postgres: PostgresConfig{
			Host:    DefaultDBHost,
			Port:    DefaultPGPort,
			User:    "postgres",
			Name:    DefaultDBName,
			SSLMode: DefaultPGSSLMode,
		},
		Redis: RedisConfig{
			Addr:    DefaultRedisAddr,
			History: DefaultRedisHistory,
		},
		Log: LogConfig{
			Filename:   DefaultLogFilename,
			Level:      DefaultLogLevel,
			MaxSize:    DefaultLogMaxSize,
			MaxBackups: DefaultLogMaxBackups,
			MaxAge:     DefaultLogMaxAge,
			Compress:   DefaultLogCompress,
		},
	}
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	d := New()
	v.SetDefault(KeyProjectPath, d.ProjectPath)
	v.SetDefault(KeyOutputDir, d.Output.Dir)
	v.SetDefault(KeyOutputFile, d.Output.File)
	v.SetDefault(KeyStorageDriver, d.Storage.Driver)
	v.SetDefault(KeyDBHost, d.Database.Host)
	v.SetDefault(KeyDBPort, d.Database.Port)
	v.SetDefault(KeyDBUsername, d.Database.Username)
	v.SetDefault(KeyDBPassword, d.Database.Password)
	v.SetDefault(KeyDBName, d.Database.Name)
	v.SetDefault(KeyPGHost, d.Postgres.Host)
	v.SetDefault(KeyPGPort, d.Postgres.Port)
	v.SetDefault(KeyPGUser, d.Postgres.User)
	v.SetDefault(KeyPGPassword, d.Postgres.Password)
	v.SetDefault(KeyPGName, d.Postgres.Name)
	v.SetDefault(KeyPGSSLMode, d.Postgres.SSLMode)
	v.SetDefault(KeyRedisAddr, d.Redis.Addr)
	v.SetDefault(KeyRedisPassword, d.Redis.Password)
	v.SetDefault(KeyRedisDB, d.Redis.DB)
	v.SetDefault(KeyRedisHistory, d.Redis.History)
	v.SetDefault(KeyMetricsFile, d.Metrics.File)
	v.SetDefault(KeyDiscoveryStrict, d.Discovery.Strict)
	v.SetDefault(KeyLogFilename, d.Log.Filename)
	v.SetDefault(KeyLogLevel, d.Log.Level)
	v.SetDefault(KeyLogMaxSize, d.Log.MaxSize)
	v.SetDefault(KeyLogMaxBackups, d.Log.MaxBackups)
	v.SetDefault(KeyLogMaxAge, d.Log.MaxAge)
	v.SetDefault(KeyLogCompress, d.Log.Compress)
}

// Prepare sets up v to read sunit.yaml from the project path and SUNIT_* variables.
// Call it before binding flags so bound flags take precedence.
func Prepare(v *viper.Viper) {
	SetDefaults(v)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
}

// Load reads the config file and .env of the project and returns the merged
// config. A missing config file or .env is not an error.
func Load(v *viper.Viper) (*Config, error) {
	projectPath := v.GetString(KeyProjectPath)
	if v.ConfigFileUsed() == "" {
		v.SetConfigFile(filepath.Join(projectPath, DefaultConfigFile))
	}
	if err := v.ReadInConfig(); err != nil && !isNotFound(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := loadDotEnv(v, filepath.Join(projectPath, ".env")); err != nil {
		return nil, err
	}

	cfg := New()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func isNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}

// loadDotEnv applies .env values, then process environment values, for the
// keys in dotEnvKeys as defaults.
func loadDotEnv(v *viper.Viper, path string) error {
	values, err := godotenv.Read(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("read %s: %w", path, err)
	}
	for env, key := range dotEnvKeys {
		value, ok := os.LookupEnv(env)
		if !ok {
			value, ok = values[env]
		}
		if ok && value != "" {
			v.SetDefault(key, value)
		}
	}
	return nil
}

// Validate checks values that cannot be used as given.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverJSON, DriverMySQL, DriverPostgres, DriverRedis:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Output.File == "" {
		return errors.New("output.file must not be empty")
	}
	return nil
}

// GetOutputPath returns the full path to the output JSON file (under project so run and faills use the same file).
// Resolves to an absolute path so run and faills always read/write the same file regardless of cwd.
func (c *Config) GetOutputPath() string {
	p := c.Output.File
	if !filepath.IsAbs(p) {
		p = filepath.Join(c.ProjectPath, c.Output.Dir, c.Output.File)
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// GetMetricsPath returns the Prometheus textfile path, empty when disabled.
func (c *Config) GetMetricsPath() string {
	if c.Metrics.File == "" || filepath.IsAbs(c.Metrics.File) {
		return c.Metrics.File
	}
	return filepath.Join(c.ProjectPath, c.Metrics.File)
}

// MySQL returns the driver config of the database. When withDB is false the
// DSN addresses the server only, for creating the database.
func (c *Config) MySQL(withDB bool) *mysql.Config {
	mc := mysql.NewConfig()
	mc.User = c.Database.Username
	mc.Passwd = c.Database.Password
	mc.Net = "tcp"
	mc.Addr = c.Database.Host + ":" + strconv.Itoa(c.Database.Port)
	mc.ParseTime = true
	if withDB {
		mc.DBName = c.Database.Name
	}
	return mc
}

// PostgresDSN returns the connection string of the postgres storage driver.
func (c *Config) PostgresDSN() string {
	p := c.Postgres
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.User, p.Password),
		Host:     p.Host + ":" + strconv.Itoa(p.Port),
		Path:     "/" + p.Name,
		RawQuery: url.Values{"sslmode": {p.SSLMode}}.Encode(),
	}
	return u.String()
}

// LogLevel parses the configured log level. Verbose always means debug.
func (c *Config) LogLevel() slog.Level {
	if c.Flags.Verbose {
		return slog.LevelDebug
	}
	return ParseLevel(c.Log.Level, defaultLevel)
}

// ParseLevel accepts level names and numeric slog levels.
func ParseLevel(value string, fallback slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	switch level {
	case "":
		return fallback
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}
	return fallback
}
