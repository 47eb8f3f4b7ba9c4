package config

import "log/slog"

const (
	// EnvPrefix is the prefix of environment variables overriding config keys.
	EnvPrefix = "SUNIT"
	// DefaultConfigFile is the config file looked up in the project path.
	DefaultConfigFile = "sunit.yaml"

	// DefaultProjectPath is the default project path
	DefaultProjectPath = "."
	// DefaultOutputJSONFile is the default output JSON file name
	DefaultOutputJSONFile = "test-results.json"
	// DefaultOutputJSONDir is the default output directory
	DefaultOutputJSONDir = "storage"

	// DefaultStorageDriver keeps reports in the JSON file.
	DefaultStorageDriver = DriverJSON

	DefaultDBHost     = "127.0.0.1"
	DefaultDBPort     = 3306
	DefaultDBUsername = "root"
	DefaultDBName     = "sunit"
	DefaultPGPort     = 5432
	DefaultPGSSLMode  = "disable"
	DefaultRedisAddr  = "127.0.0.1:6379"
	// DefaultRedisHistory is the number of run reports kept in Redis.
	DefaultRedisHistory = 20

	DefaultLogFilename   = ".sunit.log"
	DefaultLogLevel      = "info"
	DefaultLogMaxSize    = 10
	DefaultLogMaxBackups = 3
	DefaultLogMaxAge     = 28
	DefaultLogCompress   = true
)

// Storage drivers.
const (
	DriverJSON     = "json"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Config keys.
const (
	KeyProjectPath     = "project_path"
	KeyOutputDir       = "output.dir"
	KeyOutputFile      = "output.file"
	KeyStorageDriver   = "storage.driver"
	KeyDBHost          = "database.host"
	KeyDBPort          = "database.port"
	KeyDBUsername      = "database.username"
	KeyDBPassword      = "database.password"
	KeyDBName          = "database.name"
	KeyPGHost          = "postgres.host"
	KeyPGPort          = "postgres.port"
	KeyPGUser          = "postgres.user"
	KeyPGPassword      = "postgres.password"
	KeyPGName          = "postgres.name"
	KeyPGSSLMode       = "postgres.sslmode"
	KeyRedisAddr       = "redis.addr"
	KeyRedisPassword   = "redis.password"
	KeyRedisDB         = "redis.db"
	KeyRedisHistory    = "redis.history"
	KeyMetricsFile     = "metrics.file"
	KeyDiscoveryStrict = "discovery.strict"
	KeyLogFilename     = "log.filename"
	KeyLogLevel        = "log.level"
	KeyLogMaxSize      = "log.max_size"
	KeyLogMaxBackups   = "log.max_backups"
	KeyLogMaxAge       = "log.max_age"
	KeyLogCompress     = "log.compress"
)

// dotEnvKeys maps .env variables onto config keys. They act as defaults:
// sunit.yaml and SUNIT_* variables win over them.
var dotEnvKeys = map[string]string{
	"DB_HOST":        KeyDBHost,
	"DB_PORT":        KeyDBPort,
	"DB_USERNAME":    KeyDBUsername,
	"DB_PASSWORD":    KeyDBPassword,
	"DB_DATABASE":    KeyDBName,
	"PGHOST":         KeyPGHost,
	"PGPORT":         KeyPGPort,
	"PGUSER":         KeyPGUser,
	"PGPASSWORD":     KeyPGPassword,
	"PGDATABASE":     KeyPGName,
	"REDIS_ADDR":     KeyRedisAddr,
	"REDIS_PASSWORD": KeyRedisPassword,
}

var defaultLevel = slog.LevelInfo
