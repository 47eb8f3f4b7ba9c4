package migration

// Table names of the run report schema.
const (
	RunsTable     = "sunit_runs"
	FailuresTable = "sunit_failures"
)

// MySQLSchema creates the report tables on MySQL.
var MySQLSchema = []string{
	"CREATE TABLE IF NOT EXISTS `" + RunsTable + "` (" +
		"`id` VARCHAR(36) NOT NULL PRIMARY KEY," +
		"`total_suites` INT NOT NULL," +
		"`aborted_suites` INT NOT NULL," +
		"`teardown_failures` INT NOT NULL," +
		"`total_tests` INT NOT NULL," +
		"`passed_tests` INT NOT NULL," +
		"`failed_tests` INT NOT NULL," +
		"`total_cases` INT NOT NULL," +
		"`failed_cases` INT NOT NULL," +
		"`duration` VARCHAR(64) NOT NULL," +
		"`duration_seconds` DOUBLE NOT NULL," +
		"`finished_at` VARCHAR(64) NOT NULL," +
		"`created_at` TIMESTAMP(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6)" +
		") ENGINE=InnoDB DEFAULT CHARSET=utf8mb4",
	"CREATE TABLE IF NOT EXISTS `" + FailuresTable + "` (" +
		"`id` BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY," +
		"`run_id` VARCHAR(36) NOT NULL," +
		"`position` INT NOT NULL," +
		"`suite` VARCHAR(255) NOT NULL," +
		"`test_name` VARCHAR(255) NOT NULL," +
		"`case_index` INT NOT NULL," +
		"`phase` VARCHAR(64) NOT NULL," +
		"`message` TEXT NOT NULL," +
		"`error_chain` TEXT NOT NULL," +
		"`stack_trace` TEXT NOT NULL," +
		"`file` VARCHAR(1024) NOT NULL," +
		"`line` INT NOT NULL," +
		"`resolved` BOOLEAN NOT NULL DEFAULT FALSE," +
		"INDEX `idx_failures_run` (`run_id`, `position`)" +
		") ENGINE=InnoDB DEFAULT CHARSET=utf8mb4",
}

// PostgresSchema creates the report tables on PostgreSQL.
var PostgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS ` + RunsTable + ` (
		id VARCHAR(36) PRIMARY KEY,
		total_suites INTEGER NOT NULL,
		aborted_suites INTEGER NOT NULL,
		teardown_failures INTEGER NOT NULL,
		total_tests INTEGER NOT NULL,
		passed_tests INTEGER NOT NULL,
		failed_tests INTEGER NOT NULL,
		total_cases INTEGER NOT NULL,
		failed_cases INTEGER NOT NULL,
		duration VARCHAR(64) NOT NULL,
		duration_seconds DOUBLE PRECISION NOT NULL,
		finished_at VARCHAR(64) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS ` + FailuresTable + ` (
		id BIGSERIAL PRIMARY KEY,
		run_id VARCHAR(36) NOT NULL REFERENCES ` + RunsTable + `(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		suite VARCHAR(255) NOT NULL,
		test_name VARCHAR(255) NOT NULL,
		case_index INTEGER NOT NULL,
		phase VARCHAR(64) NOT NULL,
		message TEXT NOT NULL,
		error_chain TEXT NOT NULL,
		stack_trace TEXT NOT NULL,
		file VARCHAR(1024) NOT NULL,
		line INTEGER NOT NULL,
		resolved BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_failures_run ON ` + FailuresTable + ` (run_id, position)`,
}
