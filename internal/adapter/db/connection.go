package db

import (
	"context"
	"embed"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"taskbot/internal/config"
)

//go:embed schema/*.sql
var schemas embed.FS

func ConnectDB(conf *config.Config) (*sqlx.DB, error) {
	switch conf.DbDriver {
	case config.DriverPostgres, config.DriverSQLite:
		if conf.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for %s", conf.DbDriver)
		}
		return Open(conf.DbDriver, conf.DatabaseURL)
	case config.DriverMySQL, "":
		return Open(config.DriverMySQL, mysqlDSN(conf))
	}
	return nil, fmt.Errorf("unsupported DB_DRIVER %q", conf.DbDriver)
}

// Open connects with one of the registered drivers. An in-memory sqlite
// database only lives on one connection, so the pool is pinned to it.
func Open(driver, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == config.DriverSQLite {
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

// Migrate creates the tables for the connection's dialect if they do not
// exist yet. Statements are sent one at a time so the MySQL DSN does not
// need multiStatements.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	schema, err := schemas.ReadFile("schema/" + db.DriverName() + ".sql")
	if err != nil {
		return fmt.Errorf("no schema for driver %s: %w", db.DriverName(), err)
	}
	for i, stmt := range splitStatements(string(schema)) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}
	return nil
}

// splitStatements cuts a schema file on ";". The schema files hold plain DDL
// with no semicolons inside literals or bodies.
func splitStatements(schema string) []string {
	var stmts []string
	for _, part := range strings.Split(schema, ";") {
		if stmt := strings.TrimSpace(part); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

func mysqlDSN(conf *config.Config) string {
	params := conf.DbParams
	if params == "" {
		params = "parseTime=true"
	}

	return fmt.Sprintf(
		"%s:%s@tcp(%s:%s)/%s?%s",
		conf.DbUser,
		conf.DbPassword,
		conf.DbHost,
		conf.DbPort,
		conf.DbName,
		params,
	)
}
