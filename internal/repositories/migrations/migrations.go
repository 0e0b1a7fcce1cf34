package migrations

import (
	"context"
	"database/sql"
	"embed"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var files embed.FS

// Up applies every pending migration. driver is the database/sql driver name
// the pool was opened with.
func Up(ctx context.Context, db *sql.DB, driver string) error {
	goose.SetBaseFS(files)
	if err := goose.SetDialect(Dialect(driver)); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

// Dialect maps a database/sql driver name to the goose dialect.
func Dialect(driver string) string {
	switch driver {
	case "pgx", "postgres":
		return "postgres"
	}
	return "mysql"
}
