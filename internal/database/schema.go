package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// Schema names the DDL file each service owns.
const (
	SchemaRestaurants  = "restaurants"
	SchemaReservations = "reservations"
)

// EnsureSchema applies schema/<name>.sql.  Every statement is
// CREATE ... IF NOT EXISTS so it is safe on each start.
func EnsureSchema(ctx context.Context, db *sql.DB, name string) error {
	ddl, err := schemaFS.ReadFile("schema/" + name + ".sql")
	if err != nil {
		return fmt.Errorf("schema %s: %w", name, err)
	}
	for _, stmt := range statements(string(ddl)) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema %s: %w", name, err)
		}
	}
	return nil
}

// statements splits a DDL file on semicolons ending a line.
func statements(ddl string) []string {
	var out []string
	for _, s := range strings.Split(ddl, ";\n") {
		if s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), ";")); s != "" {
			out = append(out, s)
		}
	}
	return out
}
