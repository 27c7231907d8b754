package driver

import (
	"context"
	"embed"
	"fmt"
	"strings"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// schemaStatements split the bundled schema of dialect into single statements
func schemaStatements(dialect Dialect) ([]string, error) {
	raw, err := schemaFS.ReadFile(fmt.Sprintf("schema/%s.sql", dialect))
	if err != nil {
		return nil, fmt.Errorf("no schema for dialect %s: %w", dialect, err)
	}

	var stmts []string
	for _, s := range strings.Split(string(raw), ";") {
		if s = strings.TrimSpace(s); s != "" {
			stmts = append(stmts, s)
		}
	}
	return stmts, nil
}

// Migrate create missing tables, existing tables are left untouched.
// On postgres the whole schema is applied in one transaction.
func Migrate(ctx context.Context, conn ITransactionalDB) error {
	stmts, err := schemaStatements(conn.Dialect())
	if err != nil {
		return err
	}
	apply := func(db ITransactionalDB) error {
		for _, stmt := range stmts {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("failed to apply schema: %w", err)
			}
		}
		return nil
	}
	// mysql commits implicitly after every DDL statement
	if conn.Dialect() != DialectPostgres {
		return apply(conn)
	}
	return WithTx(ctx, conn, &TxOptions{AccessMode: AccessReadWrite, DeferrableMode: NotDeferrable}, apply)
}
