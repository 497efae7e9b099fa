package sqldb

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Datas e instantes são gravados como texto (YYYY-MM-DD e RFC3339) para o mesmo DDL servir aos dois drivers
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS price_snapshots (
		id TEXT PRIMARY KEY,
		snapshot_date TEXT NOT NULL UNIQUE,
		row_count INTEGER NOT NULL,
		rows_json TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS snapshot_pointers (
		name TEXT PRIMARY KEY,
		snapshot_date TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
}

// EnsureSchema cria as tabelas de snapshots caso ainda não existam
func EnsureSchema(ctx context.Context, q Queryer) error {
	for _, stmt := range schemaStatements {
		if _, err := q.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("erro ao criar schema: %w", err)
		}
	}

	logrus.Debug("Schema de snapshots verificado")

	return nil
}
