package database

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"

	"github.com/verlic4/To-Do-List---your-reminder-todo/ent/migrate"
)

// Migrate creates or updates the tables described by ent/schema.
func (db *DB) Migrate(ctx context.Context) error {
	m, err := schema.NewMigrate(
		entsql.OpenDB(db.dialect, db.DB.DB),
		schema.WithDropIndex(true),
		schema.WithDropColumn(true),
		schema.WithForeignKeys(true),
	)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Create(ctx, migrate.Tables...); err != nil {
		return fmt.Errorf("run migration: %w", err)
	}
	return nil
}
