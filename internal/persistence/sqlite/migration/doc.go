// Package migration applies versioned SQL schema changes to a SQLite
// database.
//
// Migration files live in an fs.FS (usually an embed.FS) and follow the
// naming convention {version}_{description}.sql, e.g.
// "001_create_documents.sql". Applied versions are tracked in the
// schema_migrations table and each migration runs in its own transaction.
//
//	manager := migration.NewManager(migration.NewScanner(files, "migrations"), migration.NewExecutor(db), logger)
//	if _, err := manager.Run(ctx); err != nil {
//		return err
//	}
package migration
