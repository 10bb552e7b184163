// Package database provides SQLite connectivity for the hydroponics service.
//
// This package manages:
//   - Database connection with WAL mode and foreign key enforcement
//   - Schema migrations embedded in the binary
//   - Single-transaction execution of request pipelines (WithTx)
//   - The fixed-width timestamp encoding shared by all tables
//
// Security Considerations:
//   - All queries use parameterised statements (no SQL injection)
//   - Database file permissions are set to 0600 (owner read/write only)
//
// Usage:
//
//	db, err := database.Open(database.Config{Path: cfg.Database.Path, WALMode: true})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Migration files live in the migrations package and follow
// YYYYMMDD_HHMMSS_description.{up,down}.sql.
package database
