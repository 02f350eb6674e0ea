// Package database provides SQLite connectivity for the EMS gateway.
//
// The gateway stores its command audit trail here. The package manages:
//   - Connection setup with WAL mode and a busy timeout
//   - Schema migrations embedded in the binary (see package migrations)
//   - Health checks used by the API health endpoint
//
// All queries use parameterised statements and the database file is
// restricted to 0600.
//
// Usage:
//
//	db, err := database.Open(ctx, database.Config{Path: cfg.Database.Path, WALMode: true})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    log.Fatal(err)
//	}
package database
