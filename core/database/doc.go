// Package database handles database connections and schema inspection.
//
// It wraps GORM to configure MySQL or SQLite connections from the
// application configuration. The database backs the persistence layer's
// key/blob table.
//
// # Connect
//
// Connect picks the dialector from Config.Driver, applies the connection
// timeouts and pings the database before returning.
//
// # Schema Inspection
//
// GetTableColumns and RequireColumns read the live table definition, so the
// persistence layer can refuse to start on a table that does not match its
// model.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	err = database.RequireColumns(db, "kv_blobs", "blob_key", "value")
package database
