// Package persistence is the key/blob store managers use for state that
// must survive a restart.
//
// # Backends
//
//   - memory: process-local map, the default
//   - database: a gorm table (kv_blobs) on MySQL or SQLite
//   - redis: one string key per blob
//   - memcache: one item per blob
//   - storage: one object per blob in a MinIO/S3 bucket
//
// Open builds the configured backend and applies the key prefix.
//
// # Queue
//
// Managers save from their owner lane and must not block on I/O. Queue
// accepts saves without blocking and writes them from its own goroutine,
// keeping only the latest blob per key.
package persistence
