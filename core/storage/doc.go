// Package storage wraps the MinIO client for the object storage backend of
// the persistence layer. It works against AWS S3 and self-hosted MinIO.
//
// The Client interface keeps only the calls the persistence layer makes, so
// tests can substitute core/storage/mocks.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	err = storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region)
package storage
