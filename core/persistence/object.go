package persistence

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"messenger-core/core/storage"

	"github.com/minio/minio-go/v7"
)

const blobContentType = "application/cbor"

// Object stores each blob as an object of one bucket.
type Object struct {
	client storage.Client
	bucket string
}

// NewObject wraps client. The bucket must exist; see storage.EnsureBucket.
func NewObject(client storage.Client, bucket string) *Object {
	return &Object{client: client, bucket: bucket}
}

func (o *Object) Save(ctx context.Context, key string, blob []byte) error {
	_, err := o.client.PutObject(ctx, o.bucket, key, bytes.NewReader(blob), int64(len(blob)),
		minio.PutObjectOptions{ContentType: blobContentType})
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

func (o *Object) Load(ctx context.Context, key string) ([]byte, bool, error) {
	obj, err := o.client.GetObject(ctx, o.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to load %s: %w", key, err)
	}
	defer obj.Close()

	// minio reports a missing object on the first read.
	blob, err := io.ReadAll(obj)
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return blob, true, nil
}

func (o *Object) Erase(ctx context.Context, key string) error {
	if err := o.client.RemoveObject(ctx, o.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		if storage.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("failed to erase %s: %w", key, err)
	}
	return nil
}
