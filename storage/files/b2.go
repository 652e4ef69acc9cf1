package files

import (
	"context"
	"io"

	"github.com/kurin/blazer/b2"
	"github.com/pkg/errors"
)

// B2Store uploads to a Backblaze B2 bucket; paths are public file URLs.
type B2Store struct {
	client *b2.Client
	bucket *b2.Bucket
}

func NewB2Store(ctx context.Context, keyID, appKey, bucketName string) (*B2Store, error) {
	client, err := b2.NewClient(ctx, keyID, appKey)
	if err != nil {
		return nil, errors.Wrap(err, "creating b2 client")
	}
	bucket, err := client.Bucket(ctx, bucketName)
	if err != nil {
		return nil, errors.Wrap(err, "getting b2 bucket")
	}
	return &B2Store{client: client, bucket: bucket}, nil
}

func (s *B2Store) Save(ctx context.Context, filename string, content io.Reader) (string, error) {
	obj := s.bucket.Object(objectName(filename))
	w := obj.NewWriter(ctx)
	if _, err := io.Copy(w, content); err != nil {
		_ = w.Close()
		return "", errors.Wrap(err, "writing b2 object")
	}
	if err := w.Close(); err != nil {
		return "", errors.Wrap(err, "closing b2 object")
	}
	return obj.URL(), nil
}
