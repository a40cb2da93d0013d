package media

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"gocloud.dev/blob"

	// Bucket URL schemes: file://, mem://, s3://, gs://, azblob://.
	_ "gocloud.dev/blob/azureblob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"
)

// BlobUploader writes images to a gocloud bucket and serves them from a
// public base URL that fronts the bucket.
type BlobUploader struct {
	bucket        *blob.Bucket
	publicBaseURL string
	resolver      *Resolver
	newKey        func() string
}

func OpenBlobUploader(ctx context.Context, bucketURL, publicBaseURL string, resolver *Resolver) (*BlobUploader, error) {
	b, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, fmt.Errorf("media: open bucket: %w", err)
	}
	return NewBlobUploader(b, publicBaseURL, resolver), nil
}

func NewBlobUploader(b *blob.Bucket, publicBaseURL string, resolver *Resolver) *BlobUploader {
	if resolver == nil {
		resolver = NewResolver(0)
	}
	return &BlobUploader{
		bucket:        b,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		resolver:      resolver,
		newKey:        uuid.NewString,
	}
}

func (u *BlobUploader) Upload(ctx context.Context, raw string, opts UploadOptions) (UploadResult, error) {
	content, err := u.resolver.Resolve(ctx, raw)
	if err != nil {
		return UploadResult{}, err
	}

	key := path.Join(opts.Folder, u.newKey()+content.Extension)
	err = u.bucket.WriteAll(ctx, key, content.Data, &blob.WriterOptions{
		ContentType:  content.ContentType,
		CacheControl: "public, max-age=31536000, immutable",
	})
	if err != nil {
		return UploadResult{}, fmt.Errorf("media: write %s: %w", key, err)
	}

	return UploadResult{URL: u.publicBaseURL + "/" + key}, nil
}

func (u *BlobUploader) Close() error {
	if u == nil || u.bucket == nil {
		return nil
	}
	return u.bucket.Close()
}
