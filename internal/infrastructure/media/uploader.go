package media

import (
	"context"
	"errors"

	"linkup/internal/pkg/metrics"
)

const (
	FolderProfilePictures = "profile_pictures"
	FolderBanners         = "banners"
)

var (
	ErrEmptyContent   = errors.New("media: empty content")
	ErrInvalidContent = errors.New("media: invalid content")
)

type UploadOptions struct {
	Folder string
}

type UploadResult struct {
	// URL is the canonical https URL of the stored asset.
	URL string
}

// Uploader stores raw image content and returns where it can be fetched.
// raw is a data URI, bare base64 or an http(s) URL.
type Uploader interface {
	Upload(ctx context.Context, raw string, opts UploadOptions) (UploadResult, error)
}

type instrumented struct {
	next Uploader
}

// Instrument counts uploads per folder and outcome.
func Instrument(u Uploader) Uploader {
	return instrumented{next: u}
}

func (i instrumented) Upload(ctx context.Context, raw string, opts UploadOptions) (UploadResult, error) {
	res, err := i.next.Upload(ctx, raw, opts)
	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = metrics.OutcomeError
	}
	metrics.MediaUploads.WithLabelValues(opts.Folder, outcome).Inc()
	return res, err
}
