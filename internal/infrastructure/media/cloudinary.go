package media

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryUploader hands the raw value straight to Cloudinary, which
// accepts data URIs, base64 and remote URLs itself.
type CloudinaryUploader struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryUploader(cloudinaryURL string) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("media: cloudinary config: %w", err)
	}
	cld.Config.URL.Secure = true
	return &CloudinaryUploader{cld: cld}, nil
}

func (u *CloudinaryUploader) Upload(ctx context.Context, raw string, opts UploadOptions) (UploadResult, error) {
	if strings.TrimSpace(raw) == "" {
		return UploadResult{}, ErrEmptyContent
	}

	res, err := u.cld.Upload.Upload(ctx, raw, uploader.UploadParams{Folder: opts.Folder})
	if err != nil {
		return UploadResult{}, fmt.Errorf("media: cloudinary upload: %w", err)
	}
	if res == nil {
		return UploadResult{}, errors.New("media: cloudinary upload: empty response")
	}
	if res.Error.Message != "" {
		return UploadResult{}, fmt.Errorf("media: cloudinary upload: %s", res.Error.Message)
	}
	if res.SecureURL == "" {
		return UploadResult{}, errors.New("media: cloudinary upload: missing secure_url")
	}
	return UploadResult{URL: res.SecureURL}, nil
}
