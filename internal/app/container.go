package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"linkup/internal/config"
	"linkup/internal/infrastructure/cache"
	"linkup/internal/infrastructure/media"
	"linkup/internal/pkg/jwt"
	useruc "linkup/internal/usecase/user"
	"linkup/internal/ws"

	"github.com/rs/zerolog"
)

const profileUpdatePrefix = "profile:update:"

type Container struct {
	Config config.Config
	Logger zerolog.Logger

	Store Store
	Cache *cache.Redis
	Media media.Uploader
	JWT   jwt.Service
	Hub   *ws.Hub

	Users *useruc.Service

	closers []io.Closer
}

func NewContainer(cfg config.Config, logger zerolog.Logger) (*Container, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c := &Container{Config: cfg, Logger: logger}

	store, err := OpenStore(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	c.Store = store
	c.closers = append(c.closers, store.Conn)

	uploader, closer, err := newUploader(ctx, cfg.Media)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("open media: %w", err)
	}
	c.Media = media.Instrument(uploader)
	if closer != nil {
		c.closers = append(c.closers, closer)
	}

	c.Cache = cache.NewRedis(cfg.Redis, logger)
	c.closers = append(c.closers, c.Cache)

	c.JWT = jwt.NewHMACService(cfg.JWT.AccessSecret, cfg.JWT.AccessExpiresIn)
	c.Hub = ws.NewHub(logger)

	limiter := cache.NewRateLimiter(c.Cache, profileUpdatePrefix, cfg.Limits.ProfileUpdates, cfg.Limits.ProfileUpdateWindow)
	c.Users = useruc.NewService(store.Users, c.Media,
		useruc.WithLimiter(limiter),
		useruc.WithNotifier(c.Hub),
		useruc.WithLogger(logger.With().Str("component", "users").Logger()),
	)

	logger.Info().
		Str("db_driver", cfg.Database.Driver).
		Str("media_driver", cfg.Media.Driver).
		Bool("cache", c.Cache.Available()).
		Msg("container ready")
	return c, nil
}

func newUploader(ctx context.Context, cfg config.MediaConfig) (media.Uploader, io.Closer, error) {
	switch cfg.Driver {
	case config.MediaDriverCloudinary:
		u, err := media.NewCloudinaryUploader(cfg.CloudinaryURL)
		if err != nil {
			return nil, nil, err
		}
		return u, nil, nil
	case config.MediaDriverBlob, "":
		u, err := media.OpenBlobUploader(ctx, cfg.BucketURL, cfg.PublicBaseURL, media.NewResolver(cfg.FetchTimeout))
		if err != nil {
			return nil, nil, err
		}
		return u, u, nil
	default:
		return nil, nil, fmt.Errorf("unknown media driver %q", cfg.Driver)
	}
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}
