package user

import (
	"context"
	"errors"
	"fmt"

	"linkup/internal/domain/user"
	"linkup/internal/infrastructure/media"

	"github.com/rs/zerolog"
)

// SuggestionLimit caps the number of suggested connections.
const SuggestionLimit = 3

var ErrRateLimited = errors.New("rate limited")

// Uploader stores raw image content and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, raw string, opts media.UploadOptions) (media.UploadResult, error)
}

// Limiter reports whether the caller identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Notifier is told about every persisted profile update.
type Notifier interface {
	ProfileUpdated(p user.Profile, fields []string)
}

type Service struct {
	users    user.Repository
	uploader Uploader
	limiter  Limiter
	notifier Notifier
	logger   zerolog.Logger
}

type Option func(*Service)

func WithLimiter(l Limiter) Option {
	return func(s *Service) { s.limiter = l }
}

func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func NewService(users user.Repository, uploader Uploader, opts ...Option) *Service {
	s := &Service{users: users, uploader: uploader, logger: zerolog.Nop()}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Service) SuggestConnections(ctx context.Context, requesterID string) ([]user.Summary, error) {
	connections, err := s.users.FindConnections(ctx, requesterID)
	if err != nil {
		return nil, fmt.Errorf("find connections: %w", err)
	}

	suggestions, err := s.users.FindSuggestions(ctx, requesterID, connections, SuggestionLimit)
	if err != nil {
		return nil, fmt.Errorf("find suggestions: %w", err)
	}
	if len(suggestions) > SuggestionLimit {
		suggestions = suggestions[:SuggestionLimit]
	}
	return suggestions, nil
}

func (s *Service) GetPublicProfile(ctx context.Context, username string) (user.Profile, error) {
	if username == "" {
		return user.Profile{}, user.ErrNotFound
	}
	p, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return user.Profile{}, fmt.Errorf("find by username: %w", err)
	}
	return p, nil
}

func (s *Service) GetProfile(ctx context.Context, userID string) (user.Profile, error) {
	p, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return user.Profile{}, fmt.Errorf("find by id: %w", err)
	}
	return p, nil
}

// UpdateProfile uploads any new images, then writes the filtered fields to
// the requester's record in a single store call. Nothing is written when an
// upload fails.
func (s *Service) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (user.Profile, error) {
	if s.limiter != nil {
		ok, err := s.limiter.Allow(ctx, userID)
		if err != nil {
			s.logger.Warn().Err(err).Str("user_id", userID).Msg("profile update limiter failed, allowing")
		}
		if !ok {
			return user.Profile{}, ErrRateLimited
		}
	}

	patch := in.Patch()

	if patch.ProfilePicture != nil {
		res, err := s.uploader.Upload(ctx, *patch.ProfilePicture, media.UploadOptions{Folder: media.FolderProfilePictures})
		if err != nil {
			return user.Profile{}, fmt.Errorf("upload profile picture: %w", err)
		}
		patch.ProfilePicture = &res.URL
	}

	if patch.BannerImg != nil {
		res, err := s.uploader.Upload(ctx, *patch.BannerImg, media.UploadOptions{Folder: media.FolderBanners})
		if err != nil {
			return user.Profile{}, fmt.Errorf("upload banner: %w", err)
		}
		patch.BannerImg = &res.URL
	}

	updated, err := s.users.UpdateProfile(ctx, userID, patch)
	if err != nil {
		return user.Profile{}, fmt.Errorf("update profile: %w", err)
	}

	fields := patch.Fields()
	s.logger.Info().Str("user_id", userID).Strs("fields", fields).Msg("profile updated")
	if s.notifier != nil {
		s.notifier.ProfileUpdated(updated, fields)
	}
	return updated, nil
}
