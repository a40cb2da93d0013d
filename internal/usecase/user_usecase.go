package usecase

import (
	"context"

	"linkup/internal/domain/user"
	ucuser "linkup/internal/usecase/user"
)

type UserUsecase interface {
	SuggestConnections(ctx context.Context, requesterID string) ([]user.Summary, error)
	GetPublicProfile(ctx context.Context, username string) (user.Profile, error)
	GetProfile(ctx context.Context, userID string) (user.Profile, error)
	UpdateProfile(ctx context.Context, userID string, in ucuser.UpdateProfileInput) (user.Profile, error)
}

var _ UserUsecase = (*ucuser.Service)(nil)
