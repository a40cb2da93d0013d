package user

import (
	"context"
	"errors"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrAlreadyExists = errors.New("user already exists")
)

type Repository interface {
	// FindConnections returns the connection ids of the given user.
	FindConnections(ctx context.Context, id string) ([]string, error)
	// FindSuggestions returns up to limit users that are neither excludeID
	// nor in connections, in store order.
	FindSuggestions(ctx context.Context, excludeID string, connections []string, limit int) ([]Summary, error)
	FindByID(ctx context.Context, id string) (Profile, error)
	FindByUsername(ctx context.Context, username string) (Profile, error)
	// UpdateProfile applies patch to the record with the given id and returns
	// the updated record.
	UpdateProfile(ctx context.Context, id string, patch ProfilePatch) (Profile, error)
	Create(ctx context.Context, p Profile, passwordHash string) (Profile, error)
}
