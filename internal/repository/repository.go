// Package repository defines the storage interfaces the service layer
// depends on. The sqlite subpackage provides the concrete implementation;
// tests substitute in-memory mocks.
package repository

import (
	"context"

	"github.com/sakif/imagevault/internal/model"
)

// UserRepository persists user identities and credentials.
type UserRepository interface {
	// CreateUser inserts a new user. Returns apperror.Conflict (field
	// "username" or "email") when either unique column is already taken.
	CreateUser(ctx context.Context, user *model.User) error

	// GetUserByUsername returns apperror.NotFound when no such user exists.
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)

	// GetUserByID returns apperror.NotFound when no such user exists.
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

// FileRepository persists the metadata linking stored objects to owners.
type FileRepository interface {
	// Create inserts a new file row, filling ID and UploadedAt.
	Create(ctx context.Context, file *model.File) error

	// ListByOwner returns the owner's files, newest upload first.
	ListByOwner(ctx context.Context, ownerID string) ([]model.File, error)

	// GetByID returns apperror.NotFound when no such file exists.
	GetByID(ctx context.Context, id string) (*model.File, error)

	// DeleteByID removes the row only; the caller owns removal of the
	// underlying stored object.
	DeleteByID(ctx context.Context, id string) error

	// ListAll returns every file row. Used by the reconciliation sweep.
	ListAll(ctx context.Context) ([]model.File, error)
}
