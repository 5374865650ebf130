// Package repository contains data access abstractions for users and per-user
// application collections. Implementations live in subpackages (csvfile,
// postgres) and contain no business logic.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/OnteruYallaiah21/Getiva-app/internal/model"
)

// Sentinel errors shared by all backends. The SQL backend maps sql.ErrNoRows
// onto ErrNotFound so callers never depend on database/sql.
var (
	ErrNotFound = errors.New("record not found")
	ErrExists   = errors.New("record already exists")
)

// PageQuery holds limit/offset pagination parameters. Limit <= 0 means no
// limit: the whole collection is returned.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}

// ApplicationUpdate names the fields a caller may replace on an existing row.
// Nil pointers leave the stored value untouched. FileUpdate groups the three
// columns a replacement upload rewrites together.
type ApplicationUpdate struct {
	Company        *string
	JobDescription *string
	Status         *string
	File           *FileUpdate
	Timestamp      time.Time
}

// FileUpdate carries the columns rewritten when a new file accompanies an
// update.
type FileUpdate struct {
	Filename     string
	DownloadLink string
	ViewLink     string
}

// ApplicationRepository is the per-user application store. Every operation is
// scoped to one owner's collection; rows are ordered newest first. Mutations
// for the same owner are serialized by the implementation.
type ApplicationRepository interface {
	// List returns a page of the owner's rows, timestamp descending, plus the
	// total row count for that owner.
	List(ctx context.Context, username string, pq PageQuery) (*PageResult[model.Application], error)

	// Create appends a row to the owner's collection, assigning the next id
	// (max existing + 1, or 1 for an empty collection). Returns the stored row.
	Create(ctx context.Context, username string, app *model.Application) (*model.Application, error)

	// Update applies the non-nil fields of upd to the row with the given id.
	// Returns ErrNotFound when the owner has no such row.
	Update(ctx context.Context, username string, id int, upd ApplicationUpdate) (*model.Application, error)

	// Delete removes the row with the given id. Returns ErrNotFound when the
	// owner has no such row.
	Delete(ctx context.Context, username string, id int) error

	// DeleteCollection removes the owner's entire collection. Deleting an
	// absent collection is a no-op.
	DeleteCollection(ctx context.Context, username string) error
}

// UserRepository is the credential store.
type UserRepository interface {
	// FindByUsername returns a single user or ErrNotFound.
	FindByUsername(ctx context.Context, username string) (*model.User, error)

	// List returns all users.
	List(ctx context.Context) ([]model.User, error)

	// Create inserts a new user. Returns ErrExists when the username is taken.
	Create(ctx context.Context, u *model.User) (*model.User, error)

	// Update rewrites an existing user's password hash and role.
	// Returns ErrNotFound when the username is unknown.
	Update(ctx context.Context, u *model.User) (*model.User, error)

	// Delete removes a user. Returns ErrNotFound when the username is unknown.
	Delete(ctx context.Context, username string) error
}
