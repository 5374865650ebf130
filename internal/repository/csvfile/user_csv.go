package csvfile

import (
	"context"
	"time"

	"github.com/OnteruYallaiah21/Getiva-app/internal/model"
	"github.com/OnteruYallaiah21/Getiva-app/internal/repository"
)

var userHeader = []string{"username", "password", "role", "created_at", "updated_at"}

// UserCSV is the CSV implementation of repository.UserRepository, backed by a
// single users.csv. Legacy files carrying only username,password,role still
// load; the timestamp columns read as zero values.
type UserCSV struct {
	store *Store
}

// NewUserCSV creates a CSV-backed user repository.
func NewUserCSV(store *Store) *UserCSV {
	return &UserCSV{store: store}
}

var _ repository.UserRepository = (*UserCSV)(nil)

func (r *UserCSV) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	r.store.userMu.Lock()
	defer r.store.userMu.Unlock()

	users, err := r.readAll()
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Username == username {
			return &users[i], nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserCSV) List(ctx context.Context) ([]model.User, error) {
	r.store.userMu.Lock()
	defer r.store.userMu.Unlock()
	return r.readAll()
}

func (r *UserCSV) Create(ctx context.Context, u *model.User) (*model.User, error) {
	r.store.userMu.Lock()
	defer r.store.userMu.Unlock()

	users, err := r.readAll()
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Username == u.Username {
			return nil, repository.ErrExists
		}
	}

	stored := *u
	users = append(users, stored)
	if err := r.writeAll(users); err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *UserCSV) Update(ctx context.Context, u *model.User) (*model.User, error) {
	r.store.userMu.Lock()
	defer r.store.userMu.Unlock()

	users, err := r.readAll()
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Username == u.Username {
			updated := *u
			updated.CreatedAt = users[i].CreatedAt
			users[i] = updated
			if err := r.writeAll(users); err != nil {
				return nil, err
			}
			return &updated, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserCSV) Delete(ctx context.Context, username string) error {
	r.store.userMu.Lock()
	defer r.store.userMu.Unlock()

	users, err := r.readAll()
	if err != nil {
		return err
	}
	kept := users[:0]
	found := false
	for _, u := range users {
		if u.Username == username {
			found = true
			continue
		}
		kept = append(kept, u)
	}
	if !found {
		return repository.ErrNotFound
	}
	return r.writeAll(kept)
}

func (r *UserCSV) readAll() ([]model.User, error) {
	records, err := readRecords(r.store.usersPath())
	if err != nil {
		return nil, err
	}
	users := make([]model.User, 0, len(records))
	for _, rec := range records {
		if field(rec, 0) == "" {
			continue
		}
		created, _ := time.Parse(time.RFC3339, field(rec, 3))
		updated, _ := time.Parse(time.RFC3339, field(rec, 4))
		users = append(users, model.User{
			Username:     field(rec, 0),
			PasswordHash: field(rec, 1),
			Role:         field(rec, 2),
			CreatedAt:    created,
			UpdatedAt:    updated,
		})
	}
	return users, nil
}

func (r *UserCSV) writeAll(users []model.User) error {
	records := make([][]string, 0, len(users))
	for _, u := range users {
		records = append(records, []string{
			u.Username,
			u.PasswordHash,
			u.Role,
			u.CreatedAt.Format(time.RFC3339),
			u.UpdatedAt.Format(time.RFC3339),
		})
	}
	return writeRecords(r.store.usersPath(), userHeader, records)
}
