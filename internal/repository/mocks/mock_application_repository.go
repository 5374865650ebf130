package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/OnteruYallaiah21/Getiva-app/internal/model"
	"github.com/OnteruYallaiah21/Getiva-app/internal/repository"
)

type MockApplicationRepository struct {
	mock.Mock
}

func (m *MockApplicationRepository) List(ctx context.Context, username string, pq repository.PageQuery) (*repository.PageResult[model.Application], error) {
	args := m.Called(ctx, username, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Application]), args.Error(1)
}

func (m *MockApplicationRepository) Create(ctx context.Context, username string, app *model.Application) (*model.Application, error) {
	args := m.Called(ctx, username, app)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Application), args.Error(1)
}

func (m *MockApplicationRepository) Update(ctx context.Context, username string, id int, upd repository.ApplicationUpdate) (*model.Application, error) {
	args := m.Called(ctx, username, id, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Application), args.Error(1)
}

func (m *MockApplicationRepository) Delete(ctx context.Context, username string, id int) error {
	args := m.Called(ctx, username, id)
	return args.Error(0)
}

func (m *MockApplicationRepository) DeleteCollection(ctx context.Context, username string) error {
	args := m.Called(ctx, username)
	return args.Error(0)
}
