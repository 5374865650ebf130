package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/OnteruYallaiah21/Getiva-app/internal/model"
	"github.com/OnteruYallaiah21/Getiva-app/internal/service"
)

type MockApplicationService struct {
	mock.Mock
}

func (m *MockApplicationService) List(ctx context.Context, username string, limit, offset int) (*service.ApplicationListResult, error) {
	args := m.Called(ctx, username, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ApplicationListResult), args.Error(1)
}

func (m *MockApplicationService) Create(ctx context.Context, username string, in service.CreateApplicationInput) (*model.Application, error) {
	args := m.Called(ctx, username, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Application), args.Error(1)
}

func (m *MockApplicationService) Update(ctx context.Context, username string, id int, in service.UpdateApplicationInput) (*model.Application, error) {
	args := m.Called(ctx, username, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Application), args.Error(1)
}

func (m *MockApplicationService) Delete(ctx context.Context, username string, id int) error {
	args := m.Called(ctx, username, id)
	return args.Error(0)
}

func (m *MockApplicationService) DeleteCollection(ctx context.Context, username string) error {
	args := m.Called(ctx, username)
	return args.Error(0)
}
