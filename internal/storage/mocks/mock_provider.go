package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/OnteruYallaiah21/Getiva-app/internal/storage"
)

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockProvider) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (storage.Result, error) {
	args := m.Called(ctx, key, r, size, contentType)
	res, _ := args.Get(0).(storage.Result)
	return res, args.Error(1)
}
