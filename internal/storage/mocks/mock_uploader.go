package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/OnteruYallaiah21/Getiva-app/internal/storage"
)

// MockUploader stands in for *storage.Uploader behind the consumer-side
// uploader interfaces.
type MockUploader struct {
	mock.Mock
}

func (m *MockUploader) Upload(ctx context.Context, owner, category, filename string, r io.Reader, contentType string) (storage.Result, error) {
	args := m.Called(ctx, owner, category, filename, r, contentType)
	res, _ := args.Get(0).(storage.Result)
	return res, args.Error(1)
}
