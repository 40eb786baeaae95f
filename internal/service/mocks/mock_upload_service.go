package mocks

import (
	"context"
	"iter"
	"slices"

	"painter/internal/model"
	"painter/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockUploadService struct {
	mock.Mock
}

func (m *MockUploadService) Store(ctx context.Context, req model.UploadRequest) (*model.UploadResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UploadResult), args.Error(1)
}

// List expects the configured return value to be a []string.
func (m *MockUploadService) List() iter.Seq[string] {
	args := m.Called()
	names, _ := args.Get(0).([]string)
	return slices.Values(names)
}

func (m *MockUploadService) Directory() service.DirectoryInfo {
	args := m.Called()
	return args.Get(0).(service.DirectoryInfo)
}

func (m *MockUploadService) History(ctx context.Context, limit, offset int) (*service.HistoryResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.HistoryResult), args.Error(1)
}

func (m *MockUploadService) Ready(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
