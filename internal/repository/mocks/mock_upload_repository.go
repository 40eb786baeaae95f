package mocks

import (
	"context"

	"painter/internal/model"
	"painter/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockUploadRepository struct {
	mock.Mock
}

func (m *MockUploadRepository) Create(ctx context.Context, rec *model.UploadRecord) (*model.UploadRecord, error) {
	args := m.Called(ctx, rec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UploadRecord), args.Error(1)
}

func (m *MockUploadRepository) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.UploadRecord], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.UploadRecord]), args.Error(1)
}

func (m *MockUploadRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
