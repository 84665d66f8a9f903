package handlers

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/vedran77/itemvault/internal/domain"
	"github.com/vedran77/itemvault/internal/service"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, input service.RegisterInput) (*domain.User, error) {
	args := m.Called(ctx, input)
	if u := args.Get(0); u != nil {
		return u.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, input service.LoginInput) (*service.TokenResponse, error) {
	args := m.Called(ctx, input)
	if r := args.Get(0); r != nil {
		return r.(*service.TokenResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockItemService struct {
	mock.Mock
}

func (m *MockItemService) Create(ctx context.Context, ownerID *uuid.UUID, input service.CreateItemInput) (*domain.Item, error) {
	args := m.Called(ctx, ownerID, input)
	if it := args.Get(0); it != nil {
		return it.(*domain.Item), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockItemService) List(ctx context.Context) ([]domain.Item, error) {
	args := m.Called(ctx)
	if items := args.Get(0); items != nil {
		return items.([]domain.Item), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockItemService) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	args := m.Called(ctx, id)
	if it := args.Get(0); it != nil {
		return it.(*domain.Item), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockItemService) Update(ctx context.Context, id string, input service.UpdateItemInput) (*domain.Item, error) {
	args := m.Called(ctx, id, input)
	if it := args.Get(0); it != nil {
		return it.(*domain.Item), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockItemService) Delete(ctx context.Context, id string) (*domain.Item, error) {
	args := m.Called(ctx, id)
	if it := args.Get(0); it != nil {
		return it.(*domain.Item), args.Error(1)
	}
	return nil, args.Error(1)
}
