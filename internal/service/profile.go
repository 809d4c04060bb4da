package service

import (
	"context"
	"errors"

	"github.com/andrewlin1368/grace-shopper-e-commerce/internal/model"
)

// ErrUnauthorized is returned when the requester's role does not permit
// the operation.
var ErrUnauthorized = errors.New("unauthorized")

// ProfileService assembles the sanitized user projection together with
// their partitioned order history.
type ProfileService interface {
	GetSelfProfile(ctx context.Context, userID string) (*model.ProfileResponse, error)
	GetCustomerProfile(ctx context.Context, requesterID, targetID string) (*model.ProfileResponse, error)
}

// profileServiceImpl はプロフィールサービスの実装
type profileServiceImpl struct {
	users  UserService
	orders OrderService
	authz  *AuthorizationService
}

// NewProfileService は新しいプロフィールサービスを作成
func NewProfileService(users UserService, orders OrderService, authz *AuthorizationService) ProfileService {
	return &profileServiceImpl{
		users:  users,
		orders: orders,
		authz:  authz,
	}
}

// GetSelfProfile returns the user's own sanitized profile and orders.
func (s *profileServiceImpl) GetSelfProfile(ctx context.Context, userID string) (*model.ProfileResponse, error) {
	return s.buildProfile(ctx, userID)
}

// GetCustomerProfile returns another user's profile and orders. Only
// roles granted customers:read (admins) may call it; the role is read
// from the stored requester record, not from the token.
func (s *profileServiceImpl) GetCustomerProfile(ctx context.Context, requesterID, targetID string) (*model.ProfileResponse, error) {
	requester, err := s.users.GetUserByID(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	allowed, err := s.authz.CheckPermission(requester, "customers", "read")
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrUnauthorized
	}

	return s.buildProfile(ctx, targetID)
}

// buildProfile fetches the user and aggregates their orders.
func (s *profileServiceImpl) buildProfile(ctx context.Context, userID string) (*model.ProfileResponse, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	buckets, err := s.orders.GetOrdersForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &model.ProfileResponse{
		Orders: *buckets,
		User:   user.Public(),
	}, nil
}
