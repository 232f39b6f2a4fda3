package services

import (
	"context"
)

// AccountService removes a user and everything that belongs to them.
type AccountService interface {
	DeleteAccount(ctx context.Context, userID string) error
}

// MemoryAccountService cascades the delete across the in-memory services.
// Posts go first, then the profile, then the account record; the order is
// part of the contract. A failure mid-way leaves earlier steps applied.
type MemoryAccountService struct {
	posts    PostService
	profiles ProfileService
	users    UserService
}

func NewMemoryAccountService(posts PostService, profiles ProfileService, users UserService) *MemoryAccountService {
	return &MemoryAccountService{
		posts:    posts,
		profiles: profiles,
		users:    users,
	}
}

func (s *MemoryAccountService) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.posts.DeleteByUser(ctx, userID); err != nil {
		return err
	}
	if err := s.profiles.DeleteByUser(ctx, userID); err != nil {
		return err
	}
	return s.users.Delete(ctx, userID)
}
