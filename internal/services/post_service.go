package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/devconnector/backend/internal/models"
)

// PostService is the slice of the posts subsystem this service needs:
// account deletion cascades over a user's posts.
type PostService interface {
	Create(ctx context.Context, userID, text string) (*models.Post, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Post, error)
	DeleteByUser(ctx context.Context, userID string) error
}

type MemoryPostService struct {
	mu    sync.RWMutex
	posts map[string]*models.Post // postID -> post
}

func NewMemoryPostService() *MemoryPostService {
	return &MemoryPostService{
		posts: make(map[string]*models.Post),
	}
}

func (s *MemoryPostService) Create(ctx context.Context, userID, text string) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post := &models.Post{
		ID:        uuid.New().String(),
		UserID:    userID,
		Text:      text,
		CreatedAt: time.Now(),
	}
	s.posts[post.ID] = post
	return post, nil
}

func (s *MemoryPostService) ListByUser(ctx context.Context, userID string) ([]*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var posts []*models.Post
	for _, post := range s.posts {
		if post.UserID == userID {
			posts = append(posts, post)
		}
	}
	return posts, nil
}

func (s *MemoryPostService) DeleteByUser(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, post := range s.posts {
		if post.UserID == userID {
			delete(s.posts, id)
		}
	}
	return nil
}
