package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/devconnector/backend/internal/models"
	"github.com/devconnector/backend/internal/storage"
)

// MemoryProfileService keeps profiles in memory, optionally snapshotted to a
// JSON file after each mutation. It is the local-development and test
// counterpart of MongoProfileService.
type MemoryProfileService struct {
	mu       sync.RWMutex
	profiles map[string]*models.Profile // owning userID -> profile
	users    UserService
	store    *storage.JSONStore // nil disables persistence
}

func NewMemoryProfileService(users UserService, store *storage.JSONStore) *MemoryProfileService {
	s := &MemoryProfileService{
		profiles: make(map[string]*models.Profile),
		users:    users,
		store:    store,
	}
	if store != nil {
		if err := store.Load(&s.profiles); err != nil {
			log.Warn().Err(err).Msg("could not load profile snapshot, starting empty")
		}
	}
	return s
}

func (s *MemoryProfileService) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prof, exists := s.profiles[userID]
	if !exists {
		return nil, ErrProfileNotFound
	}
	return s.populated(ctx, prof), nil
}

func (s *MemoryProfileService) List(ctx context.Context) ([]*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.Profile, 0, len(s.profiles))
	for _, prof := range s.profiles {
		result = append(result, s.populated(ctx, prof))
	}
	return result, nil
}

func (s *MemoryProfileService) Upsert(ctx context.Context, userID string, req *models.UpsertProfileRequest) (*models.Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prof, exists := s.profiles[userID]
	if !exists {
		prof = &models.Profile{
			ID:         uuid.New().String(),
			Experience: []models.Experience{},
			Education:  []models.Education{},
		}
		s.profiles[userID] = prof
	}

	applyProfilePatch(prof, user, req, time.Now())
	s.persist()

	return s.populated(ctx, prof), nil
}

func (s *MemoryProfileService) AddExperience(ctx context.Context, userID string, req *models.AddExperienceRequest) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prof, exists := s.profiles[userID]
	if !exists {
		return nil, ErrProfileNotFound
	}

	prof.Experience = append([]models.Experience{newExperience(req)}, prof.Experience...)
	prof.UpdatedAt = time.Now()
	s.persist()

	return s.populated(ctx, prof), nil
}

func (s *MemoryProfileService) RemoveExperience(ctx context.Context, userID, expID string) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prof, exists := s.profiles[userID]
	if !exists {
		return nil, ErrProfileNotFound
	}

	prof.Experience = removeExperienceByID(prof.Experience, expID)
	prof.UpdatedAt = time.Now()
	s.persist()

	return s.populated(ctx, prof), nil
}

func (s *MemoryProfileService) AddEducation(ctx context.Context, userID string, req *models.AddEducationRequest) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prof, exists := s.profiles[userID]
	if !exists {
		return nil, ErrProfileNotFound
	}

	prof.Education = append([]models.Education{newEducation(req)}, prof.Education...)
	prof.UpdatedAt = time.Now()
	s.persist()

	return s.populated(ctx, prof), nil
}

func (s *MemoryProfileService) RemoveEducation(ctx context.Context, userID, eduID string) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prof, exists := s.profiles[userID]
	if !exists {
		return nil, ErrProfileNotFound
	}

	prof.Education = removeEducationByID(prof.Education, eduID)
	prof.UpdatedAt = time.Now()
	s.persist()

	return s.populated(ctx, prof), nil
}

func (s *MemoryProfileService) DeleteByUser(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.profiles, userID)
	s.persist()
	return nil
}

// populated returns a copy of prof with the owner's current name and avatar
// attached. Must be called with at least a read lock held.
func (s *MemoryProfileService) populated(ctx context.Context, prof *models.Profile) *models.Profile {
	profCopy := *prof
	if user, err := s.users.GetByID(ctx, prof.UserID); err == nil {
		profCopy.Name = user.Name
		profCopy.Avatar = user.Avatar
	}
	return &profCopy
}

func (s *MemoryProfileService) persist() {
	if s.store == nil {
		return
	}
	if err := s.store.Save(s.profiles); err != nil {
		log.Error().Err(err).Msg("failed to save profile snapshot")
	}
}
