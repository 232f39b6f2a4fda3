package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/devconnector/backend/internal/models"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailExists     = errors.New("email already registered")
	ErrInvalidPassword = errors.New("invalid password")
)

// ProfileService manages profile documents and their embedded experience and
// education sequences. Implemented by MemoryProfileService and
// MongoProfileService.
type ProfileService interface {
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
	List(ctx context.Context) ([]*models.Profile, error)
	Upsert(ctx context.Context, userID string, req *models.UpsertProfileRequest) (*models.Profile, error)
	AddExperience(ctx context.Context, userID string, req *models.AddExperienceRequest) (*models.Profile, error)
	RemoveExperience(ctx context.Context, userID, expID string) (*models.Profile, error)
	AddEducation(ctx context.Context, userID string, req *models.AddEducationRequest) (*models.Profile, error)
	RemoveEducation(ctx context.Context, userID, eduID string) (*models.Profile, error)
	DeleteByUser(ctx context.Context, userID string) error
}

// ParseSkills splits a comma-separated skills string into an ordered list,
// trimming surrounding whitespace from each element. Empty segments are kept
// as-is; callers are expected to send well-formed lists.
func ParseSkills(s string) []string {
	parts := strings.Split(s, ",")
	skills := make([]string, len(parts))
	for i, p := range parts {
		skills[i] = strings.TrimSpace(p)
	}
	return skills
}

func newExperience(req *models.AddExperienceRequest) models.Experience {
	return models.Experience{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		From:        req.From,
		To:          req.To,
		Current:     req.Current,
		Description: req.Description,
	}
}

func newEducation(req *models.AddEducationRequest) models.Education {
	return models.Education{
		ID:           uuid.New().String(),
		School:       req.School,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		From:         req.From,
		To:           req.To,
		Current:      req.Current,
		Description:  req.Description,
	}
}

// removeExperienceByID removes the entry with the given id, preserving the
// order of the rest. An unknown id leaves the sequence untouched.
func removeExperienceByID(list []models.Experience, id string) []models.Experience {
	for i, e := range list {
		if e.ID == id {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}

func removeEducationByID(list []models.Education, id string) []models.Education {
	for i, e := range list {
		if e.ID == id {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}

// applyProfilePatch copies the supplied fields of req onto prof, leaving
// omitted fields alone, and refreshes the denormalized owner identity.
func applyProfilePatch(prof *models.Profile, user *models.User, req *models.UpsertProfileRequest, now time.Time) {
	prof.UserID = user.ID
	prof.Name = user.Name
	prof.Avatar = user.Avatar
	prof.UpdatedAt = now

	if req.Company != "" {
		prof.Company = req.Company
	}
	if req.Image != "" {
		prof.Image = req.Image
	}
	if req.Website != "" {
		prof.Website = req.Website
	}
	if req.Location != "" {
		prof.Location = req.Location
	}
	if req.Bio != "" {
		prof.Bio = req.Bio
	}
	if req.Status != "" {
		prof.Status = req.Status
	}
	if req.GithubUsername != "" {
		prof.GithubUsername = req.GithubUsername
	}
	if req.Skills != "" {
		prof.Skills = ParseSkills(req.Skills)
	}
	if req.Youtube != "" {
		prof.Social.Youtube = req.Youtube
	}
	if req.Facebook != "" {
		prof.Social.Facebook = req.Facebook
	}
	if req.Twitter != "" {
		prof.Social.Twitter = req.Twitter
	}
	if req.Instagram != "" {
		prof.Social.Instagram = req.Instagram
	}
	if req.Linkedin != "" {
		prof.Social.Linkedin = req.Linkedin
	}
}
