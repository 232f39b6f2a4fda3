package models

import "time"

// Profile is a user's extended public record, stored as a single document
// keyed by the owning user's id. Name and Avatar are denormalized from the
// User record and refreshed on every upsert.
type Profile struct {
	ID             string       `json:"id" bson:"_id,omitempty"`
	UserID         string       `json:"user" bson:"user"`
	Name           string       `json:"name" bson:"name,omitempty"`
	Avatar         string       `json:"avatar" bson:"avatar,omitempty"`
	Company        string       `json:"company,omitempty" bson:"company,omitempty"`
	Image          string       `json:"image,omitempty" bson:"image,omitempty"`
	Website        string       `json:"website,omitempty" bson:"website,omitempty"`
	Location       string       `json:"location,omitempty" bson:"location,omitempty"`
	Bio            string       `json:"bio,omitempty" bson:"bio,omitempty"`
	Status         string       `json:"status" bson:"status,omitempty"`
	GithubUsername string       `json:"githubusername,omitempty" bson:"githubusername,omitempty"`
	Skills         []string     `json:"skills" bson:"skills,omitempty"`
	Social         SocialLinks  `json:"social" bson:"social,omitempty"`
	Experience     []Experience `json:"experience" bson:"experience"`
	Education      []Education  `json:"education" bson:"education"`
	UpdatedAt      time.Time    `json:"updated_at" bson:"updated_at"`
}

type SocialLinks struct {
	Youtube   string `json:"youtube,omitempty" bson:"youtube,omitempty"`
	Facebook  string `json:"facebook,omitempty" bson:"facebook,omitempty"`
	Twitter   string `json:"twitter,omitempty" bson:"twitter,omitempty"`
	Instagram string `json:"instagram,omitempty" bson:"instagram,omitempty"`
	Linkedin  string `json:"linkedin,omitempty" bson:"linkedin,omitempty"`
}

// Experience is an embedded work-history entry. Entries are ordered
// most-recent-first and only ever added or removed, never edited in place.
type Experience struct {
	ID          string     `json:"id" bson:"id"`
	Title       string     `json:"title" bson:"title"`
	Company     string     `json:"company" bson:"company"`
	Location    string     `json:"location,omitempty" bson:"location,omitempty"`
	From        time.Time  `json:"from" bson:"from"`
	To          *time.Time `json:"to,omitempty" bson:"to,omitempty"`
	Current     bool       `json:"current" bson:"current"`
	Description string     `json:"description,omitempty" bson:"description,omitempty"`
}

// Education is an embedded schooling entry with the same lifecycle rules
// as Experience.
type Education struct {
	ID           string     `json:"id" bson:"id"`
	School       string     `json:"school" bson:"school"`
	Degree       string     `json:"degree" bson:"degree"`
	FieldOfStudy string     `json:"fieldofstudy" bson:"fieldofstudy"`
	From         time.Time  `json:"from" bson:"from"`
	To           *time.Time `json:"to,omitempty" bson:"to,omitempty"`
	Current      bool       `json:"current" bson:"current"`
	Description  string     `json:"description,omitempty" bson:"description,omitempty"`
}

// UpsertProfileRequest carries the sparse profile patch. Empty fields are
// treated as absent and left untouched on the stored document.
type UpsertProfileRequest struct {
	Company        string `json:"company"`
	Image          string `json:"image"`
	Website        string `json:"website"`
	Location       string `json:"location"`
	Bio            string `json:"bio"`
	Status         string `json:"status" validate:"required"`
	GithubUsername string `json:"githubusername"`
	Skills         string `json:"skills" validate:"required"`
	Youtube        string `json:"youtube"`
	Facebook       string `json:"facebook"`
	Twitter        string `json:"twitter"`
	Instagram      string `json:"instagram"`
	Linkedin       string `json:"linkedin"`
}

type AddExperienceRequest struct {
	Title       string     `json:"title" validate:"required"`
	Company     string     `json:"company" validate:"required"`
	Location    string     `json:"location"`
	From        time.Time  `json:"from" validate:"required"`
	To          *time.Time `json:"to"`
	Current     bool       `json:"current"`
	Description string     `json:"description"`
}

type AddEducationRequest struct {
	School       string     `json:"school" validate:"required"`
	Degree       string     `json:"degree" validate:"required"`
	FieldOfStudy string     `json:"fieldofstudy" validate:"required"`
	From         time.Time  `json:"from" validate:"required"`
	To           *time.Time `json:"to"`
	Current      bool       `json:"current"`
	Description  string     `json:"description"`
}
