package models

import "time"

// Post is a content record owned by a User. Posts have no routes in this
// service; they exist so account deletion can cascade over them.
type Post struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	UserID    string    `json:"user" bson:"user"`
	Text      string    `json:"text" bson:"text"`
	Name      string    `json:"name" bson:"name,omitempty"`
	Avatar    string    `json:"avatar" bson:"avatar,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
