package models

import "time"

type Category struct {
	ID          string    `json:"_id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Slug        string    `json:"slug" bson:"slug"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty" bson:"image_url,omitempty"`
	CreatedAt   time.Time `json:"createdAt" bson:"created_at"`
}
