package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Document is a generated documentation record owned by a single user.
// JSONData is set when the AI response was a structured object that could
// not be unwrapped to plain text; Content then carries its pretty-printed
// form so the viewer always has something to render.
type Document struct {
	ID        string         `json:"id"`
	OwnerID   string         `json:"-"`
	Title     string         `json:"title"`
	Content   string         `json:"content"`
	Summary   string         `json:"summary,omitempty"`
	Language  string         `json:"language,omitempty"`
	JSONData  map[string]any `json:"jsonData,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// Validate checks field constraints for a document about to be persisted.
func (d Document) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.OwnerID, validation.Required),
		validation.Field(&d.Title, validation.Required, validation.Length(1, 500)),
		validation.Field(&d.Content, validation.Required),
	)
}

// DocumentUpdate carries a partial update. Nil fields are left unchanged.
type DocumentUpdate struct {
	Title    *string         `json:"title,omitempty"`
	Content  *string         `json:"content,omitempty"`
	Summary  *string         `json:"summary,omitempty"`
	Language *string         `json:"language,omitempty"`
	JSONData *map[string]any `json:"jsonData,omitempty"`
}

// Validate rejects updates that would blank out required fields.
func (u DocumentUpdate) Validate() error {
	return validation.ValidateStruct(&u,
		validation.Field(&u.Title, validation.NilOrNotEmpty, validation.Length(1, 500)),
		validation.Field(&u.Content, validation.NilOrNotEmpty),
	)
}

// IsEmpty reports whether the update carries no changes at all.
func (u DocumentUpdate) IsEmpty() bool {
	return u.Title == nil && u.Content == nil && u.Summary == nil &&
		u.Language == nil && u.JSONData == nil
}
