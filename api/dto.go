/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Request types validate themselves (ozzo-validation). The API surface
  enforces the closed mood vocabulary here: a value outside the set never
  reaches the controller through HTTP, even though the core would accept
  it and render it blank.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/warp/mood-calendar/mood"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

var dateKeyPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])-(0[1-9]|[12]\d|3[01])$`)

// SessionRequest signs a user in and opens a session.
type SessionRequest struct {
	UserID string `json:"user_id"`
}

func (r SessionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.UserID, validation.Required, validation.Length(1, 128)),
	)
}

// SetMoodRequest assigns a mood to one day.
type SetMoodRequest struct {
	Mood string `json:"mood"`
}

func (r SetMoodRequest) Validate() error {
	moods := mood.All()
	members := make([]interface{}, len(moods))
	for i, m := range moods {
		members[i] = string(m)
	}
	return validation.ValidateStruct(&r,
		validation.Field(&r.Mood, validation.Required, validation.In(members...)),
	)
}

// ValidDateParam reports whether a {date} path parameter is the canonical
// key of a real calendar day. The regexp enforces the zero-padded shape;
// the parse rejects shapes that name no day, like a February 31st.
func ValidDateParam(s string) bool {
	if !dateKeyPattern.MatchString(s) {
		return false
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// SessionDTO is the response to a successful sign-in.
type SessionDTO struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

// CellDTO is one rendered grid cell, the core Cell decorated with its mood.
type CellDTO struct {
	Day        int    `json:"day"`
	Date       string `json:"date"`
	OtherMonth bool   `json:"other_month"`
	Today      bool   `json:"today"`
	Mood       string `json:"mood,omitempty"`
	Emoji      string `json:"emoji,omitempty"`
}

// CalendarDTO is a full month page.
type CalendarDTO struct {
	Year  int       `json:"year"`
	Month int       `json:"month"`
	Label string    `json:"label"`
	Cells []CellDTO `json:"cells"`
}

// MoodsDTO wraps the user's full mood map.
type MoodsDTO struct {
	Moods mood.MoodMap `json:"moods"`
}

// PersistDTO reports the durable-write outcome of a mood selection. The
// local mutation always stands; Status says whether it also reached the
// document store.
type PersistDTO struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// SetMoodDTO is the response to a mood assignment.
type SetMoodDTO struct {
	Date    string     `json:"date"`
	Mood    string     `json:"mood"`
	Emoji   string     `json:"emoji,omitempty"`
	Persist PersistDTO `json:"persist"`
}

// ErrorDTO is the uniform error envelope.
type ErrorDTO struct {
	Error string `json:"error"`
}
