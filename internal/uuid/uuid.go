// Package uuid wraps github.com/google/uuid so that UUIDs can be bound
// directly from URI and query parameters by gin.
package uuid

import (
	google_uuid "github.com/google/uuid"
)

type UUID struct {
	google_uuid.UUID
}

var Nil UUID

func New() UUID {
	return UUID{google_uuid.New()}
}

// Parse parses a UUID from its string representation.
func Parse(s string) (UUID, error) {
	parsed, err := google_uuid.Parse(s)
	if err != nil {
		return Nil, err
	}

	return UUID{parsed}, nil
}

// UnmarshalParam implements gin's binding.BindUnmarshaler.
//
// An empty parameter binds to the nil UUID so that optional query
// parameters can be told apart from malformed ones.
func (u *UUID) UnmarshalParam(p string) error {
	if p == "" {
		*u = Nil
		return nil
	}

	parsed, err := google_uuid.Parse(p)
	if err != nil {
		return err
	}

	*u = UUID{parsed}
	return nil
}
