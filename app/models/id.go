package models

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrInvalidID is wrapped by ParseID for anything that is not a 24-character
// hex ObjectID.
var ErrInvalidID = errors.New("invalid identifier")

// ParseID is the single place where an identifier string becomes an
// ObjectID. Repositories only accept the parsed form.
func ParseID(s string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	return id, nil
}
