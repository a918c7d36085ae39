package domain

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NewID returns a fresh document identifier (24 hex characters).
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// IsValidID reports whether id has the document identifier shape.
func IsValidID(id string) bool {
	return primitive.IsValidObjectID(id)
}

// NormalizeID returns id in its canonical lower-case form and whether it has the
// document identifier shape. Identifiers differing only in hex case are the same.
func NormalizeID(id string) (string, bool) {
	if !IsValidID(id) {
		return id, false
	}
	return strings.ToLower(id), true
}
