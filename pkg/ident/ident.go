// Package ident generates and checks resource identifiers.
// Identifiers are hex-encoded 12-byte object ids regardless of the
// storage backend, so a malformed id can be told apart from a missing one.
package ident

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// New returns a new unique identifier.
func New() string {
	return primitive.NewObjectID().Hex()
}

// Valid reports whether id is a well-formed identifier.
func Valid(id string) bool {
	return primitive.IsValidObjectID(id)
}

// Parse returns id in its canonical lowercase form and whether it is
// well-formed. Stores key records by the canonical form.
func Parse(id string) (string, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	return id, primitive.IsValidObjectID(id)
}
