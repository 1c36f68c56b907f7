package authz

import "errors"

// ErrForbidden is returned when a caller acts on a resource it does not own.
var ErrForbidden = errors.New("forbidden")

// AssertSelfOrOwner succeeds only when the caller is the owner of the
// resource. An empty caller never owns anything.
func AssertSelfOrOwner(callerID, ownerID string) error {
	if callerID == "" || callerID != ownerID {
		return ErrForbidden
	}
	return nil
}
