package model

// Principal is the authenticated identity resolved from a bearer token. It
// exists only for the duration of a request.
type Principal struct {
	ID       int64
	Username string
}

// Owns reports whether the principal is the owner identified by ownerID.
func (p Principal) Owns(ownerID int64) bool {
	return p.ID == ownerID
}
