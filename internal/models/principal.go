package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Principal is the authenticated caller, resolved once per request from the
// session token.
type Principal struct {
	UserID primitive.ObjectID
	Email  string
	Role   string
}

// IsAdmin reports whether the caller may use back-office operations.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

// CanActFor reports whether the caller may read or change userID's data.
func (p *Principal) CanActFor(userID primitive.ObjectID) bool {
	return p != nil && (p.UserID == userID || p.IsAdmin())
}
