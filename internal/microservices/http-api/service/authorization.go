package service

import (
	"errors"

	"mrp/internal/microservices/http-api/models"
)

// ErrForbidden is returned when the caller does not own the resource.
var ErrForbidden = errors.New("forbidden")

// AuthorizationGuard is a plain ownership check. There are no roles.
type AuthorizationGuard struct{}

func NewAuthorizationGuard() AuthorizationGuard {
	return AuthorizationGuard{}
}

// Authorize reports whether user owns the resource owned by ownerID.
func (AuthorizationGuard) Authorize(user *models.User, ownerID int64) bool {
	return user != nil && user.ID == ownerID
}
