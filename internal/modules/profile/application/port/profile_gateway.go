package port

import (
	"context"
	"errors"

	"storefrontWs/internal/modules/profile/domain"
)

var (
	ErrProfileUnauthorized       = errors.New("profile requires a signed-in user")
	ErrProfileRejected           = errors.New("profile update rejected by auth service")
	ErrProfileServiceUnavailable = errors.New("auth service unavailable")
)

type ProfileGateway interface {
	GetProfile(ctx context.Context, token string) (domain.Profile, error)
	UpdateProfile(ctx context.Context, token string, input domain.UpdateProfileInput) (domain.Profile, error)
}
