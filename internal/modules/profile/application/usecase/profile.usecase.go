package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"storefrontWs/internal/modules/profile/application/port"
	"storefrontWs/internal/modules/profile/domain"
	"storefrontWs/internal/shared/validation"
)

type ProfileUseCase struct {
	gateway port.ProfileGateway
}

func NewProfileUseCase(gateway port.ProfileGateway) *ProfileUseCase {
	return &ProfileUseCase{gateway: gateway}
}

func (uc *ProfileUseCase) Get(ctx context.Context, token string) (domain.Profile, error) {
	if token == "" {
		return domain.Profile{}, port.ErrProfileUnauthorized
	}
	return uc.gateway.GetProfile(ctx, token)
}

func (uc *ProfileUseCase) Update(ctx context.Context, token string, input domain.UpdateProfileInput) (domain.Profile, error) {
	input.Trim()
	if input.IsEmpty() {
		return domain.Profile{}, fmt.Errorf("%w: nothing to update", validation.ErrValidation)
	}
	if err := validation.Struct(input); err != nil {
		return domain.Profile{}, err
	}
	if token == "" {
		return domain.Profile{}, port.ErrProfileUnauthorized
	}
	profile, err := uc.gateway.UpdateProfile(ctx, token, input)
	if err != nil {
		slog.Warn("profile update failed", slog.Any("error", err))
		return domain.Profile{}, err
	}
	slog.Info("profile updated", slog.String("userId", profile.ID))
	return profile, nil
}

// DeliveryAddress returns the saved address of the token's user, or "" when none is stored.
func (uc *ProfileUseCase) DeliveryAddress(ctx context.Context, token string) (string, error) {
	profile, err := uc.Get(ctx, token)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(profile.Address), nil
}
