package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefrontWs/internal/modules/profile/application/port"
	"storefrontWs/internal/modules/profile/domain"
	"storefrontWs/internal/shared/validation"
)

type fakeProfiles struct {
	profile domain.Profile
	updates []domain.UpdateProfileInput
	err     error
}

func (g *fakeProfiles) GetProfile(_ context.Context, _ string) (domain.Profile, error) {
	return g.profile, g.err
}

func (g *fakeProfiles) UpdateProfile(_ context.Context, _ string, input domain.UpdateProfileInput) (domain.Profile, error) {
	g.updates = append(g.updates, input)
	return g.profile, g.err
}

func TestUpdateTrimsAndValidates(t *testing.T) {
	gateway := &fakeProfiles{profile: domain.Profile{ID: "3"}}
	uc := NewProfileUseCase(gateway)

	_, err := uc.Update(context.Background(), "tok", domain.UpdateProfileInput{Address: "  Jl. Merdeka 1 "})
	require.NoError(t, err)
	require.Len(t, gateway.updates, 1)
	assert.Equal(t, "Jl. Merdeka 1", gateway.updates[0].Address)

	_, err = uc.Update(context.Background(), "tok", domain.UpdateProfileInput{Email: "not-an-email"})
	assert.ErrorIs(t, err, validation.ErrValidation)
	_, err = uc.Update(context.Background(), "tok", domain.UpdateProfileInput{Name: "   "})
	assert.ErrorIs(t, err, validation.ErrValidation)
	assert.Len(t, gateway.updates, 1)
}

func TestProfileNeedsToken(t *testing.T) {
	uc := NewProfileUseCase(&fakeProfiles{})

	_, err := uc.Get(context.Background(), "")
	assert.ErrorIs(t, err, port.ErrProfileUnauthorized)
	_, err = uc.Update(context.Background(), "", domain.UpdateProfileInput{Name: "Budi"})
	assert.ErrorIs(t, err, port.ErrProfileUnauthorized)
}

func TestDeliveryAddress(t *testing.T) {
	uc := NewProfileUseCase(&fakeProfiles{profile: domain.Profile{ID: "3", Address: " Jl. Sudirman 5 "}})
	address, err := uc.DeliveryAddress(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "Jl. Sudirman 5", address)

	failing := NewProfileUseCase(&fakeProfiles{err: port.ErrProfileServiceUnavailable})
	_, err = failing.DeliveryAddress(context.Background(), "tok")
	assert.ErrorIs(t, err, port.ErrProfileServiceUnavailable)
}
