package domain

import (
	"strings"

	"storefrontWs/internal/shared/normalization"
)

// Profile is the signed-in user's account record.
type Profile struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	Phone          string `json:"phone,omitempty"`
	Address        string `json:"address,omitempty"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

// UpdateProfileInput is a partial update; empty fields are left untouched upstream.
type UpdateProfileInput struct {
	Name           string `json:"name,omitempty" validate:"omitempty,max=100"`
	Email          string `json:"email,omitempty" validate:"omitempty,email"`
	Phone          string `json:"phone,omitempty" validate:"omitempty,max=20"`
	Address        string `json:"address,omitempty" validate:"omitempty,max=500"`
	ProfilePicture string `json:"profilePicture,omitempty" validate:"omitempty,url"`
}

func (in *UpdateProfileInput) Trim() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = strings.TrimSpace(in.Address)
	in.ProfilePicture = strings.TrimSpace(in.ProfilePicture)
}

func (in UpdateProfileInput) IsEmpty() bool {
	return in == UpdateProfileInput{}
}

// NormalizeProfile reads a profile record, unwrapping a nested "user" object when present.
func NormalizeProfile(raw map[string]any) (Profile, bool) {
	if nested, ok := raw["user"].(map[string]any); ok {
		raw = nested
	}
	profile := Profile{
		ID:             normalization.AsString(raw["id"]),
		Email:          normalization.AsString(raw["email"]),
		Name:           normalization.AsString(raw["name"]),
		Phone:          normalization.AsString(raw["phone"]),
		Address:        normalization.AsString(raw["address"]),
		ProfilePicture: normalization.AsString(raw["profilePicture"]),
	}
	if profile.ID == "" {
		return Profile{}, false
	}
	return profile, true
}
