package auth

import (
	"maps"
	"time"
)

// UserRecord is one user of the identity store.
type UserRecord struct {
	UID           string         `json:"uid" yaml:"uid" mapstructure:"uid"`
	Email         string         `json:"email,omitempty" yaml:"email,omitempty" mapstructure:"email"`
	EmailVerified bool           `json:"emailVerified,omitempty" yaml:"emailVerified,omitempty" mapstructure:"emailVerified"`
	PhoneNumber   string         `json:"phoneNumber,omitempty" yaml:"phoneNumber,omitempty" mapstructure:"phoneNumber"`
	DisplayName   string         `json:"displayName,omitempty" yaml:"displayName,omitempty" mapstructure:"displayName"`
	PhotoURL      string         `json:"photoURL,omitempty" yaml:"photoURL,omitempty" mapstructure:"photoURL"`
	Disabled      bool           `json:"disabled,omitempty" yaml:"disabled,omitempty" mapstructure:"disabled"`
	CustomClaims  map[string]any `json:"customClaims,omitempty" yaml:"customClaims,omitempty" mapstructure:"customClaims"`
	CreatedAt     time.Time      `json:"createdAt" yaml:"createdAt" mapstructure:"-"`
}

// Clone returns a copy that shares no maps with r.
func (r *UserRecord) Clone() *UserRecord {
	cp := *r
	if r.CustomClaims != nil {
		cp.CustomClaims = maps.Clone(r.CustomClaims)
	}
	return &cp
}

// UserToUpdate lists the properties changed by UpdateUser. Nil fields are
// left untouched.
type UserToUpdate struct {
	Email         *string
	EmailVerified *bool
	PhoneNumber   *string
	DisplayName   *string
	PhotoURL      *string
	Disabled      *bool
	CustomClaims  map[string]any
}

func (u *UserToUpdate) apply(r *UserRecord) {
	if u.Email != nil {
		r.Email = *u.Email
	}
	if u.EmailVerified != nil {
		r.EmailVerified = *u.EmailVerified
	}
	if u.PhoneNumber != nil {
		r.PhoneNumber = *u.PhoneNumber
	}
	if u.DisplayName != nil {
		r.DisplayName = *u.DisplayName
	}
	if u.PhotoURL != nil {
		r.PhotoURL = *u.PhotoURL
	}
	if u.Disabled != nil {
		r.Disabled = *u.Disabled
	}
	if u.CustomClaims != nil {
		r.CustomClaims = maps.Clone(u.CustomClaims)
	}
}
