package services

import (
	"github.com/julioamancio/capone-orders/internal/models"
	"github.com/julioamancio/capone-orders/internal/store"
)

// ProfileService persists the per-user profile slice (name, phone,
// addresses) and the optional remembered credentials.
type ProfileService struct {
	Store *store.Store
}

func NewProfileService(s *store.Store) *ProfileService { return &ProfileService{Store: s} }

// LoadInto merges a saved profile over the base user, if one exists.
func (p *ProfileService) LoadInto(base models.User) models.User {
	var profile models.Profile
	if err := p.Store.Read(store.ProfileKey(base.ID), &profile); err != nil {
		return base
	}
	if profile.Name != "" {
		base.Name = profile.Name
	}
	if profile.Phone != "" {
		base.Phone = profile.Phone
	}
	if profile.Addresses != nil {
		base.Addresses = profile.Addresses
	}
	return base
}

// Save persists the profile fields of the given user.
func (p *ProfileService) Save(u models.User) error {
	profile := models.Profile{Name: u.Name, Phone: u.Phone, Addresses: u.Addresses}
	return p.Store.Write(store.ProfileKey(u.ID), profile)
}

// RememberCredentials stores the login email/password for the remember-me
// option. Never called for admin sessions.
func (p *ProfileService) RememberCredentials(email, password string) error {
	if err := p.Store.WriteString(store.KeyEmail, email); err != nil {
		return err
	}
	if password == "" {
		return nil
	}
	return p.Store.WriteString(store.KeyPassword, password)
}

// ForgetCredentials drops any remembered email/password.
func (p *ProfileService) ForgetCredentials() error {
	if err := p.Store.Delete(store.KeyEmail); err != nil {
		return err
	}
	return p.Store.Delete(store.KeyPassword)
}

// RememberedCredentials returns the saved email/password pair, if both exist.
func (p *ProfileService) RememberedCredentials() (email, password string, ok bool) {
	email, okE := p.Store.ReadString(store.KeyEmail)
	password, okP := p.Store.ReadString(store.KeyPassword)
	if !okE || !okP {
		return "", "", false
	}
	return email, password, true
}
