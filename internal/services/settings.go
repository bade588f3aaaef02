package services

import (
	"errors"
	"sync"

	"github.com/julioamancio/capone-orders/internal/media"
	"github.com/julioamancio/capone-orders/internal/models"
	"github.com/julioamancio/capone-orders/internal/store"
)

var ErrBannerIndexOutOfRange = errors.New("banner index out of range")

// SettingsService manages branding: the logo reference and the hero banner
// rotation.
type SettingsService struct {
	Store *store.Store

	// mu serializes banner list mutations.
	mu sync.Mutex
}

func NewSettingsService(s *store.Store) *SettingsService { return &SettingsService{Store: s} }

// Logo returns the stored logo, normalized, falling back to the default.
func (s *SettingsService) Logo() string {
	if logo, ok := s.Store.ReadString(store.KeyLogo); ok && logo != "" {
		return media.NormalizeURL(logo)
	}
	return media.NormalizeURL(models.DefaultLogoURL)
}

// SetLogo stores a new logo URL after normalization.
func (s *SettingsService) SetLogo(url string) error {
	if url == "" {
		return errors.New("logo url required")
	}
	return s.Store.WriteString(store.KeyLogo, media.NormalizeURL(url))
}

// ResetLogo removes the stored logo so the default applies again.
func (s *SettingsService) ResetLogo() error {
	return s.Store.Delete(store.KeyLogo)
}

// HeroImages returns the banner list, seeding the defaults when unset.
func (s *SettingsService) HeroImages() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.heroImages()
}

func (s *SettingsService) heroImages() ([]string, error) {
	var images []string
	if err := s.Store.Read(store.KeyHeroImages, &images); err != nil {
		return nil, err
	}
	if images == nil {
		images = models.DefaultHeroImages()
	}
	return images, nil
}

// AddHeroImage appends a media URL or data string to the rotation.
func (s *SettingsService) AddHeroImage(url string) ([]string, error) {
	if url == "" {
		return nil, errors.New("banner url required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	images, err := s.heroImages()
	if err != nil {
		return nil, err
	}
	images = append(images, url)
	if err := s.Store.Write(store.KeyHeroImages, images); err != nil {
		return nil, err
	}
	return images, nil
}

// RemoveHeroImage deletes the banner at index.
func (s *SettingsService) RemoveHeroImage(index int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	images, err := s.heroImages()
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(images) {
		return nil, ErrBannerIndexOutOfRange
	}
	images = append(images[:index], images[index+1:]...)
	if err := s.Store.Write(store.KeyHeroImages, images); err != nil {
		return nil, err
	}
	return images, nil
}

// ResetHeroImages restores the stock rotation.
func (s *SettingsService) ResetHeroImages() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defaults := models.DefaultHeroImages()
	if err := s.Store.Write(store.KeyHeroImages, defaults); err != nil {
		return nil, err
	}
	return defaults, nil
}
