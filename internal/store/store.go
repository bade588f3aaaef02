// Package store is the persistence adapter: JSON-serializable values under
// fixed logical keys, backed by a single relational table. It mirrors the
// localStorage layout the storefront used, so exported backups stay
// compatible.
package store

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Logical keys. The capone_ prefix is part of the on-disk format.
const (
	KeyProducts      = "capone_products"
	KeyOrders        = "capone_orders"
	KeyHeroImages    = "capone_hero_images"
	KeyCart          = "capone_cart"
	KeyLogo          = "capone_logo"
	KeyConfigVersion = "capone_config_version"
	KeyEmail         = "capone_email"
	KeyPassword      = "capone_pass"

	profileKeyPrefix = "capone_profile_"
)

// ProfileKey returns the per-user profile key.
func ProfileKey(userID string) string { return profileKeyPrefix + userID }

// KVEntry is the row shape for the key-value table.
type KVEntry struct {
	Key       string `gorm:"primaryKey;size:191"`
	Value     string `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (KVEntry) TableName() string { return "kv_entries" }

type Store struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Store { return &Store{DB: db} }

// Read deserializes the value under key into out. A missing key or corrupt
// value logs and leaves out untouched (the caller's zero/default value
// stands); only storage-level failures are returned.
func (s *Store) Read(key string, out any) error {
	var entry KVEntry
	err := s.DB.First(&entry, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if uerr := json.Unmarshal([]byte(entry.Value), out); uerr != nil {
		log.Printf("[store] corrupt value under %s: %v", key, uerr)
	}
	return nil
}

// Write serializes v and upserts it under key. Storage errors are returned
// to the caller; the adapter never fabricates success.
func (s *Store) Write(key string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.writeRaw(key, string(body))
}

// Has reports whether a value exists under key.
func (s *Store) Has(key string) bool {
	var count int64
	if err := s.DB.Model(&KVEntry{}).Where("key = ?", key).Limit(1).Count(&count).Error; err != nil {
		return false
	}
	return count > 0
}

// ReadString fetches a raw (non-JSON) string value. The logo and the
// remembered credentials are stored unencoded, as the storefront stored them.
func (s *Store) ReadString(key string) (string, bool) {
	var entry KVEntry
	err := s.DB.First(&entry, "key = ?", key).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[store] read %s: %v", key, err)
		}
		return "", false
	}
	return entry.Value, true
}

// WriteString stores a raw string value under key.
func (s *Store) WriteString(key, value string) error {
	return s.writeRaw(key, value)
}

// Delete removes the value under key. Missing keys are a no-op.
func (s *Store) Delete(key string) error {
	return s.DB.Delete(&KVEntry{}, "key = ?", key).Error
}

func (s *Store) writeRaw(key, value string) error {
	entry := KVEntry{Key: key, Value: value}
	return s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}
