package services

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/MertKocakaplan/aceit-sub001/model"
	"github.com/MertKocakaplan/aceit-sub001/utils/crypto"
	"gorm.io/gorm"
)

var ErrSettingNotFound = errors.New("setting not found")

// SettingsService reads and writes application settings. Sensitive values
// (the AI provider API key) are encrypted at rest with AES-GCM using a key
// derived from the SETTINGS_KEY master secret and a per-row salt.
type SettingsService struct {
	db        *gorm.DB
	masterKey string
}

// NewSettingsService creates a new settings service
func NewSettingsService(db *gorm.DB, masterKey string) *SettingsService {
	return &SettingsService{db: db, masterKey: masterKey}
}

// Get returns a plain setting value
func (s *SettingsService) Get(key string) (string, error) {
	var setting model.AppSetting
	if err := s.db.Where("key = ?", key).First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrSettingNotFound
		}
		return "", fmt.Errorf("failed to load setting %s: %w", key, err)
	}
	if !setting.Encrypted {
		return setting.Value, nil
	}
	return s.decrypt(&setting)
}

// Set stores a plain setting value
func (s *SettingsService) Set(key, value, category, description string) error {
	setting := model.AppSetting{
		Key:         key,
		Value:       value,
		Category:    category,
		Description: description,
	}
	return s.upsert(&setting)
}

// SetEncrypted stores a setting value encrypted with the master secret
func (s *SettingsService) SetEncrypted(key, value, category, description string) error {
	if s.masterKey == "" {
		return errors.New("SETTINGS_KEY is not configured; cannot store encrypted settings")
	}

	salt, err := crypto.GenerateSalt()
	if err != nil {
		return err
	}
	encryptionKey := crypto.DeriveKey(s.masterKey, salt)

	encrypted, nonce, err := crypto.EncryptValue(value, encryptionKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt setting %s: %w", key, err)
	}

	// Store as nonce:ciphertext, both base64
	stored := base64.StdEncoding.EncodeToString(nonce) + ":" + base64.StdEncoding.EncodeToString(encrypted)

	setting := model.AppSetting{
		Key:         key,
		Value:       stored,
		Encrypted:   true,
		Salt:        salt,
		Category:    category,
		Description: description,
	}
	return s.upsert(&setting)
}

func (s *SettingsService) decrypt(setting *model.AppSetting) (string, error) {
	if s.masterKey == "" {
		return "", errors.New("SETTINGS_KEY is not configured; cannot read encrypted settings")
	}

	parts := strings.SplitN(setting.Value, ":", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("setting %s has a malformed encrypted value", setting.Key)
	}
	nonce, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return "", fmt.Errorf("setting %s has a malformed nonce: %w", setting.Key, err)
	}
	ciphertext, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return "", fmt.Errorf("setting %s has malformed ciphertext: %w", setting.Key, err)
	}

	encryptionKey := crypto.DeriveKey(s.masterKey, setting.Salt)
	return crypto.DecryptValue(ciphertext, nonce, encryptionKey)
}

func (s *SettingsService) upsert(setting *model.AppSetting) error {
	var existing model.AppSetting
	err := s.db.Where("key = ?", setting.Key).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.db.Create(setting).Error
	}
	if err != nil {
		return err
	}

	existing.Value = setting.Value
	existing.Encrypted = setting.Encrypted
	existing.Salt = setting.Salt
	existing.Category = setting.Category
	existing.Description = setting.Description
	return s.db.Save(&existing).Error
}
