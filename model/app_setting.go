package model

import (
	"time"

	"gorm.io/gorm"
)

// AppSetting represents application-wide configuration settings.
// Values marked encrypted (e.g. the AI provider API key) are stored as
// AES-GCM ciphertext, base64-encoded, alongside their key-derivation salt.
type AppSetting struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Key         string         `gorm:"uniqueIndex;not null" json:"key"`
	Value       string         `gorm:"type:text;not null" json:"value"`
	Type        string         `gorm:"type:varchar(20);default:'string'" json:"type"` // string, int, bool, json
	Encrypted   bool           `gorm:"default:false" json:"encrypted"`
	Salt        []byte         `gorm:"type:bytea" json:"-"` // Key-derivation salt when Encrypted
	Description string         `gorm:"type:text" json:"description"`
	IsPublic    bool           `gorm:"default:false" json:"is_public"` // If true, can be accessed without auth
	Category    string         `gorm:"type:varchar(50)" json:"category"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for AppSetting
func (AppSetting) TableName() string {
	return "app_settings"
}

// Well-known setting keys
const (
	SettingAIModel     = "ai.model"
	SettingAIAPIKey    = "ai.api_key"
	SettingAIEndpoint  = "ai.endpoint"
	SettingSolverDaily = "solver.daily_limit"
)
