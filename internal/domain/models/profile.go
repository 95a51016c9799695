// internal/domain/models/profile.go
package models

import "time"

// Profile is the per-user document at users/{uid}.
type Profile struct {
	ID        string    `bson:"_id" json:"id"`
	Name      string    `bson:"name,omitempty" json:"name"`
	Email     string    `bson:"email,omitempty" json:"email"`
	Role      string    `bson:"role" json:"role"`
	Status    string    `bson:"status" json:"status"`
	AvatarURL string    `bson:"avatar_url,omitempty" json:"avatar_url,omitempty"`
	AuthID    string    `bson:"auth_id" json:"auth_id"`
	Settings  Settings  `bson:"settings" json:"settings"`
	IsActive  bool      `bson:"is_active" json:"is_active"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Settings are the user's display preferences.
type Settings struct {
	Currency string `bson:"currency" json:"currency"`
	Language string `bson:"language" json:"language"`
	Theme    Theme  `bson:"theme" json:"theme"`
}

const (
	RoleUser      = "user"
	StatusActive  = "active"
	DefaultLocale = "en"
	DefaultCurr   = "USD"
)

// DefaultSettings are applied when a profile is provisioned.
func DefaultSettings() Settings {
	return Settings{Currency: DefaultCurr, Language: DefaultLocale, Theme: ThemeLight}
}

// Theme is the UI color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

func (t Theme) IsValid() bool { return t == ThemeLight || t == ThemeDark }
