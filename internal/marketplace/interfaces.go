package marketplace

import "context"

// The profile, job, and settings CRUD surfaces are external collaborators
// of the notification pipeline. pulse consumes them through these
// interfaces only; the implementations live with the web product.

// NotificationSettings is the user's delivery preferences as persisted
// server-side.
type NotificationSettings struct {
	EmailDigest    bool `json:"email_digest"`
	JobMatches     bool `json:"job_matches"`
	ProfileViews   bool `json:"profile_views"`
	DirectMessages bool `json:"direct_messages"`
}

// SettingsService persists notification and subscription preferences.
type SettingsService interface {
	NotificationSettings(ctx context.Context, userID string) (NotificationSettings, error)
	SaveNotificationSettings(ctx context.Context, userID string, s NotificationSettings) error
}

// Profile is the subset of an applicant or employer profile the
// notification pipeline may reference.
type Profile struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// ProfileService resolves the signed-in profile.
type ProfileService interface {
	Profile(ctx context.Context, userID string) (Profile, error)
}
