package dto

// UpdateSettingsRequest changes any subset of the display preferences.
type UpdateSettingsRequest struct {
	DarkMode *bool   `json:"darkMode"`
	Language *string `json:"language" validate:"omitempty,oneof=ky ru en"`
}
