package models

// Preferences are the per-installation display settings.
type Preferences struct {
	DarkMode bool   `json:"darkMode"`
	Language string `json:"language"`
}
