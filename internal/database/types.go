package database

import (
	"encoding/json"
	"time"
)

// UserPreferences database model
type UserPreferences struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	PreferencesJSON string    `gorm:"type:text" json:"preferences_json"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// UserPreferencesData represents user preferences data
type UserPreferencesData struct {
	DefaultPreset      string `json:"default_preset"`
	ImageDPI           int    `json:"image_dpi"`
	ImageQuality       int    `json:"image_quality"`
	StripMetadata      bool   `json:"strip_metadata"`
	ConvertToGrayscale bool   `json:"convert_to_grayscale"`
	GenerateThumbnails bool   `json:"generate_thumbnails"`
	OutputDirectory    string `json:"output_directory"`
}

// DefaultPreferences returns default user preferences
func DefaultPreferences() UserPreferencesData {
	return UserPreferencesData{
		DefaultPreset:      "good_enough",
		ImageDPI:           150,
		ImageQuality:       85,
		StripMetadata:      false,
		ConvertToGrayscale: false,
		GenerateThumbnails: false,
		OutputDirectory:    "",
	}
}

// GetPreferences returns the user preferences data
func (up *UserPreferences) GetPreferences() UserPreferencesData {
	if up.PreferencesJSON == "" {
		return DefaultPreferences()
	}

	var prefs UserPreferencesData
	if err := json.Unmarshal([]byte(up.PreferencesJSON), &prefs); err != nil {
		return DefaultPreferences()
	}

	return prefs
}

// SetPreferences sets the user preferences data
func (up *UserPreferences) SetPreferences(prefs UserPreferencesData) error {
	data, err := json.Marshal(prefs)
	if err != nil {
		return err
	}

	up.PreferencesJSON = string(data)
	return nil
}

// CompressionRecord is one finished compression, kept for history and stats
type CompressionRecord struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	FileID         string    `gorm:"index" json:"file_id"`
	FileName       string    `json:"file_name"`
	OutputPath     string    `json:"output_path"`
	OriginalSize   int64     `json:"original_size"`
	CompressedSize int64     `json:"compressed_size"`
	Ratio          float64   `json:"ratio"`
	Strategy       string    `json:"strategy"`
	Mode           string    `json:"mode"`
	Quality        int       `json:"quality"`
	PageCount      int       `json:"page_count"`
	CreatedAt      time.Time `json:"created_at"`
}

// Totals are lifetime aggregates over the compression history
type Totals struct {
	Files           int64 `json:"files"`
	OriginalBytes   int64 `json:"original_bytes"`
	CompressedBytes int64 `json:"compressed_bytes"`
}
