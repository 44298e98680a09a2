package services

import (
	"fmt"
	"strconv"

	"pdfslim/internal/compression"
	"pdfslim/internal/database"
)

// PreferenceKeys lists the settable preference keys in display order.
var PreferenceKeys = []string{
	"default_preset",
	"image_quality",
	"image_dpi",
	"strip_metadata",
	"convert_to_grayscale",
	"generate_thumbnails",
	"output_directory",
}

// PreferencesService handles user preferences operations
type PreferencesService struct {
	db *database.Database
}

// NewPreferencesService creates a new preferences service
func NewPreferencesService(db *database.Database) *PreferencesService {
	return &PreferencesService{db: db}
}

// GetPreferences gets the current user preferences
func (s *PreferencesService) GetPreferences() (*database.UserPreferencesData, error) {
	prefs, err := s.db.GetPreferences()
	if err != nil {
		return nil, NewPreferencesError("load", err)
	}
	return prefs, nil
}

// Get returns a single preference rendered as a string
func (s *PreferencesService) Get(key string) (string, error) {
	prefs, err := s.GetPreferences()
	if err != nil {
		return "", err
	}

	switch key {
	case "default_preset":
		return prefs.DefaultPreset, nil
	case "image_quality":
		return strconv.Itoa(prefs.ImageQuality), nil
	case "image_dpi":
		return strconv.Itoa(prefs.ImageDPI), nil
	case "strip_metadata":
		return strconv.FormatBool(prefs.StripMetadata), nil
	case "convert_to_grayscale":
		return strconv.FormatBool(prefs.ConvertToGrayscale), nil
	case "generate_thumbnails":
		return strconv.FormatBool(prefs.GenerateThumbnails), nil
	case "output_directory":
		return prefs.OutputDirectory, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPreferenceKey, key)
}

// Set parses and stores a single preference
func (s *PreferencesService) Set(key, value string) error {
	prefs, err := s.GetPreferences()
	if err != nil {
		return err
	}

	switch key {
	case "default_preset":
		if _, ok := compression.PresetByName(value); !ok && value != "custom" {
			return fmt.Errorf("%w: %q", compression.ErrUnknownPreset, value)
		}
		prefs.DefaultPreset = value
	case "image_quality":
		quality, err := strconv.Atoi(value)
		if err != nil || quality < 1 || quality > 100 {
			return compression.ErrInvalidQuality
		}
		prefs.ImageQuality = quality
	case "image_dpi":
		dpi, err := strconv.Atoi(value)
		if err != nil || dpi <= 0 {
			return compression.ErrInvalidDPI
		}
		prefs.ImageDPI = dpi
	case "strip_metadata":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean %q", value)
		}
		prefs.StripMetadata = b
	case "convert_to_grayscale":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean %q", value)
		}
		prefs.ConvertToGrayscale = b
	case "generate_thumbnails":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean %q", value)
		}
		prefs.GenerateThumbnails = b
	case "output_directory":
		prefs.OutputDirectory = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownPreferenceKey, key)
	}

	if err := s.db.SavePreferences(*prefs); err != nil {
		return NewPreferencesError("save", err)
	}
	return nil
}
