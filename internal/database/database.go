package database

import (
	"errors"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Database handles database operations
type Database struct {
	db *gorm.DB
}

// NewDatabase creates a new database instance
func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	database := &Database{db: db}

	// Auto-migrate the schema
	err = db.AutoMigrate(&UserPreferences{}, &CompressionRecord{})
	if err != nil {
		return nil, err
	}

	return database, nil
}

// GetPreferences gets the current user preferences
func (d *Database) GetPreferences() (*UserPreferencesData, error) {
	prefs, err := d.getOrCreatePreferences()
	if err != nil {
		return nil, err
	}

	prefsData := prefs.GetPreferences()
	return &prefsData, nil
}

// SavePreferences replaces the stored user preferences
func (d *Database) SavePreferences(data UserPreferencesData) error {
	prefs, err := d.getOrCreatePreferences()
	if err != nil {
		return err
	}

	if err := prefs.SetPreferences(data); err != nil {
		return err
	}

	return d.db.Save(prefs).Error
}

// getOrCreatePreferences gets existing preferences or creates default ones
func (d *Database) getOrCreatePreferences() (*UserPreferences, error) {
	var prefs UserPreferences

	// Preferences live in a single row with ID = 1
	result := d.db.First(&prefs, 1)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			prefs = UserPreferences{
				ID: 1,
			}

			defaultPrefs := DefaultPreferences()
			if err := prefs.SetPreferences(defaultPrefs); err != nil {
				return nil, err
			}

			if err := d.db.Create(&prefs).Error; err != nil {
				return nil, err
			}
		} else {
			return nil, result.Error
		}
	}

	return &prefs, nil
}

// AddRecord appends one compression to the history
func (d *Database) AddRecord(record *CompressionRecord) error {
	return d.db.Create(record).Error
}

// RecentRecords returns the newest history entries, up to limit
func (d *Database) RecentRecords(limit int) ([]CompressionRecord, error) {
	var records []CompressionRecord
	err := d.db.Order("created_at DESC, id DESC").Limit(limit).Find(&records).Error
	return records, err
}

// GetTotals aggregates lifetime counters over the whole history
func (d *Database) GetTotals() (*Totals, error) {
	var totals Totals
	err := d.db.Model(&CompressionRecord{}).
		Select("COUNT(*) AS files, COALESCE(SUM(original_size), 0) AS original_bytes, COALESCE(SUM(compressed_size), 0) AS compressed_bytes").
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return &totals, nil
}
