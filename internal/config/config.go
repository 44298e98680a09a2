package config

import (
	"os"
	"path/filepath"

	"pdfslim/internal/common"
)

// Config holds application configuration
type Config struct {
	WorkingDir   string
	AppDataDir   string
	DatabasePath string
	OutputDir    string
}

// New creates a new configuration instance. Paths come from the environment
// where set:
//
//	PDFSLIM_DATA_DIR    app data directory (database)
//	PDFSLIM_DB_PATH     database file
//	PDFSLIM_OUTPUT_DIR  default output directory; empty writes next to input
func New() *Config {
	cfg := &Config{}
	cfg.setupDirectories()
	return cfg
}

func (c *Config) setupDirectories() {
	// Working directory for temp files
	c.WorkingDir = filepath.Join(os.TempDir(), common.AppName)
	os.MkdirAll(c.WorkingDir, common.DefaultFilePermissions)

	// App data directory (database, settings)
	c.AppDataDir = getAppDataDir()
	os.MkdirAll(c.AppDataDir, common.DefaultFilePermissions)

	c.DatabasePath = filepath.Join(c.AppDataDir, "database.sqlite3")
	if path := os.Getenv("PDFSLIM_DB_PATH"); path != "" {
		c.DatabasePath = path
	}

	c.OutputDir = os.Getenv("PDFSLIM_OUTPUT_DIR")
}

func getAppDataDir() string {
	if dir := os.Getenv("PDFSLIM_DATA_DIR"); dir != "" {
		return dir
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(os.TempDir(), common.AppName)
	}
	return filepath.Join(dir, common.AppName)
}
