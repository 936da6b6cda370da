package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required when driver is %q", DriverPostgres)
		}
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required when driver is %q", DriverSQLite)
		}
	default:
		return fmt.Errorf("database.driver must be %q or %q (got %q)", DriverPostgres, DriverSQLite, c.Database.Driver)
	}

	if c.Sweep.Interval <= 0 {
		return fmt.Errorf("sweep.interval must be > 0 (got %v)", c.Sweep.Interval)
	}
	if c.Sweep.BatchSize <= 0 {
		return fmt.Errorf("sweep.batch_size must be > 0 (got %d)", c.Sweep.BatchSize)
	}

	if c.OCR.BaseURL != "" && c.OCR.Timeout <= 0 {
		return fmt.Errorf("ocr.timeout must be > 0 (got %v)", c.OCR.Timeout)
	}

	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("server.max_upload_bytes must be > 0 (got %d)", c.Server.MaxUploadBytes)
	}

	if !strings.HasPrefix(c.Share.Path, "/") {
		return fmt.Errorf("share.path must start with / (got %q)", c.Share.Path)
	}

	return nil
}

// ShareURL renders the share link for a settlement id.
func (c *Config) ShareURL(id string) string {
	base := strings.TrimRight(c.Share.BaseURL, "/")
	path := strings.TrimRight(c.Share.Path, "/")
	return base + path + "/" + id
}
