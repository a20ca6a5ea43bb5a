package configs

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// Storage backends.
	StorageBackendLocal = "local"
	StorageBackendS3    = "s3"

	DefaultStorageBackend       = StorageBackendLocal
	DefaultUploadDir            = "./uploads"
	DefaultRetentionMinutes     = 20           // file lifetime before the sweeper deletes it
	DefaultSweepIntervalMinutes = 15           // sweeper tick interval
	DefaultMaxFileSize          = 50 << 20     // 50 MiB
	DefaultMinFileSize          = 100          // reject empty or near-empty files
	DefaultAllowedExtensions    = "pdf,jpg,jpeg,png,doc,docx"
)

type (
	// StorageConfig holds blob storage and retention settings.
	StorageConfig struct {
		Backend              string `mapstructure:"backend"                rule:"oneof=local s3"`
		UploadDir            string `mapstructure:"upload_dir"`
		RetentionMinutes     int    `mapstructure:"retention_minutes"      rule:"min=1"`
		SweepIntervalMinutes int    `mapstructure:"sweep_interval_minutes" rule:"min=1"`
		MaxFileSize          int64  `mapstructure:"max_file_size"          rule:"min=1"`
		MinFileSize          int64  `mapstructure:"min_file_size"          rule:"min=0"`
		AllowedExtensions    string `mapstructure:"allowed_extensions"`
	}
)

// GetRetention returns the configured file retention as a time.Duration.
func (s *StorageConfig) GetRetention() time.Duration {
	return time.Duration(s.RetentionMinutes) * time.Minute
}

// GetSweepInterval returns the sweeper tick interval as a time.Duration.
func (s *StorageConfig) GetSweepInterval() time.Duration {
	return time.Duration(s.SweepIntervalMinutes) * time.Minute
}

// GetAllowedExtensions returns the allow-listed extensions, lowercased and
// without leading dots.
func (s *StorageConfig) GetAllowedExtensions() []string {
	parts := strings.Split(s.AllowedExtensions, ",")
	exts := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(p, ".")))
		if p != "" {
			exts = append(exts, p)
		}
	}

	return exts
}

func (s *StorageConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("storage.backend", DefaultStorageBackend)
	v.SetDefault("storage.upload_dir", DefaultUploadDir)
	v.SetDefault("storage.retention_minutes", DefaultRetentionMinutes)
	v.SetDefault("storage.sweep_interval_minutes", DefaultSweepIntervalMinutes)
	v.SetDefault("storage.max_file_size", DefaultMaxFileSize)
	v.SetDefault("storage.min_file_size", DefaultMinFileSize)
	v.SetDefault("storage.allowed_extensions", DefaultAllowedExtensions)
}
