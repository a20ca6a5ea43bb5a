package configs

import (
	"time"

	"github.com/spf13/viper"
)

const (
	// DefaultTokenSecret is only suitable for local development; deployments
	// must override it via config or PDFVAULT_TOKEN_SECRET.
	DefaultTokenSecret        = "dev-secret-change-me"
	DefaultDownloadTTLMinutes = 60 // download token lifetime
)

// TokenConfig holds capability token signing settings.
type TokenConfig struct {
	Secret             string `mapstructure:"secret"               rule:"required,min=8"`
	DownloadTTLMinutes int    `mapstructure:"download_ttl_minutes" rule:"min=1"`
}

// GetDownloadTTL returns the download token lifetime as a time.Duration.
func (t *TokenConfig) GetDownloadTTL() time.Duration {
	return time.Duration(t.DownloadTTLMinutes) * time.Minute
}

func (t *TokenConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("token.secret", DefaultTokenSecret)
	v.SetDefault("token.download_ttl_minutes", DefaultDownloadTTLMinutes)
}
