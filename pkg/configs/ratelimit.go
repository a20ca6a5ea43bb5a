package configs

import (
	"time"

	"github.com/spf13/viper"
)

const (
	// Global token-bucket throttle, in front of the per-class windows.
	DefaultRateLimitEnabled = false
	DefaultRateLimitRPS     = 50.0
	DefaultRateLimitBurst   = 100

	// Fixed-window defaults per route class.
	DefaultGeneralWindowMinutes   = 15
	DefaultGeneralMaxRequests     = 100
	DefaultUploadWindowMinutes    = 60
	DefaultUploadMaxRequests      = 20
	DefaultTransformWindowMinutes = 60
	DefaultTransformMaxRequests   = 30
	DefaultDownloadWindowMinutes  = 15
	DefaultDownloadMaxRequests    = 50
)

type (
	// WindowConfig is a fixed-window limit for one route class.
	WindowConfig struct {
		WindowMinutes int `mapstructure:"window_minutes" rule:"min=1"`
		MaxRequests   int `mapstructure:"max_requests"   rule:"min=1"`
	}

	// RateLimitConfig holds the optional global throttle and the
	// per-route-class fixed windows.
	RateLimitConfig struct {
		Enabled bool    `mapstructure:"enabled"`
		RPS     float64 `mapstructure:"rps"`
		Burst   int     `mapstructure:"burst"`

		General   WindowConfig `mapstructure:"general"`
		Upload    WindowConfig `mapstructure:"upload"`
		Transform WindowConfig `mapstructure:"transform"`
		Download  WindowConfig `mapstructure:"download"`
	}
)

// GetWindow returns the window duration of a class limit.
func (w *WindowConfig) GetWindow() time.Duration {
	return time.Duration(w.WindowMinutes) * time.Minute
}

func (c *RateLimitConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("rate_limit.enabled", DefaultRateLimitEnabled)
	v.SetDefault("rate_limit.rps", DefaultRateLimitRPS)
	v.SetDefault("rate_limit.burst", DefaultRateLimitBurst)

	v.SetDefault("rate_limit.general.window_minutes", DefaultGeneralWindowMinutes)
	v.SetDefault("rate_limit.general.max_requests", DefaultGeneralMaxRequests)
	v.SetDefault("rate_limit.upload.window_minutes", DefaultUploadWindowMinutes)
	v.SetDefault("rate_limit.upload.max_requests", DefaultUploadMaxRequests)
	v.SetDefault("rate_limit.transform.window_minutes", DefaultTransformWindowMinutes)
	v.SetDefault("rate_limit.transform.max_requests", DefaultTransformMaxRequests)
	v.SetDefault("rate_limit.download.window_minutes", DefaultDownloadWindowMinutes)
	v.SetDefault("rate_limit.download.max_requests", DefaultDownloadMaxRequests)
}
