package configs

import (
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultAbuseFailureThreshold     = 10 // failed responses before an address is blocked
	DefaultAbuseBlockMinutes         = 30 // block duration once the threshold is hit
	DefaultAbuseIdleTimeoutMinutes   = 60 // idle entries older than this are evicted
	DefaultAbuseSweepIntervalMinutes = 15 // eviction tick interval
)

// AbuseConfig holds the suspicious-activity tracker settings.
type AbuseConfig struct {
	FailureThreshold     int `mapstructure:"failure_threshold"      rule:"min=1"`
	BlockMinutes         int `mapstructure:"block_minutes"          rule:"min=1"`
	IdleTimeoutMinutes   int `mapstructure:"idle_timeout_minutes"   rule:"min=1"`
	SweepIntervalMinutes int `mapstructure:"sweep_interval_minutes" rule:"min=1"`
}

// GetBlockDuration returns the block duration as a time.Duration.
func (a *AbuseConfig) GetBlockDuration() time.Duration {
	return time.Duration(a.BlockMinutes) * time.Minute
}

// GetIdleTimeout returns the idle eviction timeout as a time.Duration.
func (a *AbuseConfig) GetIdleTimeout() time.Duration {
	return time.Duration(a.IdleTimeoutMinutes) * time.Minute
}

// GetSweepInterval returns the eviction tick interval as a time.Duration.
func (a *AbuseConfig) GetSweepInterval() time.Duration {
	return time.Duration(a.SweepIntervalMinutes) * time.Minute
}

func (a *AbuseConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("abuse.failure_threshold", DefaultAbuseFailureThreshold)
	v.SetDefault("abuse.block_minutes", DefaultAbuseBlockMinutes)
	v.SetDefault("abuse.idle_timeout_minutes", DefaultAbuseIdleTimeoutMinutes)
	v.SetDefault("abuse.sweep_interval_minutes", DefaultAbuseSweepIntervalMinutes)
}
