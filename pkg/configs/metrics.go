package configs

import "github.com/spf13/viper"

const (
	DefaultMetricsEnabled        = true
	DefaultMetricsPprof          = false
	DefaultMetricsRuntimeMetrics = true
)

// MetricsConfig holds Prometheus metrics settings.
type MetricsConfig struct {
	Enabled        bool `mapstructure:"enabled"`
	Pprof          bool `mapstructure:"pprof"`
	RuntimeMetrics bool `mapstructure:"runtime_metrics"`
}

func (m *MetricsConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("metrics.enabled", DefaultMetricsEnabled)
	v.SetDefault("metrics.pprof", DefaultMetricsPprof)
	v.SetDefault("metrics.runtime_metrics", DefaultMetricsRuntimeMetrics)
}
