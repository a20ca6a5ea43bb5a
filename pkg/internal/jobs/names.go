package jobs

// Job name constants, centralized for registration and monitoring.
const (
	JobRetentionSweep = "vault.retention.sweep"
	JobAbuseEvict     = "abuse.tracker.evict"
)
