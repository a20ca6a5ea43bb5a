// Package jobs registers the service's periodic background tasks: the
// retention sweep deleting expired files and the abuse-table eviction
// bounding tracker memory. Both run on fixed intervals, log their outcome and
// never surface failures to request handling.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/yeisme/pdfvault/pkg/configs"
	"github.com/yeisme/pdfvault/pkg/internal/abuse"
	"github.com/yeisme/pdfvault/pkg/internal/service"
	"github.com/yeisme/pdfvault/pkg/log"
	"github.com/yeisme/pdfvault/pkg/scheduler"
)

// RegisterJobs wires the retention sweeper and the abuse eviction sweep.
func RegisterJobs(sched *scheduler.Scheduler, vault *service.Vault,
	tracker *abuse.Tracker, limiter *abuse.WindowLimiter,
) error {
	if sched == nil {
		return fmt.Errorf("scheduler is nil")
	}

	cfg := configs.GetConfig()

	if err := sched.AddInterval(JobRetentionSweep, cfg.Storage.GetSweepInterval(), func(ctx context.Context) {
		runRetentionSweep(ctx, vault)
	}); err != nil {
		return err
	}

	if err := sched.AddInterval(JobAbuseEvict, cfg.Abuse.GetSweepInterval(), func(ctx context.Context) {
		runAbuseEvict(ctx, tracker, limiter, cfg.Abuse.GetIdleTimeout())
	}); err != nil {
		return err
	}

	return nil
}

func runRetentionSweep(ctx context.Context, vault *service.Vault) {
	l := log.Logger().With().Str("job", JobRetentionSweep).Logger()

	deleted, freed, err := vault.SweepExpired(ctx)
	if err != nil {
		// Logged only; the next tick retries the whole scan.
		l.Error().Err(err).Msg("retention sweep failed")
		return
	}

	if deleted > 0 {
		l.Info().Int("deleted", deleted).Str("freed", humanize.IBytes(uint64(freed))).Msg("retention sweep done")
	}
}

func runAbuseEvict(_ context.Context, tracker *abuse.Tracker, limiter *abuse.WindowLimiter, idle time.Duration) {
	l := log.Logger().With().Str("job", JobAbuseEvict).Logger()

	removed := tracker.Evict()
	// Rate windows older than the longest class window are dead weight too.
	windows := limiter.Evict(idle)

	if removed > 0 || windows > 0 {
		l.Info().Int("tracker_evicted", removed).Int("windows_evicted", windows).Msg("abuse tables swept")
	}
}
