// Package main provides the substitution plan server entry point.
package main

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/hhgyloh/untisplan-go/internal/config"
	domerrors "github.com/hhgyloh/untisplan-go/internal/errors"
	"github.com/hhgyloh/untisplan-go/internal/logger"
	"github.com/hhgyloh/untisplan-go/internal/plan"
	"github.com/hhgyloh/untisplan-go/internal/storage"
)

const refreshInitialDelay = 10 * time.Second

// refreshArchive periodically fetches the upcoming plans and stores a
// snapshot of each in the archive, so past days stay queryable after the
// monitor stops serving them.
func refreshArchive(ctx context.Context, svc *plan.Service, db *storage.DB, cfg *config.Config, log *logger.Logger) {
	log = log.WithModule("archive")

	// Run the first refresh after a short delay to let the server stabilize
	select {
	case <-ctx.Done():
		return
	case <-time.After(refreshInitialDelay):
		performRefresh(ctx, svc, db, cfg, log)
	}

	ticker := time.NewTicker(cfg.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			performRefresh(ctx, svc, db, cfg, log)
		}
	}
}

// performRefresh executes one archive refresh pass
func performRefresh(ctx context.Context, svc *plan.Service, db *storage.DB, cfg *config.Config, log *logger.Logger) {
	start := time.Now()

	plans, err := svc.GetPlans(ctx, time.Now().UTC(), cfg.MaxPlansPerRequest)
	if err != nil && !stderrors.Is(err, domerrors.ErrPlanNotFound) {
		log.WithError(err).Warn("Archive refresh fetch failed")
		if len(plans) == 0 {
			return
		}
		// Fall through and store whatever was fetched before the failure.
	}

	saved := 0
	for _, p := range plans {
		if err := db.SavePlan(ctx, p); err != nil {
			log.WithError(err).WithField("date", p.Date.Format("2006-01-02")).
				Error("Failed to archive plan")
			continue
		}
		saved++
	}

	log.WithFields(map[string]any{
		"fetched":     len(plans),
		"saved":       saved,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("Archive refresh complete")
}
