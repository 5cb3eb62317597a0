package utils

import (
	"ascend/config"
	"ascend/database"
	"ascend/services"
	"log"

	"github.com/robfig/cron/v3"
)

// InitializeProtocolScheduler sets up the daily protocol advancement job.
// The batch is idempotent per protocol, so re-running after a partial
// failure is safe; retries are the scheduler's job, not the engine's.
func InitializeProtocolScheduler() {
	log.Println("[PROTOCOL-SCHEDULER] Initializing protocol scheduler...")

	c := cron.New()

	spec := config.AppConfig.ProtocolCronSpec
	if _, err := c.AddFunc(spec, func() {
		log.Println("[PROTOCOL-SCHEDULER] Running daily protocol advancement...")
		RunProtocolAdvancement()
	}); err != nil {
		log.Printf("[PROTOCOL-SCHEDULER] Invalid cron spec %q: %v", spec, err)
		return
	}

	c.Start()
	log.Printf("[PROTOCOL-SCHEDULER] Protocol scheduler started - spec %q", spec)
}

// RunProtocolAdvancement executes one advancement batch and logs the
// summary. Also called from the admin trigger endpoint.
func RunProtocolAdvancement() services.AdvanceSummary {
	summary, err := services.AdvanceProtocols(database.Database.Db)
	if err != nil {
		log.Printf("[PROTOCOL-SCHEDULER] Batch error: %v", err)
		return summary
	}

	log.Printf("[PROTOCOL-SCHEDULER] Batch done: %d processed, %d advanced, %d expired, %d days auto-skipped, %d failed",
		summary.Processed, summary.Advanced, summary.Expired, summary.DaysSkipped, summary.Failed)

	if summary.Expired > 0 {
		notifyExpiredProtocols()
	}
	return summary
}
