package scheduler

import (
	"log"

	"github.com/robfig/cron/v3"
)

// HealthCheck is one named dependency probe.
type HealthCheck struct {
	Name  string
	Check func() error
}

// HealthJanitor periodically probes the external dependencies (browser,
// vision extractor, translator) and logs degradation, so an operator sees a
// dead Chrome or an exhausted API key before the next extraction fails.
type HealthJanitor struct {
	cron   *cron.Cron
	checks []HealthCheck
}

// NewHealthJanitor creates a janitor over the given checks.
func NewHealthJanitor(checks []HealthCheck) *HealthJanitor {
	return &HealthJanitor{
		cron:   cron.New(cron.WithSeconds()),
		checks: checks,
	}
}

// Start schedules the probes every 15 minutes and runs them once immediately.
func (hj *HealthJanitor) Start() {
	_, err := hj.cron.AddFunc("0 */15 * * * *", hj.runChecks)
	if err != nil {
		log.Printf("Failed to schedule health janitor: %v", err)
		return
	}

	go hj.runChecks()

	hj.cron.Start()
	log.Println("Health janitor scheduled to run every 15 minutes")
}

// Stop stops the scheduled probes.
func (hj *HealthJanitor) Stop() {
	if hj.cron != nil {
		hj.cron.Stop()
	}
}

func (hj *HealthJanitor) runChecks() {
	for _, check := range hj.checks {
		if err := check.Check(); err != nil {
			log.Printf("⚠️ Health check '%s' failed: %v", check.Name, err)
		} else {
			log.Printf("✅ Health check '%s' passed", check.Name)
		}
	}
}
