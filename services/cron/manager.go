package cron

import (
	"log"
	"time"

	"github.com/MertKocakaplan/aceit-sub001/model"
	"github.com/MertKocakaplan/aceit-sub001/services"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// CronManager owns the background job scheduler. Every run is recorded as
// a CronJobLog row so operators can audit job history from the admin API
// or the statsreport tool.
type CronManager struct {
	cron     *cron.Cron
	db       *gorm.DB
	sessions *services.SessionService
}

// NewCronManager creates a new cron manager
func NewCronManager(db *gorm.DB, sessions *services.SessionService) *CronManager {
	return &CronManager{
		cron:     cron.New(cron.WithSeconds()),
		db:       db,
		sessions: sessions,
	}
}

// Start registers all jobs and starts the scheduler
func (m *CronManager) Start() error {
	log.Println("Starting cron jobs...")

	if err := m.registerJobs(); err != nil {
		return err
	}
	m.cron.Start()

	log.Println("Cron jobs started successfully")
	return nil
}

// Stop stops the scheduler and waits for running jobs to finish
func (m *CronManager) Stop() {
	log.Println("Stopping cron jobs...")
	ctx := m.cron.Stop()
	<-ctx.Done()
	log.Println("Cron jobs stopped")
}

func (m *CronManager) registerJobs() error {
	// Hourly: purge expired blacklisted JWTs
	_, err := m.cron.AddFunc("0 0 * * * *", func() {
		m.run("cleanup_token_blacklist", m.CleanupTokenBlacklist)
	})
	if err != nil {
		return err
	}

	// Hourly at :30: purge expired and used password reset tokens
	_, err = m.cron.AddFunc("0 30 * * * *", func() {
		m.run("cleanup_reset_tokens", m.CleanupResetTokens)
	})
	if err != nil {
		return err
	}

	// Daily at 02:00: roll up yesterday's study sessions into daily stats
	_, err = m.cron.AddFunc("0 0 2 * * *", func() {
		m.run("rollup_daily_stats", m.RollupDailyStats)
	})
	if err != nil {
		return err
	}

	log.Println("All cron jobs registered successfully")
	return nil
}

// run wraps one job execution with database logging
func (m *CronManager) run(jobName string, job func() (string, error)) {
	started := time.Now()
	log.Printf("[CRON] Starting job: %s", jobName)

	cronLog := model.CronJobLog{
		JobName:   jobName,
		Status:    "running",
		StartedAt: started,
	}
	m.db.Create(&cronLog)

	message, err := job()
	completed := time.Now()
	updates := map[string]interface{}{
		"completed_at": completed,
		"duration":     completed.Sub(started).Milliseconds(),
	}
	if err != nil {
		log.Printf("[CRON] Error in job: %s - %v", jobName, err)
		updates["status"] = "failed"
		updates["error_msg"] = err.Error()
	} else {
		log.Printf("[CRON] Completed job: %s - %s", jobName, message)
		updates["status"] = "completed"
		updates["message"] = message
	}
	m.db.Model(&cronLog).Updates(updates)
}
