package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/MertKocakaplan/aceit-sub001/database"
	"github.com/joho/godotenv"
)

// statsreport prints a user's daily study totals and the recent cron job
// history straight from Postgres. It runs against the raw store so it can
// be pointed at a production database without booting the API.
func main() {
	userID := flag.Uint("user", 0, "user ID to report daily stats for (0 skips the stats section)")
	days := flag.Int("days", 14, "how many days back to report")
	jobs := flag.Int("jobs", 10, "how many recent cron job runs to show")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	store, err := database.Start()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer store.Close()

	if err := store.HealthCheck(); err != nil {
		log.Fatalf("Database is not reachable: %v", err)
	}

	if *userID != 0 {
		printDailyStats(store, *userID, *days)
	}
	printCronJobs(store, *jobs)
}

func printDailyStats(store database.Storage, userID uint, days int) {
	to := time.Now()
	from := to.AddDate(0, 0, -days)

	stats, err := store.DailyStats(userID, from, to)
	if err != nil {
		log.Fatalf("Failed to load daily stats: %v", err)
	}

	fmt.Printf("Daily study stats for user %d (last %d days)\n", userID, days)
	if len(stats) == 0 {
		fmt.Println("  no recorded study days")
		return
	}

	totalMinutes := 0
	for _, stat := range stats {
		totalMinutes += stat.TotalMinutes
		fmt.Printf("  %s  %4d min  %2d sessions  correct=%d wrong=%d blank=%d\n",
			stat.Date.Format("2006-01-02"), stat.TotalMinutes, stat.Sessions,
			stat.Correct, stat.Wrong, stat.Blank)
	}
	fmt.Printf("  total: %d minutes over %d days\n", totalMinutes, len(stats))
}

func printCronJobs(store database.Storage, limit int) {
	logs, err := store.RecentCronJobLogs(limit)
	if err != nil {
		log.Fatalf("Failed to load cron job logs: %v", err)
	}

	fmt.Printf("\nRecent cron job runs (%d)\n", len(logs))
	for _, jobLog := range logs {
		line := fmt.Sprintf("  %s  %-28s %-9s %5dms",
			jobLog.StartedAt.Format("2006-01-02 15:04:05"), jobLog.JobName, jobLog.Status, jobLog.Duration)
		if jobLog.ErrorMsg != "" {
			line += "  error: " + jobLog.ErrorMsg
		} else if jobLog.Message != "" {
			line += "  " + jobLog.Message
		}
		fmt.Println(line)
	}
}
