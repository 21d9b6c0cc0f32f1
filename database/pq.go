package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/MertKocakaplan/aceit-sub001/config"
	"github.com/MertKocakaplan/aceit-sub001/model"
	_ "github.com/lib/pq"
)

// Storage defines the interface that all database implementations must satisfy
type Storage interface {
	// Lifecycle methods
	Init() error
	Close() error
	HealthCheck() error

	// GORM DB access
	GetDB() interface{} // Returns *gorm.DB for GORMStore, *sql.DB for PostgreSQLStore

	// Reporting methods shared by the API and the ops tooling
	RecentCronJobLogs(limit int) ([]model.CronJobLog, error)
	DailyStats(userID uint, from, to time.Time) ([]model.DailyStudyStat, error)
}

// PostgreSQLStore is the raw database/sql implementation of Storage. The
// API server runs on the GORM store; this one backs the read-only ops
// tooling (cmd/statsreport) which should not drag the ORM along.
type PostgreSQLStore struct {
	db *sql.DB
}

func Start() (*PostgreSQLStore, error) {
	getEnv, err := config.Get()

	if err != nil {
		return nil, err
	}

	connectStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		getEnv.DB_HOST, getEnv.DB_PORT, getEnv.DB_USER_NAME, getEnv.DB_PASSWORD, getEnv.DB_NAME, getEnv.DB_SSL_MODE)

	db, err := sql.Open("postgres", connectStr)
	if err != nil {
		fmt.Println("Unable to Start PostgresSQL Databse.")
		return nil, err
	}

	log.Println("Successfully connected to PostgresSQL Database.")
	return &PostgreSQLStore{
		db: db,
	}, nil
}

// Init verifies the schema exists. Table creation is owned by the GORM
// store's AutoMigrate; the raw store never mutates the schema.
func (s *PostgreSQLStore) Init() error {
	log.Println("Initializing PostgresSQL Database.")
	var name string
	err := s.db.QueryRow(`SELECT table_name FROM information_schema.tables WHERE table_name = 'cron_job_logs'`).Scan(&name)
	if err == sql.ErrNoRows {
		return fmt.Errorf("schema not migrated yet: run the API server once to create tables")
	}
	return err
}

func (s *PostgreSQLStore) Close() error {
	log.Println("Closing PostgresSQL Database.")
	return s.db.Close()
}

// HealthCheck verifies the database connection is alive
func (s *PostgreSQLStore) HealthCheck() error {
	return s.db.Ping()
}

// GetDB returns the raw *sql.DB instance
func (s *PostgreSQLStore) GetDB() interface{} {
	return s.db
}
