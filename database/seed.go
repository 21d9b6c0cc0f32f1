package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/MertKocakaplan/aceit-sub001/model"
	"github.com/MertKocakaplan/aceit-sub001/utils/auth"
	"gorm.io/gorm"
)

// Seeder handles database seeding operations
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// SeedAll runs all seed functions
func (s *Seeder) SeedAll() error {
	log.Println("Starting database seeding...")

	// Run seeds in order (respecting foreign key constraints)
	if err := s.SeedAdminUser(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	if err := s.SeedExamYears(); err != nil {
		return fmt.Errorf("failed to seed exam years: %w", err)
	}

	if err := s.SeedSubjects(); err != nil {
		return fmt.Errorf("failed to seed subjects: %w", err)
	}

	log.Println("Database seeding completed.")
	return nil
}

// SeedAdminUser creates the initial admin account if none exists
func (s *Seeder) SeedAdminUser() error {
	var count int64
	if err := s.db.Model(&model.User{}).Where("role = ?", "admin").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("Admin user already exists, skipping.")
		return nil
	}

	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@aceit.app"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "changeme123"
		log.Println("WARNING: ADMIN_PASSWORD not set, using default. Change it immediately.")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	admin := model.User{
		Email:        email,
		PasswordHash: hash,
		Name:         "Administrator",
		Role:         "admin",
	}
	if err := s.db.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("Seeded admin user %s", email)
	return nil
}

// SeedExamYears creates the current and next exam year editions
func (s *Seeder) SeedExamYears() error {
	var count int64
	if err := s.db.Model(&model.ExamYear{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("Exam years already exist, skipping.")
		return nil
	}

	currentYear := time.Now().Year()
	for _, year := range []int{currentYear, currentYear + 1} {
		examYear := model.ExamYear{
			Year:     year,
			Name:     fmt.Sprintf("University Entrance Exam %d", year),
			IsActive: year == currentYear,
		}
		if err := s.db.Create(&examYear).Error; err != nil {
			return err
		}
	}

	log.Println("Seeded exam years.")
	return nil
}

// SeedSubjects creates the default subject catalog with a starter topic set
func (s *Seeder) SeedSubjects() error {
	var count int64
	if err := s.db.Model(&model.Subject{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("Subjects already exist, skipping.")
		return nil
	}

	subjects := []struct {
		name   string
		code   string
		color  string
		topics []string
	}{
		{"Mathematics", "MATH", "#6366f1", []string{"Numbers", "Algebra", "Functions", "Geometry", "Probability"}},
		{"Physics", "PHYS", "#0ea5e9", []string{"Mechanics", "Electricity", "Waves", "Optics"}},
		{"Chemistry", "CHEM", "#f59e0b", []string{"Atomic Structure", "Chemical Bonds", "Reactions", "Organic Chemistry"}},
		{"Biology", "BIO", "#22c55e", []string{"Cell Biology", "Genetics", "Ecology", "Human Physiology"}},
		{"Literature", "LIT", "#ef4444", []string{"Poetry", "Prose", "Literary Movements", "Grammar"}},
		{"History", "HIST", "#a855f7", []string{"Ancient History", "Modern History", "Revolutions"}},
	}

	for i, sub := range subjects {
		subject := model.Subject{
			Name:      sub.name,
			Code:      sub.code,
			Color:     sub.color,
			SortOrder: i,
		}
		if err := s.db.Create(&subject).Error; err != nil {
			return err
		}
		for j, topicName := range sub.topics {
			topic := model.Topic{
				SubjectID: subject.ID,
				Name:      topicName,
				SortOrder: j,
			}
			if err := s.db.Create(&topic).Error; err != nil {
				return err
			}
		}
	}

	log.Println("Seeded subjects and topics.")
	return nil
}
