package database

import (
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Employee represents the employees table.
type Employee struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Division    string    `gorm:"index;not null" json:"division"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	WeeklyHours float64   `json:"weekly_hours"`
	DailyHours  float64   `json:"daily_hours"`
	Skills      string    `json:"skills"` // comma-separated certifications
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Project represents the projects table.
type Project struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Division  string    `gorm:"index;not null" json:"division"`
	Status    string    `gorm:"index;default:PLANNED" json:"status"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Phase represents the phases table. Each phase belongs to exactly one project.
type Phase struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	ProjectID    string    `gorm:"index;not null" json:"project_id"`
	Name         string    `gorm:"not null" json:"name"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	CrewSize     int       `json:"crew_size"`
	NeedsForeman bool      `json:"needs_foreman"`
	Journeymen   int       `json:"journeymen"`
	Apprentices  int       `json:"apprentices"`
	ProgressPct  float64   `json:"progress_pct"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Assignment represents the assignments table.
type Assignment struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	EmployeeID string    `gorm:"index;not null" json:"employee_id"`
	PhaseID    string    `gorm:"index;not null" json:"phase_id"`
	Date       time.Time `gorm:"index;not null" json:"date"`
	Hours      float64   `gorm:"not null" json:"hours"`
	CreatedBy  string    `json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`
}

// APIKey represents the api_keys table.
type APIKey struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Key        string     `gorm:"unique;not null" json:"key"`
	Name       string     `gorm:"not null" json:"name"`
	KeyPreview string     `json:"key_preview"`
	RateLimit  int        `gorm:"default:10000" json:"rate_limit"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsed   *time.Time `json:"last_used"`
}

// APIUsage represents the api_usage table, one row per key per day.
type APIUsage struct {
	ID               uint   `gorm:"primaryKey" json:"id"`
	KeyID            uint   `gorm:"uniqueIndex:idx_key_date;not null" json:"key_id"`
	Date             string `gorm:"uniqueIndex:idx_key_date;not null" json:"date"`
	RequestCount     int    `gorm:"default:0" json:"request_count"`
	TotalValidations int    `gorm:"default:0" json:"total_validations"`
	TotalScans       int    `gorm:"default:0" json:"total_scans"`
}

// MasterUser represents the master_users table.
type MasterUser struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"unique;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"password_hash"`
	Role         string    `gorm:"default:admin" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// InitDB initializes the database connection and migrates the schema.
// DATABASE_URL selects postgres; otherwise sqlite at DATA_PATH.
func InitDB() *gorm.DB {
	var db *gorm.DB
	var err error

	dsn := os.Getenv("DATABASE_URL")
	if dsn != "" {
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	} else {
		dbPath := os.Getenv("DATA_PATH")
		if dbPath == "" {
			dbPath = "crewsched.db"
		}
		db, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	}

	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	db.AutoMigrate(
		&Employee{}, &Project{}, &Phase{}, &Assignment{},
		&APIKey{}, &APIUsage{}, &MasterUser{},
	)

	return db
}
