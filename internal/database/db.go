package database

import (
	"log"
	"os"
	"time"

	"asvs-dashboard/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(dsn string) {
	var err error

	const maxAttempts = 10
	for i := 1; i <= maxAttempts; i++ {
		log.Printf("trying to connect to DB (attempt %d/%d)...", i, maxAttempts)

		DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err == nil {
			log.Println("connected to DB successfully")
			break
		}

		log.Printf("failed to connect to DB: %v", err)
		time.Sleep(2 * time.Second)
	}

	if err != nil {
		log.Fatalf("failed to connect to db after %d attempts: %v", maxAttempts, err)
	}

	// миграции
	err = DB.AutoMigrate(
		&models.User{},
		&models.Section{},
		&models.Requirement{},
		&models.AuditLog{},
	)
	if err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	createDefaultAdmin()
	seedSections()
}

// админ только из кода/конфига
func createDefaultAdmin() {
	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin@asvs.local"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "Admin123!"
	}

	var count int64
	if err := DB.Model(&models.User{}).
		Where("role = ?", models.RoleAdmin).
		Count(&count).Error; err != nil {
		log.Printf("failed to check admin user: %v", err)
		return
	}
	if count > 0 {
		// админ уже есть — ничего не делаем
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("failed to hash default admin password: %v", err)
		return
	}

	admin := models.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}

	if err := DB.Create(&admin).Error; err != nil {
		log.Printf("failed to create default admin: %v", err)
		return
	}

	log.Printf("created default admin user: %s (password: %s)", username, password)
}

// каталог разделов ASVS v4; у существующих (по slug) ничего не трогаем,
// slug после публикации менять нельзя
func seedSections() {
	type seedSection struct {
		Name string
		Slug string
	}

	sections := []seedSection{
		{"Architecture", "architecture"},
		{"Authentication", "authentication"},
		{"Session Management", "session-management"},
		{"Access Control", "access-control"},
		{"Input Validation", "input-validation"},
		{"Cryptography at Rest", "cryptography-at-rest"},
		{"Error Handling and Logging", "error-handling-and-logging"},
		{"Data Protection", "data-protection"},
		{"Communication Security", "communication-security"},
		{"Malicious Code", "malicious-code"},
		{"Business Logic", "business-logic"},
		{"Files and Resources", "files-and-resources"},
		{"API and Web Service", "api-and-web-service"},
		{"Configuration", "configuration"},
	}

	for i, s := range sections {
		var count int64
		if err := DB.Model(&models.Section{}).
			Where("slug = ?", s.Slug).
			Count(&count).Error; err != nil {
			log.Printf("failed to check section %s: %v", s.Slug, err)
			continue
		}
		if count > 0 {
			continue
		}

		section := models.Section{
			Name:       s.Name,
			Slug:       s.Slug,
			OrderIndex: i + 1,
		}
		if err := DB.Create(&section).Error; err != nil {
			log.Printf("failed to create section %s: %v", s.Slug, err)
			continue
		}
		log.Printf("created section: %s", s.Slug)
	}
}
