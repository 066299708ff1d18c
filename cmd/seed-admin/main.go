package main

import (
	"log"
	"os"

	"stockroom/internal/model"
	"stockroom/pkg/database"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Resets the admin account's password, or creates the account if the
// database has none. Meant for operator recovery, not regular use.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}

	db := database.ConnectDB()

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		log.Fatal("ADMIN_PASSWORD must be set")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	var user model.User
	if err := db.Where("username = ?", "admin").First(&user).Error; err != nil {
		admin := &model.User{
			Username: "admin",
			Email:    "admin@example.com",
			IsAdmin:  true,
			Password: string(hashed),
		}
		admin.CreatedBy = "system"
		admin.UpdatedBy = "system"
		if err := db.Create(admin).Error; err != nil {
			log.Fatalf("Failed to create admin user: %v", err)
		}
		log.Println("Admin user created")
		return
	}

	// Rotate token version so existing sessions die with the old password
	if err := db.Model(&user).Updates(map[string]interface{}{
		"password":      string(hashed),
		"token_version": "",
	}).Error; err != nil {
		log.Fatalf("Failed to update admin password: %v", err)
	}
	log.Println("Admin password updated")
}
