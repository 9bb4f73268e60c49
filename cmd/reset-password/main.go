package main

import (
	"flag"
	"log"

	"go-pos-ws/internal/model"
	"go-pos-ws/pkg/config"
	"go-pos-ws/pkg/database"

	"golang.org/x/crypto/bcrypt"
)

// Emergency password reset for when nobody can log in anymore.
func main() {
	email := flag.String("email", "admin@example.com", "account to reset")
	password := flag.String("password", "admin123", "new password")
	flag.Parse()

	cfg := config.Load()
	db := database.ConnectDB(cfg.DatabaseURL)

	var user model.User
	if err := db.Where("email = ?", *email).First(&user).Error; err != nil {
		log.Fatalf("user %s not found: %v", *email, err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	// Rotate the token version too so any live session is kicked out
	if err := db.Model(&user).Updates(map[string]interface{}{
		"password":      string(hashed),
		"token_version": "",
	}).Error; err != nil {
		log.Fatalf("failed to update password: %v", err)
	}

	log.Printf("password for %s has been reset", *email)
}
