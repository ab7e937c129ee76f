package main

import (
	"log"
	"os"

	"lizze-booking-server/database"
	"lizze-booking-server/models"
	"lizze-booking-server/utils"
)

// seedStaffUser ensures the staff account from ADMIN_EMAIL / ADMIN_PASSWORD
// exists. Without a password in the environment nothing is seeded.
func seedStaffUser() {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Println("⚠️ ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping staff user seed")
		return
	}

	var existing models.StaffUser
	if err := database.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		return
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		log.Printf("❌ Failed to hash admin password: %v", err)
		return
	}

	staff := models.StaffUser{
		FullName:     "Administrator",
		Email:        email,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := database.DB.Create(&staff).Error; err != nil {
		log.Printf("❌ Failed to seed staff user: %v", err)
		return
	}
	log.Printf("✅ Seeded staff user %s", email)
}
