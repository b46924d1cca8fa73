// database/seed.go - Achievement catalog seed
package database

import (
	"log"

	"readsprint/models"

	"gorm.io/gorm"
)

// SeedAchievements ensures the badge catalog exists. Idempotent: existing
// slugs are left untouched.
func SeedAchievements(db *gorm.DB) {
	catalog := []models.Achievement{
		{Slug: "speedster", Title: "Speedster", Description: "Read at 300 WPM or faster", IconName: "bolt"},
		{Slug: "supersonic", Title: "Supersonic", Description: "Read at 800 WPM or faster", IconName: "rocket"},
		{Slug: "sniper", Title: "Sniper", Description: "Answer every question correctly", IconName: "target"},
		{Slug: "marathoner", Title: "Marathoner", Description: "Finish a text longer than 800 words", IconName: "flag"},
		{Slug: "daily-hero", Title: "Daily Hero", Description: "Complete the daily challenge", IconName: "calendar"},
	}

	for _, ach := range catalog {
		if err := db.Where(models.Achievement{Slug: ach.Slug}).FirstOrCreate(&ach).Error; err != nil {
			log.Printf("❌ Failed to seed achievement %s: %v", ach.Slug, err)
		}
	}
}
