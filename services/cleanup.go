// services/cleanup.go - background housekeeping
package services

import (
	"log"
	"time"

	"readsprint/database"
	"readsprint/models"
)

// CleanupService periodically purges rows no read path will ever serve again:
// daily challenge entries for past dates and read notifications past their
// retention window.
type CleanupService struct {
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

var cleanupService *CleanupService

// InitCleanupService initializes the singleton cleanup service.
func InitCleanupService() {
	cleanupService = &CleanupService{
		interval: time.Hour,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// GetCleanupService returns the initialized cleanup service.
func GetCleanupService() *CleanupService {
	return cleanupService
}

// Start runs the cleanup loop in the background.
func (s *CleanupService) Start() {
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.runOnce()
		for {
			select {
			case <-ticker.C:
				s.runOnce()
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop stops the cleanup loop and waits for it to finish.
func (s *CleanupService) Stop() {
	close(s.stop)
	<-s.done
}

func (s *CleanupService) runOnce() {
	if err := s.PurgeExpiredChallenges(); err != nil {
		log.Printf("Cleanup: failed to purge expired challenges: %v", err)
	}
	if err := s.PurgeOldNotifications(); err != nil {
		log.Printf("Cleanup: failed to purge old notifications: %v", err)
	}
}

// PurgeExpiredChallenges removes daily challenge rows for past dates.
func (s *CleanupService) PurgeExpiredChallenges() error {
	db := database.GetDB()
	if db == nil {
		return nil
	}

	today := DateKey(time.Now().UTC())
	res := db.Where("date < ?", today).Delete(&models.DailyChallenge{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		log.Printf("✅ Cleaned up %d expired daily challenge(s)", res.RowsAffected)
	}
	return nil
}

// PurgeOldNotifications removes read notifications older than 30 days.
func (s *CleanupService) PurgeOldNotifications() error {
	db := database.GetDB()
	if db == nil {
		return nil
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -30)
	res := db.Where("read = ? AND created_at < ?", true, cutoff).Delete(&models.Notification{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		log.Printf("✅ Cleaned up %d old notification(s)", res.RowsAffected)
	}
	return nil
}
