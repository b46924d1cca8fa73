// services/stats.go - cached ranking aggregates
package services

import (
	"math"

	"readsprint/models"

	"gorm.io/gorm"
)

// RecomputeStats rebuilds the user's cached ranking aggregates from their
// qualifying attempts (counted and strictly positive points). Destructive
// recompute from scratch: an empty qualifying set zeroes all four fields.
// Streak fields are never touched here.
func RecomputeStats(tx *gorm.DB, user *models.User) error {
	var row struct {
		Total  int
		Cnt    int64
		AvgWpm float64
		AvgAcc float64
	}

	err := tx.Model(&models.Attempt{}).
		Select("COALESCE(SUM(ranking_points), 0) AS total, COUNT(id) AS cnt, COALESCE(AVG(wpm), 0) AS avg_wpm, COALESCE(AVG(accuracy), 0) AS avg_acc").
		Where("user_id = ? AND counted_for_ranking = ? AND ranking_points > 0", user.ID, true).
		Scan(&row).Error
	if err != nil {
		return err
	}

	if row.Cnt > 0 {
		user.TotalRankingPoints = row.Total
		user.RankingExercisesCompleted = int(row.Cnt)
		user.AverageWpm = round1(row.AvgWpm)
		user.AverageAccuracy = round1(row.AvgAcc)
	} else {
		user.TotalRankingPoints = 0
		user.RankingExercisesCompleted = 0
		user.AverageWpm = 0
		user.AverageAccuracy = 0
	}

	return tx.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"total_ranking_points":        user.TotalRankingPoints,
		"ranking_exercises_completed": user.RankingExercisesCompleted,
		"average_wpm":                 user.AverageWpm,
		"average_accuracy":            user.AverageAccuracy,
	}).Error
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
