// handlers/exercises.go - exercise CRUD with transactional word-count upkeep
package handlers

import (
	"errors"
	"time"

	"readsprint/database"
	"readsprint/middleware"
	"readsprint/models"
	"readsprint/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// MaxRankedWordCount caps ranked texts so length multipliers stay meaningful.
const MaxRankedWordCount = 1000

type QuestionInput struct {
	Text          string `json:"text"`
	CorrectAnswer string `json:"correct_answer"`
	QuestionType  string `json:"question_type"`
	Option1       string `json:"option_1"`
	Option2       string `json:"option_2"`
	Option3       string `json:"option_3"`
	Option4       string `json:"option_4"`
}

type ExerciseRequest struct {
	Title            string          `json:"title"`
	Text             string          `json:"text"`
	IsPublic         *bool           `json:"is_public"`
	IsRanked         *bool           `json:"is_ranked"`
	IsDailyCandidate *bool           `json:"is_daily_candidate"`
	Questions        []QuestionInput `json:"questions"`
}

// GetExercises lists public exercises plus the caller's own.
func GetExercises(c *fiber.Ctx) error {
	db := database.GetDB()

	query := db.Order("created_at DESC")
	if userID, err := middleware.GetUserID(c); err == nil {
		query = query.Where("is_public = ? OR created_by = ?", true, userID)
	} else {
		query = query.Where("is_public = ?", true)
	}

	var exercises []models.Exercise
	if err := query.Find(&exercises).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch exercises"})
	}

	return c.JSON(fiber.Map{"success": true, "exercises": exercises})
}

// GetExercise returns one exercise with its questions and the recommended
// question count for its length.
func GetExercise(c *fiber.Ctx) error {
	db := database.GetDB()

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid exercise id"})
	}

	var exercise models.Exercise
	if err := db.Preload("Questions").First(&exercise, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"success": false, "error": "Exercise not found"})
		}
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch exercise"})
	}

	return c.JSON(fiber.Map{
		"success":                    true,
		"exercise":                   exercise,
		"recommended_question_count": services.RecommendedQuestionCount(exercise.WordCount),
	})
}

// CreateExercise creates an exercise with its questions in one transaction.
// The word count is derived here; it is never accepted from the client.
func CreateExercise(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req ExerciseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	if req.Title == "" || req.Text == "" {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Title and text are required"})
	}

	isAdmin := middleware.IsAdmin(c)
	if !isAdmin && (boolVal(req.IsPublic) || boolVal(req.IsRanked) || boolVal(req.IsDailyCandidate)) {
		return c.Status(403).JSON(fiber.Map{"success": false, "error": "Only admins can create public, ranked or daily-candidate exercises"})
	}

	wordCount := services.CountWords(req.Text)
	if boolVal(req.IsRanked) && wordCount > MaxRankedWordCount {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Ranked exercises cannot exceed 1000 words",
		})
	}

	if err := validateQuestions(req.Questions); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	exercise := models.Exercise{
		Title:            req.Title,
		Text:             req.Text,
		WordCount:        wordCount,
		IsPublic:         boolVal(req.IsPublic),
		IsRanked:         boolVal(req.IsRanked),
		IsDailyCandidate: boolVal(req.IsDailyCandidate),
		CreatedBy:        &userID,
	}

	db := database.GetDB()
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&exercise).Error; err != nil {
			return err
		}
		for _, q := range req.Questions {
			question := questionFromInput(exercise.ID, q)
			if err := tx.Create(&question).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to create exercise"})
	}

	db.Preload("Questions").First(&exercise, exercise.ID)
	return c.Status(201).JSON(fiber.Map{"success": true, "exercise": exercise})
}

// UpdateExercise edits an exercise. A text change recomputes the word count
// in the same transaction; stale counts would corrupt scoring. Questions, when
// provided, are replaced wholesale.
func UpdateExercise(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid exercise id"})
	}

	db := database.GetDB()

	var exercise models.Exercise
	if err := db.First(&exercise, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"success": false, "error": "Exercise not found"})
		}
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch exercise"})
	}

	isAdmin := middleware.IsAdmin(c)
	if !isAdmin && (exercise.CreatedBy == nil || *exercise.CreatedBy != userID) {
		return c.Status(403).JSON(fiber.Map{"success": false, "error": "You can only edit your own exercises"})
	}

	var req ExerciseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	if req.Title != "" {
		exercise.Title = req.Title
	}
	if req.Text != "" {
		exercise.Text = req.Text
		exercise.WordCount = services.CountWords(req.Text)
	}
	if isAdmin {
		if req.IsPublic != nil {
			exercise.IsPublic = *req.IsPublic
		}
		if req.IsRanked != nil {
			exercise.IsRanked = *req.IsRanked
		}
		if req.IsDailyCandidate != nil {
			exercise.IsDailyCandidate = *req.IsDailyCandidate
		}
	}

	if exercise.IsRanked && exercise.WordCount > MaxRankedWordCount {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Ranked exercises cannot exceed 1000 words",
		})
	}

	if req.Questions != nil {
		if err := validateQuestions(req.Questions); err != nil {
			return c.Status(400).JSON(fiber.Map{"success": false, "error": err.Error()})
		}
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&exercise).Error; err != nil {
			return err
		}
		if req.Questions != nil {
			if err := tx.Where("exercise_id = ?", exercise.ID).Delete(&models.Question{}).Error; err != nil {
				return err
			}
			for _, q := range req.Questions {
				question := questionFromInput(exercise.ID, q)
				if err := tx.Create(&question).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to update exercise"})
	}

	db.Preload("Questions").First(&exercise, exercise.ID)
	return c.JSON(fiber.Map{"success": true, "exercise": exercise})
}

// DeleteExercise removes an exercise and its questions.
func DeleteExercise(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid exercise id"})
	}

	db := database.GetDB()

	var exercise models.Exercise
	if err := db.First(&exercise, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"success": false, "error": "Exercise not found"})
		}
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch exercise"})
	}

	if !middleware.IsAdmin(c) && (exercise.CreatedBy == nil || *exercise.CreatedBy != userID) {
		return c.Status(403).JSON(fiber.Map{"success": false, "error": "You can only delete your own exercises"})
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("exercise_id = ?", exercise.ID).Delete(&models.Question{}).Error; err != nil {
			return err
		}
		return tx.Delete(&exercise).Error
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to delete exercise"})
	}

	return c.JSON(fiber.Map{"success": true})
}

// GetAttemptStatus answers "can I rank on this exercise right now" without
// mutating anything.
func GetAttemptStatus(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid exercise id"})
	}

	db := database.GetDB()

	var exercise models.Exercise
	if err := db.First(&exercise, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"success": false, "error": "Exercise not found"})
		}
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch exercise"})
	}

	now := time.Now().UTC()
	todayChallenge, err := services.TodayChallenge(db, now)
	if err != nil {
		return fail(c, err)
	}
	isTodayChallenge := todayChallenge != nil && todayChallenge.ID == exercise.ID

	dailyBanked := false
	if isTodayChallenge {
		dailyBanked, err = services.HasBankedDailyBonus(db, userID, now)
		if err != nil {
			return fail(c, err)
		}
	}

	status, err := services.AttemptStatusFor(db, userID, &exercise, now, isTodayChallenge, dailyBanked)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "status": status})
}

func validateQuestions(questions []QuestionInput) error {
	for i, q := range questions {
		if q.Text == "" || q.CorrectAnswer == "" {
			return errInput("question %d: text and correct answer are required", i+1)
		}
		options := countOptions(q)
		switch q.QuestionType {
		case models.QuestionTypeChoice:
			if options != 4 {
				return errInput("question %d: multiple-choice questions need exactly 4 options", i+1)
			}
		case models.QuestionTypeOpen, "":
			if options != 0 {
				return errInput("question %d: open questions cannot have options", i+1)
			}
		default:
			return errInput("question %d: unknown question type %q", i+1, q.QuestionType)
		}
	}
	return nil
}

func countOptions(q QuestionInput) int {
	n := 0
	for _, opt := range []string{q.Option1, q.Option2, q.Option3, q.Option4} {
		if opt != "" {
			n++
		}
	}
	return n
}

func questionFromInput(exerciseID uint, q QuestionInput) models.Question {
	questionType := q.QuestionType
	if questionType == "" {
		questionType = models.QuestionTypeOpen
	}
	return models.Question{
		ExerciseID:    exerciseID,
		Text:          q.Text,
		CorrectAnswer: q.CorrectAnswer,
		QuestionType:  questionType,
		Option1:       q.Option1,
		Option2:       q.Option2,
		Option3:       q.Option3,
		Option4:       q.Option4,
	}
}

func boolVal(b *bool) bool {
	return b != nil && *b
}
