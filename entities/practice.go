package entities

import "time"

// PracticeItem tracks whether a grower adopted a recommended practice.
type PracticeItem struct {
	PracticeID   uint      `gorm:"primaryKey" json:"practice_id"`
	AssessmentID uint      `gorm:"index" json:"assessment_id"`
	Crop         string    `json:"crop"`
	Ord          int       `json:"ord"`
	Title        string    `json:"title"`
	Detail       string    `json:"detail"`
	Status       string    `json:"status"` // todo|adopted|skipped
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

const (
	PracticeTodo    = "todo"
	PracticeAdopted = "adopted"
	PracticeSkipped = "skipped"
)
