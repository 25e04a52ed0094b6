package domain

import "time"

type AssignmentType string

const (
	AssignmentHomework AssignmentType = "assignment"
	AssignmentQuiz     AssignmentType = "quiz"
	AssignmentExam     AssignmentType = "exam"
	AssignmentProject  AssignmentType = "project"
)

// Assignment is graded course work created by the course's lecturer.
type Assignment struct {
	ID             string         `json:"id" bson:"_id"`
	CourseID       string         `json:"courseId" bson:"course_id"`
	CreatedBy      string         `json:"createdBy" bson:"created_by"`
	Title          string         `json:"title" bson:"title"`
	Description    string         `json:"description,omitempty" bson:"description,omitempty"`
	Instructions   string         `json:"instructions,omitempty" bson:"instructions,omitempty"`
	Type           AssignmentType `json:"type" bson:"type"`
	MaxScore       float64        `json:"maxScore" bson:"max_score"`
	DueDate        *time.Time     `json:"dueDate,omitempty" bson:"due_date,omitempty"`
	AvailableFrom  *time.Time     `json:"availableFrom,omitempty" bson:"available_from,omitempty"`
	AvailableUntil *time.Time     `json:"availableUntil,omitempty" bson:"available_until,omitempty"`
	TimeLimit      int            `json:"timeLimit,omitempty" bson:"time_limit,omitempty"`
	Attempts       int            `json:"attempts" bson:"attempts"`
	Status         CourseStatus   `json:"status" bson:"status"`
	Weight         float64        `json:"weight" bson:"weight"`
	CreatedAt      time.Time      `json:"createdAt" bson:"created_at"`
	UpdatedAt      time.Time      `json:"updatedAt" bson:"updated_at"`
}
