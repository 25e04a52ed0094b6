package domain

import "time"

type EnrollmentStatus string

const (
	EnrollmentEnrolled  EnrollmentStatus = "enrolled"
	EnrollmentCompleted EnrollmentStatus = "completed"
	EnrollmentDropped   EnrollmentStatus = "dropped"
	EnrollmentSuspended EnrollmentStatus = "suspended"
)

// Enrollment links a user to a course. (UserID, CourseID) is unique.
type Enrollment struct {
	ID             string           `json:"id" bson:"_id"`
	UserID         string           `json:"userId" bson:"user_id"`
	CourseID       string           `json:"courseId" bson:"course_id"`
	EnrollmentDate time.Time        `json:"enrollmentDate" bson:"enrollment_date"`
	Status         EnrollmentStatus `json:"status" bson:"status"`
	Grade          *float64         `json:"grade,omitempty" bson:"grade,omitempty"`
	Progress       float64          `json:"progress" bson:"progress"`
	CompletionDate *time.Time       `json:"completionDate,omitempty" bson:"completion_date,omitempty"`
	LastAccessed   *time.Time       `json:"lastAccessed,omitempty" bson:"last_accessed,omitempty"`
	CreatedAt      time.Time        `json:"createdAt" bson:"created_at"`
	UpdatedAt      time.Time        `json:"updatedAt" bson:"updated_at"`
}
