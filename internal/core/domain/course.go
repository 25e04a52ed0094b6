package domain

import "time"

type CourseStatus string

const (
	CourseDraft     CourseStatus = "draft"
	CoursePublished CourseStatus = "published"
	CourseArchived  CourseStatus = "archived"
)

type CourseLevel string

const (
	LevelBeginner     CourseLevel = "beginner"
	LevelIntermediate CourseLevel = "intermediate"
	LevelAdvanced     CourseLevel = "advanced"
)

const (
	CourseFieldTitle            = "title"
	CourseFieldDescription      = "description"
	CourseFieldCode             = "code"
	CourseFieldCredits          = "credits"
	CourseFieldDuration         = "duration"
	CourseFieldLevel            = "level"
	CourseFieldCategory         = "category"
	CourseFieldPrerequisites    = "prerequisites"
	CourseFieldLearningOutcomes = "learning_outcomes"
	CourseFieldSyllabus         = "syllabus"
	CourseFieldThumbnail        = "thumbnail"
	CourseFieldStatus           = "status"
	CourseFieldStartDate        = "start_date"
	CourseFieldEndDate          = "end_date"
	CourseFieldEnrollmentLimit  = "enrollment_limit"
	CourseFieldPrice            = "price"
	CourseFieldLanguage         = "language"
	CourseFieldCollegeID        = "college_id"
	CourseFieldLecturerID       = "lecturer_id"
)

// Course is taught by one lecturer and optionally belongs to a college.
type Course struct {
	ID               string       `json:"id" bson:"_id"`
	Title            string       `json:"title" bson:"title"`
	Description      string       `json:"description,omitempty" bson:"description,omitempty"`
	Code             string       `json:"code" bson:"code"`
	Credits          int          `json:"credits" bson:"credits"`
	Duration         int          `json:"duration" bson:"duration"`
	Level            CourseLevel  `json:"level" bson:"level"`
	Category         string       `json:"category,omitempty" bson:"category,omitempty"`
	Prerequisites    string       `json:"prerequisites,omitempty" bson:"prerequisites,omitempty"`
	LearningOutcomes string       `json:"learningOutcomes,omitempty" bson:"learning_outcomes,omitempty"`
	Syllabus         string       `json:"syllabus,omitempty" bson:"syllabus,omitempty"`
	Thumbnail        string       `json:"thumbnail,omitempty" bson:"thumbnail,omitempty"`
	Status           CourseStatus `json:"status" bson:"status"`
	StartDate        *time.Time   `json:"startDate,omitempty" bson:"start_date,omitempty"`
	EndDate          *time.Time   `json:"endDate,omitempty" bson:"end_date,omitempty"`
	EnrollmentLimit  int          `json:"enrollmentLimit,omitempty" bson:"enrollment_limit,omitempty"`
	Price            float64      `json:"price" bson:"price"`
	Language         string       `json:"language" bson:"language"`
	CollegeID        string       `json:"collegeId,omitempty" bson:"college_id,omitempty"`
	LecturerID       string       `json:"lecturerId,omitempty" bson:"lecturer_id,omitempty"`
	CreatedAt        time.Time    `json:"createdAt" bson:"created_at"`
	UpdatedAt        time.Time    `json:"updatedAt" bson:"updated_at"`
}

func (c *Course) IsPublished() bool { return c.Status == CoursePublished }

// CourseRef is the compact course projection embedded in enrollments.
type CourseRef struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Code        string     `json:"code"`
	Description string     `json:"description,omitempty"`
	Credits     int        `json:"credits"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
}

func (c *Course) Ref() *CourseRef {
	if c == nil {
		return nil
	}
	return &CourseRef{
		ID:          c.ID,
		Title:       c.Title,
		Code:        c.Code,
		Description: c.Description,
		Credits:     c.Credits,
		StartDate:   c.StartDate,
		EndDate:     c.EndDate,
	}
}
