package sql

import (
	"time"

	"github.com/hbiu/lms-backend/internal/core/domain"
)

// Row types are the table schema. Optional references and the optional
// student id are nullable so their unique / foreign indexes ignore blanks.

type collegeRow struct {
	ID              string `gorm:"primaryKey;size:36"`
	Name            string `gorm:"size:100;not null"`
	Description     string
	Code            string `gorm:"size:10;not null;uniqueIndex"`
	Address         string
	PhoneNumber     string `gorm:"size:20"`
	Email           string `gorm:"size:255"`
	Website         string
	Logo            string
	EstablishedYear int
	Status          string `gorm:"size:20;not null;index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (collegeRow) TableName() string { return "colleges" }

type userRow struct {
	ID             string  `gorm:"primaryKey;size:36"`
	FirstName      string  `gorm:"size:50;not null"`
	LastName       string  `gorm:"size:50;not null"`
	Email          string  `gorm:"size:255;not null;uniqueIndex"`
	PasswordHash   string  `gorm:"not null"`
	Role           string  `gorm:"size:20;not null;index"`
	Status         string  `gorm:"size:20;not null;index"`
	StudentID      *string `gorm:"size:50;uniqueIndex"`
	PhoneNumber    string  `gorm:"size:20"`
	DateOfBirth    string  `gorm:"size:10"`
	Address        string
	ProfilePicture string
	EmailVerified  bool `gorm:"not null;default:false"`
	LastLogin      *time.Time
	CollegeID      *string   `gorm:"size:36;index"`
	CreatedAt      time.Time `gorm:"index"`
	UpdatedAt      time.Time
}

func (userRow) TableName() string { return "users" }

type courseRow struct {
	ID               string `gorm:"primaryKey;size:36"`
	Title            string `gorm:"size:200;not null"`
	Description      string
	Code             string `gorm:"size:20;not null;uniqueIndex"`
	Credits          int    `gorm:"not null;default:3"`
	Duration         int
	Level            string `gorm:"size:20;not null"`
	Category         string `gorm:"size:100;index"`
	Prerequisites    string
	LearningOutcomes string
	Syllabus         string
	Thumbnail        string
	Status           string `gorm:"size:20;not null;index"`
	StartDate        *time.Time
	EndDate          *time.Time
	EnrollmentLimit  int
	Price            float64
	Language         string    `gorm:"size:50"`
	CollegeID        *string   `gorm:"size:36;index"`
	LecturerID       *string   `gorm:"size:36;index"`
	CreatedAt        time.Time `gorm:"index"`
	UpdatedAt        time.Time
}

func (courseRow) TableName() string { return "courses" }

type enrollmentRow struct {
	ID             string `gorm:"primaryKey;size:36"`
	UserID         string `gorm:"size:36;not null;uniqueIndex:idx_enrollments_user_course"`
	CourseID       string `gorm:"size:36;not null;uniqueIndex:idx_enrollments_user_course;index"`
	EnrollmentDate time.Time
	Status         string `gorm:"size:20;not null;index"`
	Grade          *float64
	Progress       float64
	CompletionDate *time.Time
	LastAccessed   *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (enrollmentRow) TableName() string { return "enrollments" }

type assignmentRow struct {
	ID             string `gorm:"primaryKey;size:36"`
	CourseID       string `gorm:"size:36;not null;index"`
	CreatedBy      string `gorm:"size:36;not null"`
	Title          string `gorm:"size:200;not null"`
	Description    string
	Instructions   string
	Type           string `gorm:"size:20;not null"`
	MaxScore       float64
	DueDate        *time.Time
	AvailableFrom  *time.Time
	AvailableUntil *time.Time
	TimeLimit      int
	Attempts       int
	Status         string `gorm:"size:20;not null"`
	Weight         float64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (assignmentRow) TableName() string { return "assignments" }

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toCollegeRow(c *domain.College) *collegeRow {
	return &collegeRow{
		ID:              c.ID,
		Name:            c.Name,
		Description:     c.Description,
		Code:            c.Code,
		Address:         c.Address,
		PhoneNumber:     c.PhoneNumber,
		Email:           c.Email,
		Website:         c.Website,
		Logo:            c.Logo,
		EstablishedYear: c.EstablishedYear,
		Status:          string(c.Status),
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

func (r *collegeRow) toDomain() *domain.College {
	return &domain.College{
		ID:              r.ID,
		Name:            r.Name,
		Description:     r.Description,
		Code:            r.Code,
		Address:         r.Address,
		PhoneNumber:     r.PhoneNumber,
		Email:           r.Email,
		Website:         r.Website,
		Logo:            r.Logo,
		EstablishedYear: r.EstablishedYear,
		Status:          domain.CollegeStatus(r.Status),
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func toUserRow(u *domain.User) *userRow {
	return &userRow{
		ID:             u.ID,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Email:          u.Email,
		PasswordHash:   u.PasswordHash,
		Role:           string(u.Role),
		Status:         string(u.Status),
		StudentID:      nullable(u.StudentID),
		PhoneNumber:    u.PhoneNumber,
		DateOfBirth:    u.DateOfBirth,
		Address:        u.Address,
		ProfilePicture: u.ProfilePicture,
		EmailVerified:  u.EmailVerified,
		LastLogin:      u.LastLogin,
		CollegeID:      nullable(u.CollegeID),
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func (r *userRow) toDomain() *domain.User {
	return &domain.User{
		ID:             r.ID,
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Email:          r.Email,
		PasswordHash:   r.PasswordHash,
		Role:           domain.Role(r.Role),
		Status:         domain.UserStatus(r.Status),
		StudentID:      deref(r.StudentID),
		PhoneNumber:    r.PhoneNumber,
		DateOfBirth:    r.DateOfBirth,
		Address:        r.Address,
		ProfilePicture: r.ProfilePicture,
		EmailVerified:  r.EmailVerified,
		LastLogin:      r.LastLogin,
		CollegeID:      deref(r.CollegeID),
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func toCourseRow(c *domain.Course) *courseRow {
	return &courseRow{
		ID:               c.ID,
		Title:            c.Title,
		Description:      c.Description,
		Code:             c.Code,
		Credits:          c.Credits,
		Duration:         c.Duration,
		Level:            string(c.Level),
		Category:         c.Category,
		Prerequisites:    c.Prerequisites,
		LearningOutcomes: c.LearningOutcomes,
		Syllabus:         c.Syllabus,
		Thumbnail:        c.Thumbnail,
		Status:           string(c.Status),
		StartDate:        c.StartDate,
		EndDate:          c.EndDate,
		EnrollmentLimit:  c.EnrollmentLimit,
		Price:            c.Price,
		Language:         c.Language,
		CollegeID:        nullable(c.CollegeID),
		LecturerID:       nullable(c.LecturerID),
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

func (r *courseRow) toDomain() *domain.Course {
	return &domain.Course{
		ID:               r.ID,
		Title:            r.Title,
		Description:      r.Description,
		Code:             r.Code,
		Credits:          r.Credits,
		Duration:         r.Duration,
		Level:            domain.CourseLevel(r.Level),
		Category:         r.Category,
		Prerequisites:    r.Prerequisites,
		LearningOutcomes: r.LearningOutcomes,
		Syllabus:         r.Syllabus,
		Thumbnail:        r.Thumbnail,
		Status:           domain.CourseStatus(r.Status),
		StartDate:        r.StartDate,
		EndDate:          r.EndDate,
		EnrollmentLimit:  r.EnrollmentLimit,
		Price:            r.Price,
		Language:         r.Language,
		CollegeID:        deref(r.CollegeID),
		LecturerID:       deref(r.LecturerID),
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

func toEnrollmentRow(e *domain.Enrollment) *enrollmentRow {
	return &enrollmentRow{
		ID:             e.ID,
		UserID:         e.UserID,
		CourseID:       e.CourseID,
		EnrollmentDate: e.EnrollmentDate,
		Status:         string(e.Status),
		Grade:          e.Grade,
		Progress:       e.Progress,
		CompletionDate: e.CompletionDate,
		LastAccessed:   e.LastAccessed,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func (r *enrollmentRow) toDomain() *domain.Enrollment {
	return &domain.Enrollment{
		ID:             r.ID,
		UserID:         r.UserID,
		CourseID:       r.CourseID,
		EnrollmentDate: r.EnrollmentDate,
		Status:         domain.EnrollmentStatus(r.Status),
		Grade:          r.Grade,
		Progress:       r.Progress,
		CompletionDate: r.CompletionDate,
		LastAccessed:   r.LastAccessed,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func toAssignmentRow(a *domain.Assignment) *assignmentRow {
	return &assignmentRow{
		ID:             a.ID,
		CourseID:       a.CourseID,
		CreatedBy:      a.CreatedBy,
		Title:          a.Title,
		Description:    a.Description,
		Instructions:   a.Instructions,
		Type:           string(a.Type),
		MaxScore:       a.MaxScore,
		DueDate:        a.DueDate,
		AvailableFrom:  a.AvailableFrom,
		AvailableUntil: a.AvailableUntil,
		TimeLimit:      a.TimeLimit,
		Attempts:       a.Attempts,
		Status:         string(a.Status),
		Weight:         a.Weight,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

func (r *assignmentRow) toDomain() *domain.Assignment {
	return &domain.Assignment{
		ID:             r.ID,
		CourseID:       r.CourseID,
		CreatedBy:      r.CreatedBy,
		Title:          r.Title,
		Description:    r.Description,
		Instructions:   r.Instructions,
		Type:           domain.AssignmentType(r.Type),
		MaxScore:       r.MaxScore,
		DueDate:        r.DueDate,
		AvailableFrom:  r.AvailableFrom,
		AvailableUntil: r.AvailableUntil,
		TimeLimit:      r.TimeLimit,
		Attempts:       r.Attempts,
		Status:         domain.CourseStatus(r.Status),
		Weight:         r.Weight,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}
