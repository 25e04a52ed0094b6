package handler

import (
	"strings"
	"time"

	"github.com/hbiu/lms-backend/internal/core/domain"
	"github.com/hbiu/lms-backend/internal/core/ports"
)

// --- Auth ---

type registerRequest struct {
	FirstName   string `json:"firstName"   validate:"required,min=2,max=50"`
	LastName    string `json:"lastName"    validate:"required,min=2,max=50"`
	Email       string `json:"email"       validate:"required,email"`
	Password    string `json:"password"    validate:"required,min=6,strong_password"`
	Role        string `json:"role"        validate:"omitempty,oneof=student lecturer admin college_admin"`
	StudentID   string `json:"studentId"   validate:"omitempty,max=50"`
	PhoneNumber string `json:"phoneNumber" validate:"omitempty,min=7,max=20"`
	CollegeID   string `json:"collegeId"`
}

func (r registerRequest) toInput() ports.RegisterInput {
	return ports.RegisterInput{
		FirstName:   strings.TrimSpace(r.FirstName),
		LastName:    strings.TrimSpace(r.LastName),
		Email:       r.Email,
		Password:    r.Password,
		Role:        domain.Role(r.Role),
		StudentID:   strings.TrimSpace(r.StudentID),
		PhoneNumber: r.PhoneNumber,
		CollegeID:   r.CollegeID,
	}
}

// loginRequest carries no tags: missing fields get the uniform
// credentials message from the service.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type profileRequest struct {
	FirstName   *string `json:"firstName"   validate:"omitempty,min=2,max=50"`
	LastName    *string `json:"lastName"    validate:"omitempty,min=2,max=50"`
	PhoneNumber *string `json:"phoneNumber" validate:"omitempty,min=7,max=20"`
	DateOfBirth *string `json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02"`
	Address     *string `json:"address"     validate:"omitempty,max=500"`
}

func (r profileRequest) toPatch() domain.Patch {
	p := domain.Patch{}
	putString(p, domain.UserFieldFirstName, r.FirstName)
	putString(p, domain.UserFieldLastName, r.LastName)
	putString(p, domain.UserFieldPhoneNumber, r.PhoneNumber)
	putString(p, domain.UserFieldDateOfBirth, r.DateOfBirth)
	putString(p, domain.UserFieldAddress, r.Address)
	return p
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword"     validate:"required,min=6,strong_password"`
}

// --- Users ---

// updateUserRequest leaves role and status unchecked here; the service
// rejects unknown values with its own messages.
type updateUserRequest struct {
	FirstName   *string `json:"firstName"   validate:"omitempty,min=2,max=50"`
	LastName    *string `json:"lastName"    validate:"omitempty,min=2,max=50"`
	Email       *string `json:"email"       validate:"omitempty,email"`
	Role        *string `json:"role"`
	Status      *string `json:"status"`
	PhoneNumber *string `json:"phoneNumber" validate:"omitempty,min=7,max=20"`
	DateOfBirth *string `json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02"`
	Address     *string `json:"address"     validate:"omitempty,max=500"`
	CollegeID   *string `json:"collegeId"`
}

func (r updateUserRequest) toPatch() domain.Patch {
	p := domain.Patch{}
	putString(p, domain.UserFieldFirstName, r.FirstName)
	putString(p, domain.UserFieldLastName, r.LastName)
	putString(p, domain.UserFieldEmail, r.Email)
	putString(p, domain.UserFieldRole, r.Role)
	putString(p, domain.UserFieldStatus, r.Status)
	putString(p, domain.UserFieldPhoneNumber, r.PhoneNumber)
	putString(p, domain.UserFieldDateOfBirth, r.DateOfBirth)
	putString(p, domain.UserFieldAddress, r.Address)
	putString(p, domain.UserFieldCollegeID, r.CollegeID)
	return p
}

// --- Colleges ---

type createCollegeRequest struct {
	Name            string `json:"name"            validate:"required,min=2,max=100"`
	Code            string `json:"code"            validate:"required,min=2,max=10,alpha,uppercase"`
	Description     string `json:"description"     validate:"omitempty,max=1000"`
	Address         string `json:"address"         validate:"omitempty,max=500"`
	PhoneNumber     string `json:"phoneNumber"     validate:"omitempty,min=7,max=20"`
	Email           string `json:"email"           validate:"omitempty,email"`
	Website         string `json:"website"         validate:"omitempty,url"`
	Logo            string `json:"logo"            validate:"omitempty,url"`
	EstablishedYear int    `json:"establishedYear" validate:"omitempty,past_year"`
	Status          string `json:"status"          validate:"omitempty,oneof=active inactive"`
}

func (r createCollegeRequest) toCollege() *domain.College {
	return &domain.College{
		Name:            strings.TrimSpace(r.Name),
		Code:            r.Code,
		Description:     r.Description,
		Address:         r.Address,
		PhoneNumber:     r.PhoneNumber,
		Email:           strings.ToLower(r.Email),
		Website:         r.Website,
		Logo:            r.Logo,
		EstablishedYear: r.EstablishedYear,
		Status:          domain.CollegeStatus(r.Status),
	}
}

type updateCollegeRequest struct {
	Name            *string `json:"name"            validate:"omitempty,min=2,max=100"`
	Code            *string `json:"code"            validate:"omitempty,min=2,max=10,alpha,uppercase"`
	Description     *string `json:"description"     validate:"omitempty,max=1000"`
	Address         *string `json:"address"         validate:"omitempty,max=500"`
	PhoneNumber     *string `json:"phoneNumber"     validate:"omitempty,min=7,max=20"`
	Email           *string `json:"email"           validate:"omitempty,email"`
	Website         *string `json:"website"         validate:"omitempty,url"`
	Logo            *string `json:"logo"            validate:"omitempty,url"`
	EstablishedYear *int    `json:"establishedYear" validate:"omitempty,past_year"`
	Status          *string `json:"status"          validate:"omitempty,oneof=active inactive"`
}

func (r updateCollegeRequest) toPatch() domain.Patch {
	p := domain.Patch{}
	putString(p, domain.CollegeFieldName, r.Name)
	putString(p, domain.CollegeFieldCode, r.Code)
	putString(p, domain.CollegeFieldDescription, r.Description)
	putString(p, domain.CollegeFieldAddress, r.Address)
	putString(p, domain.CollegeFieldPhoneNumber, r.PhoneNumber)
	putString(p, domain.CollegeFieldEmail, r.Email)
	putString(p, domain.CollegeFieldWebsite, r.Website)
	putString(p, domain.CollegeFieldLogo, r.Logo)
	if r.EstablishedYear != nil {
		p[domain.CollegeFieldEstablishedYear] = *r.EstablishedYear
	}
	if r.Status != nil {
		p[domain.CollegeFieldStatus] = domain.CollegeStatus(*r.Status)
	}
	return p
}

// --- Courses ---

type createCourseRequest struct {
	Title            string     `json:"title"            validate:"required,min=3,max=200"`
	Code             string     `json:"code"             validate:"required,min=3,max=20,alphanum,uppercase"`
	Description      string     `json:"description"      validate:"omitempty,max=2000"`
	Credits          int        `json:"credits"          validate:"omitempty,min=1,max=10"`
	Duration         int        `json:"duration"         validate:"required,min=1"`
	Level            string     `json:"level"            validate:"omitempty,oneof=beginner intermediate advanced"`
	Category         string     `json:"category"         validate:"omitempty,max=100"`
	Prerequisites    string     `json:"prerequisites"`
	LearningOutcomes string     `json:"learningOutcomes"`
	Syllabus         string     `json:"syllabus"`
	Thumbnail        string     `json:"thumbnail"        validate:"omitempty,url"`
	Status           string     `json:"status"           validate:"omitempty,oneof=draft published archived"`
	StartDate        *time.Time `json:"startDate"`
	EndDate          *time.Time `json:"endDate"`
	EnrollmentLimit  int        `json:"enrollmentLimit"  validate:"omitempty,min=1"`
	Price            float64    `json:"price"            validate:"omitempty,min=0"`
	Language         string     `json:"language"         validate:"omitempty,max=50"`
	CollegeID        string     `json:"collegeId"`
}

func (r createCourseRequest) toCourse() *domain.Course {
	return &domain.Course{
		Title:            strings.TrimSpace(r.Title),
		Code:             r.Code,
		Description:      r.Description,
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
		CollegeID:        r.CollegeID,
	}
}

type updateCourseRequest struct {
	Title            *string    `json:"title"            validate:"omitempty,min=3,max=200"`
	Code             *string    `json:"code"             validate:"omitempty,min=3,max=20,alphanum,uppercase"`
	Description      *string    `json:"description"      validate:"omitempty,max=2000"`
	Credits          *int       `json:"credits"          validate:"omitempty,min=1,max=10"`
	Duration         *int       `json:"duration"         validate:"omitempty,min=1"`
	Level            *string    `json:"level"            validate:"omitempty,oneof=beginner intermediate advanced"`
	Category         *string    `json:"category"         validate:"omitempty,max=100"`
	Prerequisites    *string    `json:"prerequisites"`
	LearningOutcomes *string    `json:"learningOutcomes"`
	Syllabus         *string    `json:"syllabus"`
	Thumbnail        *string    `json:"thumbnail"        validate:"omitempty,url"`
	Status           *string    `json:"status"           validate:"omitempty,oneof=draft published archived"`
	StartDate        *time.Time `json:"startDate"`
	EndDate          *time.Time `json:"endDate"`
	EnrollmentLimit  *int       `json:"enrollmentLimit"  validate:"omitempty,min=1"`
	Price            *float64   `json:"price"            validate:"omitempty,min=0"`
	Language         *string    `json:"language"         validate:"omitempty,max=50"`
	CollegeID        *string    `json:"collegeId"`
	LecturerID       *string    `json:"lecturerId"`
}

func (r updateCourseRequest) toPatch() domain.Patch {
	p := domain.Patch{}
	putString(p, domain.CourseFieldTitle, r.Title)
	putString(p, domain.CourseFieldCode, r.Code)
	putString(p, domain.CourseFieldDescription, r.Description)
	putString(p, domain.CourseFieldCategory, r.Category)
	putString(p, domain.CourseFieldPrerequisites, r.Prerequisites)
	putString(p, domain.CourseFieldLearningOutcomes, r.LearningOutcomes)
	putString(p, domain.CourseFieldSyllabus, r.Syllabus)
	putString(p, domain.CourseFieldThumbnail, r.Thumbnail)
	putString(p, domain.CourseFieldLanguage, r.Language)
	putString(p, domain.CourseFieldCollegeID, r.CollegeID)
	putString(p, domain.CourseFieldLecturerID, r.LecturerID)
	if r.Credits != nil {
		p[domain.CourseFieldCredits] = *r.Credits
	}
	if r.Duration != nil {
		p[domain.CourseFieldDuration] = *r.Duration
	}
	if r.Level != nil {
		p[domain.CourseFieldLevel] = domain.CourseLevel(*r.Level)
	}
	if r.Status != nil {
		p[domain.CourseFieldStatus] = domain.CourseStatus(*r.Status)
	}
	if r.StartDate != nil {
		p[domain.CourseFieldStartDate] = r.StartDate.UTC()
	}
	if r.EndDate != nil {
		p[domain.CourseFieldEndDate] = r.EndDate.UTC()
	}
	if r.EnrollmentLimit != nil {
		p[domain.CourseFieldEnrollmentLimit] = *r.EnrollmentLimit
	}
	if r.Price != nil {
		p[domain.CourseFieldPrice] = *r.Price
	}
	return p
}

const (
	defaultMaxScore = 100
	defaultWeight   = 10
)

type createAssignmentRequest struct {
	Title          string     `json:"title"          validate:"required,min=3,max=200"`
	Description    string     `json:"description"    validate:"omitempty,max=5000"`
	Instructions   string     `json:"instructions"`
	Type           string     `json:"type"           validate:"omitempty,oneof=assignment quiz exam project"`
	MaxScore       *float64   `json:"maxScore"       validate:"omitempty,min=0"`
	DueDate        *time.Time `json:"dueDate"`
	AvailableFrom  *time.Time `json:"availableFrom"`
	AvailableUntil *time.Time `json:"availableUntil"`
	TimeLimit      int        `json:"timeLimit"      validate:"omitempty,min=1"`
	Attempts       int        `json:"attempts"       validate:"omitempty,min=1"`
	Status         string     `json:"status"         validate:"omitempty,oneof=draft published archived"`
	Weight         *float64   `json:"weight"         validate:"omitempty,min=0,max=100"`
}

func (r createAssignmentRequest) toAssignment() *domain.Assignment {
	a := &domain.Assignment{
		Title:          strings.TrimSpace(r.Title),
		Description:    r.Description,
		Instructions:   r.Instructions,
		Type:           domain.AssignmentType(r.Type),
		MaxScore:       defaultMaxScore,
		DueDate:        r.DueDate,
		AvailableFrom:  r.AvailableFrom,
		AvailableUntil: r.AvailableUntil,
		TimeLimit:      r.TimeLimit,
		Attempts:       r.Attempts,
		Status:         domain.CourseStatus(r.Status),
		Weight:         defaultWeight,
	}
	if r.MaxScore != nil {
		a.MaxScore = *r.MaxScore
	}
	if r.Weight != nil {
		a.Weight = *r.Weight
	}
	return a
}

// --- Admin ---

type changeRoleRequest struct {
	Role string `json:"role"`
}

type bulkData struct {
	Status    string `json:"status"`
	CollegeID string `json:"collegeId"`
}

type bulkRequest struct {
	Operation string   `json:"operation"`
	UserIDs   []string `json:"userIds"`
	Data      bulkData `json:"data"`
}

func (r bulkRequest) toInput() ports.BulkRequest {
	return ports.BulkRequest{
		Operation: r.Operation,
		UserIDs:   r.UserIDs,
		Status:    r.Data.Status,
		CollegeID: r.Data.CollegeID,
	}
}

func putString(p domain.Patch, field string, v *string) {
	if v != nil {
		p[field] = strings.TrimSpace(*v)
	}
}
