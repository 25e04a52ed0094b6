package domain

import "time"

// Canonical user field names. They double as storage column / document keys.
const (
	UserFieldFirstName      = "first_name"
	UserFieldLastName       = "last_name"
	UserFieldEmail          = "email"
	UserFieldPasswordHash   = "password_hash"
	UserFieldRole           = "role"
	UserFieldStatus         = "status"
	UserFieldStudentID      = "student_id"
	UserFieldPhoneNumber    = "phone_number"
	UserFieldDateOfBirth    = "date_of_birth"
	UserFieldAddress        = "address"
	UserFieldProfilePicture = "profile_picture"
	UserFieldLastLogin      = "last_login"
	UserFieldCollegeID      = "college_id"
)

// User models an authenticated actor in the system.
type User struct {
	ID             string     `json:"id" bson:"_id"`
	FirstName      string     `json:"firstName" bson:"first_name"`
	LastName       string     `json:"lastName" bson:"last_name"`
	Email          string     `json:"email" bson:"email"`
	PasswordHash   string     `json:"-" bson:"password_hash"`
	Role           Role       `json:"role" bson:"role"`
	Status         UserStatus `json:"status" bson:"status"`
	StudentID      string     `json:"studentId,omitempty" bson:"student_id,omitempty"`
	PhoneNumber    string     `json:"phoneNumber,omitempty" bson:"phone_number,omitempty"`
	DateOfBirth    string     `json:"dateOfBirth,omitempty" bson:"date_of_birth,omitempty"`
	Address        string     `json:"address,omitempty" bson:"address,omitempty"`
	ProfilePicture string     `json:"profilePicture,omitempty" bson:"profile_picture,omitempty"`
	EmailVerified  bool       `json:"emailVerified" bson:"email_verified"`
	LastLogin      *time.Time `json:"lastLogin,omitempty" bson:"last_login,omitempty"`
	CollegeID      string     `json:"collegeId,omitempty" bson:"college_id,omitempty"`
	CreatedAt      time.Time  `json:"createdAt" bson:"created_at"`
	UpdatedAt      time.Time  `json:"updatedAt" bson:"updated_at"`
}

// IsActive reports whether the account may authenticate.
func (u *User) IsActive() bool { return u.Status == UserActive }

// Sanitized returns a copy without credential material.
func (u *User) Sanitized() *User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.PasswordHash = ""
	return &clone
}

// UserRef is the compact user projection embedded in other resources.
type UserRef struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	StudentID string `json:"studentId,omitempty"`
}

func (u *User) Ref() *UserRef {
	if u == nil {
		return nil
	}
	return &UserRef{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName, Email: u.Email, StudentID: u.StudentID}
}
