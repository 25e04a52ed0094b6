package domain

import "time"

type CollegeStatus string

const (
	CollegeActive   CollegeStatus = "active"
	CollegeInactive CollegeStatus = "inactive"
)

const (
	CollegeFieldName            = "name"
	CollegeFieldDescription     = "description"
	CollegeFieldCode            = "code"
	CollegeFieldAddress         = "address"
	CollegeFieldPhoneNumber     = "phone_number"
	CollegeFieldEmail           = "email"
	CollegeFieldWebsite         = "website"
	CollegeFieldLogo            = "logo"
	CollegeFieldEstablishedYear = "established_year"
	CollegeFieldStatus          = "status"
)

// College groups users and courses; college admins are scoped to one.
type College struct {
	ID              string        `json:"id" bson:"_id"`
	Name            string        `json:"name" bson:"name"`
	Description     string        `json:"description,omitempty" bson:"description,omitempty"`
	Code            string        `json:"code" bson:"code"`
	Address         string        `json:"address,omitempty" bson:"address,omitempty"`
	PhoneNumber     string        `json:"phoneNumber,omitempty" bson:"phone_number,omitempty"`
	Email           string        `json:"email,omitempty" bson:"email,omitempty"`
	Website         string        `json:"website,omitempty" bson:"website,omitempty"`
	Logo            string        `json:"logo,omitempty" bson:"logo,omitempty"`
	EstablishedYear int           `json:"establishedYear,omitempty" bson:"established_year,omitempty"`
	Status          CollegeStatus `json:"status" bson:"status"`
	CreatedAt       time.Time     `json:"createdAt" bson:"created_at"`
	UpdatedAt       time.Time     `json:"updatedAt" bson:"updated_at"`
}

// CollegeRef is the compact college projection embedded in other resources.
type CollegeRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

func (c *College) Ref() *CollegeRef {
	if c == nil {
		return nil
	}
	return &CollegeRef{ID: c.ID, Name: c.Name, Code: c.Code}
}
