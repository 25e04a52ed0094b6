package domain

// Resource names a protected entity type.
type Resource string

const (
	ResourceUser    Resource = "user"
	ResourceCollege Resource = "college"
	ResourceCourse  Resource = "course"
)

// AllResources lists every resource covered by the policy table.
func AllResources() []Resource {
	return []Resource{ResourceUser, ResourceCollege, ResourceCourse}
}

// Action names an operation on a resource.
type Action string

const (
	ActionRead          Action = "read"
	ActionCreate        Action = "create"
	ActionUpdate        Action = "update"
	ActionDelete        Action = "delete"
	ActionChangeRole    Action = "change_role"
	ActionViewHidden    Action = "view_hidden"
	ActionViewMembers   Action = "view_members"
	ActionViewContent   Action = "view_content"
	ActionCreateContent Action = "create_content"
	ActionEnroll        Action = "enroll"
)

// Scope is a bitmask of the relations under which an action is granted.
type Scope uint8

const (
	ScopeOwn Scope = 1 << iota
	ScopeCollege
	ScopeEnrolled
	ScopeAny

	ScopeNone Scope = 0
)

// Relation describes how the requester relates to one resource instance.
// Own means self for users and the assigned lecturer for courses.
type Relation struct {
	Own         bool
	SameCollege bool
	Enrolled    bool
}

func (s Scope) permits(rel Relation) bool {
	switch {
	case s&ScopeAny != 0:
		return true
	case s&ScopeOwn != 0 && rel.Own:
		return true
	case s&ScopeCollege != 0 && rel.SameCollege:
		return true
	case s&ScopeEnrolled != 0 && rel.Enrolled:
		return true
	}
	return false
}

type fieldGrant struct {
	scope  Scope
	fields FieldSet
}

type rule struct {
	actions map[Action]Scope
	// fields is checked in order; the first grant whose scope permits wins.
	fields []fieldGrant
}

var (
	ownProfileFields = NewFieldSet(
		UserFieldFirstName, UserFieldLastName, UserFieldPhoneNumber,
		UserFieldDateOfBirth, UserFieldAddress,
	)
	adminUserFields = NewFieldSet(
		UserFieldFirstName, UserFieldLastName, UserFieldEmail, UserFieldRole,
		UserFieldStatus, UserFieldPhoneNumber, UserFieldDateOfBirth,
		UserFieldAddress, UserFieldCollegeID,
	)
	collegeFields = NewFieldSet(
		CollegeFieldName, CollegeFieldDescription, CollegeFieldCode,
		CollegeFieldAddress, CollegeFieldPhoneNumber, CollegeFieldEmail,
		CollegeFieldWebsite, CollegeFieldLogo, CollegeFieldEstablishedYear,
		CollegeFieldStatus,
	)
	courseContentFields = NewFieldSet(
		CourseFieldTitle, CourseFieldDescription, CourseFieldCode,
		CourseFieldCredits, CourseFieldDuration, CourseFieldLevel,
		CourseFieldCategory, CourseFieldPrerequisites,
		CourseFieldLearningOutcomes, CourseFieldSyllabus, CourseFieldThumbnail,
		CourseFieldStatus, CourseFieldStartDate, CourseFieldEndDate,
		CourseFieldEnrollmentLimit, CourseFieldPrice, CourseFieldLanguage,
	)
	adminCourseFields = union(courseContentFields, NewFieldSet(CourseFieldCollegeID, CourseFieldLecturerID))
)

func union(sets ...FieldSet) FieldSet {
	out := FieldSet{}
	for _, s := range sets {
		for f := range s {
			out[f] = struct{}{}
		}
	}
	return out
}

// policy is the single source of truth for who may do what.
// Every role has an entry for every resource.
var policy = map[Resource]map[Role]rule{
	ResourceUser: {
		RoleStudent:      selfServiceUser(),
		RoleLecturer:     selfServiceUser(),
		RoleCollegeAdmin: selfServiceUser(),
		RoleAdmin: {
			actions: map[Action]Scope{
				ActionRead:       ScopeAny,
				ActionCreate:     ScopeAny,
				ActionUpdate:     ScopeAny,
				ActionDelete:     ScopeAny,
				ActionChangeRole: ScopeAny,
			},
			fields: []fieldGrant{{ScopeAny, adminUserFields}},
		},
	},
	ResourceCollege: {
		RoleStudent:  readOnlyCollege(),
		RoleLecturer: readOnlyCollege(),
		RoleCollegeAdmin: {
			actions: map[Action]Scope{
				ActionRead:        ScopeAny,
				ActionViewMembers: ScopeCollege,
			},
		},
		RoleAdmin: {
			actions: map[Action]Scope{
				ActionRead:        ScopeAny,
				ActionCreate:      ScopeAny,
				ActionUpdate:      ScopeAny,
				ActionDelete:      ScopeAny,
				ActionViewHidden:  ScopeAny,
				ActionViewMembers: ScopeAny,
			},
			fields: []fieldGrant{{ScopeAny, collegeFields}},
		},
	},
	ResourceCourse: {
		RoleStudent: {
			actions: map[Action]Scope{
				ActionRead:        ScopeAny,
				ActionEnroll:      ScopeAny,
				ActionViewContent: ScopeEnrolled,
			},
		},
		RoleLecturer: {
			actions: map[Action]Scope{
				ActionRead:          ScopeAny,
				ActionCreate:        ScopeAny,
				ActionUpdate:        ScopeOwn,
				ActionViewHidden:    ScopeOwn,
				ActionViewMembers:   ScopeOwn,
				ActionViewContent:   ScopeOwn | ScopeEnrolled,
				ActionCreateContent: ScopeOwn,
			},
			fields: []fieldGrant{{ScopeOwn, courseContentFields}},
		},
		RoleCollegeAdmin: {
			actions: map[Action]Scope{
				ActionRead:        ScopeAny,
				ActionViewContent: ScopeEnrolled,
			},
		},
		RoleAdmin: {
			actions: map[Action]Scope{
				ActionRead:          ScopeAny,
				ActionCreate:        ScopeAny,
				ActionUpdate:        ScopeAny,
				ActionDelete:        ScopeAny,
				ActionViewHidden:    ScopeAny,
				ActionViewMembers:   ScopeAny,
				ActionViewContent:   ScopeAny,
				ActionCreateContent: ScopeAny,
			},
			fields: []fieldGrant{{ScopeAny, adminCourseFields}},
		},
	},
}

func selfServiceUser() rule {
	return rule{
		actions: map[Action]Scope{
			ActionRead:   ScopeOwn,
			ActionUpdate: ScopeOwn,
		},
		fields: []fieldGrant{{ScopeOwn, ownProfileFields}},
	}
}

func readOnlyCollege() rule {
	return rule{actions: map[Action]Scope{ActionRead: ScopeAny}}
}

func lookup(role Role, res Resource) (rule, bool) {
	byRole, ok := policy[res]
	if !ok {
		return rule{}, false
	}
	r, ok := byRole[role]
	return r, ok
}

// Authorize reports whether role may perform act on res given rel.
// Unknown roles, resources and actions are denied.
func Authorize(role Role, res Resource, act Action, rel Relation) bool {
	r, ok := lookup(role, res)
	if !ok {
		return false
	}
	return r.actions[act].permits(rel)
}

// UpdatableFields returns the fields role may write on res given rel.
// The result is empty when no grant applies.
func UpdatableFields(role Role, res Resource, rel Relation) FieldSet {
	r, ok := lookup(role, res)
	if !ok {
		return FieldSet{}
	}
	for _, g := range r.fields {
		if g.scope.permits(rel) {
			return union(g.fields)
		}
	}
	return FieldSet{}
}

// ProfileFields is the allow-list for a user editing their own profile.
func ProfileFields() FieldSet { return union(ownProfileFields) }
