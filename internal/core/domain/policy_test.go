package domain

import "testing"

func TestPolicyCoversEveryRoleAndResource(t *testing.T) {
	for _, res := range AllResources() {
		byRole, ok := policy[res]
		if !ok {
			t.Fatalf("resource %s missing from policy table", res)
		}
		for _, role := range AllRoles() {
			r, ok := byRole[role]
			if !ok {
				t.Fatalf("role %s has no entry for resource %s", role, res)
			}
			if !r.actions[ActionRead].permits(Relation{Own: true, SameCollege: true, Enrolled: true}) {
				t.Fatalf("role %s cannot read %s even with every relation", role, res)
			}
		}
		if len(byRole) != len(AllRoles()) {
			t.Fatalf("resource %s has %d role entries, want %d", res, len(byRole), len(AllRoles()))
		}
	}
}

func TestAuthorize_UserResource(t *testing.T) {
	cases := []struct {
		name string
		role Role
		act  Action
		rel  Relation
		want bool
	}{
		{"student reads self", RoleStudent, ActionRead, Relation{Own: true}, true},
		{"student reads other", RoleStudent, ActionRead, Relation{}, false},
		{"lecturer updates other", RoleLecturer, ActionUpdate, Relation{}, false},
		{"college admin reads same-college user", RoleCollegeAdmin, ActionRead, Relation{SameCollege: true}, false},
		{"admin reads anyone", RoleAdmin, ActionRead, Relation{}, true},
		{"admin deletes anyone", RoleAdmin, ActionDelete, Relation{}, true},
		{"student deletes self", RoleStudent, ActionDelete, Relation{Own: true}, false},
		{"student changes own role", RoleStudent, ActionChangeRole, Relation{Own: true}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Authorize(tc.role, ResourceUser, tc.act, tc.rel); got != tc.want {
				t.Fatalf("Authorize = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestAuthorize_CourseResource(t *testing.T) {
	if !Authorize(RoleLecturer, ResourceCourse, ActionUpdate, Relation{Own: true}) {
		t.Fatalf("owning lecturer should update course")
	}
	if Authorize(RoleLecturer, ResourceCourse, ActionUpdate, Relation{}) {
		t.Fatalf("non-owning lecturer must not update course")
	}
	if !Authorize(RoleStudent, ResourceCourse, ActionViewContent, Relation{Enrolled: true}) {
		t.Fatalf("enrolled student should view content")
	}
	if Authorize(RoleStudent, ResourceCourse, ActionViewContent, Relation{}) {
		t.Fatalf("unenrolled student must not view content")
	}
	if Authorize(RoleStudent, ResourceCourse, ActionViewHidden, Relation{Enrolled: true}) {
		t.Fatalf("student must not view unpublished course")
	}
	if Authorize(RoleLecturer, ResourceCourse, ActionDelete, Relation{Own: true}) {
		t.Fatalf("only admin deletes courses")
	}
}

func TestAuthorize_CollegeMembers(t *testing.T) {
	if !Authorize(RoleCollegeAdmin, ResourceCollege, ActionViewMembers, Relation{SameCollege: true}) {
		t.Fatalf("college admin should view own college members")
	}
	if Authorize(RoleCollegeAdmin, ResourceCollege, ActionViewMembers, Relation{}) {
		t.Fatalf("college admin must not view other college members")
	}
	if Authorize(RoleLecturer, ResourceCollege, ActionViewMembers, Relation{SameCollege: true}) {
		t.Fatalf("lecturer must not view college members")
	}
}

func TestAuthorize_UnknownRoleDenied(t *testing.T) {
	for _, res := range AllResources() {
		if Authorize(Role("superuser"), res, ActionRead, Relation{Own: true}) {
			t.Fatalf("unknown role granted read on %s", res)
		}
	}
}

func TestUpdatableFields(t *testing.T) {
	own := UpdatableFields(RoleStudent, ResourceUser, Relation{Own: true})
	for _, f := range []string{UserFieldRole, UserFieldStatus, UserFieldEmail, UserFieldCollegeID, UserFieldPasswordHash} {
		if own.Contains(f) {
			t.Fatalf("self-service field set contains %s", f)
		}
	}
	if !own.Contains(UserFieldFirstName) {
		t.Fatalf("self-service field set missing first_name")
	}

	admin := UpdatableFields(RoleAdmin, ResourceUser, Relation{})
	if !admin.Contains(UserFieldRole) || !admin.Contains(UserFieldEmail) {
		t.Fatalf("admin field set = %v", admin.Names())
	}
	if admin.Contains(UserFieldPasswordHash) {
		t.Fatalf("admin field set must never include password hash")
	}

	if got := UpdatableFields(RoleStudent, ResourceUser, Relation{}); len(got) != 0 {
		t.Fatalf("student editing another user got fields %v", got.Names())
	}

	lecturer := UpdatableFields(RoleLecturer, ResourceCourse, Relation{Own: true})
	if lecturer.Contains(CourseFieldLecturerID) || lecturer.Contains(CourseFieldCollegeID) {
		t.Fatalf("owning lecturer may not reassign course: %v", lecturer.Names())
	}
	if !lecturer.Contains(CourseFieldTitle) {
		t.Fatalf("owning lecturer should edit title")
	}
}

func TestUpdatableFields_ReturnsCopy(t *testing.T) {
	fs := UpdatableFields(RoleAdmin, ResourceUser, Relation{})
	fs["password_hash"] = struct{}{}
	if UpdatableFields(RoleAdmin, ResourceUser, Relation{}).Contains("password_hash") {
		t.Fatalf("caller mutation leaked into policy table")
	}
}

func TestPatchRestrict(t *testing.T) {
	p := Patch{
		UserFieldFirstName: "Ada",
		UserFieldRole:      "admin",
		"unknown":          1,
	}
	got := p.Restrict(ProfileFields())
	if len(got) != 1 || got[UserFieldFirstName] != "Ada" {
		t.Fatalf("Restrict = %v", got)
	}
}
