package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/hbiu/lms-backend/internal/core/domain"
	"github.com/hbiu/lms-backend/internal/core/ports"
)

func newID() string { return uuid.NewString() }

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func collegeIndex(ctx context.Context, repo ports.CollegeRepository, ids []string) (map[string]*domain.College, error) {
	ids = uniqueIDs(ids)
	idx := make(map[string]*domain.College, len(ids))
	if len(ids) == 0 {
		return idx, nil
	}
	colleges, err := repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load colleges: %w", err)
	}
	for _, c := range colleges {
		idx[c.ID] = c
	}
	return idx, nil
}

func userIndex(ctx context.Context, repo ports.UserRepository, ids []string) (map[string]*domain.User, error) {
	ids = uniqueIDs(ids)
	idx := make(map[string]*domain.User, len(ids))
	if len(ids) == 0 {
		return idx, nil
	}
	users, err := repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	for _, u := range users {
		idx[u.ID] = u
	}
	return idx, nil
}

// collegeRef resolves a single optional college reference. A dangling id
// yields a nil reference rather than an error.
func collegeRef(ctx context.Context, repo ports.CollegeRepository, id string) (*domain.CollegeRef, error) {
	if id == "" {
		return nil, nil
	}
	c, err := repo.FindByID(ctx, id)
	if errors.Is(err, domain.ErrCollegeNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load college: %w", err)
	}
	return c.Ref(), nil
}

func userView(ctx context.Context, colleges ports.CollegeRepository, u *domain.User) (*ports.UserView, error) {
	ref, err := collegeRef(ctx, colleges, u.CollegeID)
	if err != nil {
		return nil, err
	}
	return &ports.UserView{User: u.Sanitized(), College: ref}, nil
}

func userViews(ctx context.Context, colleges ports.CollegeRepository, users []*domain.User) ([]*ports.UserView, error) {
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.CollegeID)
	}
	idx, err := collegeIndex(ctx, colleges, ids)
	if err != nil {
		return nil, err
	}
	out := make([]*ports.UserView, 0, len(users))
	for _, u := range users {
		out = append(out, &ports.UserView{User: u.Sanitized(), College: idx[u.CollegeID].Ref()})
	}
	return out, nil
}

func sanitizeAll(users []*domain.User) []*domain.User {
	out := make([]*domain.User, 0, len(users))
	for _, u := range users {
		out = append(out, u.Sanitized())
	}
	return out
}

func courseViews(ctx context.Context, users ports.UserRepository, colleges ports.CollegeRepository, courses []*domain.Course) ([]*ports.CourseView, error) {
	lecturerIDs := make([]string, 0, len(courses))
	collegeIDs := make([]string, 0, len(courses))
	for _, c := range courses {
		lecturerIDs = append(lecturerIDs, c.LecturerID)
		collegeIDs = append(collegeIDs, c.CollegeID)
	}
	lecturers, err := userIndex(ctx, users, lecturerIDs)
	if err != nil {
		return nil, err
	}
	cols, err := collegeIndex(ctx, colleges, collegeIDs)
	if err != nil {
		return nil, err
	}
	out := make([]*ports.CourseView, 0, len(courses))
	for _, c := range courses {
		out = append(out, &ports.CourseView{
			Course:   c,
			Lecturer: lecturers[c.LecturerID].Ref(),
			College:  cols[c.CollegeID].Ref(),
		})
	}
	return out, nil
}

func courseView(ctx context.Context, users ports.UserRepository, colleges ports.CollegeRepository, c *domain.Course) (*ports.CourseView, error) {
	views, err := courseViews(ctx, users, colleges, []*domain.Course{c})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// enrollmentViews hydrates enrollments with their course (and its lecturer
// and college) and/or their user.
func enrollmentViews(ctx context.Context, users ports.UserRepository, colleges ports.CollegeRepository, courses ports.CourseRepository, enrollments []*domain.Enrollment, withCourse, withUser bool) ([]*ports.EnrollmentView, error) {
	out := make([]*ports.EnrollmentView, 0, len(enrollments))
	for _, e := range enrollments {
		out = append(out, &ports.EnrollmentView{Enrollment: e})
	}
	if len(enrollments) == 0 {
		return out, nil
	}

	if withCourse {
		courseIDs := make([]string, 0, len(enrollments))
		for _, e := range enrollments {
			courseIDs = append(courseIDs, e.CourseID)
		}
		list, err := courses.FindByIDs(ctx, uniqueIDs(courseIDs))
		if err != nil {
			return nil, fmt.Errorf("load courses: %w", err)
		}
		views, err := courseViews(ctx, users, colleges, list)
		if err != nil {
			return nil, err
		}
		byID := make(map[string]*ports.CourseView, len(views))
		for _, v := range views {
			byID[v.ID] = v
		}
		for _, ev := range out {
			if cv, ok := byID[ev.CourseID]; ok {
				ev.Course = &ports.EnrolledCourse{CourseRef: cv.Course.Ref(), Lecturer: cv.Lecturer, College: cv.College}
			}
		}
	}

	if withUser {
		userIDs := make([]string, 0, len(enrollments))
		for _, e := range enrollments {
			userIDs = append(userIDs, e.UserID)
		}
		idx, err := userIndex(ctx, users, userIDs)
		if err != nil {
			return nil, err
		}
		for _, ev := range out {
			ev.User = idx[ev.UserID].Ref()
		}
	}
	return out, nil
}
