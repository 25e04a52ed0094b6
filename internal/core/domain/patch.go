package domain

import "sort"

// Patch is a partial update keyed by canonical field name.
type Patch map[string]any

// FieldSet is an allow-list of canonical field names.
type FieldSet map[string]struct{}

func NewFieldSet(fields ...string) FieldSet {
	fs := make(FieldSet, len(fields))
	for _, f := range fields {
		fs[f] = struct{}{}
	}
	return fs
}

func (fs FieldSet) Contains(field string) bool {
	_, ok := fs[field]
	return ok
}

// Names returns the set contents sorted, for logs and tests.
func (fs FieldSet) Names() []string {
	out := make([]string, 0, len(fs))
	for f := range fs {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

func (p Patch) Has(field string) bool {
	_, ok := p[field]
	return ok
}

// Restrict returns the subset of p whose keys are in allowed.
// Keys outside the set are silently dropped.
func (p Patch) Restrict(allowed FieldSet) Patch {
	out := make(Patch, len(p))
	for k, v := range p {
		if allowed.Contains(k) {
			out[k] = v
		}
	}
	return out
}

// String returns the value of a string-typed field, if present.
func (p Patch) String(field string) (string, bool) {
	v, ok := p[field]
	if !ok {
		return "", false
	}
	switch s := v.(type) {
	case string:
		return s, true
	case Role:
		return string(s), true
	case UserStatus:
		return string(s), true
	case CourseStatus:
		return string(s), true
	case CollegeStatus:
		return string(s), true
	}
	return "", false
}
