package domain

import (
	"context"
	"strings"
)

// RoleStore owns persisted job roles. Every write is durable and atomic for
// the single record it touches before the call returns.
type RoleStore interface {
	Create(ctx context.Context, f RoleFields) (JobRole, error)
	Get(ctx context.Context, id uint) (JobRole, error)
	List(ctx context.Context) ([]JobRole, error)
	Update(ctx context.Context, id uint, f RoleFields) (JobRole, error)
	Delete(ctx context.Context, id uint) error
	Exists(ctx context.Context, id uint) (bool, error)

	Find(ctx context.Context, q RoleQuery) ([]JobRole, error)
	Count(ctx context.Context, q RoleQuery) (int64, error)
	Ping(ctx context.Context) error
}

// RoleQuery is a conjunction of optional filters. A nil pointer leaves that
// column unconstrained; an empty TitleContains matches every title.
type RoleQuery struct {
	EducationLevel *string
	LocationName   *string
	// case-insensitive substring of title
	TitleContains string
	SortByTitle   bool
}

// Matches reports whether r satisfies every filter in q.
func (q RoleQuery) Matches(r JobRole) bool {
	if q.EducationLevel != nil && r.EducationLevel != *q.EducationLevel {
		return false
	}
	if q.LocationName != nil && r.LocationName != *q.LocationName {
		return false
	}
	if q.TitleContains != "" && !containsFold(r.Title, q.TitleContains) {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
