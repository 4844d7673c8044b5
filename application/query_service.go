// Package application holds the read-side search operations layered over the
// job role store.
package application

import (
	"context"

	"role-catalog/domain"
)

// QueryService answers filtered reads. It never mutates the store and each
// call sees whatever the store has committed at that moment.
type QueryService struct {
	store domain.RoleStore
}

func NewQueryService(store domain.RoleStore) *QueryService {
	return &QueryService{store: store}
}

// ByEducationLevel returns roles whose education level equals value exactly.
func (s *QueryService) ByEducationLevel(ctx context.Context, value string) ([]domain.JobRole, error) {
	return s.store.Find(ctx, domain.RoleQuery{EducationLevel: &value})
}

// ByLocationName returns roles whose location name equals value exactly.
func (s *QueryService) ByLocationName(ctx context.Context, value string) ([]domain.JobRole, error) {
	return s.store.Find(ctx, domain.RoleQuery{LocationName: &value})
}

// ByTitleContains returns roles whose title contains fragment, ignoring case.
func (s *QueryService) ByTitleContains(ctx context.Context, fragment string) ([]domain.JobRole, error) {
	return s.store.Find(ctx, domain.RoleQuery{TitleContains: fragment})
}

func (s *QueryService) ByEducationAndLocation(ctx context.Context, edu, loc string) ([]domain.JobRole, error) {
	return s.store.Find(ctx, domain.RoleQuery{EducationLevel: &edu, LocationName: &loc})
}

func (s *QueryService) AllSortedByTitle(ctx context.Context) ([]domain.JobRole, error) {
	return s.store.Find(ctx, domain.RoleQuery{SortByTitle: true})
}

func (s *QueryService) CountByEducationLevel(ctx context.Context, value string) (int64, error) {
	return s.store.Count(ctx, domain.RoleQuery{EducationLevel: &value})
}

func (s *QueryService) ExistsByLocationName(ctx context.Context, value string) (bool, error) {
	n, err := s.store.Count(ctx, domain.RoleQuery{LocationName: &value})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
