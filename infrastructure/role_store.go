package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"role-catalog/domain"
)

// GormRoleStore implements domain.RoleStore on a SQL database through GORM.
type GormRoleStore struct {
	db  *gorm.DB
	now func() time.Time
}

type StoreOption func(*GormRoleStore)

// WithClock overrides the time source used for lifecycle timestamps.
func WithClock(now func() time.Time) StoreOption {
	return func(s *GormRoleStore) {
		s.now = now
	}
}

func NewGormRoleStore(db *gorm.DB, opts ...StoreOption) *GormRoleStore {
	s := &GormRoleStore{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *GormRoleStore) Create(ctx context.Context, f domain.RoleFields) (domain.JobRole, error) {
	if err := f.Validate(); err != nil {
		return domain.JobRole{}, err
	}
	role := domain.NewJobRole(f, s.now())
	if err := s.db.WithContext(ctx).Create(&role).Error; err != nil {
		return domain.JobRole{}, fmt.Errorf("create job role: %w", err)
	}
	return role, nil
}

func (s *GormRoleStore) Get(ctx context.Context, id uint) (domain.JobRole, error) {
	var role domain.JobRole
	if err := s.db.WithContext(ctx).First(&role, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.JobRole{}, domain.ErrNotFound
		}
		return domain.JobRole{}, fmt.Errorf("get job role %d: %w", id, err)
	}
	return role, nil
}

func (s *GormRoleStore) List(ctx context.Context) ([]domain.JobRole, error) {
	return s.Find(ctx, domain.RoleQuery{})
}

// Update replaces every mutable field of role id inside one transaction.
func (s *GormRoleStore) Update(ctx context.Context, id uint, f domain.RoleFields) (domain.JobRole, error) {
	if err := f.Validate(); err != nil {
		return domain.JobRole{}, err
	}
	var role domain.JobRole
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&role, id).Error; err != nil {
			return err
		}
		role.Apply(f)
		domain.StampUpdated(&role, s.now())
		return tx.Model(&role).Select("*").Omit("id", "created_at").Updates(&role).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.JobRole{}, domain.ErrNotFound
		}
		return domain.JobRole{}, fmt.Errorf("update job role %d: %w", id, err)
	}
	return role, nil
}

// Delete removes role id permanently. A second delete of the same id reports
// domain.ErrNotFound.
func (s *GormRoleStore) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&domain.JobRole{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete job role %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *GormRoleStore) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&domain.JobRole{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check job role %d: %w", id, err)
	}
	return count > 0, nil
}

func (s *GormRoleStore) Find(ctx context.Context, q domain.RoleQuery) ([]domain.JobRole, error) {
	tx := applyQuery(s.db.WithContext(ctx).Model(&domain.JobRole{}), q)
	if q.SortByTitle {
		tx = tx.Order("title ASC").Order("id ASC")
	} else {
		tx = tx.Order("id ASC")
	}
	roles := make([]domain.JobRole, 0)
	if err := tx.Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("find job roles: %w", err)
	}
	return roles, nil
}

func (s *GormRoleStore) Count(ctx context.Context, q domain.RoleQuery) (int64, error) {
	var count int64
	if err := applyQuery(s.db.WithContext(ctx).Model(&domain.JobRole{}), q).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count job roles: %w", err)
	}
	return count, nil
}

func (s *GormRoleStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func applyQuery(tx *gorm.DB, q domain.RoleQuery) *gorm.DB {
	if q.EducationLevel != nil {
		tx = tx.Where("education_level = ?", *q.EducationLevel)
	}
	if q.LocationName != nil {
		tx = tx.Where("location_name = ?", *q.LocationName)
	}
	if q.TitleContains != "" {
		tx = tx.Where("LOWER(title) LIKE ? ESCAPE '!'", "%"+escapeLike(strings.ToLower(q.TitleContains))+"%")
	}
	return tx
}

// '!' is used as the LIKE escape because MySQL and SQLite disagree on backslashes.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
