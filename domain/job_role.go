package domain

import (
	"math"
	"time"
)

// JobRole is a catalog entry describing a position and where it is based.
type JobRole struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title          string    `gorm:"size:100;not null" json:"title"`
	Description    string    `gorm:"type:text" json:"description"`
	Prerequisites  string    `gorm:"type:text" json:"prerequisites"`
	EducationLevel string    `gorm:"size:50;index" json:"educationLevel"`
	CourseName     string    `gorm:"size:100" json:"courseName"`
	FollowUpRole   string    `gorm:"size:100" json:"followUpRole"`
	LocationName   string    `gorm:"size:100;index" json:"locationName"`
	Latitude       *float64  `gorm:"type:decimal(10,8)" json:"latitude"`
	Longitude      *float64  `gorm:"type:decimal(11,8)" json:"longitude"`
	CreatedAt      time.Time `gorm:"not null;precision:3;autoCreateTime:false;<-:create" json:"createdAt"`
	UpdatedAt      time.Time `gorm:"not null;precision:3;autoUpdateTime:false" json:"updatedAt"`
}

func (JobRole) TableName() string {
	return "job_roles"
}

// RoleFields is the client-controlled part of a JobRole. Identity and
// timestamps are never taken from a caller.
type RoleFields struct {
	Title          string   `json:"title" validate:"notblank,max=100"`
	Description    string   `json:"description"`
	Prerequisites  string   `json:"prerequisites"`
	EducationLevel string   `json:"educationLevel" validate:"max=50"`
	CourseName     string   `json:"courseName" validate:"max=100"`
	FollowUpRole   string   `json:"followUpRole" validate:"max=100"`
	LocationName   string   `json:"locationName" validate:"max=100"`
	Latitude       *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude      *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
}

// Fields returns the mutable fields of r.
func (r JobRole) Fields() RoleFields {
	return RoleFields{
		Title:          r.Title,
		Description:    r.Description,
		Prerequisites:  r.Prerequisites,
		EducationLevel: r.EducationLevel,
		CourseName:     r.CourseName,
		FollowUpRole:   r.FollowUpRole,
		LocationName:   r.LocationName,
		Latitude:       r.Latitude,
		Longitude:      r.Longitude,
	}
}

// Apply replaces every mutable field of r with f. ID and timestamps are left alone.
func (r *JobRole) Apply(f RoleFields) {
	r.Title = f.Title
	r.Description = f.Description
	r.Prerequisites = f.Prerequisites
	r.EducationLevel = f.EducationLevel
	r.CourseName = f.CourseName
	r.FollowUpRole = f.FollowUpRole
	r.LocationName = f.LocationName
	r.Latitude = roundCoordinate(f.Latitude)
	r.Longitude = roundCoordinate(f.Longitude)
}

// NewJobRole builds an unsaved role from f, stamped with now.
func NewJobRole(f RoleFields, now time.Time) JobRole {
	var r JobRole
	r.Apply(f)
	StampCreated(&r, now)
	return r
}

// TimestampPrecision matches the datetime(3) columns, so a stamped role
// reads back exactly as it was written.
const TimestampPrecision = time.Millisecond

func stamp(now time.Time) time.Time {
	return now.UTC().Truncate(TimestampPrecision)
}

// StampCreated runs before a role is first persisted.
func StampCreated(r *JobRole, now time.Time) {
	now = stamp(now)
	r.CreatedAt = now
	r.UpdatedAt = now
}

// StampUpdated runs before every persisted mutation. updatedAt always lands
// strictly after createdAt, even when the clock stalls or steps backwards.
func StampUpdated(r *JobRole, now time.Time) {
	now = stamp(now)
	if floor := r.CreatedAt.Add(TimestampPrecision); now.Before(floor) {
		now = floor
	}
	r.UpdatedAt = now
}

// coordinates are stored with 8 fractional digits
const coordinateScale = 1e8

func roundCoordinate(v *float64) *float64 {
	if v == nil {
		return nil
	}
	rounded := math.Round(*v*coordinateScale) / coordinateScale
	return &rounded
}
