package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleStudent    = "student"
	RoleTeacher    = "teacher"
	RoleResearcher = "researcher"
)

const (
	EducationIncompleteSecondary = "incomplete_secondary"
	EducationSecondary           = "secondary"
	EducationBachelor            = "bachelor"
	EducationMaster              = "master"
	EducationPhD                 = "phd"
	EducationDoctor              = "doctor"
)

type Institution struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type User struct {
	ID             uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	Email          string       `gorm:"size:254;uniqueIndex;not null" json:"email"`
	Username       string       `gorm:"size:150;uniqueIndex;not null" json:"username"`
	PasswordHash   string       `gorm:"size:255;not null" json:"-"`
	Role           string       `gorm:"size:20;not null" json:"role"`
	InstitutionID  *uint        `json:"institution_id"`
	Institution    *Institution `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"institution,omitempty"`
	EducationLevel string       `gorm:"size:30;not null;default:bachelor" json:"education_level"`

	AvatarURL           *string `gorm:"type:text" json:"avatar_url,omitempty"`
	Bio                 string  `gorm:"type:text" json:"bio"`
	ScientificInterests string  `gorm:"type:text" json:"scientific_interests"`
	Publications        string  `gorm:"type:text" json:"publications"`
	ORCID               string  `gorm:"column:orcid;size:50" json:"orcid"`
	GoogleScholar       string  `gorm:"size:200" json:"google_scholar"`
	Scopus              string  `gorm:"size:200" json:"scopus"`
	WebOfScience        string  `gorm:"size:200" json:"web_of_science"`

	IsVerified bool      `gorm:"default:false" json:"is_verified"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// InstitutionName is empty when the user has no institution.
func (u *User) InstitutionName() string {
	if u.Institution == nil {
		return ""
	}
	return u.Institution.Name
}

// Follow is a directed edge: FollowerID follows FollowingID.
type Follow struct {
	FollowerID  uuid.UUID `gorm:"type:uuid;primaryKey;index:idx_follows_pair,unique,priority:1"`
	Follower    User      `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE" json:"-"`
	FollowingID uuid.UUID `gorm:"type:uuid;primaryKey;index:idx_follows_pair,unique,priority:2;index:idx_follows_following"`
	Following   User      `gorm:"foreignKey:FollowingID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}
