package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ContentTypeIdea     = "idea"
	ContentTypeResource = "resource"
	ContentTypeWebinar  = "webinar"
	ContentTypeLecture  = "lecture"
)

const (
	StatusIdea       = "idea"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// RequiresLink reports whether content of this type must carry a link.
func RequiresLink(contentType string) bool {
	switch contentType {
	case ContentTypeResource, ContentTypeWebinar, ContentTypeLecture:
		return true
	}
	return false
}

type Content struct {
	ID                     uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	ContentType            string             `gorm:"size:20;not null;default:idea;index" json:"content_type"`
	Title                  string             `gorm:"size:255;not null" json:"title"`
	Slug                   string             `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Description            string             `gorm:"type:text;not null" json:"description"`
	Link                   string             `gorm:"size:500" json:"link"`
	AuthorID               uuid.UUID          `gorm:"type:uuid;not null;index" json:"author_id"`
	Author                 User               `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	ScientificFields       []*ScientificField `gorm:"many2many:content_scientific_fields;constraint:OnDelete:CASCADE" json:"scientific_fields"`
	Keywords               string             `gorm:"size:500" json:"keywords"`
	Status                 string             `gorm:"size:20;not null;default:idea;index" json:"status"`
	IsPublic               bool               `gorm:"not null;default:true;index" json:"is_public"`
	IsOpenForCollaboration bool               `gorm:"not null;default:true" json:"is_open_for_collaboration"`
	ViewsCount             int64              `gorm:"not null;default:0" json:"views_count"`
	CreatedAt              time.Time          `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt              time.Time          `gorm:"autoUpdateTime" json:"updated_at"`
}

func (c *Content) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID, err = uuid.NewV7()
	}
	return
}

// VisibleTo reports whether viewer may see the content. A nil viewer is anonymous.
func (c *Content) VisibleTo(viewer *uuid.UUID) bool {
	return c.IsPublic || (viewer != nil && *viewer == c.AuthorID)
}
