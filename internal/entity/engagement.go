package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Like marks that UserID liked ContentID. At most one row per pair.
type Like struct {
	ContentID uuid.UUID `gorm:"type:uuid;primaryKey;index:idx_likes_unique,unique,priority:1" json:"content_id"`
	Content   Content   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey;index:idx_likes_unique,unique,priority:2" json:"user_id"`
	User      User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type Comment struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ContentID uuid.UUID  `gorm:"type:uuid;not null;index" json:"content_id"`
	Content   Content    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	AuthorID  uuid.UUID  `gorm:"type:uuid;not null" json:"author_id"`
	Author    User       `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	ParentID  *uuid.UUID `gorm:"type:uuid;index" json:"parent_id,omitempty"`
	Parent    *Comment   `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE" json:"-"`
	Replies   []*Comment `gorm:"foreignKey:ParentID" json:"replies,omitempty"`
	Text      string     `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID, err = uuid.NewV7()
	}
	return
}

// IsReply reports whether the comment hangs under another comment.
func (c *Comment) IsReply() bool {
	return c.ParentID != nil
}
