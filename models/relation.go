package models

import (
	"time"
)

const (
	RelationFollow = "follow"
	RelationBlock  = "block"
)

// ValidRelationType reports whether the value is one of the relation types.
func ValidRelationType(relationType string) bool {
	return relationType == RelationFollow || relationType == RelationBlock
}

// Relation is a directional edge from the source user to the target user.
// A user may hold one relation of each type toward the same target, so the
// uniqueness constraint spans the full (source, target, type) triple.
type Relation struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	SourceUserID uint      `gorm:"not null;uniqueIndex:idx_relation_edge,priority:1" json:"source_user_id"`
	TargetUserID uint      `gorm:"not null;uniqueIndex:idx_relation_edge,priority:2" json:"target_user_id"`
	Type         string    `gorm:"not null;size:10;uniqueIndex:idx_relation_edge,priority:3" json:"type"`
	CreatedAt    time.Time `json:"created_at"`

	SourceUser User `gorm:"foreignKey:SourceUserID" json:"-"`
	TargetUser User `gorm:"foreignKey:TargetUserID" json:"-"`
}

func (r *Relation) ResourceOwnerID() uint {
	return r.SourceUserID
}
