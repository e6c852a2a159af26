package model

import (
	"strings"
	"time"
)

type App struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description" yaml:"description"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"updated_at"`
}

type Block struct {
	ID       string  `json:"id" yaml:"id"`
	AppID    string  `json:"app_id" yaml:"app_id"`
	ParentID *string `json:"parent_id" yaml:"parent_id"`

	Type        BlockType      `json:"type" yaml:"type"`
	Title       string         `json:"title" yaml:"title"`
	Description string         `json:"description" yaml:"description"`
	Status      BlockStatus    `json:"status" yaml:"status"`
	Priority    *BlockPriority `json:"priority" yaml:"priority"`
	Notes       string         `json:"notes" yaml:"notes"`
	Order       int            `json:"order" yaml:"order"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// IsRoot reports whether the block sits at the top of its app's tree.
func (b Block) IsRoot() bool {
	return b.ParentID == nil
}

// HasParent reports whether b is a direct child of parentID (nil = root).
func (b Block) HasParent(parentID *string) bool {
	return SameParent(b.ParentID, parentID)
}

func (b Block) Deprecated() bool {
	return b.Status == StatusDeprecated
}

// SameParent compares two optional parent ids; nil only equals nil.
func SameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// NewApp returns an App with a fresh id and both timestamps set to now.
func NewApp(name string, now time.Time) App {
	now = now.UTC()
	return App{
		ID:        NewID(),
		Name:      strings.TrimSpace(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewBlock returns a not-started block titled after its type ("New Feature").
func NewBlock(typ BlockType, appID string, parentID *string, order int, now time.Time) Block {
	now = now.UTC()
	return Block{
		ID:        NewID(),
		AppID:     appID,
		ParentID:  CopyID(parentID),
		Type:      typ,
		Title:     "New " + typ.Label(),
		Status:    StatusNotStarted,
		Order:     order,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CopyID returns a detached copy of an optional id so callers cannot alias stored records.
func CopyID(id *string) *string {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func StrPtr(s string) *string {
	return &s
}
