package model

import (
	"strings"
	"time"
)

type File struct {
	ID int `json:"id"`
	// UUID is the file's content identity. The content store addresses bytes by
	// this value, never by name, so renames and moves don't touch the content.
	UUID      string  `json:"uuid" gorm:"uniqueIndex"`
	Name      string  `json:"name" gorm:"uniqueIndex:idx_files_parent_name"`
	OwnerID   int     `json:"owner_id"`
	ParentID  int     `json:"parent_id" gorm:"uniqueIndex:idx_files_parent_name"`
	Size      int64   `json:"size"`
	Parent    *Folder `json:"parent,omitempty" gorm:"foreignKey:ParentID;references:ID"`
	Owner     *User   `json:"owner,omitempty" gorm:"foreignKey:OwnerID;references:ID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (File) TableName() string {
	return "files"
}

func (f *File) GetID() int {
	return f.ID
}

func (f *File) GetName() string {
	return f.Name
}

func (f *File) GetOwnerID() int {
	return f.OwnerID
}

func (f *File) GetParentID() int {
	return f.ParentID
}

func (f *File) IsDir() bool {
	return false
}

// Ext returns the extension of the file name, including the leading dot, starting
// at the last '.'. Returns "" when the name has no dot.
func (f *File) Ext() string {
	idx := strings.LastIndex(f.Name, ".")
	if idx == -1 {
		return ""
	}

	return f.Name[idx:]
}

// TypeKey is the synthetic sort key used when ordering files by type: the
// substring after the last '.', or the whole name when there is no dot.
func (f *File) TypeKey() string {
	idx := strings.LastIndex(f.Name, ".")
	if idx == -1 {
		return f.Name
	}

	return f.Name[idx+1:]
}
