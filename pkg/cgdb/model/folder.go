package model

import "time"

// RootFolderName is the name every user's root folder is created with.
const RootFolderName = "~root"

type Folder struct {
	ID   int    `json:"id"`
	UUID string `json:"uuid"`
	Name string `json:"name" gorm:"uniqueIndex:idx_folders_owner_parent_name"`
	// The unique index is scoped by owner as well as parent: every root folder
	// shares parent id 0, so without the owner column two users' roots would
	// collide.
	OwnerID int `json:"owner_id" gorm:"uniqueIndex:idx_folders_owner_parent_name"`
	// ParentID is 0 for a root folder. Sibling folder names are unique per parent,
	// enforced at the schema level.
	ParentID  int     `json:"parent_id" gorm:"uniqueIndex:idx_folders_owner_parent_name"`
	Parent    *Folder `json:"parent,omitempty" gorm:"foreignKey:ParentID;references:ID"`
	Owner     *User   `json:"owner,omitempty" gorm:"foreignKey:OwnerID;references:ID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Folder) TableName() string {
	return "folders"
}

func (f *Folder) GetID() int {
	return f.ID
}

func (f *Folder) GetName() string {
	return f.Name
}

func (f *Folder) GetOwnerID() int {
	return f.OwnerID
}

func (f *Folder) GetParentID() int {
	return f.ParentID
}

func (f *Folder) IsDir() bool {
	return true
}

// IsRoot is true for the one folder per user that has no parent.
func (f *Folder) IsRoot() bool {
	return f.ParentID == 0
}
