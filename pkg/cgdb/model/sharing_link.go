package model

import "time"

// SharingLink binds an unguessable token to one file. Deleting the file deletes
// all of its links.
type SharingLink struct {
	ID        int    `json:"id"`
	URLID     string `json:"url_id" gorm:"uniqueIndex"`
	FileID    int    `json:"file_id" gorm:"index"`
	File      *File  `json:"file,omitempty" gorm:"foreignKey:FileID;references:ID"`
	CreatedAt time.Time
}

func (SharingLink) TableName() string {
	return "sharing_links"
}
