package model

import "time"

type User struct {
	ID           int     `json:"id"`
	UUID         string  `json:"uuid"`
	Slug         string  `json:"slug" gorm:"uniqueIndex"`
	Username     string  `json:"username" gorm:"uniqueIndex"`
	PasswordHash string  `json:"-"`
	RootFolderID int     `json:"root_folder_id"`
	RootFolder   *Folder `json:"root_folder,omitempty" gorm:"foreignKey:RootFolderID;references:ID"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (User) TableName() string {
	return "users"
}
