package stor

import (
	"github.com/cloudgoose/storage/pkg/cgdb/model"
	"gorm.io/gorm"
)

type UserStor interface {
	CreateUserWithRoot(username, passwordHash string) (*model.User, error)
	GetUserByID(userID int) (*model.User, error)
	GetUserByUsername(username string) (*model.User, error)
	GetUserBySlug(slug string) (*model.User, error)
	UpdatePasswordHash(user *model.User, passwordHash string) error
}

type FolderStor interface {
	GetFolderByID(folderID int) (*model.Folder, error)
	GetFolderByName(parentID int, name string) (*model.Folder, error)
	ListFolders(parentID int) ([]model.Folder, error)
	CreateFolder(parentID, ownerID int, name string) (*model.Folder, error)
	RenameFolder(folder *model.Folder, name string) error
	MoveFolder(folder *model.Folder, dest *model.Folder) error
	DeleteFolder(folder *model.Folder) error
}

type FileSort string

const (
	SortFilesByName FileSort = "name"
	SortFilesBySize FileSort = "size"
	SortFilesByType FileSort = "type"
)

type FileStor interface {
	GetFileByID(fileID int) (*model.File, error)
	GetFileByUUID(fileUUID string) (*model.File, error)
	GetFileByName(parentID int, name string) (*model.File, error)
	ListFiles(parentID int) ([]model.File, error)
	ListFilesSorted(parentID int, sortBy FileSort, descending bool) ([]model.File, error)
	SearchFilesByName(parentID int, query string) ([]model.File, error)
	CreateFile(parentID, ownerID int, name, contentUUID string, size int64) (*model.File, error)
	RenameFile(file *model.File, name string) error
	MoveFile(file *model.File, dest *model.Folder) error
	DeleteFile(file *model.File) error
}

type SharingLinkStor interface {
	CreateSharingLink(fileID int, urlID string) (*model.SharingLink, error)
	GetSharingLinkByURLID(urlID string) (*model.SharingLink, error)
	ListSharingLinksForFile(fileID int) ([]model.SharingLink, error)
	ListAllSharingLinks() ([]model.SharingLink, error)
	DeleteSharingLink(link *model.SharingLink) error
}

type Stors struct {
	UserStor        UserStor
	FolderStor      FolderStor
	FileStor        FileStor
	SharingLinkStor SharingLinkStor
}

func NewGormStors(db *gorm.DB) *Stors {
	return &Stors{
		UserStor:        NewGormUserStor(db),
		FolderStor:      NewGormFolderStor(db),
		FileStor:        NewGormFileStor(db),
		SharingLinkStor: NewGormSharingLinkStor(db),
	}
}
