package stor

import (
	"errors"

	"github.com/cloudgoose/storage/pkg/cgdb/model"
	"github.com/hashicorp/go-uuid"
	"gorm.io/gorm"
)

type GormFolderStor struct {
	db *gorm.DB
}

func NewGormFolderStor(db *gorm.DB) *GormFolderStor {
	return &GormFolderStor{db: db}
}

func (s *GormFolderStor) GetFolderByID(folderID int) (*model.Folder, error) {
	var folder model.Folder
	if err := s.db.First(&folder, folderID).Error; err != nil {
		return nil, wrapNotFound(err)
	}

	return &folder, nil
}

func (s *GormFolderStor) GetFolderByName(parentID int, name string) (*model.Folder, error) {
	return findFolderByName(s.db, parentID, name)
}

func findFolderByName(db *gorm.DB, parentID int, name string) (*model.Folder, error) {
	var folder model.Folder
	err := db.Where("parent_id = ?", parentID).
		Where("name = ?", name).
		First(&folder).Error
	if err != nil {
		return nil, wrapNotFound(err)
	}

	return &folder, nil
}

func (s *GormFolderStor) ListFolders(parentID int) ([]model.Folder, error) {
	var folders []model.Folder
	err := s.db.Where("parent_id = ?", parentID).Order("name ASC").Find(&folders).Error
	return folders, err
}

// CreateFolder inserts a folder under parentID. The duplicate check and the
// insert run in one transaction; the unique index on (name, owner_id, parent_id)
// backstops writers racing the check.
func (s *GormFolderStor) CreateFolder(parentID, ownerID int, name string) (*model.Folder, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	folder := &model.Folder{
		Name:     name,
		OwnerID:  ownerID,
		ParentID: parentID,
	}

	var err error
	if folder.UUID, err = uuid.GenerateUUID(); err != nil {
		return nil, err
	}

	err = WithTxRetry(s.db, func(tx *gorm.DB) error {
		if _, err := findFolderByName(tx, parentID, name); err == nil {
			return ErrDuplicateName
		} else if !errors.Is(err, ErrNotFound) {
			return err
		}

		return tx.Create(folder).Error
	})

	if err != nil {
		return nil, err
	}

	return folder, nil
}

func (s *GormFolderStor) RenameFolder(folder *model.Folder, name string) error {
	if name == "" {
		return ErrEmptyName
	}

	if folder.IsRoot() {
		return ErrInvalidInput
	}

	err := WithTxRetry(s.db, func(tx *gorm.DB) error {
		existing, err := findFolderByName(tx, folder.ParentID, name)
		switch {
		case err == nil && existing.ID != folder.ID:
			return ErrDuplicateName
		case err != nil && !errors.Is(err, ErrNotFound):
			return err
		}

		return tx.Model(folder).Update("name", name).Error
	})

	if err == nil {
		folder.Name = name
	}

	return err
}

// MoveFolder reparents folder under dest. The destination's ancestor chain is
// walked inside the transaction; if the folder being moved shows up, the move
// would create a cycle and is rejected.
func (s *GormFolderStor) MoveFolder(folder *model.Folder, dest *model.Folder) error {
	if folder.IsRoot() {
		return ErrInvalidInput
	}

	if dest.ID == folder.ParentID {
		return ErrSameFolder
	}

	if dest.ID == folder.ID {
		return ErrCycle
	}

	err := WithTxRetry(s.db, func(tx *gorm.DB) error {
		ancestorID := dest.ParentID
		for ancestorID != 0 {
			if ancestorID == folder.ID {
				return ErrCycle
			}

			var ancestor model.Folder
			if err := tx.First(&ancestor, ancestorID).Error; err != nil {
				return wrapNotFound(err)
			}
			ancestorID = ancestor.ParentID
		}

		if _, err := findFolderByName(tx, dest.ID, folder.Name); err == nil {
			return ErrDuplicateName
		} else if !errors.Is(err, ErrNotFound) {
			return err
		}

		return tx.Model(folder).Update("parent_id", dest.ID).Error
	})

	if err == nil {
		folder.ParentID = dest.ID
		folder.Parent = dest
	}

	return err
}

// DeleteFolder removes a single folder row. Recursive deletion of the subtree is
// handled by the tree service, which also owns content cleanup for files.
func (s *GormFolderStor) DeleteFolder(folder *model.Folder) error {
	if folder.IsRoot() {
		return ErrInvalidInput
	}

	return WithTxRetry(s.db, func(tx *gorm.DB) error {
		return tx.Delete(folder).Error
	})
}
