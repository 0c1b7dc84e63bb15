package stor

import (
	"errors"
	"sort"
	"strings"

	"github.com/cloudgoose/storage/pkg/cgdb/model"
	"gorm.io/gorm"
)

type GormFileStor struct {
	db *gorm.DB
}

func NewGormFileStor(db *gorm.DB) *GormFileStor {
	return &GormFileStor{db: db}
}

func (s *GormFileStor) GetFileByID(fileID int) (*model.File, error) {
	var file model.File
	if err := s.db.First(&file, fileID).Error; err != nil {
		return nil, wrapNotFound(err)
	}

	return &file, nil
}

func (s *GormFileStor) GetFileByUUID(fileUUID string) (*model.File, error) {
	var file model.File
	if err := s.db.Where("uuid = ?", fileUUID).First(&file).Error; err != nil {
		return nil, wrapNotFound(err)
	}

	return &file, nil
}

func (s *GormFileStor) GetFileByName(parentID int, name string) (*model.File, error) {
	return findFileByName(s.db, parentID, name)
}

func findFileByName(db *gorm.DB, parentID int, name string) (*model.File, error) {
	var file model.File
	err := db.Where("parent_id = ?", parentID).
		Where("name = ?", name).
		First(&file).Error
	if err != nil {
		return nil, wrapNotFound(err)
	}

	return &file, nil
}

func (s *GormFileStor) ListFiles(parentID int) ([]model.File, error) {
	var files []model.File
	err := s.db.Where("parent_id = ?", parentID).Order("name ASC").Find(&files).Error
	return files, err
}

// ListFilesSorted lists the files under parentID ordered by name, size, or the
// type key. Name and size ordering are pushed to the database; the type key
// (substring after the last '.') is computed in Go, since expressing last-dot
// semantics portably in SQL isn't worth the trouble.
func (s *GormFileStor) ListFilesSorted(parentID int, sortBy FileSort, descending bool) ([]model.File, error) {
	direction := "ASC"
	if descending {
		direction = "DESC"
	}

	var files []model.File

	switch sortBy {
	case SortFilesBySize:
		err := s.db.Where("parent_id = ?", parentID).Order("size " + direction).Find(&files).Error
		return files, err
	case SortFilesByType:
		if err := s.db.Where("parent_id = ?", parentID).Find(&files).Error; err != nil {
			return nil, err
		}
		sort.SliceStable(files, func(i, j int) bool {
			if descending {
				return files[i].TypeKey() > files[j].TypeKey()
			}
			return files[i].TypeKey() < files[j].TypeKey()
		})
		return files, nil
	default:
		err := s.db.Where("parent_id = ?", parentID).Order("name " + direction).Find(&files).Error
		return files, err
	}
}

// likeEscaper escapes the LIKE metacharacters so a query containing % or _
// matches them literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchFilesByName returns the files under parentID whose name contains query,
// case-insensitively.
func (s *GormFileStor) SearchFilesByName(parentID int, query string) ([]model.File, error) {
	var files []model.File
	err := s.db.Where("parent_id = ?", parentID).
		Where(`lower(name) LIKE ? ESCAPE '\'`, "%"+likeEscaper.Replace(strings.ToLower(query))+"%").
		Order("name ASC").
		Find(&files).Error
	return files, err
}

// CreateFile inserts file metadata under parentID. The caller has already written
// the content bytes under contentUUID; creating the row is the last step so a
// crash can't leave metadata pointing at missing content.
func (s *GormFileStor) CreateFile(parentID, ownerID int, name, contentUUID string, size int64) (*model.File, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	file := &model.File{
		UUID:     contentUUID,
		Name:     name,
		OwnerID:  ownerID,
		ParentID: parentID,
		Size:     size,
	}

	err := WithTxRetry(s.db, func(tx *gorm.DB) error {
		if _, err := findFileByName(tx, parentID, name); err == nil {
			return ErrDuplicateName
		} else if !errors.Is(err, ErrNotFound) {
			return err
		}

		return tx.Create(file).Error
	})

	if err != nil {
		return nil, err
	}

	return file, nil
}

func (s *GormFileStor) RenameFile(file *model.File, name string) error {
	if name == "" {
		return ErrEmptyName
	}

	err := WithTxRetry(s.db, func(tx *gorm.DB) error {
		existing, err := findFileByName(tx, file.ParentID, name)
		switch {
		case err == nil && existing.ID != file.ID:
			return ErrDuplicateName
		case err != nil && !errors.Is(err, ErrNotFound):
			return err
		}

		return tx.Model(file).Update("name", name).Error
	})

	if err == nil {
		file.Name = name
	}

	return err
}

// MoveFile reparents file into dest. Moving a file to the folder it is already
// in is rejected as a user error rather than treated as a no-op.
func (s *GormFileStor) MoveFile(file *model.File, dest *model.Folder) error {
	if dest.ID == file.ParentID {
		return ErrSameFolder
	}

	err := WithTxRetry(s.db, func(tx *gorm.DB) error {
		if _, err := findFileByName(tx, dest.ID, file.Name); err == nil {
			return ErrDuplicateName
		} else if !errors.Is(err, ErrNotFound) {
			return err
		}

		return tx.Model(file).Update("parent_id", dest.ID).Error
	})

	if err == nil {
		file.ParentID = dest.ID
		file.Parent = dest
	}

	return err
}

// DeleteFile removes the file row and cascades deletion of its sharing links in
// the same transaction. Content cleanup is the caller's obligation.
func (s *GormFileStor) DeleteFile(file *model.File) error {
	return WithTxRetry(s.db, func(tx *gorm.DB) error {
		if err := tx.Where("file_id = ?", file.ID).Delete(&model.SharingLink{}).Error; err != nil {
			return err
		}

		return tx.Delete(file).Error
	})
}
