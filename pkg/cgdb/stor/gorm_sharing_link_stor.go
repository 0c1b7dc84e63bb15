package stor

import (
	"github.com/cloudgoose/storage/pkg/cgdb/model"
	"gorm.io/gorm"
)

type GormSharingLinkStor struct {
	db *gorm.DB
}

func NewGormSharingLinkStor(db *gorm.DB) *GormSharingLinkStor {
	return &GormSharingLinkStor{db: db}
}

func (s *GormSharingLinkStor) CreateSharingLink(fileID int, urlID string) (*model.SharingLink, error) {
	link := &model.SharingLink{
		URLID:  urlID,
		FileID: fileID,
	}

	err := WithTxRetry(s.db, func(tx *gorm.DB) error {
		return tx.Create(link).Error
	})

	if err != nil {
		return nil, err
	}

	return link, nil
}

func (s *GormSharingLinkStor) GetSharingLinkByURLID(urlID string) (*model.SharingLink, error) {
	var link model.SharingLink
	if err := s.db.Preload("File").Where("url_id = ?", urlID).First(&link).Error; err != nil {
		return nil, wrapNotFound(err)
	}

	return &link, nil
}

func (s *GormSharingLinkStor) ListSharingLinksForFile(fileID int) ([]model.SharingLink, error) {
	var links []model.SharingLink
	err := s.db.Where("file_id = ?", fileID).Find(&links).Error
	return links, err
}

// ListAllSharingLinks returns every persisted link with its file preloaded. Used
// at startup to rebuild the resource table, which doesn't survive a restart.
func (s *GormSharingLinkStor) ListAllSharingLinks() ([]model.SharingLink, error) {
	var links []model.SharingLink
	err := s.db.Preload("File").Find(&links).Error
	return links, err
}

func (s *GormSharingLinkStor) DeleteSharingLink(link *model.SharingLink) error {
	return WithTxRetry(s.db, func(tx *gorm.DB) error {
		return tx.Delete(link).Error
	})
}
