package stor

import (
	"errors"
	"strings"

	"github.com/cloudgoose/storage/pkg/cgdb/model"
	"github.com/gosimple/slug"
	"github.com/hashicorp/go-uuid"
	"gorm.io/gorm"
)

type GormUserStor struct {
	db *gorm.DB
}

func NewGormUserStor(db *gorm.DB) *GormUserStor {
	return &GormUserStor{db: db}
}

// CreateUserWithRoot creates a new user along with their root folder. A user
// without a root folder must never be observable, so both rows are inserted in
// the same transaction and the user's root folder reference is set before commit.
func (s *GormUserStor) CreateUserWithRoot(username, passwordHash string) (*model.User, error) {
	user := &model.User{
		Username:     username,
		PasswordHash: passwordHash,
	}

	var err error
	if user.UUID, err = uuid.GenerateUUID(); err != nil {
		return nil, err
	}

	err = WithTxRetry(s.db, func(tx *gorm.DB) error {
		var existing model.User
		err := tx.Where("username = ?", username).First(&existing).Error
		if err == nil {
			return ErrDuplicateUsername
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if user.Slug, err = uniqueSlugForUsername(tx, username, user.UUID); err != nil {
			return err
		}

		if err := tx.Create(user).Error; err != nil {
			return err
		}

		rootFolder := &model.Folder{
			Name:    model.RootFolderName,
			OwnerID: user.ID,
		}

		if rootFolder.UUID, err = uuid.GenerateUUID(); err != nil {
			return err
		}

		if err := tx.Create(rootFolder).Error; err != nil {
			return err
		}

		user.RootFolderID = rootFolder.ID
		user.RootFolder = rootFolder

		return tx.Model(user).Update("root_folder_id", rootFolder.ID).Error
	})

	if err != nil {
		return nil, err
	}

	return user, nil
}

// uniqueSlugForUsername slugifies the username, disambiguating with the user's
// UUID when another user already holds the slug. Usernames are case sensitive
// but slugs are lowercased, so "alice" and "Alice" are distinct accounts that
// would otherwise collide on the slug unique index.
func uniqueSlugForUsername(tx *gorm.DB, username, userUUID string) (string, error) {
	userSlug := slug.Make(username)

	var count int64
	if err := tx.Model(&model.User{}).Where("slug = ?", userSlug).Count(&count).Error; err != nil {
		return "", err
	}

	if count != 0 {
		userSlug = userSlug + "-" + strings.Split(userUUID, "-")[0]
	}

	return userSlug, nil
}

func (s *GormUserStor) GetUserByID(userID int) (*model.User, error) {
	var user model.User
	if err := s.db.Preload("RootFolder").First(&user, userID).Error; err != nil {
		return nil, wrapNotFound(err)
	}

	return &user, nil
}

func (s *GormUserStor) GetUserByUsername(username string) (*model.User, error) {
	var user model.User
	if err := s.db.Preload("RootFolder").Where("username = ?", username).First(&user).Error; err != nil {
		return nil, wrapNotFound(err)
	}

	return &user, nil
}

func (s *GormUserStor) GetUserBySlug(userSlug string) (*model.User, error) {
	var user model.User
	if err := s.db.Preload("RootFolder").Where("slug = ?", userSlug).First(&user).Error; err != nil {
		return nil, wrapNotFound(err)
	}

	return &user, nil
}

func (s *GormUserStor) UpdatePasswordHash(user *model.User, passwordHash string) error {
	err := WithTxRetry(s.db, func(tx *gorm.DB) error {
		return tx.Model(user).Update("password_hash", passwordHash).Error
	})

	if err == nil {
		user.PasswordHash = passwordHash
	}

	return err
}

func wrapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}

	return err
}
