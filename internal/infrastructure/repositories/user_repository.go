package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/RUSLANBALTABAEV/telegram-bot-of-the-education-center/domain"
)

// UserRepositoryImpl implements domain.UserRepository using GORM
type UserRepositoryImpl struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &UserRepositoryImpl{db: db}
}

// Create implements domain.UserRepository. A phone uniqueness violation is
// reported as domain.ErrPhoneTaken; a chat identity already holding an
// account is domain.ErrUserAlreadyExists. Both are distinct from transient
// storage failure.
func (r *UserRepositoryImpl) Create(ctx context.Context, user *domain.User) error {
	dbUser := userToDB(user)
	if err := r.db.WithContext(ctx).Create(dbUser).Error; err != nil {
		if isDuplicate(err) {
			return r.createConflict(ctx, user)
		}
		return err
	}
	user.ID = dbUser.ID
	return nil
}

// createConflict names the constraint behind a duplicate-key failure. GORM's
// translated error does not say which index fired, so look at what exists:
// phone collisions win, anything else means the chat is already registered.
func (r *UserRepositoryImpl) createConflict(ctx context.Context, user *domain.User) error {
	var n int64
	err := r.db.WithContext(ctx).Model(&DBUser{}).Where("phone = ?", user.Phone).Count(&n).Error
	if err == nil && n > 0 {
		return domain.ErrPhoneTaken
	}
	return domain.ErrUserAlreadyExists
}

// FindByChatID implements domain.UserRepository
func (r *UserRepositoryImpl) FindByChatID(ctx context.Context, chatID int64) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where("chat_id = ?", chatID).First(&dbUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return userToDomain(&dbUser), nil
}

// FindByPhone implements domain.UserRepository
func (r *UserRepositoryImpl) FindByPhone(ctx context.Context, phone string) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&dbUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return userToDomain(&dbUser), nil
}

// FindByID implements domain.UserRepository
func (r *UserRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return userToDomain(&dbUser), nil
}

// List implements domain.UserRepository
func (r *UserRepositoryImpl) List(ctx context.Context) ([]domain.User, error) {
	var dbUsers []DBUser
	if err := r.db.WithContext(ctx).Order("id").Find(&dbUsers).Error; err != nil {
		return nil, err
	}
	users := make([]domain.User, 0, len(dbUsers))
	for i := range dbUsers {
		users = append(users, *userToDomain(&dbUsers[i]))
	}
	return users, nil
}

// Update implements domain.UserRepository
func (r *UserRepositoryImpl) Update(ctx context.Context, user *domain.User) error {
	dbUser := userToDB(user)
	// Save with Select("*") also persists nil ChatID and false Active,
	// which plain Updates would skip as zero values.
	err := r.db.WithContext(ctx).Model(&DBUser{}).Where("id = ?", dbUser.ID).
		Select("chat_id", "name", "age", "phone", "photo_file_id", "document_file_id", "active", "language").
		Updates(dbUser).Error
	if isDuplicate(err) {
		return domain.ErrPhoneTaken
	}
	return err
}

// Delete implements domain.UserRepository. Enrollments and certificates owned
// by the user are removed in the same transaction.
func (r *UserRepositoryImpl) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&DBEnrollment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&DBCertificate{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&DBUser{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrUserNotFound
		}
		return nil
	})
}
