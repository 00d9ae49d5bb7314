package repository

import (
	"context"
	"errors"

	"mealmatch/apperror"
	"mealmatch/models"

	"gorm.io/gorm"
)

// UserRepository handles the interactions with the users table.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db}
}

// GetByID returns a NotFound error when no user has the given id.
func (r *UserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user not found")
		}
		return nil, err
	}
	return &user, nil
}

// GetByEmail expects an already normalized email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user not found")
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// Create inserts the user. A unique index violation on email is reported as a
// Conflict, which covers two registrations racing past EmailExists.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperror.Conflict("Email already registered")
	}
	return err
}

// ProfileChanges lists the columns a profile update may touch. Nil fields are
// left unchanged.
type ProfileChanges struct {
	Name         *string
	PasswordHash *string
	PhotoURL     *string
}

func (c ProfileChanges) empty() bool {
	return c.Name == nil && c.PasswordHash == nil && c.PhotoURL == nil
}

// UpdateProfile writes the provided columns in one statement.
func (r *UserRepository) UpdateProfile(ctx context.Context, id uint, changes ProfileChanges) error {
	if changes.empty() {
		return nil
	}
	update := map[string]interface{}{}
	if changes.Name != nil {
		update["name"] = *changes.Name
	}
	if changes.PasswordHash != nil {
		update["password_hash"] = *changes.PasswordHash
	}
	if changes.PhotoURL != nil {
		update["photo_url"] = *changes.PhotoURL
	}
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(update).Error
}
