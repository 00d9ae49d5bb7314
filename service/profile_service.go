package service

import (
	"context"
	"mime/multipart"
	"strings"

	"mealmatch/apperror"
	"mealmatch/models"
	"mealmatch/repository"
	"mealmatch/storage"
)

// ProfileUpdate holds optional changes; empty strings and a nil photo mean
// "leave unchanged".
type ProfileUpdate struct {
	Name     string
	Password string
	Photo    *multipart.FileHeader
}

type ProfileService struct {
	users      *repository.UserRepository
	uploads    *storage.Uploads
	bcryptCost int
}

func NewProfileService(users *repository.UserRepository, uploads *storage.Uploads, bcryptCost int) *ProfileService {
	return &ProfileService{users: users, uploads: uploads, bcryptCost: bcryptCost}
}

// Get treats a session whose user has disappeared as unauthenticated.
func (s *ProfileService) Get(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if apperror.Is(err, apperror.KindNotFound) {
		return nil, apperror.Auth("Not authenticated")
	}
	if err != nil {
		return nil, apperror.Internal("find user", err)
	}
	return user, nil
}

// Update applies each provided field and returns the new photo URL, or nil
// when no photo was uploaded. The previous photo file is kept on disk.
func (s *ProfileService) Update(ctx context.Context, userID uint, in ProfileUpdate) (*string, error) {
	if _, err := s.Get(ctx, userID); err != nil {
		return nil, err
	}

	var changes repository.ProfileChanges
	if name := strings.TrimSpace(in.Name); name != "" {
		changes.Name = &name
	}
	if in.Password != "" {
		hash, err := hashPassword(in.Password, s.bcryptCost)
		if err != nil {
			return nil, err
		}
		changes.PasswordHash = &hash
	}
	if in.Photo != nil {
		url, err := s.uploads.Save(in.Photo)
		if err != nil {
			return nil, apperror.Internal("save photo", err)
		}
		changes.PhotoURL = &url
	}

	if err := s.users.UpdateProfile(ctx, userID, changes); err != nil {
		return nil, apperror.Internal("update profile", err)
	}
	return changes.PhotoURL, nil
}
