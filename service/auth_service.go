package service

import (
	"context"
	"errors"
	"mime/multipart"
	"os"
	"strings"

	"mealmatch/apperror"
	"mealmatch/models"
	"mealmatch/repository"
	"mealmatch/storage"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// invalidCredentials is returned for both an unknown email and a wrong
// password.
var invalidCredentials = apperror.Auth("Invalid email or password")

type RegisterInput struct {
	Name     string                `validate:"required"`
	Email    string                `validate:"required"`
	Password string                `validate:"required"`
	Role     models.UserRole       `validate:"required,oneof=customer owner"`
	Photo    *multipart.FileHeader `validate:"-"`
}

// AuthService registers users and checks their credentials.
type AuthService struct {
	users      *repository.UserRepository
	uploads    *storage.Uploads
	validate   *validator.Validate
	bcryptCost int
}

func NewAuthService(users *repository.UserRepository, uploads *storage.Uploads, bcryptCost int) *AuthService {
	return &AuthService{
		users:      users,
		uploads:    uploads,
		validate:   validator.New(),
		bcryptCost: bcryptCost,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", apperror.Internal("hash password", err)
	}
	return string(hash), nil
}

// Register creates the user. A missing role registers a customer; the photo,
// when present, is stored before the user row is written.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if in.Role == "" {
		in.Role = models.RoleCustomer
	}
	if err := s.validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && verrs[0].Field() == "Role" {
			return nil, apperror.Validation("Role must be customer or owner")
		}
		return nil, apperror.Validation("Name, email and password are required")
	}

	exists, err := s.users.EmailExists(ctx, in.Email)
	if err != nil {
		return nil, apperror.Internal("check email", err)
	}
	if exists {
		return nil, apperror.Conflict("Email already registered")
	}

	var photoURL *string
	if in.Photo != nil {
		url, err := s.uploads.Save(in.Photo)
		if err != nil {
			return nil, apperror.Internal("save photo", err)
		}
		photoURL = &url
	}

	hash, err := hashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		PhotoURL:     photoURL,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if apperror.Is(err, apperror.KindConflict) {
			return nil, err
		}
		return nil, apperror.Internal("create user", err)
	}

	logger.Info().Uint("user_id", user.ID).Str("role", string(user.Role)).Msg("user registered")
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, invalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if apperror.Is(err, apperror.KindNotFound) {
		return nil, invalidCredentials
	}
	if err != nil {
		return nil, apperror.Internal("find user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, invalidCredentials
	}
	return user, nil
}

// CurrentUser returns nil without error when the id no longer names a user.
func (s *AuthService) CurrentUser(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if apperror.Is(err, apperror.KindNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.Internal("find user", err)
	}
	return user, nil
}
