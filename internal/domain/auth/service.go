package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"leadcrm/internal/pkg/jwt"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type Service struct {
	db  *gorm.DB
	jwt *jwt.Service
}

func NewService(db *gorm.DB, jwtSvc *jwt.Service) *Service {
	return &Service{db: db, jwt: jwtSvc}
}

func (s *Service) Migrate() error {
	return s.db.AutoMigrate(&User{})
}

// Login verifies the password and issues a bearer token
func (s *Service) Login(ctx context.Context, email, password string) (string, User, error) {
	var u User
	if tx := s.db.WithContext(ctx).First(&u, "email = ?", email); tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return "", User{}, ErrInvalidCredentials
		}
		return "", User{}, tx.Error
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", User{}, ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(u.ID, u.Email)
	if err != nil {
		return "", User{}, err
	}
	return token, u, nil
}

// EnsureUser upserts an account by email; used by the seeder
func (s *Service) EnsureUser(ctx context.Context, email, name, password string) (User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	var u User
	tx := s.db.WithContext(ctx).First(&u, "email = ?", email)
	if tx.Error != nil {
		if !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return User{}, tx.Error
		}
		u = User{
			ID:           uuid.NewString(),
			Email:        email,
			Name:         name,
			PasswordHash: string(hash),
			CreatedAt:    time.Now(),
		}
		if tx := s.db.WithContext(ctx).Create(&u); tx.Error != nil {
			return User{}, tx.Error
		}
		return u, nil
	}

	u.Name = name
	u.PasswordHash = string(hash)
	if tx := s.db.WithContext(ctx).Save(&u); tx.Error != nil {
		return User{}, tx.Error
	}
	return u, nil
}
