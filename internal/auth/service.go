package auth

import (
	"errors"
	"log/slog"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"

	"reading-system/internal/models"
)

type Service struct {
	repo      *Repository
	jwtSecret []byte
	logger    *slog.Logger
}

func NewService(repo *Repository, jwtSecret string, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		jwtSecret: []byte(jwtSecret),
		logger:    logger,
	}
}

func (s *Service) Register(user *models.User) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.Password = string(hashed)
	if err := s.repo.CreateUser(user); err != nil {
		return err
	}

	s.logger.Info("user registered", "user_id", user.ID, "username", user.Username)
	return nil
}

func (s *Service) Login(username, password string) (string, error) {
	user, err := s.repo.GetUserByUsername(username)
	if err != nil {
		return "", errors.New("user not found")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", errors.New("invalid password")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      time.Now().Add(24 * time.Hour).Unix(),
	})

	return token.SignedString(s.jwtSecret)
}
