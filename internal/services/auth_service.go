package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"ticketlogger/server/internal/models"
	"ticketlogger/server/internal/repository"
	"ticketlogger/server/internal/utils"
)

// AuthService проверяет учетные данные и выдает JWT
type AuthService struct {
	store  repository.Store
	secret string
	ttl    time.Duration
	logger *log.Logger
}

func NewAuthService(store repository.Store, secret string, ttl time.Duration, logger *log.Logger) *AuthService {
	return &AuthService{store: store, secret: secret, ttl: ttl, logger: logger}
}

// Login возвращает подписанный токен. Неизвестный пользователь и неверный
// пароль дают одну и ту же ошибку.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	user, err := s.store.WithContext(ctx).Users().FindByUsername(username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Printf("🔒 Неудачный вход: пользователь %s не найден", username)
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Printf("🔒 Неудачный вход: неверный пароль для %s", username)
		return "", nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(s.secret, user.ID, user.Username, string(user.Role), s.ttl)
	if err != nil {
		return "", nil, fmt.Errorf("ошибка выдачи токена: %w", err)
	}
	s.logger.Printf("🔓 Вход выполнен: %s (%s)", user.Username, user.Role)
	return token, user, nil
}

// TTL: срок жизни токена, он же Max-Age cookie
func (s *AuthService) TTL() time.Duration {
	return s.ttl
}

// Authenticate разбирает токен для middleware
func (s *AuthService) Authenticate(token string) (*utils.Claims, error) {
	return utils.ParseToken(s.secret, token)
}
