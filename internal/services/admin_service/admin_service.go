package services

import (
	"crypto/subtle"
	"fmt"
	"log/slog"
	"time"

	libjwt "meme_gallery/internal/lib/jwt"
	"meme_gallery/internal/lib/logger/sl"
)

// defaultAdminKey используется, если оператор не задал собственный ключ.
// Ответ в этом случае содержит предупреждение.
const defaultAdminKey = "memegallery2024"

const unconfiguredWarning = "ADMIN_KEY is not configured, default key is in effect"

// VerifyResult — итог проверки ключа. Токен выпускается только для валидного
// ключа и предъявляется в Authorization для защищённых операций.
type VerifyResult struct {
	Valid   bool
	Warning string
	Token   string
}

type AdminService struct {
	log         *slog.Logger
	key         string
	tokenSecret string
	tokenTTL    time.Duration
}

func NewAdminService(log *slog.Logger, key, tokenSecret string, tokenTTL time.Duration) *AdminService {
	return &AdminService{
		log:         log,
		key:         key,
		tokenSecret: tokenSecret,
		tokenTTL:    tokenTTL,
	}
}

// VerifyKey сравнивает ключ за постоянное время и возвращает флаг валидности.
// Неверный ключ не считается ошибкой: форма ответа одинаковая в обоих
// случаях.
func (s *AdminService) VerifyKey(key string) (VerifyResult, error) {
	const op = "service.AdminService.VerifyKey"

	expected := s.key
	warning := ""
	if expected == "" {
		expected = defaultAdminKey
		warning = unconfiguredWarning
		s.log.Warn("admin key is not configured", slog.String("op", op))
	}

	valid := subtle.ConstantTimeCompare([]byte(key), []byte(expected)) == 1

	result := VerifyResult{Valid: valid, Warning: warning}
	if !valid {
		s.log.Info("admin key rejected", slog.String("op", op))
		return result, nil
	}

	token, err := libjwt.NewAdminToken(s.tokenSecret, s.tokenTTL)
	if err != nil {
		s.log.Error("failed to issue admin token", slog.String("op", op), sl.Err(err))
		return VerifyResult{}, fmt.Errorf("%s: %w", op, err)
	}
	result.Token = token

	s.log.Info("admin key verified", slog.String("op", op))
	return result, nil
}

// TokenSecret нужен HTTP-слою для настройки middleware проверки токена.
func (s *AdminService) TokenSecret() []byte {
	return []byte(s.tokenSecret)
}
