package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// NewAdminToken выпускает короткоживущий токен администратора. Клиент хранит
// его в сессионном хранилище и передаёт в Authorization для защищённых
// операций.
func NewAdminToken(secret string, duration time.Duration) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["role"] = "admin"
	claims["iat"] = time.Now().Unix()
	claims["exp"] = time.Now().Add(duration).Unix()

	return token.SignedString([]byte(secret))
}
