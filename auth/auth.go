package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"thunderstore-mod-browser/db"
)

// ErrInvalidCredentials is returned on login with an unknown username or a
// wrong password. Callers must not reveal which one it was.
var ErrInvalidCredentials = errors.New("invalid credentials")

const tokenTTL = 24 * time.Hour

// Claims is the JWT payload: the user id plus the registered claims.
type Claims struct {
	UserID int32 `json:"user_id"`
	jwt.RegisteredClaims
}

// Service handles registration, login and token issuance.
type Service struct {
	store  *db.Store
	secret []byte
}

// NewService creates an auth service signing tokens with the given secret.
func NewService(store *db.Store, secret string) *Service {
	return &Service{store: store, secret: []byte(secret)}
}

// Register creates a new user with a bcrypt password hash. Returns
// db.ErrUsernameTaken when the name is in use.
func (s *Service) Register(username, password string) (*db.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	return s.store.CreateUser(username, string(hash))
}

// Login verifies the credentials and returns a signed access token.
func (s *Service) Login(username, password string) (string, error) {
	user, err := s.store.FindUserByUsername(username)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	claims := Claims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// parseToken validates a signed token and returns its claims.
func (s *Service) parseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
