package service

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/quillpress/blog-api/database/model"
	"github.com/quillpress/blog-api/logger"
	"github.com/quillpress/blog-api/util/crypto"
	"github.com/quillpress/blog-api/util/random"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the lifetime of issued access tokens.
const TokenTTL = 7 * 24 * time.Hour

// Claims is the payload of an access token.
type Claims struct {
	Id    int    `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

type AuthService struct {
	secret        []byte
	userService   UserService
	now           func() time.Time
	checkPassword func(hash, password string) bool

	// dummyHash is compared against when the email is unknown so both
	// failure paths pay for one bcrypt comparison.
	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(secret string, userService UserService) *AuthService {
	return &AuthService{
		secret:        []byte(secret),
		userService:   userService,
		now:           time.Now,
		checkPassword: crypto.CheckPasswordHash,
	}
}

func (s *AuthService) unknownUserHash() string {
	s.dummyOnce.Do(func() {
		hash, err := crypto.HashPasswordAsBcrypt(random.Seq(24))
		if err != nil {
			logger.Warning("generate placeholder hash failed:", err)
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

// Login checks the credentials and returns a signed token with the user.
// Unknown emails and wrong passwords both yield ErrInvalidCredentials.
func (s *AuthService) Login(email, password string) (string, *model.User, error) {
	user, err := s.userService.GetByEmail(strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, ErrNotFound) {
		s.checkPassword(s.unknownUserHash(), password)
		return "", nil, ErrInvalidCredentials
	} else if err != nil {
		return "", nil, err
	}
	if !s.checkPassword(user.Password, password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.Sign(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Sign issues an HS256 token for user.
func (s *AuthService) Sign(user *model.User) (string, error) {
	now := s.now()
	var role string
	if user.Role != nil {
		role = user.Role.Title
	}
	claims := Claims{
		Id:    user.Id,
		Email: user.Email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ParseToken verifies signature and expiry and returns the claims.
func (s *AuthService) ParseToken(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}

// Authenticate resolves a token to its user with the role loaded. Tokens of
// removed users are rejected.
func (s *AuthService) Authenticate(token string) (*model.User, error) {
	claims, err := s.ParseToken(token)
	if err != nil {
		return nil, err
	}
	user, err := s.userService.Get(claims.Id)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidToken
	}
	return user, err
}
