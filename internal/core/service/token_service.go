package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/identitylab/identity-service/internal/core/domain"
)

const defaultTokenTTL = time.Hour

// JWTTokenService issues and validates HS256-signed JWTs carrying the
// standard sub/iat/exp claims. Tokens are stateless: validity is determined
// purely by signature and expiry at verification time, and rotating the
// secret invalidates every outstanding token.
type JWTTokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTTokenService(secret []byte, ttl time.Duration) *JWTTokenService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &JWTTokenService{secret: secret, ttl: ttl, now: time.Now}
}

// Issue creates a signed token for username with iat=now and exp=now+TTL.
func (s *JWTTokenService) Issue(username string) (string, error) {
	now := s.now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// ExtractSubject parses and verifies token, returning the sub claim.
func (s *JWTTokenService) ExtractSubject(token string) (string, error) {
	claims, err := s.parse(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", domain.ErrExpiredToken
		}
		return "", domain.ErrMalformedToken
	}
	if claims.Subject == "" {
		return "", domain.ErrMalformedToken
	}
	return claims.Subject, nil
}

// Validate reports whether token is valid for expectedUsername. Signature
// and structural checks run before any claim inspection; every failure mode
// collapses to false.
func (s *JWTTokenService) Validate(token, expectedUsername string) bool {
	claims, err := s.parse(token)
	if err != nil {
		return false
	}
	return claims.Subject == expectedUsername
}

// parse verifies the signature (HS256 only) and the registered time claims.
func (s *JWTTokenService) parse(token string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	return claims, nil
}
