package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/authorization"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/biztime"
)

// Claims carries the AuthContext of a request. Tokens are issued by the
// identity service; this service only verifies them.
type Claims struct {
	UserID   uint                   `json:"uid"`
	TenantID uint                   `json:"tid"`
	Role     authorization.UserRole `json:"role"`
	jwt.RegisteredClaims
}

type JWTService struct {
	secret []byte
	issuer string
}

func NewJWTService(secret, issuer string) *JWTService {
	return &JWTService{
		secret: []byte(secret),
		issuer: issuer,
	}
}

// Sign mints a token for actor. Only test helpers and local tooling use it.
func (s *JWTService) Sign(actor authorization.Actor, ttl time.Duration) (string, error) {
	now := biztime.NowUTC()
	claims := &Claims{
		UserID:   actor.UserID,
		TenantID: actor.TenantID,
		Role:     actor.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   fmt.Sprintf("%d", actor.UserID),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *JWTService) Verify(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, opts...)

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}

// VerifyActor verifies the token and returns the actor it names.
func (s *JWTService) VerifyActor(tokenString string) (authorization.Actor, error) {
	claims, err := s.Verify(tokenString)
	if err != nil {
		return authorization.Actor{}, err
	}
	if claims.UserID == 0 || claims.TenantID == 0 {
		return authorization.Actor{}, fmt.Errorf("token is missing user or tenant")
	}
	if !claims.Role.IsValid() {
		return authorization.Actor{}, fmt.Errorf("token carries unknown role %q", claims.Role)
	}
	return authorization.Actor{UserID: claims.UserID, Role: claims.Role, TenantID: claims.TenantID}, nil
}
