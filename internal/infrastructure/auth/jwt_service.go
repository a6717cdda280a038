package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/DevByte-Community/Community-API-Backend-sub000/domain"
)

const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 30 * 24 * time.Hour

	tokenUseAccess  = "access"
	tokenUseRefresh = "refresh"
)

// Claims is the signed payload of both access and refresh tokens
type Claims struct {
	UserID   string `json:"id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	TokenUse string `json:"token_use"`
	jwt.RegisteredClaims
}

// JWTConfig holds the signing parameters of the token service
type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	Issuer        string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// JWTServiceImpl implements domain.TokenService
type JWTServiceImpl struct {
	accessSecret    []byte
	refreshSecret   []byte
	issuer          string
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
	parser          *jwt.Parser
}

// NewJWTService creates a new JWT service. A zero TTL falls back to the default.
func NewJWTService(cfg JWTConfig) domain.TokenService {
	if cfg.AccessTTL == 0 {
		cfg.AccessTTL = DefaultAccessTTL
	}
	if cfg.RefreshTTL == 0 {
		cfg.RefreshTTL = DefaultRefreshTTL
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}

	return &JWTServiceImpl{
		accessSecret:    []byte(cfg.AccessSecret),
		refreshSecret:   []byte(cfg.RefreshSecret),
		issuer:          cfg.Issuer,
		accessTokenTTL:  cfg.AccessTTL,
		refreshTokenTTL: cfg.RefreshTTL,
		parser:          jwt.NewParser(opts...),
	}
}

// Issue implements domain.TokenService
func (j *JWTServiceImpl) Issue(user *domain.User) (*domain.TokenPair, error) {
	now := time.Now()
	accessExp := now.Add(j.accessTokenTTL)
	refreshExp := now.Add(j.refreshTokenTTL)
	refreshID := uuid.NewString()

	access, err := j.sign(user, tokenUseAccess, uuid.NewString(), now, accessExp, j.accessSecret)
	if err != nil {
		return nil, err
	}
	refresh, err := j.sign(user, tokenUseRefresh, refreshID, now, refreshExp, j.refreshSecret)
	if err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		RefreshTokenID:   refreshID,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (j *JWTServiceImpl) sign(user *domain.User, use, jti string, now, exp time.Time, secret []byte) (string, error) {
	claims := Claims{
		UserID:   user.ID,
		Email:    user.Email,
		Role:     user.Role.String(),
		TokenUse: use,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   user.ID,
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// VerifyAccess implements domain.TokenService
func (j *JWTServiceImpl) VerifyAccess(tokenString string) (*domain.TokenClaims, error) {
	return j.verify(tokenString, tokenUseAccess, j.accessSecret)
}

// VerifyRefresh implements domain.TokenService
func (j *JWTServiceImpl) VerifyRefresh(tokenString string) (*domain.TokenClaims, error) {
	return j.verify(tokenString, tokenUseRefresh, j.refreshSecret)
}

func (j *JWTServiceImpl) AccessTTL() time.Duration  { return j.accessTokenTTL }
func (j *JWTServiceImpl) RefreshTTL() time.Duration { return j.refreshTokenTTL }

// verify checks signature, algorithm, issuer and expiry. Expired and invalid
// tokens stay distinguishable so callers can log the difference.
func (j *JWTServiceImpl) verify(tokenString, use string, secret []byte) (*domain.TokenClaims, error) {
	claims := &Claims{}
	_, err := j.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}

	if claims.TokenUse != use || claims.UserID == "" || claims.ID == "" {
		return nil, domain.ErrTokenInvalid
	}
	role, ok := domain.ParseRole(claims.Role)
	if !ok {
		return nil, domain.ErrTokenInvalid
	}

	out := &domain.TokenClaims{
		UserID:  claims.UserID,
		Email:   claims.Email,
		Role:    role,
		TokenID: claims.ID,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Unix()
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Unix()
	}
	return out, nil
}
