package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/DevByte-Community/Community-API-Backend-sub000/domain"
)

func newTestJWTService(accessTTL, refreshTTL time.Duration) *JWTServiceImpl {
	return NewJWTService(JWTConfig{
		AccessSecret:  "access-secret-for-tests",
		RefreshSecret: "refresh-secret-for-tests",
		Issuer:        "community-api",
		AccessTTL:     accessTTL,
		RefreshTTL:    refreshTTL,
	}).(*JWTServiceImpl)
}

func testUser() *domain.User {
	return &domain.User{
		ID:    "3f1c2a4e-0000-4000-8000-000000000001",
		Email: "jo@x.com",
		Role:  domain.RoleAdmin,
	}
}

func TestJWTServiceImpl_ClaimFidelity(t *testing.T) {
	svc := newTestJWTService(0, 0)
	user := testUser()

	pair, err := svc.Issue(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected both tokens")
	}

	access, err := svc.VerifyAccess(pair.AccessToken)
	if err != nil {
		t.Fatalf("verify access: %v", err)
	}
	refresh, err := svc.VerifyRefresh(pair.RefreshToken)
	if err != nil {
		t.Fatalf("verify refresh: %v", err)
	}

	for _, c := range []*domain.TokenClaims{access, refresh} {
		if c.UserID != user.ID || c.Email != user.Email || c.Role != user.Role {
			t.Errorf("claims %+v do not match user %+v", c, user)
		}
	}
	if refresh.TokenID != pair.RefreshTokenID {
		t.Errorf("expected refresh jti %s, got %s", pair.RefreshTokenID, refresh.TokenID)
	}
	if access.TokenID == refresh.TokenID {
		t.Error("access and refresh tokens must carry distinct ids")
	}
}

func TestJWTServiceImpl_DefaultTTLs(t *testing.T) {
	svc := newTestJWTService(0, 0)
	if svc.AccessTTL() != DefaultAccessTTL {
		t.Errorf("expected access TTL %v, got %v", DefaultAccessTTL, svc.AccessTTL())
	}
	if svc.RefreshTTL() != DefaultRefreshTTL {
		t.Errorf("expected refresh TTL %v, got %v", DefaultRefreshTTL, svc.RefreshTTL())
	}

	pair, err := svc.Issue(testUser())
	if err != nil {
		t.Fatal(err)
	}
	claims, err := svc.VerifyAccess(pair.AccessToken)
	if err != nil {
		t.Fatal(err)
	}
	if got := claims.ExpiresAt - claims.IssuedAt; got != int64(DefaultAccessTTL/time.Second) {
		t.Errorf("expected access lifetime %d seconds, got %d", int64(DefaultAccessTTL/time.Second), got)
	}
}

func TestJWTServiceImpl_SecretsAreNotInterchangeable(t *testing.T) {
	svc := newTestJWTService(0, 0)
	pair, err := svc.Issue(testUser())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.VerifyAccess(pair.RefreshToken); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("refresh token accepted as access token: %v", err)
	}
	if _, err := svc.VerifyRefresh(pair.AccessToken); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("access token accepted as refresh token: %v", err)
	}
}

func TestJWTServiceImpl_Expired(t *testing.T) {
	svc := newTestJWTService(-time.Minute, -time.Minute)
	pair, err := svc.Issue(testUser())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.VerifyAccess(pair.AccessToken); !errors.Is(err, domain.ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
	if _, err := svc.VerifyRefresh(pair.RefreshToken); !errors.Is(err, domain.ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestJWTServiceImpl_RejectsForgedTokens(t *testing.T) {
	svc := newTestJWTService(0, 0)
	now := time.Now()
	base := Claims{
		UserID:   "u1",
		Email:    "jo@x.com",
		Role:     "ROOT",
		TokenUse: tokenUseAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "jti",
			Issuer:    "community-api",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}

	tests := []struct {
		name  string
		token func(t *testing.T) string
	}{
		{
			name: "wrong secret",
			token: func(t *testing.T) string {
				s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, base).SignedString([]byte("attacker"))
				if err != nil {
					t.Fatal(err)
				}
				return s
			},
		},
		{
			name: "alg none",
			token: func(t *testing.T) string {
				s, err := jwt.NewWithClaims(jwt.SigningMethodNone, base).SignedString(jwt.UnsafeAllowNoneSignatureType)
				if err != nil {
					t.Fatal(err)
				}
				return s
			},
		},
		{
			name: "different HMAC algorithm",
			token: func(t *testing.T) string {
				s, err := jwt.NewWithClaims(jwt.SigningMethodHS512, base).SignedString([]byte("access-secret-for-tests"))
				if err != nil {
					t.Fatal(err)
				}
				return s
			},
		},
		{
			name: "wrong issuer",
			token: func(t *testing.T) string {
				c := base
				c.Issuer = "someone-else"
				s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte("access-secret-for-tests"))
				if err != nil {
					t.Fatal(err)
				}
				return s
			},
		},
		{
			name: "unknown role",
			token: func(t *testing.T) string {
				c := base
				c.Role = "SUPERUSER"
				s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte("access-secret-for-tests"))
				if err != nil {
					t.Fatal(err)
				}
				return s
			},
		},
		{
			name:  "malformed",
			token: func(t *testing.T) string { return "not.a.jwt" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.VerifyAccess(tt.token(t)); !errors.Is(err, domain.ErrTokenInvalid) {
				t.Errorf("expected ErrTokenInvalid, got %v", err)
			}
		})
	}
}
