package cookies

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/DevByte-Community/Community-API-Backend-sub000/domain"
	"github.com/DevByte-Community/Community-API-Backend-sub000/internal/config"
)

const (
	accessPath  = "/"
	refreshPath = "/auth"
)

// Policy maps a token pair onto HttpOnly cookies. A disabled policy is a
// no-op and reads nothing.
type Policy struct {
	enabled     bool
	domain      string
	secure      bool
	sameSite    http.SameSite
	accessName  string
	refreshName string
	accessTTL   time.Duration
	refreshTTL  time.Duration
}

// NewPolicy creates a cookie policy; cookie lifetimes follow the token TTLs.
func NewPolicy(cfg config.CookieConfig, accessTTL, refreshTTL time.Duration) *Policy {
	p := &Policy{
		enabled:     cfg.Enabled,
		domain:      cfg.Domain,
		secure:      cfg.Secure,
		sameSite:    parseSameSite(cfg.SameSite),
		accessName:  cfg.AccessName,
		refreshName: cfg.RefreshName,
		accessTTL:   accessTTL,
		refreshTTL:  refreshTTL,
	}
	if p.accessName == "" {
		p.accessName = "access_token"
	}
	if p.refreshName == "" {
		p.refreshName = "refresh_token"
	}
	// browsers drop SameSite=None cookies that are not Secure
	if p.sameSite == http.SameSiteNoneMode {
		p.secure = true
	}
	return p
}

func parseSameSite(s string) http.SameSite {
	switch strings.ToLower(s) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

func (p *Policy) Enabled() bool { return p != nil && p.enabled }

// SetTokens writes both cookies
func (p *Policy) SetTokens(c *gin.Context, pair *domain.TokenPair) {
	if !p.Enabled() || pair == nil {
		return
	}
	c.SetSameSite(p.sameSite)
	c.SetCookie(p.accessName, pair.AccessToken, int(p.accessTTL.Seconds()), accessPath, p.domain, p.secure, true)
	c.SetCookie(p.refreshName, pair.RefreshToken, int(p.refreshTTL.Seconds()), refreshPath, p.domain, p.secure, true)
}

// Clear expires both cookies
func (p *Policy) Clear(c *gin.Context) {
	if !p.Enabled() {
		return
	}
	c.SetSameSite(p.sameSite)
	c.SetCookie(p.accessName, "", -1, accessPath, p.domain, p.secure, true)
	c.SetCookie(p.refreshName, "", -1, refreshPath, p.domain, p.secure, true)
}

// AccessToken returns the access cookie value, or "" when absent or disabled
func (p *Policy) AccessToken(c *gin.Context) string {
	if !p.Enabled() {
		return ""
	}
	return p.read(c, p.accessName)
}

// RefreshToken returns the refresh cookie value, or "" when absent or disabled
func (p *Policy) RefreshToken(c *gin.Context) string {
	if !p.Enabled() {
		return ""
	}
	return p.read(c, p.refreshName)
}

func (p *Policy) read(c *gin.Context, name string) string {
	v, err := c.Cookie(name)
	if err != nil {
		return ""
	}
	return v
}
