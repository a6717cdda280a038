package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/DevByte-Community/Community-API-Backend-sub000/domain"
	"github.com/DevByte-Community/Community-API-Backend-sub000/internal/http/cookies"
	"github.com/DevByte-Community/Community-API-Backend-sub000/internal/http/middleware"
	"github.com/DevByte-Community/Community-API-Backend-sub000/internal/http/response"
)

// AuthHandlers handles authentication HTTP requests
type AuthHandlers struct {
	authSvc domain.AuthService
	cookies *cookies.Policy
	resp    *response.Writer
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authSvc domain.AuthService, policy *cookies.Policy, resp *response.Writer) *AuthHandlers {
	return &AuthHandlers{
		authSvc: authSvc,
		cookies: policy,
		resp:    resp,
	}
}

// UserResponse is the public view of a user; the password hash never leaves the service
type UserResponse struct {
	ID        string    `json:"id"`
	Fullname  string    `json:"fullname"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Fullname:  u.Fullname,
		Email:     u.Email,
		Role:      u.Role.String(),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// RefreshRequest carries a refresh token; the cookie is used when it is empty
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Signup handles POST /auth/signup
func (h *AuthHandlers) Signup(c *gin.Context) {
	var req domain.SignupInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadBody(c, err)
		return
	}

	result, err := h.authSvc.Signup(c.Request.Context(), req)
	if err != nil {
		h.resp.Error(c, err)
		return
	}

	h.cookies.SetTokens(c, result.Tokens)
	c.JSON(http.StatusCreated, authBody("User registered successfully", result))
}

// Signin handles POST /auth/signin
func (h *AuthHandlers) Signin(c *gin.Context) {
	var req domain.SigninInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadBody(c, err)
		return
	}

	result, err := h.authSvc.Signin(c.Request.Context(), req)
	if err != nil {
		h.resp.Error(c, err)
		return
	}

	h.cookies.SetTokens(c, result.Tokens)
	c.JSON(http.StatusOK, authBody("Signed in successfully", result))
}

// ForgotPassword handles POST /auth/forgot-password
func (h *AuthHandlers) ForgotPassword(c *gin.Context) {
	var req domain.ForgotPasswordInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadBody(c, err)
		return
	}

	if err := h.authSvc.ForgotPassword(c.Request.Context(), req); err != nil {
		h.resp.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "If an account exists for this email, a password reset code has been sent",
	})
}

// VerifyOTP handles POST /auth/verify-otp
func (h *AuthHandlers) VerifyOTP(c *gin.Context) {
	var req domain.VerifyOTPInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadBody(c, err)
		return
	}

	result, err := h.authSvc.VerifyOTP(c.Request.Context(), req)
	if err != nil {
		h.resp.Error(c, err)
		return
	}

	body := gin.H{"success": true, "message": "OTP verified successfully"}
	if result.ResetToken != "" {
		body["resetToken"] = result.ResetToken
	}
	c.JSON(http.StatusOK, body)
}

// ResetPassword handles POST /auth/reset-password
func (h *AuthHandlers) ResetPassword(c *gin.Context) {
	var req domain.ResetPasswordInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadBody(c, err)
		return
	}

	if err := h.authSvc.ResetPassword(c.Request.Context(), req); err != nil {
		h.resp.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password reset successfully"})
}

// Refresh handles POST /auth/refresh
func (h *AuthHandlers) Refresh(c *gin.Context) {
	token, ok := h.refreshToken(c)
	if !ok {
		return
	}

	result, err := h.authSvc.Refresh(c.Request.Context(), token)
	if err != nil {
		h.resp.Error(c, err)
		return
	}

	h.cookies.SetTokens(c, result.Tokens)
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      "Token refreshed successfully",
		"accessToken":  result.Tokens.AccessToken,
		"refreshToken": result.Tokens.RefreshToken,
	})
}

// Logout handles POST /auth/logout (requires authentication)
func (h *AuthHandlers) Logout(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "missing or invalid token")
		return
	}

	token, ok := h.refreshToken(c)
	if !ok {
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), identity.UserID, token); err != nil {
		h.resp.Error(c, err)
		return
	}

	h.cookies.Clear(c)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out successfully"})
}

// Me handles GET /auth/me (requires authentication)
func (h *AuthHandlers) Me(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "missing or invalid token")
		return
	}

	user, err := h.authSvc.GetUserProfile(c.Request.Context(), identity.UserID)
	if err != nil {
		h.resp.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": toUserResponse(user)})
}

// refreshToken reads the token from the body, then from the cookie. An empty
// body is allowed; an undecodable one is not.
func (h *AuthHandlers) refreshToken(c *gin.Context) (string, bool) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadBody(c, err)
		return "", false
	}
	if req.RefreshToken == "" {
		req.RefreshToken = h.cookies.RefreshToken(c)
	}
	return req.RefreshToken, true
}

func authBody(message string, result *domain.AuthResult) gin.H {
	return gin.H{
		"success":      true,
		"message":      message,
		"user":         toUserResponse(result.User),
		"accessToken":  result.Tokens.AccessToken,
		"refreshToken": result.Tokens.RefreshToken,
	}
}
