package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/DevByte-Community/Community-API-Backend-sub000/domain"
)

const DefaultResetTicketTTL = 10 * time.Minute

// AuthConfig holds the behavioral switches of the auth orchestrator
type AuthConfig struct {
	ExternalTimeout    time.Duration
	OTPTTL             time.Duration
	ResetTicketTTL     time.Duration
	RequireResetTicket bool
	TrackRefreshTokens bool
}

// AuthDeps groups the collaborators of the auth orchestrator.
// RefreshTokens and ResetTickets may be nil when the matching switch is off.
type AuthDeps struct {
	Users         domain.UserRepository
	Passwords     domain.PasswordService
	Tokens        domain.TokenService
	OTP           domain.OTPService
	Notifier      domain.NotificationService
	RefreshTokens domain.RefreshTokenStore
	ResetTickets  domain.ResetTicketStore
	Audit         domain.AuditLogger
	Logger        *logrus.Logger
}

// AuthServiceImpl implements domain.AuthService
type AuthServiceImpl struct {
	userRepo      domain.UserRepository
	passwordSvc   domain.PasswordService
	tokenSvc      domain.TokenService
	otpSvc        domain.OTPService
	notifier      domain.NotificationService
	refreshTokens domain.RefreshTokenStore
	resetTickets  domain.ResetTicketStore
	audit         domain.AuditLogger
	log           *logrus.Logger
	config        AuthConfig

	dummyOnce sync.Once
	dummyHash string

	// reset-code emails still in flight
	deliveries sync.WaitGroup
}

// NewAuthService creates a new auth service
func NewAuthService(deps AuthDeps, config AuthConfig) domain.AuthService {
	if config.OTPTTL <= 0 {
		config.OTPTTL = DefaultOTPTTL
	}
	if config.ResetTicketTTL <= 0 {
		config.ResetTicketTTL = DefaultResetTicketTTL
	}
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}
	if !config.TrackRefreshTokens {
		deps.RefreshTokens = nil
	}
	if !config.RequireResetTicket {
		deps.ResetTickets = nil
	}

	return &AuthServiceImpl{
		userRepo:      deps.Users,
		passwordSvc:   deps.Passwords,
		tokenSvc:      deps.Tokens,
		otpSvc:        deps.OTP,
		notifier:      deps.Notifier,
		refreshTokens: deps.RefreshTokens,
		resetTickets:  deps.ResetTickets,
		audit:         deps.Audit,
		log:           deps.Logger,
		config:        config,
	}
}

// Signup implements domain.AuthService
func (s *AuthServiceImpl) Signup(ctx context.Context, in domain.SignupInput) (*domain.AuthResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	hashedPassword, err := s.hash(ctx, in.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Fullname:     strings.TrimSpace(in.Fullname),
		Email:        domain.NormalizeEmail(in.Email),
		PasswordHash: hashedPassword,
		Role:         domain.RoleUser,
	}

	err = callExternalErr(ctx, s.config.ExternalTimeout, "user store", func(ctx context.Context) error {
		return s.userRepo.Create(ctx, user)
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, domain.ErrEmailTaken
		}
		return nil, internalError("failed to create user", err)
	}

	result, err := s.issue(ctx, user)
	if err != nil {
		// without tokens the client will retry, which must not hit a 409
		s.discardUser(ctx, user.ID)
		return nil, err
	}

	s.logAudit(ctx, domain.NewAuditEvent(domain.UserSignupEvent, user.ID).WithEmail(user.Email))
	return result, nil
}

// Signin implements domain.AuthService. An unknown email and a wrong password
// produce the same error and take comparable time.
func (s *AuthServiceImpl) Signin(ctx context.Context, in domain.SigninInput) (*domain.AuthResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	email := domain.NormalizeEmail(in.Email)

	user, err := s.findUser(ctx, func(ctx context.Context) (*domain.User, error) {
		return s.userRepo.FindByEmail(ctx, email)
	})
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, internalError("failed to load user", err)
		}
		// burn a comparison so response time does not reveal unknown emails
		_, _ = s.verifyPassword(ctx, s.getDummyHash(), in.Password)
		s.logAudit(ctx, domain.NewAuditEvent(domain.UserSigninFailedEvent, "").
			WithEmail(email).WithError(domain.ErrInvalidCredentials))
		return nil, domain.ErrInvalidCredentials
	}

	ok, err := s.verifyPassword(ctx, user.PasswordHash, in.Password)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.logAudit(ctx, domain.NewAuditEvent(domain.UserSigninFailedEvent, user.ID).
			WithEmail(email).WithError(domain.ErrInvalidCredentials))
		return nil, domain.ErrInvalidCredentials
	}

	result, err := s.issue(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logAudit(ctx, domain.NewAuditEvent(domain.UserSigninEvent, user.ID).WithEmail(email))
	return result, nil
}

// ForgotPassword implements domain.AuthService. The outcome is identical for
// known and unknown emails. The email goes out in the background so SMTP
// latency does not tell the two apart; delivery failures are only logged.
func (s *AuthServiceImpl) ForgotPassword(ctx context.Context, in domain.ForgotPasswordInput) error {
	if err := in.Validate(); err != nil {
		return err
	}
	email := domain.NormalizeEmail(in.Email)

	user, err := s.findUser(ctx, func(ctx context.Context) (*domain.User, error) {
		return s.userRepo.FindByEmail(ctx, email)
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.log.WithField("email", email).Debug("password reset requested for unknown email")
			return nil
		}
		return internalError("failed to load user", err)
	}

	code, err := s.otpSvc.Generate()
	if err != nil {
		return internalError("failed to generate otp", err)
	}

	err = callExternalErr(ctx, s.config.ExternalTimeout, "otp cache", func(ctx context.Context) error {
		return s.otpSvc.Save(ctx, email, code)
	})
	if err != nil {
		return internalError("failed to store otp", err)
	}

	body := fmt.Sprintf("Your password reset code is %s. It expires in %d minutes.", code, int(s.config.OTPTTL.Minutes()))
	mailCtx := context.WithoutCancel(ctx)
	s.deliveries.Add(1)
	go func() {
		defer s.deliveries.Done()
		err := callExternalErr(mailCtx, s.config.ExternalTimeout, "email", func(ctx context.Context) error {
			return s.notifier.SendEmail(ctx, email, "Password reset code", body)
		})
		if err != nil {
			s.log.WithError(err).WithField("user_id", user.ID).Error("failed to deliver password reset code")
		}
	}()

	s.logAudit(ctx, domain.NewAuditEvent(domain.OTPRequestEvent, user.ID).WithEmail(email))
	return nil
}

// Drain blocks until every queued reset-code email has been attempted
func (s *AuthServiceImpl) Drain() {
	s.deliveries.Wait()
}

// VerifyOTP implements domain.AuthService. Absent, expired and wrong codes
// all yield ErrInvalidOrExpiredOTP.
func (s *AuthServiceImpl) VerifyOTP(ctx context.Context, in domain.VerifyOTPInput) (*domain.VerifyOTPResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	email := domain.NormalizeEmail(in.Email)

	type check struct {
		matched bool
		found   bool
	}
	res, err := callExternal(ctx, s.config.ExternalTimeout, "otp cache", func(ctx context.Context) (check, error) {
		matched, found, err := s.otpSvc.Consume(ctx, email, in.OTP)
		return check{matched, found}, err
	})
	if err != nil {
		return nil, internalError("failed to check otp", err)
	}

	if !res.matched {
		if res.found {
			s.registerOTPFailure(ctx, email)
		}
		s.logAudit(ctx, domain.NewAuditEvent(domain.OTPVerifyFailedEvent, "").
			WithEmail(email).WithError(domain.ErrInvalidOrExpiredOTP))
		return nil, domain.ErrInvalidOrExpiredOTP
	}

	result := &domain.VerifyOTPResult{}
	if s.resetTickets != nil {
		ticket, err := callExternal(ctx, s.config.ExternalTimeout, "reset ticket store", func(ctx context.Context) (string, error) {
			return s.resetTickets.Issue(ctx, email, s.config.ResetTicketTTL)
		})
		if err != nil {
			return nil, internalError("failed to issue reset ticket", err)
		}
		result.ResetToken = ticket
	}

	s.logAudit(ctx, domain.NewAuditEvent(domain.OTPVerifyEvent, "").WithEmail(email))
	return result, nil
}

func (s *AuthServiceImpl) registerOTPFailure(ctx context.Context, email string) {
	live, err := callExternal(ctx, s.config.ExternalTimeout, "otp cache", func(ctx context.Context) (bool, error) {
		return s.otpSvc.RegisterFailure(ctx, email)
	})
	if err != nil {
		s.log.WithError(err).WithField("email", email).Warn("failed to record otp attempt")
		return
	}
	if !live {
		s.log.WithField("email", email).Warn("otp invalidated after too many failed attempts")
	}
}

// ResetPassword implements domain.AuthService. When reset tickets are
// required the ticket is consumed before anything else, so it is single-use.
func (s *AuthServiceImpl) ResetPassword(ctx context.Context, in domain.ResetPasswordInput) error {
	if err := in.Validate(); err != nil {
		return err
	}
	email := domain.NormalizeEmail(in.Email)

	if s.resetTickets != nil {
		if in.ResetToken == "" {
			return domain.ErrInvalidResetTicket
		}
		ok, err := callExternal(ctx, s.config.ExternalTimeout, "reset ticket store", func(ctx context.Context) (bool, error) {
			return s.resetTickets.Consume(ctx, email, in.ResetToken)
		})
		if err != nil {
			return internalError("failed to check reset ticket", err)
		}
		if !ok {
			return domain.ErrInvalidResetTicket
		}
	}

	user, err := s.findUser(ctx, func(ctx context.Context) (*domain.User, error) {
		return s.userRepo.FindByEmail(ctx, email)
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrUserNotFound
		}
		return internalError("failed to load user", err)
	}

	hashedPassword, err := s.hash(ctx, in.NewPassword)
	if err != nil {
		return err
	}

	err = callExternalErr(ctx, s.config.ExternalTimeout, "user store", func(ctx context.Context) error {
		return s.userRepo.UpdatePassword(ctx, user.ID, hashedPassword)
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrUserNotFound
		}
		return internalError("failed to update password", err)
	}

	if s.refreshTokens != nil {
		err = callExternalErr(ctx, s.config.ExternalTimeout, "refresh token store", func(ctx context.Context) error {
			return s.refreshTokens.RevokeAll(ctx, user.ID)
		})
		if err != nil {
			s.log.WithError(err).WithField("user_id", user.ID).Error("failed to revoke sessions after password reset")
		}
	}

	s.logAudit(ctx, domain.NewAuditEvent(domain.PasswordResetEvent, user.ID).WithEmail(email))
	return nil
}

// Refresh implements domain.AuthService. The pair is re-minted from the
// stored user, so role changes take effect here.
func (s *AuthServiceImpl) Refresh(ctx context.Context, refreshToken string) (*domain.AuthResult, error) {
	if refreshToken == "" {
		return nil, domain.ErrRefreshTokenRequired
	}

	claims, err := s.tokenSvc.VerifyRefresh(refreshToken)
	if err != nil {
		s.log.WithError(err).Warn("refresh token rejected")
		return nil, domain.ErrInvalidRefreshToken
	}

	if s.refreshTokens != nil {
		live, err := callExternal(ctx, s.config.ExternalTimeout, "refresh token store", func(ctx context.Context) (bool, error) {
			return s.refreshTokens.Consume(ctx, claims.UserID, claims.TokenID)
		})
		if err != nil {
			return nil, internalError("failed to check refresh token", err)
		}
		if !live {
			// a validly signed token we no longer know about has been replayed
			err = callExternalErr(ctx, s.config.ExternalTimeout, "refresh token store", func(ctx context.Context) error {
				return s.refreshTokens.RevokeAll(ctx, claims.UserID)
			})
			if err != nil {
				s.log.WithError(err).WithField("user_id", claims.UserID).Error("failed to revoke sessions after token reuse")
			}
			s.logAudit(ctx, domain.NewAuditEvent(domain.TokenReuseEvent, claims.UserID).
				WithMetadata("token_id", claims.TokenID).WithError(domain.ErrRefreshTokenReused))
			return nil, domain.ErrRefreshTokenReused
		}
	}

	user, err := s.findUser(ctx, func(ctx context.Context) (*domain.User, error) {
		return s.userRepo.FindByID(ctx, claims.UserID)
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrRefreshUserNotFound
		}
		return nil, internalError("failed to load user", err)
	}

	result, err := s.issue(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logAudit(ctx, domain.NewAuditEvent(domain.TokenRefreshEvent, user.ID))
	return result, nil
}

// Logout implements domain.AuthService. It always succeeds once a refresh
// token is presented; a tracked token owned by the caller is revoked.
func (s *AuthServiceImpl) Logout(ctx context.Context, callerID, refreshToken string) error {
	if refreshToken == "" {
		return domain.ErrRefreshTokenRequired
	}

	if s.refreshTokens != nil {
		claims, err := s.tokenSvc.VerifyRefresh(refreshToken)
		switch {
		case err != nil:
			s.log.WithError(err).WithField("user_id", callerID).Debug("logout with unusable refresh token")
		case claims.UserID != callerID:
			s.log.WithField("user_id", callerID).Warn("logout with another user's refresh token")
		default:
			err = callExternalErr(ctx, s.config.ExternalTimeout, "refresh token store", func(ctx context.Context) error {
				return s.refreshTokens.Revoke(ctx, claims.UserID, claims.TokenID)
			})
			if err != nil {
				s.log.WithError(err).WithField("user_id", callerID).Error("failed to revoke refresh token on logout")
			}
		}
	}

	s.logAudit(ctx, domain.NewAuditEvent(domain.UserLogoutEvent, callerID))
	return nil
}

// GetUserProfile implements domain.AuthService
func (s *AuthServiceImpl) GetUserProfile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.findUser(ctx, func(ctx context.Context) (*domain.User, error) {
		return s.userRepo.FindByID(ctx, userID)
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, internalError("failed to load user", err)
	}
	return user, nil
}

// issue mints a pair from the user snapshot and registers the refresh id
func (s *AuthServiceImpl) issue(ctx context.Context, user *domain.User) (*domain.AuthResult, error) {
	pair, err := s.tokenSvc.Issue(user)
	if err != nil {
		return nil, internalError("failed to issue tokens", err)
	}

	if s.refreshTokens != nil {
		err = callExternalErr(ctx, s.config.ExternalTimeout, "refresh token store", func(ctx context.Context) error {
			return s.refreshTokens.Save(ctx, user.ID, pair.RefreshTokenID, s.tokenSvc.RefreshTTL())
		})
		if err != nil {
			return nil, internalError("failed to store refresh token", err)
		}
	}

	return &domain.AuthResult{User: user, Tokens: pair}, nil
}

func (s *AuthServiceImpl) discardUser(ctx context.Context, id string) {
	err := callExternalErr(ctx, s.config.ExternalTimeout, "user store", func(ctx context.Context) error {
		return s.userRepo.Delete(ctx, id)
	})
	if err != nil {
		s.log.WithError(err).WithField("user_id", id).Error("failed to remove user after token issue failed")
	}
}

func (s *AuthServiceImpl) findUser(ctx context.Context, find func(context.Context) (*domain.User, error)) (*domain.User, error) {
	return callExternal(ctx, s.config.ExternalTimeout, "user store", find)
}

func (s *AuthServiceImpl) hash(ctx context.Context, password string) (string, error) {
	hashed, err := callExternal(ctx, s.config.ExternalTimeout, "password hasher", func(context.Context) (string, error) {
		return s.passwordSvc.Hash(password)
	})
	if err != nil {
		return "", internalError("failed to hash password", err)
	}
	return hashed, nil
}

func (s *AuthServiceImpl) verifyPassword(ctx context.Context, hash, password string) (bool, error) {
	return callExternal(ctx, s.config.ExternalTimeout, "password hasher", func(context.Context) (bool, error) {
		return s.passwordSvc.Verify(hash, password), nil
	})
}

// getDummyHash returns a hash of a throwaway secret, computed once
func (s *AuthServiceImpl) getDummyHash() string {
	s.dummyOnce.Do(func() {
		h, err := s.passwordSvc.Hash("timing-equalizer-not-a-password")
		if err != nil {
			s.log.WithError(err).Warn("failed to prepare dummy hash")
			return
		}
		s.dummyHash = h
	})
	return s.dummyHash
}

func (s *AuthServiceImpl) logAudit(ctx context.Context, event *domain.AuditEvent) {
	if s.audit != nil {
		s.audit.LogEvent(ctx, event)
	}
}
