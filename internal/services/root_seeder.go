package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/DevByte-Community/Community-API-Backend-sub000/domain"
)

// RootAccount describes the single ROOT user created at bootstrap
type RootAccount struct {
	Email    string
	Password string
	Fullname string
}

// RootSeeder creates the ROOT account when none exists. It is the only
// code path that ever writes the ROOT role.
type RootSeeder struct {
	userRepo    domain.UserRepository
	passwordSvc domain.PasswordService
	audit       domain.AuditLogger
	log         *logrus.Logger
}

// NewRootSeeder creates a new root seeder
func NewRootSeeder(userRepo domain.UserRepository, passwordSvc domain.PasswordService, audit domain.AuditLogger, log *logrus.Logger) *RootSeeder {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &RootSeeder{userRepo: userRepo, passwordSvc: passwordSvc, audit: audit, log: log}
}

// Seed returns (true, nil) when it created the account and (false, nil) when
// there was nothing to do.
func (s *RootSeeder) Seed(ctx context.Context, acct RootAccount) (bool, error) {
	if acct.Email == "" || acct.Password == "" {
		s.log.Info("root account not configured, skipping seed")
		return false, nil
	}

	count, err := s.userRepo.CountByRole(ctx, domain.RoleRoot)
	if err != nil {
		return false, fmt.Errorf("count root accounts: %w", err)
	}
	if count > 0 {
		s.log.WithField("count", count).Debug("root account already present")
		return false, nil
	}

	in := domain.SignupInput{Fullname: acct.Fullname, Email: domain.NormalizeEmail(acct.Email), Password: acct.Password}
	if in.Fullname == "" {
		in.Fullname = "Root"
	}
	if err := in.Validate(); err != nil {
		return false, fmt.Errorf("invalid root account: %w", err)
	}

	hashed, err := s.passwordSvc.Hash(acct.Password)
	if err != nil {
		return false, fmt.Errorf("hash root password: %w", err)
	}

	user := &domain.User{
		Fullname:     strings.TrimSpace(in.Fullname),
		Email:        in.Email,
		PasswordHash: hashed,
		Role:         domain.RoleRoot,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return false, fmt.Errorf("root email %s already belongs to a non-root account", user.Email)
		}
		return false, fmt.Errorf("create root account: %w", err)
	}

	s.log.WithField("user_id", user.ID).Info("root account created")
	if s.audit != nil {
		s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.RootSeededEvent, user.ID).WithEmail(user.Email))
	}
	return true, nil
}
