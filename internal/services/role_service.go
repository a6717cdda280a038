package services

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/DevByte-Community/Community-API-Backend-sub000/domain"
)

// RoleServiceImpl implements domain.RoleService
type RoleServiceImpl struct {
	userRepo domain.UserRepository
	audit    domain.AuditLogger
	log      *logrus.Logger
	timeout  time.Duration
}

// NewRoleService creates a new role service
func NewRoleService(userRepo domain.UserRepository, audit domain.AuditLogger, log *logrus.Logger, timeout time.Duration) domain.RoleService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &RoleServiceImpl{
		userRepo: userRepo,
		audit:    audit,
		log:      log,
		timeout:  timeout,
	}
}

// AssignRole implements domain.RoleService. Checks run in a fixed order so
// the first failing rule decides the error.
func (s *RoleServiceImpl) AssignRole(ctx context.Context, callerID, targetUserID, requestedRole string) (*domain.User, error) {
	role, ok := domain.ParseRole(requestedRole)
	if !ok {
		return nil, domain.ErrUnknownRole
	}
	if role == domain.RoleRoot {
		s.deny(ctx, callerID, targetUserID, role, domain.ErrRootNotAssignable)
		return nil, domain.ErrRootNotAssignable
	}

	caller, err := s.load(ctx, callerID, domain.ErrCallerNotFound)
	if err != nil {
		return nil, err
	}
	target, err := s.load(ctx, targetUserID, domain.ErrTargetNotFound)
	if err != nil {
		return nil, err
	}

	if err := checkAssignment(caller, target, role); err != nil {
		s.deny(ctx, callerID, targetUserID, role, err)
		return nil, err
	}

	err = callExternalErr(ctx, s.timeout, "user store", func(ctx context.Context) error {
		return s.userRepo.UpdateRole(ctx, target.ID, role)
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrTargetNotFound
		}
		return nil, internalError("failed to update role", err)
	}

	previous := target.Role
	target.Role = role

	if s.audit != nil {
		s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.RoleAssignedEvent, caller.ID).
			WithMetadata("target_id", target.ID).
			WithMetadata("previous_role", previous.String()).
			WithMetadata("role", role.String()))
	}
	return target, nil
}

// checkAssignment applies the hierarchy rules to loaded users
func checkAssignment(caller, target *domain.User, role domain.Role) error {
	if caller.ID == target.ID {
		return domain.ErrSelfRoleChange
	}
	if !caller.Role.CanAssignRole() {
		return domain.ErrCannotAssignRoles
	}
	if role.Rank() > caller.Role.Rank() {
		return domain.ErrRoleAboveCaller
	}
	// demoting ROOT would leave the system without one
	if target.Role == domain.RoleRoot {
		return domain.ErrRootImmutable
	}
	return nil
}

func (s *RoleServiceImpl) load(ctx context.Context, id string, notFound error) (*domain.User, error) {
	user, err := callExternal(ctx, s.timeout, "user store", func(ctx context.Context) (*domain.User, error) {
		return s.userRepo.FindByID(ctx, id)
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, notFound
		}
		return nil, internalError("failed to load user", err)
	}
	return user, nil
}

func (s *RoleServiceImpl) deny(ctx context.Context, callerID, targetID string, role domain.Role, reason error) {
	s.log.WithFields(logrus.Fields{
		"caller_id": callerID,
		"target_id": targetID,
		"role":      role.String(),
	}).Warn("role assignment denied")

	if s.audit != nil {
		s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.RoleAssignDeniedEvent, callerID).
			WithMetadata("target_id", targetID).
			WithMetadata("role", role.String()).
			WithError(reason))
	}
}
