package services

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/sirupsen/logrus"

	"github.com/DevByte-Community/Community-API-Backend-sub000/domain"
)

// CasbinEnforcerWrapper wraps the real Casbin enforcer to implement our interface
type CasbinEnforcerWrapper struct {
	enforcer *casbin.Enforcer
}

// NewCasbinEnforcerWrapper creates a wrapper for the real Casbin enforcer
func NewCasbinEnforcerWrapper(enforcer *casbin.Enforcer) domain.CasbinEnforcer {
	return &CasbinEnforcerWrapper{enforcer: enforcer}
}

func (w *CasbinEnforcerWrapper) AddPolicy(params ...interface{}) (bool, error) {
	return w.enforcer.AddPolicy(params...)
}

func (w *CasbinEnforcerWrapper) RemovePolicy(params ...interface{}) (bool, error) {
	return w.enforcer.RemovePolicy(params...)
}

func (w *CasbinEnforcerWrapper) Enforce(rvals ...interface{}) (bool, error) {
	return w.enforcer.Enforce(rvals...)
}

func (w *CasbinEnforcerWrapper) GetPolicy() ([][]string, error) {
	return w.enforcer.GetPolicy()
}

// PolicyServiceImpl implements domain.PolicyService using Casbin. Subjects
// are role names, so only known roles are accepted. The gorm adapter writes
// each added or removed rule itself; SavePolicy would rewrite the whole table.
type PolicyServiceImpl struct {
	enforcer domain.CasbinEnforcer
	log      *logrus.Logger
}

// NewPolicyService creates a new policy service
func NewPolicyService(enforcer *casbin.Enforcer, log *logrus.Logger) domain.PolicyService {
	return NewPolicyServiceWithEnforcer(NewCasbinEnforcerWrapper(enforcer), log)
}

// NewPolicyServiceWithEnforcer creates a new policy service with a CasbinEnforcer interface (for testing)
func NewPolicyServiceWithEnforcer(enforcer domain.CasbinEnforcer, log *logrus.Logger) domain.PolicyService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &PolicyServiceImpl{
		enforcer: enforcer,
		log:      log,
	}
}

func validatePolicy(role, resource, action string) (domain.Role, error) {
	r, ok := domain.ParseRole(role)
	if !ok {
		return "", domain.BadRequest("sub must be one of USER, ADMIN, ROOT")
	}
	if resource == "" || action == "" {
		return "", domain.ValidationFailed([]string{"obj and act are required"})
	}
	return r, nil
}

// AddPolicy implements domain.PolicyService
func (p *PolicyServiceImpl) AddPolicy(role, resource, action string) error {
	r, err := validatePolicy(role, resource, action)
	if err != nil {
		return err
	}
	added, err := p.enforcer.AddPolicy(r.String(), resource, action)
	if err != nil {
		return domain.Internal("failed to add policy", err)
	}
	if !added {
		return domain.Conflict(fmt.Sprintf("policy %s %s %s already exists", r, resource, action))
	}
	p.log.WithFields(logrus.Fields{"sub": r, "obj": resource, "act": action}).Info("policy added")
	return nil
}

// RemovePolicy implements domain.PolicyService
func (p *PolicyServiceImpl) RemovePolicy(role, resource, action string) error {
	r, err := validatePolicy(role, resource, action)
	if err != nil {
		return err
	}
	removed, err := p.enforcer.RemovePolicy(r.String(), resource, action)
	if err != nil {
		return domain.Internal("failed to remove policy", err)
	}
	if !removed {
		return domain.NotFound("policy not found")
	}
	p.log.WithFields(logrus.Fields{"sub": r, "obj": resource, "act": action}).Info("policy removed")
	return nil
}

// CheckPermission implements domain.PolicyService
func (p *PolicyServiceImpl) CheckPermission(role, resource, action string) (bool, error) {
	return p.enforcer.Enforce(role, resource, action)
}

// GetPolicies implements domain.PolicyService
func (p *PolicyServiceImpl) GetPolicies() [][]string {
	policies, err := p.enforcer.GetPolicy()
	if err != nil {
		p.log.WithError(err).Error("failed to list policies")
		return nil
	}
	return policies
}
