package auth

import (
	"fmt"
	"os"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"

	"github.com/DevByte-Community/Community-API-Backend-sub000/domain"
)

// DefaultModel is the RBAC model used when no model file is configured.
// Subjects are role names; objects are route patterns.
const DefaultModel = `[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch2(r.obj, p.obj) && (r.act == p.act || p.act == "*")
`

// DefaultPolicies are seeded on startup when missing
var DefaultPolicies = [][]string{
	{domain.RoleUser.String(), "/auth/me", "GET"},
	{domain.RoleUser.String(), "/auth/logout", "POST"},
	{domain.RoleAdmin.String(), "/admin/*", "*"},
}

// roleInheritance wires ROOT -> ADMIN -> USER
var roleInheritance = [][]string{
	{domain.RoleRoot.String(), domain.RoleAdmin.String()},
	{domain.RoleAdmin.String(), domain.RoleUser.String()},
}

type CasbinService struct{ E *casbin.Enforcer }

// NewCasbinService builds an enforcer persisted through gorm. An empty or
// missing modelPath falls back to DefaultModel.
func NewCasbinService(db *gorm.DB, modelPath string) (*CasbinService, error) {
	adp, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, fmt.Errorf("casbin adapter: %w", err)
	}

	m, err := loadModel(modelPath)
	if err != nil {
		return nil, err
	}

	E, err := casbin.NewEnforcer(m, adp)
	if err != nil {
		return nil, fmt.Errorf("casbin enforcer: %w", err)
	}
	if err := E.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("casbin load policy: %w", err)
	}
	return &CasbinService{E}, nil
}

func loadModel(path string) (model.Model, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return model.NewModelFromFile(path)
		}
	}
	return model.NewModelFromString(DefaultModel)
}

// SeedDefaults adds the role inheritance chain and default route policies.
// Existing rules are left untouched.
func (s *CasbinService) SeedDefaults() error {
	for _, g := range roleInheritance {
		if _, err := s.E.AddGroupingPolicy(g[0], g[1]); err != nil {
			return fmt.Errorf("seed role inheritance: %w", err)
		}
	}
	for _, p := range DefaultPolicies {
		if _, err := s.E.AddPolicy(p[0], p[1], p[2]); err != nil {
			return fmt.Errorf("seed policy: %w", err)
		}
	}
	return nil
}
