package mocks

import (
	"path"
	"sync"

	"github.com/DevByte-Community/Community-API-Backend-sub000/domain"
)

// MockCasbinEnforcer implements the CasbinEnforcer interface for testing.
// Without overrides it keeps policies in memory and honors the role hierarchy.
type MockCasbinEnforcer struct {
	AddPolicyFunc    func(params ...interface{}) (bool, error)
	RemovePolicyFunc func(params ...interface{}) (bool, error)
	EnforceFunc      func(rvals ...interface{}) (bool, error)
	GetPolicyFunc    func() ([][]string, error)

	mu       sync.Mutex
	policies [][]string
}

// Compile-time interface compliance verification
var _ domain.CasbinEnforcer = (*MockCasbinEnforcer)(nil)

// NewMockCasbinEnforcer creates a new MockCasbinEnforcer with default behaviors
func NewMockCasbinEnforcer() *MockCasbinEnforcer {
	return &MockCasbinEnforcer{
		policies: [][]string{
			{"USER", "/auth/me", "GET"},
			{"USER", "/auth/logout", "POST"},
			{"ADMIN", "/admin/*", "*"},
		},
	}
}

func toStrings(params []interface{}) []string {
	out := make([]string, len(params))
	for i, p := range params {
		out[i], _ = p.(string)
	}
	return out
}

func (m *MockCasbinEnforcer) indexOf(rule []string) int {
	for i, p := range m.policies {
		if len(p) != len(rule) {
			continue
		}
		match := true
		for j := range p {
			if p[j] != rule[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

// AddPolicy adds a new policy rule; false when it already exists
func (m *MockCasbinEnforcer) AddPolicy(params ...interface{}) (bool, error) {
	if m.AddPolicyFunc != nil {
		return m.AddPolicyFunc(params...)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rule := toStrings(params)
	if m.indexOf(rule) >= 0 {
		return false, nil
	}
	m.policies = append(m.policies, rule)
	return true, nil
}

// RemovePolicy removes a policy rule; false when it was absent
func (m *MockCasbinEnforcer) RemovePolicy(params ...interface{}) (bool, error) {
	if m.RemovePolicyFunc != nil {
		return m.RemovePolicyFunc(params...)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(toStrings(params))
	if i < 0 {
		return false, nil
	}
	m.policies = append(m.policies[:i], m.policies[i+1:]...)
	return true, nil
}

// Enforce allows (role, obj, act) when a rule for role or any role it
// outranks matches. Objects use path.Match globbing.
func (m *MockCasbinEnforcer) Enforce(rvals ...interface{}) (bool, error) {
	if m.EnforceFunc != nil {
		return m.EnforceFunc(rvals...)
	}
	if len(rvals) < 3 {
		return false, nil
	}
	req := toStrings(rvals[:3])
	role := domain.Role(req[0])

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.policies {
		if len(p) < 3 || !role.IsAtLeast(domain.Role(p[0])) {
			continue
		}
		if ok, _ := path.Match(p[1], req[1]); !ok && p[1] != req[1] {
			continue
		}
		if p[2] == "*" || p[2] == req[2] {
			return true, nil
		}
	}
	return false, nil
}

// GetPolicy returns a copy of all policies
func (m *MockCasbinEnforcer) GetPolicy() ([][]string, error) {
	if m.GetPolicyFunc != nil {
		return m.GetPolicyFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([][]string, len(m.policies))
	for i, policy := range m.policies {
		result[i] = append([]string(nil), policy...)
	}
	return result, nil
}

// SetPolicies replaces the internal policies (test helper)
func (m *MockCasbinEnforcer) SetPolicies(policies [][]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.policies = make([][]string, len(policies))
	for i, policy := range policies {
		m.policies[i] = append([]string(nil), policy...)
	}
}
