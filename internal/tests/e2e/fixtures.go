package e2e

import (
	"context"
	"fmt"
	"regexp"
	"sync/atomic"
	"testing"

	"github.com/DevByte-Community/Community-API-Backend-sub000/domain"
)

const DefaultPassword = "Test123!@#pass"

var (
	emailSeq  atomic.Int64
	otpInMail = regexp.MustCompile(`\b(\d{6})\b`)
)

// generateTestEmail returns a unique address for this test binary
func generateTestEmail() string {
	return fmt.Sprintf("user%d@community.test", emailSeq.Add(1))
}

// Session is a signed-in user as seen by the client
type Session struct {
	ID           string
	Email        string
	Password     string
	AccessToken  string
	RefreshToken string
}

// SignUp registers a new USER through the API
func (ts *TestServer) SignUp(t *testing.T) *Session {
	t.Helper()
	email := generateTestEmail()

	resp := ts.Post("/auth/signup", map[string]string{
		"fullname": "Test User",
		"email":    email,
		"password": DefaultPassword,
	}, "")
	if resp.Status != 201 {
		t.Fatalf("signup failed: %d %v", resp.Status, resp.Body)
	}
	return sessionFrom(resp, email, DefaultPassword)
}

// SignIn signs in through the API and fails the test on error
func (ts *TestServer) SignIn(t *testing.T, email, password string) *Session {
	t.Helper()

	resp := ts.Post("/auth/signin", map[string]string{"email": email, "password": password}, "")
	if resp.Status != 200 {
		t.Fatalf("signin failed for %s: %d %v", email, resp.Status, resp.Body)
	}
	return sessionFrom(resp, email, password)
}

// SignInRoot signs in as the seeded ROOT account
func (ts *TestServer) SignInRoot(t *testing.T) *Session {
	t.Helper()
	return ts.SignIn(t, RootEmail, RootPassword)
}

// SignUpAs registers a user, sets their role directly in the store and signs
// them in again so the tokens carry the new role.
func (ts *TestServer) SignUpAs(t *testing.T, role domain.Role) *Session {
	t.Helper()
	s := ts.SignUp(t)
	if role == domain.RoleUser {
		return s
	}
	if err := ts.Suite.Container.UserRepo.UpdateRole(context.Background(), s.ID, role); err != nil {
		t.Fatalf("failed to set role %s: %v", role, err)
	}
	return ts.SignIn(t, s.Email, s.Password)
}

// WaitForMail blocks until reset-code emails queued so far have been handed
// to the mailer.
func (ts *TestServer) WaitForMail() {
	if d, ok := ts.Suite.Container.AuthSvc.(interface{ Drain() }); ok {
		d.Drain()
	}
}

// LastOTP returns the code in the most recent email sent to the address
func (ts *TestServer) LastOTP(t *testing.T, email string) string {
	t.Helper()
	ts.WaitForMail()
	sent := ts.Suite.Mailer.Sent()
	for i := len(sent) - 1; i >= 0; i-- {
		if sent[i].To != email {
			continue
		}
		if m := otpInMail.FindStringSubmatch(sent[i].Body); m != nil {
			return m[1]
		}
	}
	t.Fatalf("no otp email sent to %s", email)
	return ""
}

// StoredRole reads a user's role straight from the database
func (ts *TestServer) StoredRole(t *testing.T, id string) domain.Role {
	t.Helper()
	u, err := ts.Suite.Container.UserRepo.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("failed to load user %s: %v", id, err)
	}
	return u.Role
}

func sessionFrom(resp *Response, email, password string) *Session {
	id, _ := resp.User()["id"].(string)
	return &Session{
		ID:           id,
		Email:        email,
		Password:     password,
		AccessToken:  resp.String("accessToken"),
		RefreshToken: resp.String("refreshToken"),
	}
}
