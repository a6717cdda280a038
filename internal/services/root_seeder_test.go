package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/DevByte-Community/Community-API-Backend-sub000/domain"
	"github.com/DevByte-Community/Community-API-Backend-sub000/internal/mocks"
)

func TestRootSeeder_Seed(t *testing.T) {
	validAcct := RootAccount{Email: " Root@Example.com ", Password: "rootpassword1"}

	tests := []struct {
		name        string
		acct        RootAccount
		setup       func(repo *mocks.MockUserRepository)
		wantCreated bool
		wantErr     string
	}{
		{name: "creates root", acct: validAcct, wantCreated: true},
		{name: "not configured", acct: RootAccount{}},
		{
			name: "root already present",
			acct: validAcct,
			setup: func(repo *mocks.MockUserRepository) {
				repo.CountByRoleFunc = func(context.Context, domain.Role) (int64, error) { return 1, nil }
			},
		},
		{
			name:    "weak password",
			acct:    RootAccount{Email: "root@example.com", Password: "short"},
			wantErr: "invalid root account",
		},
		{
			name: "email owned by another account",
			acct: validAcct,
			setup: func(repo *mocks.MockUserRepository) {
				repo.CreateFunc = func(context.Context, *domain.User) error { return domain.ErrEmailTaken }
			},
			wantErr: "already belongs",
		},
		{
			name: "count fails",
			acct: validAcct,
			setup: func(repo *mocks.MockUserRepository) {
				repo.CountByRoleFunc = func(context.Context, domain.Role) (int64, error) { return 0, errors.New("db down") }
			},
			wantErr: "count root accounts",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockUserRepository()
			var created *domain.User
			repo.CreateFunc = func(ctx context.Context, user *domain.User) error {
				created = user
				user.ID = "root-id"
				return nil
			}
			if tt.setup != nil {
				tt.setup(repo)
			}
			audit := mocks.NewMockAuditLogger()
			seeder := NewRootSeeder(repo, mocks.NewMockPasswordService(), audit, quietLogger())

			ok, err := seeder.Seed(context.Background(), tt.acct)

			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ok != tt.wantCreated {
				t.Fatalf("created = %v, want %v", ok, tt.wantCreated)
			}
			if !tt.wantCreated {
				return
			}
			if created.Role != domain.RoleRoot || created.Email != "root@example.com" || created.Fullname != "Root" {
				t.Errorf("unexpected root user %+v", created)
			}
			if created.PasswordHash != "hashed_rootpassword1" {
				t.Errorf("password must be hashed, got %q", created.PasswordHash)
			}
			if len(audit.Events(domain.RootSeededEvent)) != 1 {
				t.Error("expected a seed audit event")
			}
		})
	}
}
