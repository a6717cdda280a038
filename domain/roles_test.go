package domain

import "testing"

func TestParseRole(t *testing.T) {
	tests := []struct {
		input  string
		want   Role
		wantOK bool
	}{
		{"USER", RoleUser, true},
		{"admin", RoleAdmin, true},
		{" Root ", RoleRoot, true},
		{"superuser", Role("SUPERUSER"), false},
		{"", Role(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseRole(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("expected ok=%v, got %v", tt.wantOK, ok)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestRole_Rank(t *testing.T) {
	if !(RoleUser.Rank() < RoleAdmin.Rank() && RoleAdmin.Rank() < RoleRoot.Rank()) {
		t.Fatal("roles must be totally ordered USER < ADMIN < ROOT")
	}
	if Role("GUEST").Rank() != 0 {
		t.Error("unknown role should rank 0")
	}
}

func TestRole_IsAtLeast(t *testing.T) {
	for _, have := range AllRoles() {
		for _, min := range AllRoles() {
			want := have.Rank() >= min.Rank()
			if got := have.IsAtLeast(min); got != want {
				t.Errorf("%s.IsAtLeast(%s) = %v, want %v", have, min, got, want)
			}
		}
	}
	if Role("GUEST").IsAtLeast(RoleUser) {
		t.Error("unknown role should never satisfy a minimum")
	}
}

func TestRole_CanAssignRole(t *testing.T) {
	tests := map[Role]bool{
		RoleUser:  false,
		RoleAdmin: true,
		RoleRoot:  true,
	}
	for role, want := range tests {
		if got := role.CanAssignRole(); got != want {
			t.Errorf("%s.CanAssignRole() = %v, want %v", role, got, want)
		}
	}
}

func TestAssignableRoles_ExcludesRoot(t *testing.T) {
	for _, r := range AssignableRoles() {
		if r == RoleRoot {
			t.Fatal("ROOT must never be assignable")
		}
	}
}
