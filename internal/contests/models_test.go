package contests

import "testing"

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusPending, StatusAccepted, StatusRejected} {
		if !ValidStatus(s) {
			t.Errorf("ValidStatus(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"", "pending", "Approved", "accepted"} {
		if ValidStatus(s) {
			t.Errorf("ValidStatus(%q) = true, want false", s)
		}
	}
}

func TestValidRole(t *testing.T) {
	for _, r := range []string{RoleDefault, RoleCreator, RoleAdmin} {
		if !ValidRole(r) {
			t.Errorf("ValidRole(%q) = false, want true", r)
		}
	}
	for _, r := range []string{"", "Admin", "CREATOR", "user"} {
		if ValidRole(r) {
			t.Errorf("ValidRole(%q) = true, want false", r)
		}
	}
}
