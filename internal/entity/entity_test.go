package entity

import (
	"reflect"
	"testing"
)

func TestMemberRolePermissions(t *testing.T) {
	tests := []struct {
		role      MemberRole
		canManage bool
		kickable  []MemberRole
	}{
		{MemberRoleMember, false, nil},
		{MemberRoleModerator, true, []MemberRole{MemberRoleMember}},
		{MemberRoleAdmin, true, []MemberRole{MemberRoleMember, MemberRoleModerator}},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			if got := tt.role.CanManage(); got != tt.canManage {
				t.Errorf("CanManage = %v, want %v", got, tt.canManage)
			}
			if got := tt.role.Kickable(); !reflect.DeepEqual(got, tt.kickable) {
				t.Errorf("Kickable = %v, want %v", got, tt.kickable)
			}
		})
	}
}

func TestMemberRoleValid(t *testing.T) {
	for _, r := range []MemberRole{MemberRoleMember, MemberRoleModerator, MemberRoleAdmin} {
		if !r.Valid() {
			t.Errorf("%s should be valid", r)
		}
	}
	if MemberRole("owner").Valid() {
		t.Error("owner should not be valid")
	}
}

func TestPreferencesDefaultOn(t *testing.T) {
	off := false
	u := &User{NotifyNewResource: &off}

	prefs := u.Preferences()
	if !prefs.NewDiscussion {
		t.Error("unset newDiscussion should default to true")
	}
	if prefs.NewResource {
		t.Error("explicit false newResource should stay false")
	}
	if !prefs.Replies {
		t.Error("unset replies should default to true")
	}
}
