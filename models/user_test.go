package models

import "testing"

func TestCapabilities_FollowStaffFlag(t *testing.T) {
	member := User{Username: "alice"}
	if member.CanApprove() || member.CanManageCatalog() {
		t.Fatal("regular users must not hold staff capabilities")
	}

	staff := User{Username: "bob", IsStaff: true}
	if !staff.CanApprove() {
		t.Fatal("staff should be able to review tasks")
	}
	if !staff.CanManageCatalog() {
		t.Fatal("staff should be able to manage the catalog")
	}
}
