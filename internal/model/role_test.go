package model

import "testing"

func TestParseRole(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  Role
		ok    bool
	}{
		{name: "customer lowercase", input: "customer", want: RoleCustomer, ok: true},
		{name: "owner padded", input: " OWNER ", want: RoleOwner, ok: true},
		{name: "legacy restaurant owner", input: "RESTAURANT_OWNER", want: RoleOwner, ok: true},
		{name: "admin", input: "admin", want: RoleAdmin, ok: true},
		{name: "unknown", input: "manager", ok: false},
		{name: "empty", input: "", ok: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseRole(tc.input)
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if got != tc.want {
				t.Fatalf("role = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRoleGates(t *testing.T) {
	if !RoleOwner.CanManageRestaurants() || !RoleAdmin.CanManageRestaurants() {
		t.Fatal("owners and admins manage restaurants")
	}
	if RoleCustomer.CanManageRestaurants() {
		t.Fatal("customers must not manage restaurants")
	}
	if !RoleCustomer.CanCreateBookings() || !RoleAdmin.CanCreateBookings() {
		t.Fatal("customers and admins create bookings")
	}
	if RoleOwner.CanCreateBookings() {
		t.Fatal("owners do not book through the API")
	}
}
