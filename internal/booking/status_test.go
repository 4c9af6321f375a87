package booking

import (
	"errors"
	"strings"
	"testing"

	"github.com/alex8098/opentable-clone/internal/model"
)

func TestParseStatus(t *testing.T) {
	cases := []struct {
		in   string
		want Status
		ok   bool
	}{
		{in: "pending", want: StatusPending, ok: true},
		{in: " CONFIRMED ", want: StatusConfirmed, ok: true},
		{in: "no_show", want: StatusNoShow, ok: true},
		{in: "NOSHOW", ok: false},
		{in: "", ok: false},
	}
	for _, tc := range cases {
		got, ok := ParseStatus(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ParseStatus(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestTerminalStatesBlockEverything(t *testing.T) {
	admin := Actor{Role: model.RoleAdmin}
	for _, s := range []Status{StatusCancelled, StatusCompleted} {
		err := Transition(s, StatusConfirmed, admin)
		var terminal *TerminalStateError
		if !errors.As(err, &terminal) {
			t.Fatalf("transition out of %s: expected TerminalStateError, got %v", s, err)
		}
		if !strings.Contains(err.Error(), strings.ToLower(string(s))) {
			t.Fatalf("error %q should name the blocking state %s", err, s)
		}
		if err := CanEdit(s, admin); err == nil {
			t.Fatalf("edit of %s booking should be rejected even for admins", s)
		}
	}
}

func TestCustomerMayOnlyCancel(t *testing.T) {
	customer := Actor{Role: model.RoleCustomer, IsBookingCustomer: true}

	err := Transition(StatusPending, StatusConfirmed, customer)
	var notAllowed *NotAllowedError
	if !errors.As(err, &notAllowed) {
		t.Fatalf("customer confirming own booking: expected NotAllowedError, got %v", err)
	}
	if err := Transition(StatusPending, StatusCancelled, customer); err != nil {
		t.Fatalf("customer cancelling own booking should succeed, got %v", err)
	}
	if err := Transition(StatusConfirmed, StatusCancelled, customer); err != nil {
		t.Fatalf("cancel from CONFIRMED should succeed, got %v", err)
	}
}

func TestStrangerMayDoNothing(t *testing.T) {
	stranger := Actor{Role: model.RoleCustomer}
	if err := Transition(StatusPending, StatusCancelled, stranger); err == nil {
		t.Fatal("unrelated customer must not cancel someone else's booking")
	}
	if err := CanEdit(StatusPending, stranger); err == nil {
		t.Fatal("unrelated customer must not edit someone else's booking")
	}
}

func TestOwnerAndAdminTransitions(t *testing.T) {
	owner := Actor{Role: model.RoleOwner, IsRestaurantOwner: true}
	otherOwner := Actor{Role: model.RoleOwner}
	admin := Actor{Role: model.RoleAdmin}

	targets := []Status{StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusNoShow}
	for _, target := range targets {
		if err := Transition(StatusPending, target, owner); err != nil {
			t.Errorf("restaurant owner -> %s: unexpected error %v", target, err)
		}
		if err := Transition(StatusPending, target, admin); err != nil {
			t.Errorf("admin -> %s: unexpected error %v", target, err)
		}
		if err := Transition(StatusPending, target, otherOwner); err == nil {
			t.Errorf("owner of a different restaurant -> %s: expected rejection", target)
		}
	}
}

func TestNoShowIsNotTerminal(t *testing.T) {
	owner := Actor{Role: model.RoleOwner, IsRestaurantOwner: true}
	if err := Transition(StatusNoShow, StatusCompleted, owner); err != nil {
		t.Fatalf("NO_SHOW -> COMPLETED should be allowed for the owner, got %v", err)
	}
}

func TestOwnerCannotEditCustomerDetails(t *testing.T) {
	owner := Actor{Role: model.RoleOwner, IsRestaurantOwner: true}
	if err := CanEdit(StatusPending, owner); err == nil {
		t.Fatal("restaurant owner must not edit the customer's booking details")
	}
}
