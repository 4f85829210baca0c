package models

import (
	"testing"
	"time"
)

func TestOrderTransitions(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{OrderPending, OrderConfirmed, true},
		{OrderPending, OrderCancelled, true},
		{OrderPending, OrderShipped, false},
		{OrderConfirmed, OrderProcessing, true},
		{OrderProcessing, OrderShipped, true},
		{OrderShipped, OrderDelivered, true},
		{OrderShipped, OrderCancelled, false},
		{OrderDelivered, OrderCancelled, false},
		{OrderCancelled, OrderConfirmed, false},
		{OrderConfirmed, OrderConfirmed, false},
	}

	for _, tc := range cases {
		if got := CanTransitionOrder(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransitionOrder(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestBookingTransitions(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{BookingPending, BookingConfirmed, true},
		{BookingPending, BookingCancelled, true},
		{BookingPending, BookingCompleted, false},
		{BookingConfirmed, BookingCompleted, true},
		{BookingConfirmed, BookingCancelled, true},
		{BookingCompleted, BookingCancelled, false},
		{BookingCancelled, BookingConfirmed, false},
	}

	for _, tc := range cases {
		if got := CanTransitionBooking(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransitionBooking(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestOTPValid(t *testing.T) {
	now := time.Now()

	fresh := OTP{ExpiresAt: now.Add(time.Minute)}
	if !fresh.Valid(now) {
		t.Errorf("fresh code should be valid")
	}

	used := OTP{ExpiresAt: now.Add(time.Minute), IsUsed: true}
	if used.Valid(now) {
		t.Errorf("used code should be invalid")
	}

	expired := OTP{ExpiresAt: now.Add(-time.Second)}
	if expired.Valid(now) {
		t.Errorf("expired code should be invalid")
	}

	boundary := OTP{ExpiresAt: now}
	if boundary.Valid(now) {
		t.Errorf("code expiring exactly now should be invalid")
	}
}
