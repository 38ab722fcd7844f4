package models

import (
	"encoding/json"
	"math"
	"testing"
)

func TestCartDerivedValues(t *testing.T) {
	cart := Cart{Items: []CartItem{
		{ID: "m1", Name: "Gold Membership", Price: NewMoneyFromFloat(49.99), Type: "membership", Quantity: 2},
		{ID: "e1", Name: "Kettlebell", Price: NewMoneyFromFloat(25.5), Type: "equipment", Quantity: 1},
	}}
	if got := cart.TotalCount(); got != 3 {
		t.Fatalf("count want 3 got %d", got)
	}
	if got := cart.TotalPrice().String(); got != "125.48" {
		t.Fatalf("total want 125.48 got %s", got)
	}
	if got := cart.Items[0].Subtotal().String(); got != "99.98" {
		t.Fatalf("subtotal want 99.98 got %s", got)
	}
	if cart.IndexOf("e1") != 1 || cart.IndexOf("missing") != -1 {
		t.Fatalf("unexpected IndexOf results")
	}
}

func TestCartEmpty(t *testing.T) {
	cart := NewCart()
	if cart.TotalCount() != 0 || cart.TotalPrice().String() != "0.00" {
		t.Fatalf("empty cart should have zero totals")
	}
	payload, _ := json.Marshal(cart)
	if string(payload) != `{"items":[]}` {
		t.Fatalf("empty cart payload want {\"items\":[]} got %s", payload)
	}
}

func TestCartCloneIsIndependent(t *testing.T) {
	cart := Cart{Items: []CartItem{{ID: "m1", Quantity: 1}}}
	clone := cart.Clone()
	clone.Items[0].Quantity = 9
	if cart.Items[0].Quantity != 1 {
		t.Fatalf("clone should not share backing array")
	}
}

func TestAddQuantitySaturates(t *testing.T) {
	cases := []struct {
		name     string
		quantity int
		delta    int
		want     int
	}{
		{name: "plain", quantity: 2, delta: 3, want: 5},
		{name: "negative", quantity: 2, delta: -5, want: -3},
		{name: "overflow", quantity: 2, delta: math.MaxInt, want: math.MaxInt},
		{name: "at max", quantity: math.MaxInt, delta: 1, want: math.MaxInt},
		{name: "underflow", quantity: -2, delta: math.MinInt, want: math.MinInt},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := AddQuantity(tc.quantity, tc.delta); got != tc.want {
				t.Fatalf("AddQuantity(%d, %d) = %d, want %d", tc.quantity, tc.delta, got, tc.want)
			}
		})
	}
}
