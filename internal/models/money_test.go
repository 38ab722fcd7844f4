package models

import (
	"encoding/json"
	"testing"
)

func TestMoneyUnmarshalAcceptsStringAndNumber(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{name: "string", raw: `"49.99"`, want: "49.99"},
		{name: "number", raw: `49.99`, want: "49.99"},
		{name: "integer", raw: `25`, want: "25.00"},
		{name: "rounds", raw: `"10.005"`, want: "10.01"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var m Money
			if err := json.Unmarshal([]byte(tc.raw), &m); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
			if m.String() != tc.want {
				t.Fatalf("want %s got %s", tc.want, m.String())
			}
		})
	}
}

func TestMoneyUnmarshalRejectsInvalid(t *testing.T) {
	for _, raw := range []string{`"abc"`, `""`, `true`, `{}`} {
		var m Money
		if err := json.Unmarshal([]byte(raw), &m); err == nil {
			t.Fatalf("expected error for %s", raw)
		}
	}
}

func TestMoneyMarshalTwoDecimals(t *testing.T) {
	payload, err := json.Marshal(NewMoneyFromFloat(7.5))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(payload) != `"7.50"` {
		t.Fatalf("want \"7.50\" got %s", payload)
	}
}

func TestMoneyArithmeticAvoidsFloatDrift(t *testing.T) {
	total := ZeroMoney()
	for i := 0; i < 10; i++ {
		total = total.Add(NewMoneyFromFloat(0.1))
	}
	if total.String() != "1.00" {
		t.Fatalf("want 1.00 got %s", total.String())
	}
	if got := NewMoneyFromFloat(49.99).Mul(3).String(); got != "149.97" {
		t.Fatalf("want 149.97 got %s", got)
	}
}

func TestParseMoney(t *testing.T) {
	if _, err := ParseMoney("  "); err != ErrMoneyInvalid {
		t.Fatalf("blank should be invalid, got %v", err)
	}
	m, err := ParseMoney(" 12.3 ")
	if err != nil || m.String() != "12.30" {
		t.Fatalf("unexpected result %s err=%v", m.String(), err)
	}
}
