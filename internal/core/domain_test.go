package core

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestExpenseValidate(t *testing.T) {
	good := Expense{
		Amount:   decimal.RequireFromString("12.50"),
		Category: "Food",
		Date:     "2024-01-01",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	zero := good
	zero.Amount = decimal.Zero
	if err := zero.Validate(); err != nil {
		t.Fatalf("zero amount should be valid, got %v", err)
	}

	bads := []struct {
		e    Expense
		want error
	}{
		{Expense{Amount: decimal.NewFromInt(-1), Category: "c", Date: "2024-01-01"}, ErrInvalidAmount},
		{Expense{Amount: decimal.NewFromInt(1), Category: "  ", Date: "2024-01-01"}, ErrEmptyCategory},
		{Expense{Amount: decimal.NewFromInt(1), Category: "a|b", Date: "2024-01-01"}, ErrInvalidCategory},
		{Expense{Amount: decimal.NewFromInt(1), Category: "a\nb", Date: "2024-01-01"}, ErrInvalidCategory},
		{Expense{Amount: decimal.NewFromInt(1), Category: "c", Date: "01/02/2024"}, ErrInvalidDate},
	}
	for i, tc := range bads {
		err := tc.e.Validate()
		if !errors.Is(err, tc.want) {
			t.Fatalf("case %d expected %v, got %v", i, tc.want, err)
		}
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("case %d expected ErrInvalidInput in chain, got %v", i, err)
		}
	}
}

func TestValidateCategoryTrims(t *testing.T) {
	got, err := ValidateCategory("  Transport \t")
	if err != nil || got != "Transport" {
		t.Fatalf("got %q err=%v", got, err)
	}
}

func TestExpenseMatches(t *testing.T) {
	e := Expense{Amount: decimal.NewFromInt(50), Category: "Food", Date: "2024-01-03"}
	cases := []struct {
		kw   string
		want bool
	}{
		{"", true},
		{"food", true},
		{"FOO", true},
		{"2024-01", true},
		{"01-03", true},
		{"transport", false},
		{"2024-01-04", false},
	}
	for _, tc := range cases {
		if got := e.Matches(tc.kw); got != tc.want {
			t.Fatalf("Matches(%q) = %v, want %v", tc.kw, got, tc.want)
		}
	}
}

func TestToday(t *testing.T) {
	ts := time.Date(2024, 3, 9, 12, 0, 0, 0, time.Local)
	if got := Today(ts); got != "2024-03-09" {
		t.Fatalf("Today() = %q", got)
	}
}
