package catalog

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func validInput() Input {
	return Input{
		Name:        "Minimal UI Kit",
		Description: "120+ komponen Figma",
		Price:       decimal.NewFromInt(29),
		Category:    CategoryUIKits,
	}
}

func TestValidateInput(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Input)
		wantOK bool
	}{
		{"valid", func(in *Input) {}, true},
		{"icons category", func(in *Input) { in.Category = CategoryIcons }, true},
		{"min price", func(in *Input) { in.Price = decimal.NewFromInt(1) }, true},
		{"max price", func(in *Input) { in.Price = decimal.NewFromInt(100000) }, true},
		{"two-char name", func(in *Input) { in.Name = "ok" }, true},
		{"empty name", func(in *Input) { in.Name = "" }, false},
		{"one-char name", func(in *Input) { in.Name = "x" }, false},
		{"whitespace name", func(in *Input) { in.Name = "   " }, false},
		{"name too long", func(in *Input) { in.Name = strings.Repeat("a", 121) }, false},
		{"description too long", func(in *Input) { in.Description = strings.Repeat("d", 2001) }, false},
		{"price below minimum", func(in *Input) { in.Price = decimal.NewFromFloat(0.99) }, false},
		{"price above maximum", func(in *Input) { in.Price = decimal.NewFromInt(100001) }, false},
		{"zero price", func(in *Input) { in.Price = decimal.Zero }, false},
		{"unknown category", func(in *Input) { in.Category = "fonts" }, false},
		{"empty category", func(in *Input) { in.Category = "" }, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			err := in.Validate()
			if tc.wantOK && err != nil {
				t.Fatalf("Validate: %v", err)
			}
			if !tc.wantOK {
				if err == nil {
					t.Fatalf("Validate accepted invalid input")
				}
				if !errors.Is(err, ErrInvalidInput) {
					t.Fatalf("err = %v, want ErrInvalidInput", err)
				}
			}
		})
	}
}

func TestValidateTrimsFields(t *testing.T) {
	in := validInput()
	in.Name = "  Minimal UI Kit  "
	in.Description = "  desc  "
	if err := in.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if in.Name != "Minimal UI Kit" || in.Description != "desc" {
		t.Fatalf("fields not trimmed: %q / %q", in.Name, in.Description)
	}
}

func TestCanTransition(t *testing.T) {
	if !CanTransition(StatusPending, StatusApproved) {
		t.Fatalf("pending -> approved rejected")
	}
	if !CanTransition(StatusApproved, StatusApproved) {
		t.Fatalf("re-approval rejected")
	}
	if CanTransition(StatusPending, StatusPending) {
		t.Fatalf("pending -> pending allowed")
	}
	if CanTransition("GARBAGE", StatusApproved) {
		t.Fatalf("unknown status allowed")
	}
}

func TestPurchasable(t *testing.T) {
	p := Product{Approval: StatusApproved, RemotePriceID: "price_1"}
	if !p.Purchasable() {
		t.Fatalf("approved product with price not purchasable")
	}
	p.RemotePriceID = ""
	if p.Purchasable() {
		t.Fatalf("product without remote price purchasable")
	}
	p = Product{Approval: StatusPending, RemotePriceID: "price_1"}
	if p.Purchasable() {
		t.Fatalf("pending product purchasable")
	}
}
