package http

import (
	"errors"
	"testing"

	"github.com/DRSN-tech/catalog-backend/pkg/e"
)

func TestParsePrice(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{"integer", "100", "100", nil},
		{"two decimal places", "1499.99", "1499.99", nil},
		{"zero", "0", "0", nil},
		{"empty", "", "", e.ErrInvalidPrice},
		{"whitespace only", "   ", "", e.ErrInvalidPrice},
		{"not a number", "abc", "", e.ErrInvalidPrice},
		{"negative", "-1", "", e.ErrInvalidPrice},
		{"above limit", "1000000001", "", e.ErrInvalidPrice},
		{"three decimal places", "9.999", "", e.ErrPricePrecision},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parsePrice(tc.input)

			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.String() != tc.want {
				t.Errorf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestParseStock(t *testing.T) {
	if _, err := parseStock("-1"); !errors.Is(err, e.ErrInvalidStock) {
		t.Errorf("negative stock: expected ErrInvalidStock, got %v", err)
	}
	if _, err := parseStock("abc"); !errors.Is(err, e.ErrInvalidStock) {
		t.Errorf("non-numeric stock: expected ErrInvalidStock, got %v", err)
	}

	stock, err := parseStock(" 15 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stock != 15 {
		t.Errorf("expected 15, got %d", stock)
	}
}
