package htmlsanitize_test

import (
	"errors"
	"testing"

	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/htmlsanitize"
)

func TestPlainText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain", "Groceries at the market", "Groceries at the market"},
		{"trims", "  lunch  ", "lunch"},
		{"strips tags", "<b>Rent</b> for <i>May</i>", "Rent for May"},
		{"drops script", "Coffee<script>alert('x')</script>", "Coffee"},
		{"keeps ampersand", "Tom & Jerry", "Tom & Jerry"},
		{"keeps quotes", `say "hi"`, `say "hi"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := htmlsanitize.PlainText(tt.input); got != tt.want {
				t.Errorf("PlainText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"empty", "", "", false},
		{"plain trimmed", "  Groceries  ", "Groceries", false},
		{"ampersand and quotes", `Tom & Jerry's "deal"`, `Tom & Jerry's "deal"`, false},
		{"entity text kept literally", "&amp; co", "&amp; co", false},
		{"lone less-than", "price<5usd", "price<5usd", false},
		{"heart", "x <3 y", "x <3 y", false},
		{"tag-like span", "a<b and c>d", "", true},
		{"trailing open tag", "rent<utilities", "", true},
		{"real markup", "<b>Rent</b>", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := htmlsanitize.Check(tt.input)
			if tt.wantErr {
				if !errors.Is(err, htmlsanitize.ErrMarkup) {
					t.Fatalf("Check(%q) err = %v, want ErrMarkup", tt.input, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("Check(%q) = %q, %v; want %q", tt.input, got, err, tt.want)
			}
		})
	}
}
