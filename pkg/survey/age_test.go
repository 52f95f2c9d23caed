package survey

import (
	"errors"
	"strconv"
	"testing"

	"github.com/ruslano69/gssdash/pkg/core/table"
)

func TestNormalizeAge(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"89 or older", 89, false},
		{"45", 45, false},
		{"18.0", 18, false},
		{"89", 89, false},
		{"unknown", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeAge(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NormalizeAge(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, table.ErrValueConversion) {
				t.Errorf("NormalizeAge(%q) error = %v, want ErrValueConversion", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeAge(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeAge_Idempotent(t *testing.T) {
	for _, in := range []string{"89 or older", "23", "64.5"} {
		once, err := NormalizeAge(in)
		if err != nil {
			t.Fatalf("NormalizeAge(%q): %v", in, err)
		}
		twice, err := NormalizeAge(strconv.FormatFloat(once, 'f', -1, 64))
		if err != nil {
			t.Fatalf("NormalizeAge(NormalizeAge(%q)): %v", in, err)
		}
		if once != twice {
			t.Errorf("NormalizeAge not idempotent for %q: %v != %v", in, once, twice)
		}
	}
}
