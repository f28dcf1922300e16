package errors

import (
	"strings"
	"testing"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "title", false},
		{"dash and digits", "button-2", false},
		{"underscore first", "_hidden", false},
		{"unicode letter", "überschrift", false},

		{"empty", "", true},
		{"reserved", "parent", true},
		{"too long", strings.Repeat("a", 129), true},
		{"digit first", "2col", true},
		{"dash first", "-x", true},
		{"dot", "a.b", true},
		{"space", "a b", true},
		{"control char", "a\x01", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidScene) {
				t.Errorf("ValidateID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidScene)
			}
		})
	}
}

func TestParseRef(t *testing.T) {
	tests := []struct {
		ref      string
		id, side string
		wantErr  bool
	}{
		{"parent.left", "parent", "left", false},
		{"title.Baseline", "title", "baseline", false},
		{"title", "", "", true},
		{".left", "", "", true},
		{"title.", "", "", true},
		{"2x.left", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			id, side, err := ParseRef(tt.ref)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRef(%q) error = %v, wantErr %v", tt.ref, err, tt.wantErr)
			}
			if id != tt.id || side != tt.side {
				t.Errorf("ParseRef(%q) = %q, %q, want %q, %q", tt.ref, id, side, tt.id, tt.side)
			}
		})
	}
}
