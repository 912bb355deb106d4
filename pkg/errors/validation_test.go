package errors

import (
	"strings"
	"testing"
)

func TestValidateQuery(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantErr bool
	}{
		{"empty", "", false},
		{"simple", "mountains", false},
		{"unicode", "北海道 snow", false},
		{"too long", strings.Repeat("a", 201), true},
		{"control char", "cats\x00dogs", true},
		{"newline", "cats\ndogs", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQuery(tt.query)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateQuery(%q) error = %v, wantErr %v", tt.query, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidQuery) {
				t.Errorf("expected INVALID_QUERY, got %v", GetCode(err))
			}
		})
	}
}

func TestValidatePage(t *testing.T) {
	if err := ValidatePage(0); err != nil {
		t.Errorf("ValidatePage(0) = %v", err)
	}
	if err := ValidatePage(-1); !Is(err, ErrCodeInvalidInput) {
		t.Errorf("ValidatePage(-1) = %v, want INVALID_INPUT", err)
	}
}

func TestValidateAccessKey(t *testing.T) {
	tests := []struct {
		key     string
		wantErr bool
	}{
		{"", true},
		{"  abc", true},
		{"abc def", true},
		{"<your key>", true},
		{"changeme", true},
		{"Xk2_9fA-d0e1", false},
	}
	for _, tt := range tests {
		err := ValidateAccessKey(tt.key)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateAccessKey(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
		}
		if err != nil && !Is(err, ErrCodeConfig) {
			t.Errorf("ValidateAccessKey(%q) code = %v, want CONFIG", tt.key, GetCode(err))
		}
	}
}
