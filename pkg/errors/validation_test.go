package errors

import (
	"testing"
)

func TestValidateJobID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "3f2b8c1e-9d4a-4c7e-8f00-1a2b3c4d5e6f", false},

		{"empty", "", true},
		{"uppercase", "3F2B8C1E-9D4A-4C7E-8F00-1A2B3C4D5E6F", true},
		{"braces", "{3f2b8c1e-9d4a-4c7e-8f00-1a2b3c4d5e6f}", true},
		{"urn", "urn:uuid:3f2b8c1e-9d4a-4c7e-8f00-1a2b3c4d5e6f", true},
		{"short", "3f2b8c1e", true},
		{"injection", "{\"$gt\": \"\"}", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJobID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateJobID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidJobID) {
				t.Errorf("ValidateJobID(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "out/layer-0.svg", false},
		{"valid nested", "renders/job/layers/12.png", false},
		{"valid filename only", "README.md", false},
		{"valid with dots", "v1.2.3/result.json", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 600)), true},
		{"absolute path", "/etc/passwd", true},
		{"path traversal", "../../../etc/passwd", true},
		{"path traversal middle", "foo/../bar", true},
		{"null byte", "foo\x00bar", true},
		{"backslash", "foo\\bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidatePath(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidateLayerIndex(t *testing.T) {
	tests := []struct {
		name    string
		index   int
		count   int
		wantErr bool
	}{
		{"first", 0, 3, false},
		{"last", 2, 3, false},
		{"negative", -1, 3, true},
		{"past end", 3, 3, true},
		{"no layers", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLayerIndex(tt.index, tt.count)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLayerIndex(%d, %d) error = %v, wantErr %v", tt.index, tt.count, err, tt.wantErr)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidConfig,
		ErrCodeInvalidLayer,
		ErrCodeInvalidFormat,
		ErrCodeInvalidPath,
		ErrCodeInvalidJobID,
		ErrCodeNotFound,
		ErrCodeFileNotFound,
		ErrCodeJobNotFound,
		ErrCodeJobNotReady,
		ErrCodeStorage,
		ErrCodeTimeout,
		ErrCodeInternal,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
