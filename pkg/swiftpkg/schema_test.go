// SPDX-License-Identifier: MPL-2.0

package swiftpkg

import (
	"errors"
	"testing"
)

func TestSchemaVersionForTool(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tool    string
		want    SchemaVersion
		wantErr bool
	}{
		{"", CurrentSchemaVersion, false},
		{"dev", CurrentSchemaVersion, false},
		{"0.1.0", SchemaV1, false},
		{"v0.3.9", SchemaV1, false},
		{"0.4.0-rc.1", SchemaV1, false},
		{"0.4.0", SchemaV2, false},
		{"v0.5.2", SchemaV2, false},
		{"0.6.0", SchemaV3, false},
		{"1.2.3", SchemaV3, false},
		{"latest", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			t.Parallel()

			got, err := SchemaVersionForTool(tt.tool)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidToolVersion) {
					t.Fatalf("expected ErrInvalidToolVersion, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("SchemaVersionForTool(%q) = %q, want %q", tt.tool, got, tt.want)
			}
		})
	}
}

func TestParseSchemaVersion(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]SchemaVersion{"v1": SchemaV1, "2": SchemaV2, " V3 ": SchemaV3} {
		got, err := ParseSchemaVersion(in)
		if err != nil || got != want {
			t.Errorf("ParseSchemaVersion(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	for _, in := range []string{"", "v4", "three"} {
		if _, err := ParseSchemaVersion(in); !errors.Is(err, ErrInvalidSchemaVersion) {
			t.Errorf("ParseSchemaVersion(%q) error = %v, want ErrInvalidSchemaVersion", in, err)
		}
	}
}
