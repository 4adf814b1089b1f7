package deploy

import (
	"testing"
	"time"
)

func TestParseEnvironment(t *testing.T) {
	tests := []struct {
		input   string
		want    Environment
		wantErr bool
	}{
		{"production", EnvProduction, false},
		{"preview", EnvPreview, false},
		{"", "", true},
		{"staging", "", true},
		{"Production", "", true}, // case-sensitive
	}

	for _, tt := range tests {
		got, err := ParseEnvironment(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseEnvironment(%q) expected error, got %q", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseEnvironment(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseEnvironment(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestDeployment_Validate(t *testing.T) {
	now := time.Now()

	valid := Deployment{ID: "d1", CreatedAt: now, Environment: EnvProduction}
	if err := valid.Validate(); err != nil {
		t.Errorf("Validate() on valid deployment failed: %v", err)
	}

	missingID := Deployment{CreatedAt: now, Environment: EnvProduction}
	if err := missingID.Validate(); err == nil {
		t.Error("Validate() should fail for missing id")
	}

	missingTime := Deployment{ID: "d1", Environment: EnvPreview}
	if err := missingTime.Validate(); err == nil {
		t.Error("Validate() should fail for zero created_at")
	}

	badEnv := Deployment{ID: "d1", CreatedAt: now, Environment: "staging"}
	if err := badEnv.Validate(); err == nil {
		t.Error("Validate() should fail for unknown environment")
	}
}

func TestDeployment_HasAliases(t *testing.T) {
	d := Deployment{ID: "d1"}
	if d.HasAliases() {
		t.Error("HasAliases() should be false with no aliases")
	}

	d.Aliases = []string{"app.example.com"}
	if !d.HasAliases() {
		t.Error("HasAliases() should be true with one alias")
	}
}
