package roles

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBuiltinOrder(t *testing.T) {
	want := []string{Artist, Fan, Licensor, Provider, Legal, General}
	got := Default().IDs()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("IDs() = %v, want %v", got, want)
	}
}

func TestGetRoleByID(t *testing.T) {
	tests := []struct {
		id       string
		wantName string
		wantIcon string
	}{
		{Artist, "Artist Assistant", "🎵"},
		{Licensor, "Sync Licensing Assistant", "🎬"},
		{Legal, "Music Legal Assistant", "⚖️"},
		{"nonexistent", "indii.music Assistant", "🎼"},
		{"", "indii.music Assistant", "🎼"},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			r := GetRoleByID(tt.id)
			if r.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", r.Name, tt.wantName)
			}
			if r.Icon != tt.wantIcon {
				t.Errorf("Icon = %q, want %q", r.Icon, tt.wantIcon)
			}
		})
	}
}

func TestEveryRoleHasSixExpertiseItems(t *testing.T) {
	for _, r := range All() {
		if len(r.Expertise) != 6 {
			t.Errorf("role %s has %d expertise items, want 6", r.ID, len(r.Expertise))
		}
		if err := r.Validate(); err != nil {
			t.Errorf("role %s invalid: %v", r.ID, err)
		}
	}
}

func TestAllReturnsCopies(t *testing.T) {
	list := All()
	list[0].Name = "mutated"
	list[0].Expertise[0] = "mutated"

	r := GetRoleByID(Artist)
	if r.Name == "mutated" || r.Expertise[0] == "mutated" {
		t.Error("All() leaked internal state")
	}
}

func TestLookup(t *testing.T) {
	reg := Default()
	if _, ok := reg.Lookup(Fan); !ok {
		t.Error("expected fan to be registered")
	}
	if _, ok := reg.Lookup("producer"); ok {
		t.Error("expected producer to be unknown")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		role Role
	}{
		{"missing id", Role{Name: "x", Color: "#000000"}},
		{"missing name", Role{ID: "x", Color: "#000000"}},
		{"short color", Role{ID: "x", Name: "x", Color: "#000"}},
		{"named color", Role{ID: "x", Name: "x", Color: "purple"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.role.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestNewRegistryRequiresGeneral(t *testing.T) {
	_, err := NewRegistry([]Role{{ID: Artist, Name: "A", Color: "#111111"}})
	if err == nil {
		t.Fatal("expected error without general role")
	}
}

func TestLoadFromYAMLOverridesAndAppends(t *testing.T) {
	data := []byte(`
roles:
  - id: artist
    name: Artist Coach
    color: "#123456"
    icon: "🎤"
    expertise: [Touring]
  - id: producer
    name: Producer Assistant
    color: "#ABCDEF"
    icon: "🎚️"
`)

	reg, err := LoadFromYAML(data)
	if err != nil {
		t.Fatalf("LoadFromYAML() error = %v", err)
	}

	if got := reg.GetRoleByID(Artist).Name; got != "Artist Coach" {
		t.Errorf("artist name = %q, want override", got)
	}
	ids := reg.IDs()
	if ids[0] != Artist {
		t.Errorf("override should keep position, got %v", ids)
	}
	if ids[len(ids)-1] != "producer" {
		t.Errorf("new role should be appended, got %v", ids)
	}
	if reg.Len() != 7 {
		t.Errorf("Len() = %d, want 7", reg.Len())
	}
}

func TestLoadFromYAMLErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed", "roles: [unclosed"},
		{"bad color", "roles:\n  - id: fan\n    name: Fan\n    color: green\n"},
		{"duplicate", "roles:\n  - id: x\n    name: X\n    color: \"#000000\"\n  - id: x\n    name: X\n    color: \"#000000\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadFromYAML([]byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	reg, err := LoadFromFile("")
	if err != nil || reg.Len() != 6 {
		t.Fatalf("empty path: reg=%v err=%v", reg, err)
	}

	reg, err = LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil || reg.Len() != 6 {
		t.Fatalf("missing file: err=%v", err)
	}

	path := filepath.Join(t.TempDir(), "roles.yaml")
	yml, err := Default().ToYAML()
	if err != nil {
		t.Fatalf("ToYAML() error = %v", err)
	}
	if err := os.WriteFile(path, []byte(yml), 0644); err != nil {
		t.Fatal(err)
	}

	reg, err = LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}
	if reg.GetRoleByID(Legal).Description != "Music industry legal guidance (not legal advice)" {
		t.Error("round trip lost legal description")
	}
}
