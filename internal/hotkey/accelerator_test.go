package hotkey

import (
	"testing"

	"golang.design/x/hotkey"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input    string
		wantText string
		wantKey  hotkey.Key
		wantMods []hotkey.Modifier
	}{
		{"ctrl+shift+k", "ctrl+shift+k", hotkey.KeyK, []hotkey.Modifier{hotkey.ModCtrl, hotkey.ModShift}},
		{"Shift+Ctrl+K", "ctrl+shift+k", hotkey.KeyK, []hotkey.Modifier{hotkey.ModCtrl, hotkey.ModShift}},
		{" control + space ", "ctrl+space", hotkey.KeySpace, []hotkey.Modifier{hotkey.ModCtrl}},
		{"ctrl+F5", "ctrl+f5", hotkey.KeyF5, []hotkey.Modifier{hotkey.ModCtrl}},
		{"shift+9", "shift+9", hotkey.Key9, []hotkey.Modifier{hotkey.ModShift}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			a, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if a.String() != tt.wantText {
				t.Errorf("String() = %q, want %q", a.String(), tt.wantText)
			}
			if a.Key != tt.wantKey {
				t.Errorf("Key = %v, want %v", a.Key, tt.wantKey)
			}
			if diff := cmp.Diff(tt.wantMods, a.Mods); diff != "" {
				t.Errorf("Mods mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_PlatformModifiers(t *testing.T) {
	for _, accel := range []string{"alt+k", "option+k", "cmd+k", "super+shift+k"} {
		a, err := Parse(accel)
		if err != nil {
			t.Errorf("Parse(%q) error = %v", accel, err)
			continue
		}
		if len(a.Mods) == 0 {
			t.Errorf("Parse(%q) returned no modifiers", accel)
		}
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []string{
		"",
		"k",
		"ctrl+",
		"ctrl+shift",
		"hyper+k",
		"ctrl+ctrl+k",
		"ctrl+pageup",
		"k+ctrl",
	}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			if _, err := Parse(input); err == nil {
				t.Errorf("Parse(%q) should fail", input)
			}
		})
	}
}

func TestKeyNames(t *testing.T) {
	names := KeyNames()
	if len(names) != len(keys) {
		t.Fatalf("KeyNames() returned %d names, want %d", len(names), len(keys))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Fatalf("KeyNames() not sorted at %d: %q > %q", i, names[i-1], names[i])
		}
	}
}
