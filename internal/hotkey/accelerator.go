// Package hotkey registers the system-wide key combination that shows and
// hides the viewer.
package hotkey

import (
	"fmt"
	"sort"
	"strings"

	"golang.design/x/hotkey"
)

// Accelerator is a parsed key combination such as "ctrl+shift+k".
type Accelerator struct {
	Mods []hotkey.Modifier
	Key  hotkey.Key
	// Text is the normalized form, e.g. "ctrl+shift+k".
	Text string
}

func (a Accelerator) String() string { return a.Text }

var keys = map[string]hotkey.Key{
	"a": hotkey.KeyA, "b": hotkey.KeyB, "c": hotkey.KeyC, "d": hotkey.KeyD,
	"e": hotkey.KeyE, "f": hotkey.KeyF, "g": hotkey.KeyG, "h": hotkey.KeyH,
	"i": hotkey.KeyI, "j": hotkey.KeyJ, "k": hotkey.KeyK, "l": hotkey.KeyL,
	"m": hotkey.KeyM, "n": hotkey.KeyN, "o": hotkey.KeyO, "p": hotkey.KeyP,
	"q": hotkey.KeyQ, "r": hotkey.KeyR, "s": hotkey.KeyS, "t": hotkey.KeyT,
	"u": hotkey.KeyU, "v": hotkey.KeyV, "w": hotkey.KeyW, "x": hotkey.KeyX,
	"y": hotkey.KeyY, "z": hotkey.KeyZ,
	"0": hotkey.Key0, "1": hotkey.Key1, "2": hotkey.Key2, "3": hotkey.Key3,
	"4": hotkey.Key4, "5": hotkey.Key5, "6": hotkey.Key6, "7": hotkey.Key7,
	"8": hotkey.Key8, "9": hotkey.Key9,
	"f1": hotkey.KeyF1, "f2": hotkey.KeyF2, "f3": hotkey.KeyF3, "f4": hotkey.KeyF4,
	"f5": hotkey.KeyF5, "f6": hotkey.KeyF6, "f7": hotkey.KeyF7, "f8": hotkey.KeyF8,
	"f9": hotkey.KeyF9, "f10": hotkey.KeyF10, "f11": hotkey.KeyF11, "f12": hotkey.KeyF12,
	"space":  hotkey.KeySpace,
	"enter":  hotkey.KeyReturn,
	"return": hotkey.KeyReturn,
	"esc":    hotkey.KeyEscape,
	"escape": hotkey.KeyEscape,
	"tab":    hotkey.KeyTab,
	"delete": hotkey.KeyDelete,
	"left":   hotkey.KeyLeft,
	"right":  hotkey.KeyRight,
	"up":     hotkey.KeyUp,
	"down":   hotkey.KeyDown,
}

// modifierOrder fixes the order of modifiers in Accelerator.Text.
var modifierOrder = []string{"ctrl", "alt", "shift", "super"}

var modifierAliases = map[string]string{
	"ctrl":    "ctrl",
	"control": "ctrl",
	"shift":   "shift",
	"alt":     "alt",
	"option":  "alt",
	"opt":     "alt",
	"super":   "super",
	"cmd":     "super",
	"command": "super",
	"win":     "super",
	"meta":    "super",
}

// Parse reads an accelerator like "Ctrl+Shift+K". Modifiers may come in any
// order and are case-insensitive; exactly one non-modifier key is required,
// and it must come last.
func Parse(accel string) (Accelerator, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(accel)), "+")
	if len(parts) < 2 {
		return Accelerator{}, fmt.Errorf("hotkey %q needs at least one modifier and a key", accel)
	}

	seen := make(map[string]bool)
	for _, raw := range parts[:len(parts)-1] {
		name, ok := modifierAliases[strings.TrimSpace(raw)]
		if !ok {
			return Accelerator{}, fmt.Errorf("hotkey %q: unknown modifier %q", accel, raw)
		}
		if seen[name] {
			return Accelerator{}, fmt.Errorf("hotkey %q: modifier %q repeated", accel, name)
		}
		seen[name] = true
	}

	keyName := strings.TrimSpace(parts[len(parts)-1])
	key, ok := keys[keyName]
	if !ok {
		return Accelerator{}, fmt.Errorf("hotkey %q: unknown key %q", accel, keyName)
	}

	var names []string
	var mods []hotkey.Modifier
	for _, name := range modifierOrder {
		if !seen[name] {
			continue
		}
		names = append(names, name)
		mods = append(mods, platformModifiers[name])
	}
	names = append(names, keyName)
	return Accelerator{Mods: mods, Key: key, Text: strings.Join(names, "+")}, nil
}

// KeyNames lists the accepted key names, sorted.
func KeyNames() []string {
	names := make([]string, 0, len(keys))
	for k := range keys {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
