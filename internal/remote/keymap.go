// Copyright 2025 Arion Yau
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package remote

// KeyBinding maps a keyboard key to a command. Key uses browser
// KeyboardEvent.key names, TerminalKey the bubbletea key names.
type KeyBinding struct {
	Key         string `json:"key"`
	TerminalKey string `json:"-"`
	Command     string `json:"command"`
}

var keyBindings = []KeyBinding{
	{"ArrowUp", "up", "Up"},
	{"ArrowDown", "down", "Down"},
	{"ArrowLeft", "left", "Left"},
	{"ArrowRight", "right", "Right"},
	{"Enter", "enter", "Confirm"},
	{"Escape", "esc", "Return"},
	{"Backspace", "backspace", "Return"},
	{" ", " ", "Pause"},
	{"p", "p", "Play"},
	{"s", "s", "Stop"},
	{"h", "h", "Home"},
	{"m", "m", "Mute"},
	{"+", "+", "VolumeUp"},
	{"-", "-", "VolumeDown"},
	{"=", "=", "VolumeUp"},
	{"_", "_", "VolumeDown"},
}

// KeyBindings returns the keyboard shortcuts, digits excluded
func KeyBindings() []KeyBinding {
	out := make([]KeyBinding, len(keyBindings))
	copy(out, keyBindings)
	return out
}

// CommandForTerminalKey resolves a bubbletea key name. Digits map to NumN.
func CommandForTerminalKey(key string) (string, bool) {
	if isDigit(key) {
		return "Num" + key, true
	}
	for _, b := range keyBindings {
		if b.TerminalKey == key {
			return b.Command, true
		}
	}
	return "", false
}

func isDigit(key string) bool {
	return len(key) == 1 && key[0] >= '0' && key[0] <= '9'
}
