package scripting

import "testing"

func TestUnescape(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`plain`, "plain"},
		{`a\nb\tc`, "a\nb\tc"},
		{`\x3cscript\x3e`, "<script>"},
		{`<`, "<"},
		{`\u{1F600}`, "😀"},
		{`😀`, "😀"},
		{`\'\"\\`, `'"\`},
		{"line\\\ncontinued", "linecontinued"},
		{"crlf\\\r\nok", "crlfok"},
		{`\0`, "\x00"},
		{`\q`, "q"},
		{`\xZZ`, "xZZ"},
		{`\u12`, "u12"},
		{`trailing\`, `trailing\`},
		{`café`, "café"},
	}
	for _, tt := range tests {
		if got := unescape(tt.in); got != tt.want {
			t.Fatalf("unescape(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"42", 42, true},
		{"1.5e3", 1500, true},
		{".5", 0.5, true},
		{"0x1F", 31, true},
		{"0o17", 15, true},
		{"0b101", 5, true},
		{"017", 15, true},
		{"089", 89, true},
		{"1_000", 1000, true},
		{"10n", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseNumber(tt.in)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Fatalf("parseNumber(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
