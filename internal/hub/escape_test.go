package hub

import "testing"

func TestEscapeNonASCII(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "pure ascii untouched",
			in:   `{"a":1}`,
			want: `{"a":1}`,
		},
		{
			name: "latin-1 accent",
			in:   "café",
			want: `caf\u00e9`,
		},
		{
			name: "supplementary plane becomes surrogate pair",
			in:   "\U0001F600",
			want: `\ud83d\ude00`,
		},
		{
			name: "mixed ascii bmp and astral",
			in:   "héllo \U0001F600",
			want: `h\u00e9llo \ud83d\ude00`,
		},
		{
			name: "escapes are lowercase hex",
			in:   "Þ",
			want: `\u00de`,
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
		{
			name: "boundary 0x7f stays raw",
			in:   "\x7f",
			want: "\x7f",
		},
		{
			name: "boundary 0x80 escaped",
			in:   "\u0080",
			want: `\u0080`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(escapeNonASCII(tt.in))
			if got != tt.want {
				t.Errorf("escapeNonASCII(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
