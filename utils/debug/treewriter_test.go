package debug

import "testing"

func TestTreeWriter(t *testing.T) {
	tw := NewTreeWriter()
	tw.Line(0, "Fields: %d", 1)
	tw.TextBlock(1, "default", "#fff")
	tw.TextBlock(1, "label", "")
	tw.Block(1, "value", "top: 1px\nbottom: 2px\n")

	want := `Fields: 1
  default: "#fff"
  label: 
  value:
    top: 1px
    bottom: 2px
`
	if got := tw.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestEncodeText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"plain", `"plain"`},
		{"line\nbreak", `"line\nbreak"`},
		{`quote"d`, `"quote\"d"`},
	}
	for _, tt := range tests {
		if got := encodeText(tt.in); got != tt.want {
			t.Errorf("encodeText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
