package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrinter(t *testing.T) {
	tests := []struct {
		name  string
		print func(p printer)
		want  []string
	}{
		{"success", func(p printer) { p.success("wrote %d files", 2) }, []string{"✓", "wrote 2 files"}},
		{"failure", func(p printer) { p.failure("Layout failed") }, []string{"✗", "Layout failed"}},
		{"warning", func(p printer) { p.warning("no key") }, []string{"!", "no key"}},
		{"info", func(p printer) { p.info("Serving on %s", "x") }, []string{"›", "Serving on x"}},
		{"file", func(p printer) { p.file("photowall.svg") }, []string{"→", "photowall.svg"}},
		{"field", func(p printer) { p.field("key", "abcd****wxyz") }, []string{"key", "abcd****wxyz"}},
		{"hint", func(p printer) { p.hint("Preview", "photowall", "layout", "-f", "svg") }, []string{"Preview:", "photowall layout -f svg"}},
		{"stats measured", func(p printer) { p.stats(layoutStats{items: 6, pages: 2, height: 450}) },
			[]string{"6 photos", "2 pages", "450px tall", "all measured"}},
		{"stats fallback", func(p printer) { p.stats(layoutStats{items: 3, pages: 1, fallback: 1}) },
			[]string{"3 photos", "1 default sizes"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.print(newPrinter(&buf))
			out := buf.String()
			if !strings.HasSuffix(out, "\n") {
				t.Errorf("output not newline terminated: %q", out)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output %q missing %q", out, w)
				}
			}
		})
	}
}
