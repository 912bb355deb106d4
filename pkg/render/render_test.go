package render

import (
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/photowall/pkg/gallery"
)

func testFrame() gallery.Frame {
	return gallery.Frame{
		Title:          gallery.Title,
		ScrollTop:      100,
		ViewportWidth:  800,
		ViewportHeight: 600,
		GridHeight:     480,
		ContentHeight:  640,
		Items:          2,
		Page:           2,
		State:          "loading",
		Loading:        true,
		Status:         gallery.StatusLoading,
		Sentinel:       gallery.Box{Y: 510, Width: 800, Height: 100},
		Cells: []gallery.FrameCell{
			{
				Cell:     gallery.Cell{Index: 0, Key: "a-0", Column: 0, X: 0, Y: 0, Width: 200, Height: 150},
				Photo:    gallery.Photo{ID: "a", URL: "https://img.test/a.jpg", Alt: "A & B <cats>", Color: "#112233", Link: "https://unsplash.com/a"},
				Measured: gallery.Resolved,
			},
			{
				Cell:     gallery.Cell{Index: 1, Key: "b-1", Column: 1, X: 210, Y: 0, Width: 200, Height: 250},
				Photo:    gallery.Photo{ID: "b", URL: "https://img.test/b.jpg"},
				Measured: gallery.Failed,
			},
		},
	}
}

func TestRenderJSON(t *testing.T) {
	data, err := RenderJSON(testFrame(), WithQuery("cats"))
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}

	var out document
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}
	if out.Title != "Photo Search" || out.Query != "cats" {
		t.Errorf("header = %q/%q", out.Title, out.Query)
	}
	if len(out.Cells) != 2 || out.Cells[1].X != 210 || out.Cells[1].Measured != "failed" {
		t.Errorf("cells = %+v", out.Cells)
	}
	if !out.Status.Loading || out.Status.Text != "Loading…" {
		t.Errorf("status = %+v", out.Status)
	}
	if out.Grid.NextPage != 2 || out.Viewport.ScrollTop != 100 {
		t.Errorf("grid/viewport = %+v / %+v", out.Grid, out.Viewport)
	}
}

func TestRenderJSON_Compact(t *testing.T) {
	data, err := RenderJSON(testFrame(), WithCompact())
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "\n") {
		t.Error("compact JSON should be a single line")
	}
}

func TestRenderYAML(t *testing.T) {
	data, err := RenderYAML(testFrame())
	if err != nil {
		t.Fatalf("RenderYAML() error: %v", err)
	}
	var out document
	if err := yaml.Unmarshal(data, &out); err != nil {
		t.Fatalf("yaml.Unmarshal() error: %v", err)
	}
	if len(out.Cells) != 2 || out.Cells[0].Alt != "A & B <cats>" {
		t.Errorf("cells = %+v", out.Cells)
	}
	if !strings.Contains(string(data), "scroll_top: 100") {
		t.Errorf("expected snake_case keys:\n%s", data)
	}
}

func TestRenderSVG(t *testing.T) {
	svg := string(RenderSVG(testFrame()))

	for _, want := range []string{
		`<svg xmlns="http://www.w3.org/2000/svg"`,
		`viewBox="0 0 800.0 650.0"`,
		`translate(0 -50.0)`,
		`id="cell-a-0"`,
		`fill="#112233"`,
		`fill="#f2d7d5"`,
		`A &amp; B &lt;cats&gt;`,
		`href="https://unsplash.com/a"`,
		`id="sentinel"`,
		`Loading…`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	if strings.Contains(svg, "<image") {
		t.Error("images should only be linked with WithImages")
	}
}

func TestRenderSVG_Options(t *testing.T) {
	svg := string(RenderSVG(testFrame(), WithImages(), WithFullPage()))
	if !strings.Contains(svg, `<image x="0.0" y="0.0" width="200.0" height="150.0" href="https://img.test/a.jpg"`) {
		t.Error("WithImages should embed image elements")
	}
	if !strings.Contains(svg, `viewBox="0 0 800.0 690.0"`) || !strings.Contains(svg, `translate(0 50.0)`) {
		t.Error("WithFullPage should cover the whole content")
	}
}

func TestRender(t *testing.T) {
	for _, format := range Formats {
		data, err := Render(format, testFrame())
		if err != nil || len(data) == 0 {
			t.Errorf("Render(%q) = %d bytes, %v", format, len(data), err)
		}
		if ContentType(format) == "application/octet-stream" {
			t.Errorf("ContentType(%q) not set", format)
		}
	}
	if _, err := Render("png", testFrame()); err == nil {
		t.Error("Render(png) should fail")
	}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"json", false},
		{"yaml", false},
		{"svg", false},
		{"pdf", true},
		{"", true},
	}
	for _, tt := range tests {
		if err := ValidateFormat(tt.format); (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}
