package styles

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"kshim/common"
	"kshim/css"
	"kshim/provider"
	"kshim/registry"
	"kshim/store"
	"kshim/values"
)

// mapResolver returns values by field id, errors for ids listed in failing.
type mapResolver struct {
	values  map[string]any
	failing map[string]bool
}

func (r mapResolver) GetOption(_, fieldID string) (any, error) {
	if r.failing[fieldID] {
		return nil, provider.ErrConfigNotFound
	}
	return r.values[fieldID], nil
}

func compile(t *testing.T, fields []registry.FieldDefinition, vals map[string]any) string {
	t.Helper()
	reg := registry.New()
	for _, f := range fields {
		if err := reg.AddField("cfg", f); err != nil {
			t.Fatalf("AddField() error = %v", err)
		}
	}
	return NewCompiler(zap.NewNop()).Compile(reg, mapResolver{values: vals})
}

func typography(pairs ...string) *values.Map {
	m := values.NewMap()
	for i := 0; i+1 < len(pairs); i += 2 {
		m.Set(pairs[i], pairs[i+1])
	}
	return m
}

func TestCompile_NoOutputs(t *testing.T) {
	got := compile(t, []registry.FieldDefinition{
		{ID: "a"},
		{ID: "b", Type: common.FieldTypeTypography},
	}, map[string]any{"a": "red", "b": typography("font-family", "Roboto")})
	if got != "" {
		t.Errorf("Compile() = %q, want empty", got)
	}
}

func TestCompile_EmptyRegistry(t *testing.T) {
	if got := NewCompiler(nil).Compile(registry.New(), mapResolver{}); got != "" {
		t.Errorf("Compile() = %q, want empty", got)
	}
}

func TestCompile_Scalar(t *testing.T) {
	got := compile(t, []registry.FieldDefinition{{
		ID: "width",
		Outputs: []registry.OutputRule{
			{Selector: registry.Selector{".container"}, Property: "max-width", Units: "px"},
			{Selector: registry.Selector{".container"}, Property: "width", Prefix: "calc(", Units: "px", Suffix: " - 2em)"},
			// missing property - skipped
			{Selector: registry.Selector{".skip"}},
			// missing selector - skipped
			{Property: "color"},
		},
	}}, map[string]any{"width": 960})

	want := ".container{max-width:960px;width:calc(960px - 2em);}"
	if got != want {
		t.Errorf("Compile() = %q, want %q", got, want)
	}
}

func TestCompile_SelectorSetIsOrderIndependent(t *testing.T) {
	field := func(sel ...string) []registry.FieldDefinition {
		return []registry.FieldDefinition{{
			ID:      "color",
			Outputs: []registry.OutputRule{{Selector: registry.Selector(sel), Property: "color"}},
		}}
	}
	vals := map[string]any{"color": "#333"}

	a := compile(t, field(".a", ".b"), vals)
	b := compile(t, field(".b", ".a", ".b"), vals)
	if a != b {
		t.Errorf("outputs differ: %q vs %q", a, b)
	}
	if want := ".a,.b{color:#333;}"; a != want {
		t.Errorf("Compile() = %q, want %q", a, want)
	}
}

func TestCompile_TypographyVariant(t *testing.T) {
	tests := []struct {
		name      string
		variant   string
		weight    string
		wantStyle bool
	}{
		{"bold italic", "700italic", "700", true},
		{"regular", "regular", "400", false},
		{"italic only", "italic", "400", true},
		{"empty", "", "400", false},
		{"light", "300", "300", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := registry.New()
			_ = reg.AddField("cfg", registry.FieldDefinition{
				ID:      "body",
				Type:    common.FieldTypeTypography,
				Outputs: []registry.OutputRule{{Selector: registry.Selector{"body"}}},
			})
			res := mapResolver{values: map[string]any{"body": typography("font-family", "Open Sans", "variant", tt.variant)}}
			sheet := NewCompiler(nil).Stylesheet(reg, res)

			if v, _ := sheet.Get(css.GlobalMedia, "body", "font-weight"); v != tt.weight {
				t.Errorf("font-weight = %v, want %s", v, tt.weight)
			}
			v, ok := sheet.Get(css.GlobalMedia, "body", "font-style")
			if ok != tt.wantStyle {
				t.Errorf("font-style present = %v, want %v", ok, tt.wantStyle)
			}
			if tt.wantStyle && v != "italic" {
				t.Errorf("font-style = %v, want italic", v)
			}
			if _, ok := sheet.Get(css.GlobalMedia, "body", "variant"); ok {
				t.Error("variant must not be emitted as property")
			}
		})
	}
}

func TestCompile_TypographyFull(t *testing.T) {
	got := compile(t, []registry.FieldDefinition{{
		ID:   "headings",
		Type: common.FieldTypeTypography,
		Outputs: []registry.OutputRule{
			{Selector: registry.Selector{"h2", "h1"}},
			{Selector: registry.Selector{".title"}, MediaQuery: "@media (min-width:768px)"},
		},
	}}, map[string]any{"headings": typography(
		"font-family", "Open Sans",
		"variant", "700italic",
		"color", "#222",
	)})

	want := `h1,h2{font-family:"Open Sans";font-weight:700;font-style:italic;color:#222;}` +
		`@media (min-width:768px){.title{font-family:"Open Sans";font-weight:700;font-style:italic;color:#222;}}`
	if got != want {
		t.Errorf("Compile() =\n%s\nwant\n%s", got, want)
	}
}

func TestCompile_TypographyFamilyQuoting(t *testing.T) {
	tests := []struct {
		family string
		want   string
	}{
		{"Roboto", "Roboto"},
		{"Open Sans", `"Open Sans"`},
		{`"Open Sans"`, `"Open Sans"`},
		{`"Open Sans", sans-serif`, `"Open Sans", sans-serif`},
	}
	for _, tt := range tests {
		reg := registry.New()
		_ = reg.AddField("cfg", registry.FieldDefinition{
			ID:      "body",
			Type:    common.FieldTypeTypography,
			Outputs: []registry.OutputRule{{Selector: registry.Selector{"body"}}},
		})
		sheet := NewCompiler(nil).Stylesheet(reg, mapResolver{values: map[string]any{"body": typography("font-family", tt.family)}})
		if v, _ := sheet.Get(css.GlobalMedia, "body", "font-family"); v != tt.want {
			t.Errorf("font-family(%q) = %v, want %s", tt.family, v, tt.want)
		}
	}
}

func TestCompile_Spacing(t *testing.T) {
	tests := []struct {
		name     string
		property string
		want     string
	}{
		{"placeholder", "margin-%%", ".box{margin-top:10px;margin-bottom:5px;}"},
		{"prefix", "padding", ".box{padding-top:10px;padding-bottom:5px;}"},
		{"no property", "", ".box{top:10px;bottom:5px;}"},
		{"placeholder in the middle", "border-%%-width", ".box{border-top-width:10px;border-bottom-width:5px;}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := compile(t, []registry.FieldDefinition{{
				ID:      "spacing",
				Type:    common.FieldTypeSpacing,
				Outputs: []registry.OutputRule{{Selector: registry.Selector{".box"}, Property: tt.property}},
			}}, map[string]any{"spacing": typography("top", "10px", "bottom", "5px")})
			if got != tt.want {
				t.Errorf("Compile() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCompile_MediaQueryWrapping(t *testing.T) {
	tests := []struct {
		media string
		want  string
	}{
		{"(min-width:768px)", "(min-width:768px){.sel{color:red;}}"},
		{"global", ".sel{color:red;}"},
		{"", ".sel{color:red;}"},
	}
	for _, tt := range tests {
		got := compile(t, []registry.FieldDefinition{{
			ID:      "color",
			Outputs: []registry.OutputRule{{Selector: registry.Selector{".sel"}, Property: "color", MediaQuery: tt.media}},
		}}, map[string]any{"color": "red"})
		if got != tt.want {
			t.Errorf("media %q: Compile() = %q, want %q", tt.media, got, tt.want)
		}
	}
}

func TestCompile_StructuredValueOfOtherTypesIgnored(t *testing.T) {
	got := compile(t, []registry.FieldDefinition{
		{
			ID:      "multicolor",
			Type:    "multicolor",
			Outputs: []registry.OutputRule{{Selector: registry.Selector{"a"}, Property: "color"}},
		},
		{
			ID:      "list",
			Type:    common.FieldTypeTypography,
			Outputs: []registry.OutputRule{{Selector: registry.Selector{"a"}, Property: "color"}},
		},
	}, map[string]any{
		"multicolor": typography("link", "#00f", "hover", "#f00"),
		"list":       []any{"a", "b"},
	})
	if got != "" {
		t.Errorf("Compile() = %q, want empty", got)
	}
}

func TestCompile_UnresolvableFieldSkipped(t *testing.T) {
	reg := registry.New()
	_ = reg.AddField("cfg", registry.FieldDefinition{
		ID:      "broken",
		Outputs: []registry.OutputRule{{Selector: registry.Selector{"a"}, Property: "color"}},
	})
	_ = reg.AddField("cfg", registry.FieldDefinition{
		ID:      "fine",
		Outputs: []registry.OutputRule{{Selector: registry.Selector{"b"}, Property: "color"}},
	})
	res := mapResolver{
		values:  map[string]any{"broken": "red", "fine": "blue"},
		failing: map[string]bool{"broken": true},
	}
	if got, want := NewCompiler(nil).Compile(reg, res), "b{color:blue;}"; got != want {
		t.Errorf("Compile() = %q, want %q", got, want)
	}
}

func TestCompile_WithLocalProvider(t *testing.T) {
	defs, err := registry.ParseDefinitions([]byte(`
configs:
  - id: theme
fields:
  - settings: link_color
    kirki_config: theme
    default: "#0073aa"
    output:
      - element: [a, .link]
        property: color
  - settings: body_typography
    kirki_config: theme
    type: typography
    default:
      font-family: Roboto
      variant: regular
    output:
      - element: body
  - settings: missing_config
    kirki_config: nope
    output:
      - element: p
        property: color
`))
	if err != nil {
		t.Fatalf("ParseDefinitions() error = %v", err)
	}

	settings := store.NewMemory()
	local := provider.NewLocal(registry.New(), settings, store.NewMemory(), zap.NewNop())
	if err := defs.Register(local); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	_ = settings.Set("body_typography", map[string]any{"font-family": "Open Sans", "variant": "700"})

	got := NewCompiler(nil).Compile(local.Registry(), local)
	want := `.link,a{color:#0073aa;}body{font-family:"Open Sans";font-weight:700;}`
	if got != want {
		t.Errorf("Compile() = %q, want %q", got, want)
	}
	if _, err := local.GetOption("nope", "missing_config"); !errors.Is(err, provider.ErrConfigNotFound) {
		t.Errorf("expected missing config error, got %v", err)
	}
	if strings.Contains(got, "p{") {
		t.Error("field with unknown config must be skipped")
	}
}

func TestCompile_NumericValuesFromStore(t *testing.T) {
	defs, err := registry.ParseDefinitions([]byte(`
configs:
  - id: theme
fields:
  - settings: box_spacing
    kirki_config: theme
    type: spacing
    default:
      top: 0
      bottom: 10px
    output:
      - element: .box
        property: padding
  - settings: body_typography
    kirki_config: theme
    type: typography
    default:
      font-family: Roboto
      line-height: 1.2
    output:
      - element: body
  - settings: columns
    kirki_config: theme
    default: 3
    output:
      - element: .grid
        property: column-count
`))
	if err != nil {
		t.Fatalf("ParseDefinitions() error = %v", err)
	}

	db, err := store.OpenDB(filepath.Join(t.TempDir(), "store.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("OpenDB() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	local := provider.NewLocal(registry.New(), db.Settings(), db.Options(), zap.NewNop())
	if err := defs.Register(local); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	want := `.box{padding-top:0;padding-bottom:10px;}body{font-family:Roboto;line-height:1.2;}.grid{column-count:3;}`
	if got := NewCompiler(nil).Compile(local.Registry(), local); got != want {
		t.Errorf("Compile() with defaults = %q, want %q", got, want)
	}

	for id, raw := range map[string]string{
		"box_spacing":     "{top: 5px, bottom: 0}",
		"body_typography": "{font-family: Roboto, variant: 700, line-height: 1.5, font-size: 16}",
	} {
		if err := local.SetOption("theme", id, values.MaybeDecode(raw)); err != nil {
			t.Fatalf("SetOption(%s) error = %v", id, err)
		}
	}

	want = `.box{padding-top:5px;padding-bottom:0;}body{font-family:Roboto;font-weight:700;line-height:1.5;font-size:16;}.grid{column-count:3;}`
	if got := NewCompiler(nil).Compile(local.Registry(), local); got != want {
		t.Errorf("Compile() = %q, want %q", got, want)
	}
}
