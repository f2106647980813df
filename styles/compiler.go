// Package styles turns registered fields and their stored values into CSS.
package styles

import (
	"strings"

	"go.uber.org/zap"

	"kshim/common"
	"kshim/css"
	"kshim/registry"
	"kshim/values"
)

// Resolver returns current value of a field.
type Resolver interface {
	GetOption(configID, fieldID string) (any, error)
}

// Compiler walks field definitions and accumulates declarations.
type Compiler struct {
	log     *zap.Logger
	checker *css.Checker
}

func NewCompiler(log *zap.Logger) *Compiler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Compiler{log: log.Named("styles"), checker: css.NewChecker(log)}
}

// Compile returns CSS for all fields of the registry, empty string when no
// field produced anything.
func (c *Compiler) Compile(reg *registry.Registry, resolver Resolver) string {
	sheet := c.Stylesheet(reg, resolver)
	c.checker.Check(sheet)
	return sheet.String()
}

// Stylesheet builds structured representation of the CSS. Fields whose value
// cannot be resolved are skipped, malformed output rules are silently
// ignored.
func (c *Compiler) Stylesheet(reg *registry.Registry, resolver Resolver) *css.Stylesheet {
	sheet := css.NewStylesheet()
	for _, f := range reg.Fields() {
		if len(f.Outputs) == 0 {
			continue
		}
		value, err := resolver.GetOption(f.ConfigID, f.ID)
		if err != nil {
			c.log.Warn("Unable to resolve field value, skipping", zap.String("field", f.ID), zap.Error(err))
			continue
		}
		for _, out := range f.Outputs {
			apply(sheet, f.Type, out, value)
		}
	}
	return sheet
}

func apply(sheet *css.Stylesheet, typ common.FieldType, out registry.OutputRule, value any) {
	var (
		selector = out.Selector.String()
		media    = out.Media()
	)

	if !values.IsStructured(value) {
		if len(selector) > 0 && len(out.Property) > 0 {
			sheet.Set(media, selector, out.Property, out.Prefix+values.String(value)+out.Units+out.Suffix)
		}
		return
	}
	// lists have no meaning for any field type
	m, ok := value.(*values.Map)
	if !ok || len(selector) == 0 {
		return
	}

	switch typ {
	case common.FieldTypeTypography:
		applyTypography(sheet, media, selector, m)
	case common.FieldTypeSpacing:
		applySpacing(sheet, media, selector, out.Property, m)
	}
}

func applyTypography(sheet *css.Stylesheet, media, selector string, m *values.Map) {
	for _, p := range m.Pairs() {
		switch p.Key {
		case "font-family":
			family := p.Value
			if s, ok := family.(string); ok && strings.ContainsAny(s, " \t") && !strings.Contains(s, `"`) {
				family = `"` + s + `"`
			}
			sheet.Set(media, selector, p.Key, family)
		case "variant":
			variant := values.String(p.Value)
			weight := strings.ReplaceAll(variant, "italic", "")
			if weight == "" || weight == "regular" {
				weight = "400"
			}
			sheet.Set(media, selector, "font-weight", weight)
			if strings.Contains(variant, "italic") {
				sheet.Set(media, selector, "font-style", "italic")
			}
		default:
			sheet.Set(media, selector, p.Key, p.Value)
		}
	}
}

func applySpacing(sheet *css.Stylesheet, media, selector, property string, m *values.Map) {
	for _, p := range m.Pairs() {
		var name string
		switch {
		case len(property) == 0:
			name = p.Key
		case strings.Contains(property, "%%"):
			name = strings.ReplaceAll(property, "%%", p.Key)
		default:
			name = property + "-" + p.Key
		}
		sheet.Set(media, selector, name, p.Value)
	}
}
