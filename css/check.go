package css

import (
	"errors"
	"fmt"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Checker looks for declaration values which would break out of their
// declaration once serialized (stray ';', '{' or '}' coming from stored
// values) and makes them visible in the logs.
type Checker struct {
	log *zap.Logger
}

// NewChecker creates a new CSS checker.
func NewChecker(log *zap.Logger) *Checker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Checker{log: log.Named("css-check")}
}

// CheckDeclaration tokenizes "property:value" as inline style and makes sure
// it yields exactly one declaration for the same property.
func (c *Checker) CheckDeclaration(property, value string) error {
	input := parse.NewInput(strings.NewReader(property + ":" + value))
	parser := css.NewParser(input, true)

	var count int
	// bounded - every iteration consumes input
	for range len(property) + len(value) + 2 {
		gt, _, data := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			if err := parser.Err(); err != nil && !errors.Is(err, io.EOF) {
				return fmt.Errorf("malformed declaration: %w", err)
			} else if err == nil {
				return errors.New("malformed declaration")
			}
			if count != 1 {
				return fmt.Errorf("value produces %d declarations", count)
			}
			return nil
		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			count++
			if count == 1 && !strings.EqualFold(string(data), property) {
				return fmt.Errorf("unexpected property %q", string(data))
			}
		default:
			return fmt.Errorf("unexpected %s in declaration", gt)
		}
	}
	return nil
}

// Check inspects every string declaration of the stylesheet and returns
// descriptions of problems found. Nothing is removed: partial output is
// preferable to no output.
func (c *Checker) Check(s *Stylesheet) []string {
	if s.Empty() {
		return nil
	}
	var warnings []string
	for _, b := range s.Blocks {
		for _, r := range b.Rules {
			for _, d := range r.Declarations {
				v, ok := d.Value.(string)
				if !ok {
					continue
				}
				if err := c.CheckDeclaration(d.Property, v); err != nil {
					w := fmt.Sprintf("%s %s { %s }: %v", b.Query, r.Selector, d.Property, err)
					c.log.Warn("Suspicious CSS declaration",
						zap.String("media", b.Query),
						zap.String("selector", r.Selector),
						zap.String("property", d.Property),
						zap.String("value", v),
						zap.Error(err))
					warnings = append(warnings, w)
				}
			}
		}
	}
	return warnings
}
