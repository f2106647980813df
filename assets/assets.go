// Package assets collects stylesheets page needs and renders them as HTML
// head markup.
package assets

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"regexp"
	"strings"

	sprig "github.com/go-task/slim-sprig/v3"
	"go.uber.org/zap"
)

// ErrUnknownHandle is returned when inline styles are attached to stylesheet
// which was never registered.
var ErrUnknownHandle = errors.New("stylesheet handle is not registered")

// Stylesheet is a single linked stylesheet, possibly with inline additions.
type Stylesheet struct {
	Handle string
	Src    string
	Media  string
	Inline []string
}

// Pipeline keeps stylesheets in registration order.
// NOTE: presently not to be used concurrently!
type Pipeline struct {
	sheets []*Stylesheet
	index  map[string]int
	log    *zap.Logger
}

func New(log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{index: make(map[string]int), log: log.Named("assets")}
}

// RegisterStylesheet adds stylesheet link. Registering the same handle twice
// is a no-op.
func (p *Pipeline) RegisterStylesheet(handle, src string) {
	if _, exists := p.index[handle]; exists {
		p.log.Debug("Stylesheet already registered", zap.String("handle", handle))
		return
	}
	p.index[handle] = len(p.sheets)
	p.sheets = append(p.sheets, &Stylesheet{Handle: handle, Src: src})
	p.log.Debug("Stylesheet registered", zap.String("handle", handle), zap.String("src", src))
}

// AddInline attaches inline CSS to registered stylesheet.
func (p *Pipeline) AddInline(handle, css string) error {
	i, ok := p.index[handle]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownHandle, handle)
	}
	p.sheets[i].Inline = append(p.sheets[i].Inline, css)
	return nil
}

// Stylesheets returns copy of registered stylesheets.
func (p *Pipeline) Stylesheets() []Stylesheet {
	res := make([]Stylesheet, 0, len(p.sheets))
	for _, s := range p.sheets {
		c := *s
		c.Inline = append([]string(nil), s.Inline...)
		res = append(res, c)
	}
	return res
}

const headTemplate = `
{{- range . }}
{{- if .Src }}
<link rel="stylesheet" id="{{ .Handle }}-css" href="{{ .Src }}" media="{{ .Media | default "all" }}">
{{- end }}
{{- if .Inline }}
<style id="{{ .Handle }}-inline-css">
{{ .Inline }}
</style>
{{- end }}
{{- end }}
`

// stored values end up inside inline CSS, none of them may close the element
var styleEnd = regexp.MustCompile(`(?i)</(style)`)

var head = template.Must(template.New("head").Funcs(sprig.FuncMap()).Parse(headTemplate))

type headItem struct {
	Handle string
	Src    string
	Media  string
	Inline template.CSS
}

// Render writes link and style elements for all stylesheets.
func (p *Pipeline) Render(w io.Writer) error {
	items := make([]headItem, 0, len(p.sheets))
	for _, s := range p.sheets {
		inline := strings.Join(s.Inline, "\n")
		if styleEnd.MatchString(inline) {
			p.log.Warn("Closing style tag escaped in inline CSS", zap.String("handle", s.Handle))
			inline = styleEnd.ReplaceAllString(inline, `<\/$1`)
		}
		items = append(items, headItem{
			Handle: s.Handle,
			Src:    s.Src,
			Media:  s.Media,
			Inline: template.CSS(inline),
		})
	}
	if err := head.Execute(w, items); err != nil {
		return fmt.Errorf("unable to render stylesheets: %w", err)
	}
	return nil
}
