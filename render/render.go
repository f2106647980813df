// Package render runs a single page render cycle: theme registers its
// customization definitions, then inline styles and web fonts are attached to
// the page.
package render

import (
	"context"
	"fmt"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"kshim/assets"
	"kshim/fonts"
	"kshim/provider"
	"kshim/registry"
	"kshim/styles"
)

// Setup registers theme definitions. It is called at the start of every
// render cycle.
type Setup func(p provider.StyleConfigProvider) error

// Result is what render cycle attached to the page.
type Result struct {
	CSS   string
	Fonts []fonts.Directive
	// Inert is true when customization plugin handles everything.
	Inert bool
}

// Renderer owns provider selected at startup and runs render cycles.
// NOTE: presently not to be used concurrently!
type Renderer struct {
	provider      provider.StyleConfigProvider
	local         *provider.Local
	compiler      *styles.Compiler
	fonts         *fonts.Fonts
	handle        string
	stylesheetURI string
	log           *zap.Logger
}

// Options describe theme whose styles are rendered.
type Options struct {
	ThemeName     string
	StylesheetURI string
}

// New selects provider once: if plugin is present all calls go there and
// render hooks stay inert.
func New(plugin provider.Plugin, local *provider.Local, f *fonts.Fonts, opts Options, log *zap.Logger) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Renderer{
		provider:      provider.Select(plugin, local, log),
		compiler:      styles.NewCompiler(log),
		fonts:         f,
		handle:        StylesheetHandle(opts.ThemeName),
		stylesheetURI: opts.StylesheetURI,
		log:           log.Named("render"),
	}
	if r.provider == provider.StyleConfigProvider(local) {
		r.local = local
	}
	return r
}

// StylesheetHandle returns handle of the theme stylesheet inline styles are
// attached to.
func StylesheetHandle(theme string) string {
	name := slug.Make(theme)
	if len(name) == 0 {
		name = "theme"
	}
	return name + "_no-kirki"
}

// Provider returns provider selected at startup.
func (r *Renderer) Provider() provider.StyleConfigProvider {
	return r.provider
}

// Registry returns registry of the last render cycle, nil when plugin is
// present.
func (r *Renderer) Registry() *registry.Registry {
	if r.local == nil {
		return nil
	}
	return r.local.Registry()
}

// Render runs complete cycle against page. Only failure to register
// definitions is reported, everything after that degrades silently.
func (r *Renderer) Render(ctx context.Context, setup Setup, page *assets.Pipeline) (*Result, error) {
	var reg *registry.Registry
	if r.local != nil {
		reg = r.local.Reset()
	}
	if setup != nil {
		if err := setup(r.provider); err != nil {
			// partially registered definitions are still rendered, plugin
			// keeps whatever it accepted
			if reg != nil && reg.Len() == 0 {
				return nil, fmt.Errorf("unable to register theme definitions: %w", err)
			}
			r.log.Warn("Theme definitions registered with errors", zap.Error(err))
		}
	}
	if r.local == nil {
		r.log.Debug("Customization plugin is active, nothing to do")
		return &Result{Inert: true}, nil
	}
	return &Result{
		CSS:   r.EnqueueStyles(reg, page),
		Fonts: r.EnqueueFonts(ctx, reg, page),
	}, nil
}

// EnqueueStyles compiles styles of registered fields and attaches them inline
// to theme stylesheet. Returns compiled CSS.
func (r *Renderer) EnqueueStyles(reg *registry.Registry, page *assets.Pipeline) string {
	if r.local == nil {
		return ""
	}
	css := r.compiler.Compile(reg, r.local)
	if len(css) == 0 {
		r.log.Debug("No styles to add")
		return ""
	}
	page.RegisterStylesheet(r.handle, r.stylesheetURI)
	if err := page.AddInline(r.handle, css); err != nil {
		r.log.Warn("Unable to attach inline styles", zap.String("handle", r.handle), zap.Error(err))
	}
	r.log.Debug("Styles added", zap.String("handle", r.handle), zap.Int("bytes", len(css)))
	return css
}

// EnqueueFonts links stylesheets of valid web fonts used by typography fields.
func (r *Renderer) EnqueueFonts(ctx context.Context, reg *registry.Registry, page *assets.Pipeline) []fonts.Directive {
	if r.local == nil || r.fonts == nil || reg.Len() == 0 {
		return nil
	}
	directives := r.fonts.Resolve(ctx, reg, r.local)
	for _, d := range directives {
		page.RegisterStylesheet(d.Handle, d.URL)
	}
	return directives
}
