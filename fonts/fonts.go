// Package fonts derives web font stylesheet links from typography fields and
// makes sure only links font service actually serves are enqueued.
package fonts

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kshim/common"
	"kshim/registry"
	"kshim/store"
	"kshim/values"
)

const (
	DefaultBaseURL    = "//fonts.googleapis.com/css?family="
	DefaultScheme     = "https:"
	DefaultValidTTL   = 7 * 24 * time.Hour
	DefaultInvalidTTL = 12 * time.Hour
	DefaultTimeout    = 10 * time.Second
)

// Doer performs HTTP requests, *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Resolver returns current value of a field.
type Resolver interface {
	GetOption(configID, fieldID string) (any, error)
}

// Directive asks page to link stylesheet URL under handle.
type Directive struct {
	Handle string
	URL    string
}

// Options tune font resolution, zero values select defaults.
type Options struct {
	BaseURL    string
	Scheme     string
	ValidTTL   time.Duration
	InvalidTTL time.Duration
}

// Fonts validates font links and remembers results in transient cache so
// steady state rendering does not touch the network.
type Fonts struct {
	client Doer
	cache  store.Transients
	opts   Options
	log    *zap.Logger
}

func New(client Doer, cache store.Transients, opts Options, log *zap.Logger) *Fonts {
	if log == nil {
		log = zap.NewNop()
	}
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	if len(opts.BaseURL) == 0 {
		opts.BaseURL = DefaultBaseURL
	}
	if len(opts.Scheme) == 0 {
		opts.Scheme = DefaultScheme
	}
	if opts.ValidTTL <= 0 {
		opts.ValidTTL = DefaultValidTTL
	}
	if opts.InvalidTTL <= 0 {
		opts.InvalidTTL = DefaultInvalidTTL
	}
	return &Fonts{client: client, cache: cache, opts: opts, log: log.Named("fonts")}
}

// Request describes single web font.
type Request struct {
	Family  string
	Variant string
	Subset  string
}

// FromValue extracts font request from typography value. Values without
// font family are not fonts.
func FromValue(v any) (Request, bool) {
	m, ok := v.(*values.Map)
	if !ok {
		return Request{}, false
	}
	family, ok := m.Get("font-family")
	if !ok {
		return Request{}, false
	}
	req := Request{Family: values.String(family)}
	if variant, ok := m.Get("variant"); ok {
		req.Variant = values.String(variant)
	}
	if subset, ok := m.Get("subset"); ok {
		req.Subset = values.Join(subset)
	}
	return req, true
}

// URL returns protocol relative stylesheet URL of the font.
func (f *Fonts) URL(req Request) string {
	var sb strings.Builder
	sb.WriteString(f.opts.BaseURL)
	sb.WriteString(strings.ReplaceAll(req.Family, " ", "+"))
	if len(req.Variant) > 0 {
		sb.WriteString(":")
		sb.WriteString(req.Variant)
	}
	if len(req.Subset) > 0 {
		sb.WriteString("&subset=")
		sb.WriteString(req.Subset)
	}
	return sb.String()
}

// Key returns content based cache key of the font request, it doubles as
// stylesheet handle. Parts are NUL separated so moving text between them
// changes the key.
func Key(req Request) string {
	return uuid.NewMD5(uuid.NameSpaceURL, []byte(strings.Join([]string{req.Family, req.Variant, req.Subset}, "\x00"))).String()
}

// Resolve returns directives for every typography field whose font link is
// known to be valid. Failures are never fatal, fonts which cannot be validated
// are silently left out.
func (f *Fonts) Resolve(ctx context.Context, reg *registry.Registry, resolver Resolver) []Directive {
	var res []Directive
	for _, field := range reg.Fields() {
		if field.Type != common.FieldTypeTypography || len(field.ConfigID) == 0 || len(field.ID) == 0 {
			continue
		}
		value, err := resolver.GetOption(field.ConfigID, field.ID)
		if err != nil {
			f.log.Warn("Unable to resolve field value, skipping", zap.String("field", field.ID), zap.Error(err))
			continue
		}
		req, ok := FromValue(value)
		if !ok {
			continue
		}
		if d, ok := f.check(ctx, req); ok {
			res = append(res, d)
		}
	}
	return res
}

func (f *Fonts) check(ctx context.Context, req Request) (Directive, bool) {
	var (
		key = Key(req)
		url = f.URL(req)
		d   = Directive{Handle: key, URL: url}
	)

	state, found, err := f.cache.Get(key)
	if err != nil {
		f.log.Warn("Unable to read font cache", zap.String("url", url), zap.Error(err))
	}
	if found {
		f.log.Debug("Font check cached", zap.String("url", url), zap.String("state", state))
		return d, common.FontCheck(state) == common.FontCheckValid
	}

	if err := f.fetch(ctx, f.opts.Scheme+url); err != nil {
		f.log.Info("Font is not available", zap.String("family", req.Family), zap.String("url", url), zap.Error(err))
		f.remember(key, common.FontCheckInvalid, f.opts.InvalidTTL)
		return d, false
	}
	f.remember(key, common.FontCheckValid, f.opts.ValidTTL)
	return d, true
}

func (f *Fonts) fetch(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("malformed font url: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("font request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected font service response: %s", resp.Status)
	}
	return nil
}

func (f *Fonts) remember(key string, state common.FontCheck, ttl time.Duration) {
	if err := f.cache.Set(key, string(state), ttl); err != nil {
		f.log.Warn("Unable to update font cache", zap.String("key", key), zap.Error(err))
	}
}
