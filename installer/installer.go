// Package installer renders customizer section recommending installation (or
// activation) of the customization plugin when it is not active.
package installer

import (
	"fmt"
	"html/template"
	"io"
	"net/url"
	"strings"

	sprig "github.com/go-task/slim-sprig/v3"

	"kshim/registry"
)

const (
	// SectionID is customizer section the notice is rendered in.
	SectionID = "kirki_installer"
	// PluginSlug identifies plugin in host plugin directory.
	PluginSlug = "kirki"
)

// known names plugin is published under
var pluginNames = []string{"Kirki", "Kirki Toolkit"}

// Section returns definition of installer section, it goes first.
func Section() registry.SectionDefinition {
	return registry.SectionDefinition{ID: SectionID, Priority: 0}
}

// Installed reports whether any of installed plugins is the customization
// plugin.
func Installed(installed []string) bool {
	for _, name := range installed {
		for _, known := range pluginNames {
			if name == known {
				return true
			}
		}
	}
	return false
}

// Notice describes what should be offered to administrator.
type Notice struct {
	// Installed is true when plugin is installed but not active.
	Installed bool
	// AdminURL is base URL of host administration area.
	AdminURL string
	// Nonce protects installation request.
	Nonce string
}

// InstallURL returns plugin installation link.
func (n Notice) InstallURL() string {
	q := url.Values{}
	q.Set("action", "install-plugin")
	q.Set("plugin", PluginSlug)
	if len(n.Nonce) > 0 {
		q.Set("_wpnonce", n.Nonce)
	}
	return n.adminPath("update.php") + "?" + q.Encode()
}

// ActivateURL returns link to plugins page where plugin can be activated.
func (n Notice) ActivateURL() string {
	return n.adminPath("plugins.php")
}

func (n Notice) adminPath(page string) string {
	return strings.TrimSuffix(n.AdminURL, "/") + "/" + page
}

const noticeTemplate = `<div style="padding:10px 14px;">
{{- $msg := "A plugin is required to take advantage of this theme's features in the customizer." }}
{{ $msg }}
{{- if .Installed }}
<a class="install-now button-secondary button" data-slug="{{ .Slug }}" href="{{ .Notice.ActivateURL }}" aria-label="Activate {{ .Name }} now" data-name="{{ .Name }}">{{ "activate now" | title }}</a>
{{- else }}
<a class="install-now button-primary button" data-slug="{{ .Slug }}" href="{{ .Notice.InstallURL }}" aria-label="Install {{ .Name }} now" data-name="{{ .Name }}">{{ "install now" | title }}</a>
{{- end }}
</div>
`

var notice = template.Must(template.New("notice").Funcs(sprig.FuncMap()).Parse(noticeTemplate))

// Render writes notice markup.
func Render(w io.Writer, n Notice) error {
	data := struct {
		Notice    Notice
		Installed bool
		Slug      string
		Name      string
	}{
		Notice:    n,
		Installed: n.Installed,
		Slug:      PluginSlug,
		Name:      pluginNames[len(pluginNames)-1],
	}
	if err := notice.Execute(w, data); err != nil {
		return fmt.Errorf("unable to render installer notice: %w", err)
	}
	return nil
}
