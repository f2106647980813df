// Package provider exposes theme customization API. Calls are served either by
// the external customization plugin, when host has it, or locally.
package provider

import (
	"go.uber.org/zap"

	"kshim/registry"
)

// StyleConfigProvider is registration and read surface offered to themes.
type StyleConfigProvider interface {
	registry.Registrar
	// GetOption returns value of field fieldID stored according to config
	// configID.
	GetOption(configID, fieldID string) (any, error)
}

// Plugin is the external customization plugin as seen by the shim.
type Plugin interface {
	StyleConfigProvider
	// Present reports whether plugin is installed and active.
	Present() bool
}

// Select picks provider once: when plugin is present every call is forwarded
// to it, otherwise local implementation is used.
func Select(plugin Plugin, local *Local, log *zap.Logger) StyleConfigProvider {
	if log == nil {
		log = zap.NewNop()
	}
	if plugin != nil && plugin.Present() {
		log.Debug("Customization plugin is present, forwarding all calls")
		return &External{plugin: plugin}
	}
	log.Debug("Customization plugin is absent, using local implementation")
	return local
}

// External forwards everything to the plugin.
type External struct {
	plugin Plugin
}

func (e *External) AddConfig(id string, cfg registry.ConfigDefinition) error {
	return e.plugin.AddConfig(id, cfg)
}

func (e *External) AddPanel(id string, p registry.PanelDefinition) error {
	return e.plugin.AddPanel(id, p)
}

func (e *External) AddSection(id string, s registry.SectionDefinition) error {
	return e.plugin.AddSection(id, s)
}

func (e *External) AddField(configID string, f registry.FieldDefinition) error {
	return e.plugin.AddField(configID, f)
}

func (e *External) GetOption(configID, fieldID string) (any, error) {
	return e.plugin.GetOption(configID, fieldID)
}
