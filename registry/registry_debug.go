package registry

import (
	"sort"
	"strings"

	"github.com/maruel/natural"

	"kshim/utils/debug"
	"kshim/values"
)

// String returns readable tree of everything registered. It exists solely
// for debug reports.
func (r *Registry) String() string {
	if r == nil {
		return "<nil Registry>"
	}
	tw := debug.NewTreeWriter()

	tw.Line(0, "Configs: %d", len(r.configIDs))
	for _, c := range r.Configs() {
		tw.Line(1, "Config[%q] mode[%s] option[%q]", c.ID, c.StorageMode, c.OptionName)
	}

	sections := r.Sections()
	tw.Line(0, "Panels: %d, sections: %d", len(r.Panels()), len(sections))
	for _, p := range r.Panels() {
		tw.Line(1, "Panel[%q] priority[%d]", p.ID, p.Priority)
		for _, s := range sections {
			if s.Panel == p.ID {
				tw.Line(2, "Section[%q] priority[%d]", s.ID, s.Priority)
			}
		}
	}
	for _, s := range sections {
		if len(s.Panel) == 0 {
			tw.Line(1, "Section[%q] priority[%d]", s.ID, s.Priority)
		}
	}

	ids := make([]string, 0, r.Len())
	for _, f := range r.Fields() {
		ids = append(ids, f.ID)
	}
	sort.Sort(natural.StringSlice(ids))

	tw.Line(0, "Fields: %d", len(ids))
	for _, id := range ids {
		f, _ := r.Field(id)
		tw.Line(1, "Field[%q] type[%s] config[%q] section[%q]", f.ID, f.Type, f.ConfigID, f.Section)
		if values.IsStructured(f.Default) {
			if data, err := values.Encode(f.Default); err == nil {
				tw.Block(2, "default", string(data))
			}
		} else {
			tw.TextBlock(2, "default", values.String(f.Default))
		}
		for _, o := range f.Outputs {
			tw.Line(2, "Output[%q] property[%q] media[%q] wrap[%q %q %q]",
				o.Selector.String(), o.Property, o.Media(), o.Prefix, o.Units, o.Suffix)
		}
	}
	return strings.TrimRight(tw.String(), "\n")
}
