package commands

import (
	"context"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/maruel/natural"
	cli "github.com/urfave/cli/v3"

	"kshim/installer"
	"kshim/provider"
	"kshim/registry"
	"kshim/store"
)

// Fields lists definitions theme registers, ordered naturally by id.
func Fields(ctx context.Context, cmd *cli.Command) error {
	env, err := prepareDefinitions(ctx)
	if err != nil {
		return err
	}
	tooManyArgs(env, cmd, 0)

	// listing needs no stored values
	local := provider.NewLocal(registry.New(), store.NewMemory(), store.NewMemory(), env.Log)
	registerAll(env, local)
	reg := local.Registry()
	if !env.Cfg.Plugin.Present {
		_ = local.AddSection(installer.SectionID, installer.Section())
	}

	out, _, _ := output(cmd, "")
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	if cmd.Bool("sections") {
		sections := reg.Sections()
		sort.Slice(sections, func(i, j int) bool {
			if sections[i].Priority != sections[j].Priority {
				return sections[i].Priority < sections[j].Priority
			}
			return natural.Less(sections[i].ID, sections[j].ID)
		})
		fmt.Fprintln(tw, "SECTION\tPANEL\tPRIORITY\tTITLE")
		for _, s := range sections {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", s.ID, s.Panel, s.Priority, s.Title)
		}
		return tw.Flush()
	}

	ids := make([]string, 0, reg.Len())
	for _, f := range reg.Fields() {
		ids = append(ids, f.ID)
	}
	sort.Sort(natural.StringSlice(ids))

	fmt.Fprintln(tw, "FIELD\tTYPE\tCONFIG\tSECTION\tOUTPUTS")
	for _, id := range ids {
		f, _ := reg.Field(id)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", f.ID, f.Type, f.ConfigID, f.Section, len(f.Outputs))
	}
	return tw.Flush()
}
