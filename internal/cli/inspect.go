package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kstrandberg/uncouple/pkg/modelio"
	"github.com/kstrandberg/uncouple/pkg/reconnect"
	"github.com/kstrandberg/uncouple/pkg/topology"
)

// newInspectCmd creates the inspect command.
func newInspectCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "inspect <model.json>",
		Short: "Show model statistics and removable couplings",
		Long: `Show model statistics: element counts and, for each junction, how many
segments are attached to it. Junctions with exactly two attached segments
are the ones 'process' can remove.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			return runInspect(args[0], cfg.Thresholds)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "config file (default: uncouple.toml if present)")
	return cmd
}

func runInspect(input string, th reconnect.Thresholds) error {
	m, err := modelio.ImportJSON(input)
	if err != nil {
		return err
	}

	printKeyValue("model", input)
	printKeyValue("segments", fmt.Sprintf("%d", m.SegmentCount()))
	printKeyValue("junctions", fmt.Sprintf("%d", m.JunctionCount()))

	removable := 0
	for _, j := range m.Junctions() {
		segs := topology.FindAttachedSegments(m, j, th.Proximity)
		where := "no location"
		if p, ok := topology.Representative(j); ok {
			where = fmt.Sprintf("(%.2f, %.2f, %.2f)", p.X, p.Y, p.Z)
		}
		if len(segs) == 2 {
			removable++
			printSuccess("%s (%s) at %s: 2 segments, removable", j.ID(), j.TypeName(), where)
			continue
		}
		printWarning("%s (%s) at %s: %d segment(s), skipped by process", j.ID(), j.TypeName(), where, len(segs))
	}
	printKeyValue("removable", fmt.Sprintf("%d", removable))
	return nil
}
