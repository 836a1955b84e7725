package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/kstrandberg/uncouple/pkg/engine"
	"github.com/kstrandberg/uncouple/pkg/errors"
	"github.com/kstrandberg/uncouple/pkg/model"
	"github.com/kstrandberg/uncouple/pkg/model/memory"
	"github.com/kstrandberg/uncouple/pkg/modelio"
)

// newProcessCmd creates the process command.
func newProcessCmd() *cobra.Command {
	var (
		output     string
		configPath string
		idsStr     string
		dryRun     bool
		noTUI      bool
	)

	cmd := &cobra.Command{
		Use:   "process <model.json>",
		Short: "Remove couplings from a model and reconnect the segments",
		Long: `Remove coupling junctions from a model and restore connectivity.

Each selected junction is removed in-place: its two attached segments are
merged where the geometry allows, or reconnected via extension, a logical
link, or a bridge segment. Junctions attached to any number of segments
other than two are skipped and reported.

The whole batch runs in one transaction: the processed model is written only
when the batch completes. Individual junction failures do not abort the
batch; they appear in the summary.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd.Context(), args[0], processParams{
				output:     output,
				configPath: configPath,
				ids:        idsStr,
				dryRun:     dryRun,
				noTUI:      noTUI,
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <model>.processed.json)")
	cmd.Flags().StringVar(&configPath, "config", "", "config file (default: uncouple.toml if present)")
	cmd.Flags().StringVar(&idsStr, "ids", "", "comma-separated junction ids (default: all junctions)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report outcomes without writing the model")
	cmd.Flags().BoolVar(&noTUI, "no-tui", false, "disable the interactive progress display")

	return cmd
}

type processParams struct {
	output     string
	configPath string
	ids        string
	dryRun     bool
	noTUI      bool
}

func runProcess(ctx context.Context, input string, p processParams) error {
	logger := loggerFromContext(ctx)

	cfg, err := loadConfig(p.configPath)
	if err != nil {
		return err
	}

	m, err := modelio.ImportJSON(input)
	if err != nil {
		return err
	}
	junctions, err := selectJunctions(m, p.ids)
	if err != nil {
		return err
	}
	if len(junctions) == 0 {
		printInfo("no junctions to process")
		return nil
	}
	logger.Debug("model loaded",
		"segments", m.SegmentCount(), "junctions", m.JunctionCount(), "selected", len(junctions))

	if err := m.Begin(); err != nil {
		return err
	}

	eng := engine.New(m, engine.Options{Thresholds: cfg.Thresholds, Logger: logger})
	prog := newProgress(logger)

	var sum engine.Summary
	if useTUI(p.noTUI) {
		sum, err = runProcessTUI(ctx, eng, junctions)
		if err != nil {
			_ = m.Rollback()
			return err
		}
	} else {
		sum = eng.Process(ctx, junctions)
		printSummary(sum)
	}
	prog.done(fmt.Sprintf("Processed %d junction(s)", sum.Total))

	if p.dryRun {
		if err := m.Rollback(); err != nil {
			return err
		}
		printInfo("dry run: model not written")
		return nil
	}
	if err := m.Commit(); err != nil {
		return err
	}

	out := p.output
	if out == "" {
		out = processedPath(input)
	}
	if err := modelio.ExportJSON(m, out); err != nil {
		return err
	}
	printFile(out)

	if sum.Failed > 0 {
		printWarning("%d junction(s) could not be removed", sum.Failed)
	}
	return nil
}

// useTUI reports whether the interactive progress display should run.
func useTUI(noTUI bool) bool {
	return !noTUI && isatty.IsTerminal(os.Stdout.Fd())
}

// processedPath derives the default output path: model.json becomes
// model.processed.json.
func processedPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + ".processed" + ext
}

// selectJunctions resolves a comma-separated ids filter against the model.
// An empty filter selects every junction.
func selectJunctions(m *memory.Model, ids string) ([]*model.Junction, error) {
	if strings.TrimSpace(ids) == "" {
		return m.Junctions(), nil
	}
	var out []*model.Junction
	for _, id := range strings.Split(ids, ",") {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		j := m.Junction(model.ElementID(id))
		if j == nil {
			return nil, errors.New(errors.ErrCodeNotFound, "junction %s not in model", id)
		}
		out = append(out, j)
	}
	return out, nil
}
