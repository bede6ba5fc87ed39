package commands

import (
	"fmt"
	"sort"

	"github.com/leapstack-labs/stepkit/internal/registry"
	"github.com/leapstack-labs/stepkit/internal/step"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>...",
		Short: "Parse and resolve STEP files without writing output",
		Long: `Parse each file into an entity graph and resolve all references,
reporting one line per file. Files are independent, so they are checked
concurrently. With --strict-types, entity type names unknown to the
built-in registry are reported as warnings; they never fail the check.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args)
		},
	}
}

type checkResult struct {
	path    string
	err     error
	unknown []string
	records int
}

func runCheck(cmd *cobra.Command, paths []string) error {
	cfg := ConfigFrom(cmd.Context())
	logger := LoggerFrom(cmd.Context())

	results := make([]checkResult, len(paths))

	eg, _ := errgroup.WithContext(cmd.Context())
	for i, path := range paths {
		eg.Go(func() error {
			// Each worker owns its slice slot.
			results[i] = checkOne(path, cfg.StrictTypes)
			return nil
		})
	}
	// The workers never return an error; failures are collected per file so
	// one bad input does not hide the others.
	_ = eg.Wait()

	failed := 0
	out := cmd.OutOrStdout()
	for _, res := range results {
		if res.err != nil {
			failed++
			fmt.Fprintf(out, "%s: %v\n", res.path, res.err)
			continue
		}
		fmt.Fprintf(out, "%s: ok (%d entities)\n", res.path, res.records)
		for _, name := range res.unknown {
			fmt.Fprintf(out, "%s: warning: unknown entity type %s\n", res.path, name)
		}
	}
	logger.Debug("check finished", "files", len(paths), "failed", failed)

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(paths))
	}
	return nil
}

func checkOne(path string, strictTypes bool) checkResult {
	res := checkResult{path: path}
	g, err := step.DecodeFile(path)
	if err != nil {
		res.err = err
		return res
	}
	res.records = g.Len()

	if strictTypes {
		reg := registry.Default()
		seen := make(map[string]bool)
		for _, r := range g.Records {
			for _, st := range r.Subtypes {
				if !reg.Known(st.Name) && !seen[st.Name] {
					seen[st.Name] = true
					res.unknown = append(res.unknown, st.Name)
				}
			}
		}
		sort.Strings(res.unknown)
	}
	return res
}
