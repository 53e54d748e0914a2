package main

import (
	"context"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/sugawarayuuta/sonnet"

	"bytering/constants"
	"bytering/debug"
	"bytering/scenario"
	"bytering/storage"
	"bytering/store"
)

// errScenarioFailed is returned after all scenarios ran and at least one failed.
var errScenarioFailed = errors.New("one or more scenarios failed")

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// COMMAND TREE
// ═══════════════════════════════════════════════════════════════════════════════════════════════

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "bytering",
		Short:         "Fixed-capacity byte ring buffer conformance tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newCheckCmd(), newFuzzCmd(), newHistoryCmd())
	return root
}

func newCheckCmd() *cobra.Command {
	var backing, dbPath string
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "check [scenario.json ...]",
		Short: "Run the builtin scenarios, or the given scenario files",
		RunE: func(cmd *cobra.Command, args []string) error {
			scs := scenario.Builtin()
			if len(args) > 0 {
				var err error
				if scs, err = loadFiles(args); err != nil {
					return err
				}
			}
			return runScenarios(cmd.Context(), cmd.OutOrStdout(), scs, backing, dbPath, asJSON)
		},
	}
	cmd.Flags().StringVar(&backing, "backing", constants.DefaultBacking, `backing storage: "heap" or "mmap"`)
	cmd.Flags().StringVar(&dbPath, "db", "", "record runs into this SQLite file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	cmd.Flags().SortFlags = false
	return cmd
}

func newFuzzCmd() *cobra.Command {
	var backing, dbPath string
	var seed uint64
	var ops int
	var capacity uint32
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "fuzz",
		Short: "Run one random put/get script checked against a reference model",
		RunE: func(cmd *cobra.Command, args []string) error {
			if capacity == 0 {
				return errors.New("--capacity must be > 0")
			}
			if ops < 0 {
				return errors.New("--ops must be >= 0")
			}
			if !cmd.Flags().Changed("seed") {
				seed = uint64(time.Now().UnixNano())
			}
			sc := scenario.Random(seed, ops, capacity, constants.DefaultFuzzSlack)
			return runScenarios(cmd.Context(), cmd.OutOrStdout(), []scenario.Scenario{sc}, backing, dbPath, asJSON)
		},
	}
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed (default: current time)")
	cmd.Flags().IntVar(&ops, "ops", constants.DefaultFuzzOps, "number of operations")
	cmd.Flags().Uint32Var(&capacity, "capacity", constants.DefaultCapacity, "buffer capacity")
	cmd.Flags().StringVar(&backing, "backing", constants.DefaultBacking, `backing storage: "heap" or "mmap"`)
	cmd.Flags().StringVar(&dbPath, "db", "", "record the run into this SQLite file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	cmd.Flags().SortFlags = false
	return cmd
}

func newHistoryCmd() *cobra.Command {
	var dbPath string
	var limit int
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recently recorded runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			// store.Open creates missing files; a mistyped path must not.
			if _, err := os.Stat(dbPath); err != nil {
				return errors.Wrap(err, "history database")
			}
			st, err := store.Open(dbPath)
			if err != nil {
				return err
			}
			defer st.Close()

			runs, err := st.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, runs)
			}
			for _, r := range runs {
				line := strconv.FormatInt(r.ID, 10) + "\t" + r.CreatedAt.Format(time.RFC3339) + "\t" +
					r.Name + "\t" + r.Backing + "\t" + verdict(r.Passed) + "\t" + r.Digest + "\n"
				if _, err := io.WriteString(out, line); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", constants.DefaultDBPath, "SQLite history file")
	cmd.Flags().IntVar(&limit, "limit", constants.DefaultHistoryLimit, "maximum rows")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// EXECUTION
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// report is the --json output of check and fuzz.
type report struct {
	Backing string            `json:"backing"`
	Passed  bool              `json:"passed"`
	Results []scenario.Result `json:"results"`
}

func loadFiles(paths []string) ([]scenario.Scenario, error) {
	var out []scenario.Scenario
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			return nil, errors.Wrap(err, "open scenario file")
		}
		scs, err := scenario.Load(f)
		f.Close()
		if err != nil {
			return nil, errors.Wrap(err, p)
		}
		out = append(out, scs...)
	}
	return out, nil
}

// runScenarios executes each scenario over a fresh region of the requested
// backing kind and records it when dbPath is set.
func runScenarios(ctx context.Context, out io.Writer, scs []scenario.Scenario, backing, dbPath string, asJSON bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var st *store.Store
	if dbPath != "" {
		var err error
		if st, err = store.Open(dbPath); err != nil {
			return err
		}
		defer st.Close()
	}

	rep := report{Backing: backing, Passed: true}
	for _, sc := range scs {
		if err := sc.Validate(); err != nil {
			return err
		}
		region, err := storage.Open(backing, sc.BackingSize())
		if err != nil {
			return err
		}
		res, err := scenario.Run(sc, region.Bytes())
		if cerr := region.Close(); cerr != nil {
			debug.DropError("STORAGE", cerr)
		}
		if err != nil {
			return err
		}
		rep.Backing = region.Kind()

		if !res.Passed() {
			rep.Passed = false
			for _, f := range res.Failures {
				debug.DropMessage("FAIL", sc.Name+" step "+strconv.Itoa(f.Step)+" ("+f.Op+"): "+f.Reason)
			}
			if !res.GuardIntact {
				debug.DropMessage("FAIL", sc.Name+": bytes past capacity were modified")
			}
		}
		if st != nil {
			if _, err := st.Record(ctx, rep.Backing, res); err != nil {
				return err
			}
		}
		rep.Results = append(rep.Results, res)

		if !asJSON {
			line := sc.Name + "\t" + verdict(res.Passed()) + "\tsteps=" + strconv.Itoa(res.Steps) +
				"\tdigest=" + res.Digest[:16] + "\n"
			if _, err := io.WriteString(out, line); err != nil {
				return err
			}
		}
	}

	if asJSON {
		if err := writeJSON(out, rep); err != nil {
			return err
		}
	}
	if !rep.Passed {
		return errScenarioFailed
	}
	return nil
}

func writeJSON(out io.Writer, v any) error {
	b, err := sonnet.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "encode report")
	}
	b = append(b, '\n')
	_, err = out.Write(b)
	return err
}

func verdict(passed bool) string {
	if passed {
		return "pass"
	}
	return "FAIL"
}
