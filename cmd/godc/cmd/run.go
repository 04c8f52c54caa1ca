package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/maruel/natural"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"dcvm/internal/config"
	"dcvm/internal/interp"
	"dcvm/internal/machine"
	"dcvm/internal/source"
)

var (
	expression      string
	extendedRegs    bool
	configPath      string
	dumpStatePath   string
	loadStatePath   string
	traceExec       bool
	sortFilesNatural bool
)

var runCmd = &cobra.Command{
	Use:   "run [files...]",
	Short: "Run dc programs from files, an inline expression, or standard input",
	Long: `Execute one or more dc programs.

Examples:
  # Run a script file
  godc run prog.dc

  # Evaluate an inline expression
  godc run -e "2 3 + p"

  # Run several files in natural (not lexical) filename order
  godc run --sort-files part2.dc part10.dc part1.dc

  # Read the program from standard input
  echo "2 3 + p" | godc run`,
	RunE: runPrograms,
}

func init() {
	rootCmd.AddCommand(runCmd)

	for _, fs := range []*pflag.FlagSet{runCmd.Flags(), rootCmd.Flags()} {
		fs.StringVarP(&expression, "expression", "e", "", "evaluate an inline expression instead of reading files")
		fs.BoolVarP(&extendedRegs, "extended-registers", "x", false, "enable the extended (0xFF-escaped) register address space")
		fs.StringVar(&configPath, "config", "", "path to a YAML config file supplying startup defaults")
		fs.StringVar(&dumpStatePath, "dump-state", "", "write machine state as JSON to this path after execution")
		fs.StringVar(&loadStatePath, "load-state", "", "load machine state from a JSON file produced by --dump-state before execution")
		fs.BoolVar(&traceExec, "trace", false, "trace every dispatched opcode to standard error")
		fs.BoolVar(&sortFilesNatural, "sort-files", false, "process multiple files in natural (numeric-aware) filename order instead of argument order")
	}
}

func runPrograms(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if err := loaded.Validate(); err != nil {
			return err
		}
		cfg = loaded
	}

	ext := extendedRegs
	if cfg.ExtendedRegs != nil && !cmd.Flags().Changed("extended-registers") {
		ext = *cfg.ExtendedRegs
	}

	m := machine.New(ext)
	if cfg.IBase != nil {
		m.IBase = *cfg.IBase
	}
	if cfg.OBase != nil {
		m.OBase = *cfg.OBase
	}
	if cfg.Scale != nil {
		m.Scale = *cfg.Scale
	}

	if loadStatePath != "" {
		data, err := os.ReadFile(loadStatePath)
		if err != nil {
			return fmt.Errorf("failed to read state file %s: %w", loadStatePath, err)
		}
		if err := m.LoadState(string(data)); err != nil {
			return fmt.Errorf("failed to load state from %s: %w", loadStatePath, err)
		}
	}

	ip := interp.New(m, os.Stdout, os.Stderr, os.Stdin)
	if traceExec {
		ip.Trace = os.Stderr
	}

	if err := runInputs(ip, args); err != nil {
		return err
	}

	if dumpStatePath != "" {
		doc, err := m.DumpState()
		if err != nil {
			return fmt.Errorf("failed to serialize machine state: %w", err)
		}
		if err := os.WriteFile(dumpStatePath, []byte(doc), 0o644); err != nil {
			return fmt.Errorf("failed to write state file %s: %w", dumpStatePath, err)
		}
	}
	return nil
}

func runInputs(ip *interp.Interp, files []string) error {
	if expression != "" {
		return runOne(ip, source.NewString(expression))
	}
	if len(files) == 0 {
		return runOne(ip, source.NewStream(os.Stdin))
	}

	ordered := make([]string, len(files))
	copy(ordered, files)
	if sortFilesNatural {
		sort.Slice(ordered, func(i, j int) bool {
			return natural.Less(ordered[i], ordered[j])
		})
	}

	for _, name := range ordered {
		f, err := os.Open(name)
		if err != nil {
			return fmt.Errorf("failed to open file %s: %w", name, err)
		}
		err = runOne(ip, source.NewStream(f))
		f.Close()
		if err != nil {
			return err
		}
		ip.M.ResetForSource()
	}
	return nil
}

func runOne(ip *interp.Interp, src source.Source) error {
	err := ip.Run(src)
	switch err.(type) {
	case *interp.QuitSignal:
		return nil
	case *interp.FatalError:
		return err
	default:
		return err
	}
}
