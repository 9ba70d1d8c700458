package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/dmitools/dmicopy/internal/args"
	"github.com/dmitools/dmicopy/internal/commit"
	"github.com/dmitools/dmicopy/internal/config"
	"github.com/dmitools/dmicopy/internal/dmi"
	"github.com/dmitools/dmicopy/internal/merge"
	"github.com/dmitools/dmicopy/internal/report"
)

const configFile = "dmicopy.yaml"

type options struct {
	from       string
	to         string
	states     []string
	completion string
	quiet      bool
	noColor    bool
	backup     bool
}

func newRootCmd(fs afero.Fs) *cobra.Command {
	opts := &options{}
	var cfg *config.Config

	cmd := &cobra.Command{
		Use:   "dmicopy",
		Short: "Copy icon states between DMI files",
		Long: `Copy icon states between DMI files.

States already present in the target are replaced in place, new states are
appended, and identical states are left alone. The target file is written
atomically: either the whole copy lands or the old file survives intact.`,
		Example: `  Natural syntax:
    dmicopy state1 state2 state3 from original.dmi to target.dmi

  Flag syntax:
    dmicopy --from original.dmi --to target.dmi --state state1,state2,state3
    dmicopy --from original.dmi --to target.dmi --state state1 --state state2`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Completion generation bypasses everything else, config included.
			if opts.completion != "" {
				return nil
			}
			loaded, err := config.Load(configFile)
			if err != nil {
				return err
			}
			cfg = loaded
			return nil
		},
		RunE: func(cmd *cobra.Command, argv []string) error {
			if opts.completion != "" {
				return generateCompletion(cmd, opts.completion)
			}
			req, err := buildRequest(cmd, opts, argv)
			if err != nil {
				return err
			}
			if req == nil {
				return cmd.Help()
			}
			settings := runSettings{
				quiet:  opts.quiet || cfg.Quiet,
				color:  cfg.Color && !opts.noColor && stdoutIsTerminal(),
				backup: opts.backup || cfg.Backup,
			}
			return runCopy(cmd, fs, req, settings)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.from, "from", "", "source .dmi file to copy states from")
	flags.StringVar(&opts.to, "to", "", "target .dmi file to copy states into")
	flags.StringArrayVar(&opts.states, "state", nil, "icon states to copy (comma-separated, repeatable)")
	flags.StringVar(&opts.completion, "generate-completion", "", "generate completion script for the given shell (bash|zsh|fish|powershell)")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "suppress per-state output")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	flags.BoolVar(&opts.backup, "backup", false, "keep a .bak copy of the previous target file")
	return cmd
}

var rootCmd = newRootCmd(afero.NewOsFs())

// Execute runs the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// buildRequest normalizes either syntax into one request. A nil request
// with a nil error means nothing was asked for and help should be shown.
func buildRequest(cmd *cobra.Command, opts *options, argv []string) (*args.Request, error) {
	flagSyntax := cmd.Flags().Changed("from") ||
		cmd.Flags().Changed("to") ||
		cmd.Flags().Changed("state")

	switch {
	case flagSyntax && len(argv) > 0:
		return nil, fmt.Errorf("cannot mix --from/--to/--state with positional arguments %q", argv)
	case flagSyntax:
		var missing []string
		if opts.from == "" {
			missing = append(missing, "--from")
		}
		if opts.to == "" {
			missing = append(missing, "--to")
		}
		if len(opts.states) == 0 {
			missing = append(missing, "--state")
		}
		if len(missing) > 0 {
			return nil, fmt.Errorf("missing required argument %s", strings.Join(missing, ", "))
		}
		return &args.Request{From: opts.from, To: opts.to, States: args.Flatten(opts.states)}, nil
	case len(argv) > 0:
		return args.ParseNatural(argv)
	default:
		return nil, nil
	}
}

type runSettings struct {
	quiet  bool
	color  bool
	backup bool
}

func runCopy(cmd *cobra.Command, fs afero.Fs, req *args.Request, settings runSettings) error {
	src, err := loadIcon(fs, req.From)
	if err != nil {
		return fmt.Errorf("failed to read source file %s: %w", req.From, err)
	}
	dst, err := loadIcon(fs, req.To)
	if err != nil {
		return fmt.Errorf("failed to read target file %s: %w", req.To, err)
	}

	entries := merge.States(src, dst, req.States)

	printer := report.NewPrinter(cmd.OutOrStdout(), settings.quiet, settings.color)
	for _, e := range entries {
		printer.Entry(e)
	}

	if settings.backup {
		if err := commit.Backup(fs, req.To); err != nil {
			return fmt.Errorf("failed to back up %s: %w", req.To, err)
		}
	}
	if err := commit.WriteFile(fs, req.To, func(w io.Writer) error {
		return dmi.Save(dst, w)
	}); err != nil {
		return fmt.Errorf("failed to save %s: %w", req.To, err)
	}

	printer.Done()
	return nil
}

func loadIcon(fs afero.Fs, path string) (*dmi.Icon, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return dmi.Load(f)
}

func generateCompletion(cmd *cobra.Command, shell string) error {
	out := cmd.OutOrStdout()
	switch shell {
	case "bash":
		return cmd.Root().GenBashCompletionV2(out, true)
	case "zsh":
		return cmd.Root().GenZshCompletion(out)
	case "fish":
		return cmd.Root().GenFishCompletion(out, true)
	case "powershell":
		return cmd.Root().GenPowerShellCompletionWithDesc(out)
	default:
		return fmt.Errorf("unsupported shell %q (supported: bash, zsh, fish, powershell)", shell)
	}
}

func stdoutIsTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}
