package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/dusk-indust/oconcat/internal/config"
	"github.com/dusk-indust/oconcat/internal/fsys"
	"github.com/dusk-indust/oconcat/internal/logging"
	"github.com/dusk-indust/oconcat/internal/mcptools"
	"github.com/dusk-indust/oconcat/internal/orchestrator"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// version is set by goreleaser at build time.
var version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rootCmd := newRootCommand()
	err := rootCmd.ExecuteContext(ctx)
	handleError(err)
	if err != nil {
		os.Exit(1)
	}
}

// globalFlags are shared by every command.
type globalFlags struct {
	dir        string
	configPath string
	logLevel   string
	jobs       int
	force      bool
	noColor    bool
}

func newRootCommand() *cobra.Command {
	flags := &globalFlags{}
	var serveMCP bool

	cmd := &cobra.Command{
		Use:   "oconcat [TARGET...]",
		Short: "Concatenate files in dependsOn order",
		Long: `oconcat merges the source files of each destination in oconcat.yml into one
output file. A file that contains dependsOn("./other.js"); is emitted after the
files it depends on. Missing and circular dependencies are reported and the
affected files are left out.`,
		Args:          cobra.ArbitraryArgs,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := flags.open()
			if err != nil {
				return err
			}
			defer func() { _ = p.log.Sync() }()
			if serveMCP {
				svc := mcptools.NewMergeService(p.dir, p.fs, p.log, flags.jobs)
				return mcptools.RunMCPServerStdio(cmd.Context(), mcptools.NewMCPServer(svc))
			}
			return runMerge(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), p, args)
		},
	}
	cmd.SetVersionTemplate("{{.Version}}\n")
	cmd.Example = `  # Merge every destination in ./oconcat.yml
  oconcat

  # Merge one destination of another project, overriding the link-style check
  oconcat -C web app --force

  # Run as an MCP server
  oconcat --serve-mcp`

	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.dir, "dir", "C", ".", "Project directory; sources and destinations are relative to it")
	pf.StringVar(&flags.configPath, "config", "", "Path to the config file (default <dir>/oconcat.yml)")
	pf.StringVar(&flags.logLevel, "log-level", "info", "Log level for warnings and diagnostics (debug, info, warn, error)")
	pf.IntVarP(&flags.jobs, "jobs", "j", 0, "Maximum destinations merged at once (0 means no limit)")
	pf.BoolVar(&flags.force, "force", false, "Drop conflicting link-style source maps instead of failing")
	pf.BoolVar(&flags.noColor, "no-color", false, "Disable colored output")
	cmd.Flags().BoolVar(&serveMCP, "serve-mcp", false, "Run as an MCP server on stdio")

	cmd.PersistentPreRun = func(*cobra.Command, []string) {
		if flags.noColor {
			color.NoColor = true
		}
	}

	graphCmd := newGraphCommand(flags)
	statusCmd := newStatusCommand(flags)
	initCmd := newInitCommand(flags)
	cmd.AddCommand(graphCmd, statusCmd, initCmd)
	bindViper(cmd, graphCmd, statusCmd, initCmd)
	return cmd
}

// project is an opened project directory.
type project struct {
	dir        string
	configPath string
	fs         fsys.FileSystem
	log        *zap.Logger
	jobs       int
	force      bool
}

func (g *globalFlags) open() (*project, error) {
	dir, err := filepath.Abs(g.dir)
	if err != nil {
		return nil, fmt.Errorf("resolve project dir: %w", err)
	}
	log, err := logging.New(g.logLevel)
	if err != nil {
		return nil, err
	}
	fs, err := fsys.NewAFS(dir)
	if err != nil {
		return nil, err
	}
	return &project{
		dir:        dir,
		configPath: g.configPath,
		fs:         fs,
		log:        log,
		jobs:       g.jobs,
		force:      g.force,
	}, nil
}

// targets loads the config and resolves the named targets, or all of them.
func (p *project) targets(names []string) ([]orchestrator.Target, error) {
	path := p.configPath
	if path == "" {
		found, err := config.Find(p.dir)
		if err != nil {
			return nil, err
		}
		path = found
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, err
	}
	targets, err := cfg.ResolveTargets(p.dir, names...)
	if err != nil {
		return nil, err
	}
	if p.force {
		for i := range targets {
			targets[i].Options.Force = true
		}
	}
	return targets, nil
}

func runMerge(ctx context.Context, out, errOut io.Writer, p *project, names []string) error {
	targets, err := p.targets(names)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		fmt.Fprintln(errOut, "No targets configured.")
		return nil
	}

	var mu sync.Mutex
	runner := orchestrator.NewRunner(orchestrator.NewMerger(p.fs, p.log), p.jobs, func(ev orchestrator.ProgressEvent) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintln(errOut, orchestrator.FormatProgress(ev))
	})
	reports, err := runner.Run(ctx, targets)
	if err != nil {
		return err
	}
	for _, r := range reports {
		if r == nil {
			continue
		}
		fmt.Fprintf(out, "File %s created.\n", logging.Dependency(r.Dest))
		if r.MapPath != "" {
			fmt.Fprintf(out, "File %s created.\n", logging.Dependency(r.MapPath))
		}
		for _, path := range r.Excluded {
			fmt.Fprintf(out, "  excluded %s\n", logging.Declaring(path))
		}
	}
	return nil
}

func bindViper(commands ...*cobra.Command) {
	if len(commands) == 0 {
		return
	}
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.SetEnvPrefix("OCONCAT")
	v.AutomaticEnv()

	cobra.OnInitialize(func() {
		for _, cmd := range commands {
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				cobra.CheckErr(err)
			}
			if err := v.BindPFlags(cmd.PersistentFlags()); err != nil {
				cobra.CheckErr(err)
			}
		}
		for _, cmd := range commands {
			flagSets := []*pflag.FlagSet{cmd.Flags(), cmd.PersistentFlags()}
			for _, fs := range flagSets {
				fs.VisitAll(func(f *pflag.Flag) {
					if f.Changed {
						return
					}
					if !v.IsSet(f.Name) {
						return
					}
					val := fmt.Sprintf("%v", v.Get(f.Name))
					if val != "" {
						_ = f.Value.Set(val)
					}
				})
			}
		}
	})
}

func handleError(err error) {
	if err == nil || errors.Is(err, pflag.ErrHelp) {
		return
	}
	message := err.Error()
	switch {
	case errors.Is(err, config.ErrNoConfig):
		message = fmt.Sprintf("%s\nHint: run 'oconcat init' to create a starter oconcat.yml.", err)
	case errors.Is(err, orchestrator.ErrSourceMapConflict):
		message = fmt.Sprintf("%s\nHint: use sourceMapStyle embed or inline, or pass --force to skip the source map.", err)
	case errors.Is(err, errStale):
		message = fmt.Sprintf("%s\nHint: run 'oconcat' to rebuild them.", err)
	}
	fmt.Fprintf(os.Stderr, "Error: %s\n", message)
}
