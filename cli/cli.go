package cli

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/ardnew/cohort/cli/cmd"
	"github.com/ardnew/cohort/log"
	"github.com/ardnew/cohort/pkg"
)

// CLI is the top-level command-line interface for cohort.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit"`

	Init cmd.Init `cmd:"" help:"Initialize configuration file"`
	Run  cmd.Run  `cmd:"" default:"1" help:"Start the interpreter (default)"`
}

// Run executes the cohort CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	// Variables from .env are visible to commands through os.Getenv.
	err = godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn("dotenv not loaded", slog.Any("error", err))
	}

	vars := kong.Vars{
		cmd.ConfigIdentifier: configPath(yamlConfig),
		cmd.CacheIdentifier:  pkg.CacheDir(),
		"version":            pkg.Version(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Apply logger flags before kong reports any parse error.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(loadJSONC, configPath(jsonConfig)),
		kong.Configuration(resolve(cmd.ConfigIdentifier), configPath(yamlConfig)),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)

	cli.Log.start(ctx)

	// No-op unless built with tag pprof and a mode is selected.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx)
}
