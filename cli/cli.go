package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/dumbo/cli/cmd"
	"github.com/ardnew/dumbo/pkg"
)

// CLI is the top-level command-line interface for dumbo.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit." short:"V"`

	Render cmd.Render `cmd:"" default:"withargs" help:"Render templates (default)."`
	Fmt    cmd.Fmt    `cmd:""                    help:"Reformat a template or dump its syntax tree."`
	Repl   cmd.Repl   `cmd:""                    help:"Render template lines interactively."`
	Init   cmd.Init   `cmd:""                    help:"Write the configuration file from the current flags."`
}

// Run executes the dumbo CLI with the given context and arguments.
// The exit function is called by kong for --help, --version and usage errors.
func Run(ctx context.Context, exit func(code int), args ...string) error {
	var cli CLI

	if err := mkdirAllRequired(); err != nil {
		return err
	}

	configFile := configPath(baseConfig)

	vars := kong.Vars{
		cmd.ConfigIdentifier:  configFile,
		cmd.CacheIdentifier:   cachePath(),
		cmd.HistoryIdentifier: cachePath(baseHistory),
		"version":             pkg.Name + " " + pkg.Version,
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

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
		kong.Bind(cmd.OSStdio()),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configFile+".json"),
		kong.Configuration(resolve(ctx), configFile),
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

	// No-op unless built with the pprof tag and a mode is selected.
	defer cli.Pprof.start(ctx)()

	return ktx.Run()
}
