package cli

import (
	"context"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/lis/cli/cmd"
	"github.com/ardnew/lis/lang"
	"github.com/ardnew/lis/pkg"
)

// CLI is the top-level command-line interface for lis.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit" short:"V"`

	Source   []string `help:"Lisp source file(s) loaded before the command runs, or '-' for stdin" name:"source" short:"s" type:"existingfile"`
	MaxDepth int      `default:"${maxDepth}"                                                       help:"Maximum nested evaluation depth (0 disables the limit)"`

	Repl cmd.Repl `cmd:"" default:"1" help:"Start an interactive session"`
	Eval cmd.Eval `cmd:""             help:"Evaluate expressions and print their values"`
	Fmt  cmd.Fmt  `cmd:""             help:"Reformat a program"`
	Init cmd.Init `cmd:""             help:"Initialize configuration file"`
}

// Run parses args and runs the selected command. Kong calls exit instead of
// returning when parsing ends the program, as with --help or --version.
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

	configFilePath := configPath(baseConfig)

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  cacheDir(),
		"version":            pkg.Version,
		"maxDepth":           strconv.Itoa(lang.DefaultMaxDepth),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The provider below is consulted when a command's Run is called, by
	// which point runCtx carries the values attached after parsing.
	runCtx := ctx

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
			return runCtx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configFilePath+".json"),
		kong.Configuration(resolve(ctx), configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	runCtx = cmd.WithInterpreterOptions(
		cmd.WithSourceFiles(cmd.WithContext(ctx, ktx), cli.Source),
		lang.WithMaxDepth(cli.MaxDepth),
	)

	defer cli.Log.start(runCtx)()
	defer cli.Pprof.start(runCtx)()

	return ktx.Run()
}
