package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"fontswap/common"
	"fontswap/config"
	"fontswap/inject"
	"fontswap/manage"
	"fontswap/misc"
	"fontswap/state"
)

// initializeAppContext prepares application context before command execution but
// after command line has been parsed
func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	var err error

	if cmd.NArg() == 0 {
		// nothing to do, just return
		return ctx, nil
	}

	env := state.EnvFromContext(ctx)

	configFile := cmd.String("config")
	if env.Cfg, err = config.LoadConfiguration(configFile); err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if cmd.Bool("debug") {
		if env.Rpt, err = env.Cfg.Reporting.Prepare(); err != nil {
			return ctx, fmt.Errorf("unable to prepare debug reporter: %w", err)
		}
		// save complete processed configuration if external configuration was provided
		if len(configFile) > 0 {
			if data, err := config.Dump(env.Cfg); err == nil {
				env.Rpt.StoreData(fmt.Sprintf("config/%s", filepath.Base(configFile)), data)
			}
		}
	}
	if env.Log, err = env.Cfg.Logging.Prepare(env.Rpt); err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	env.RedirectStdLog()

	env.Log.Debug("Program started", zap.Strings("args", os.Args), zap.String("ver", misc.GetVersion()), zap.String("runtime", runtime.Version()), zap.String("hash", misc.GetGitHash()))

	if env.Rpt != nil {
		env.Log.Info("Creating debug report", zap.String("location", env.Rpt.Name()))
	}
	if len(configFile) == 0 {
		env.Log.Debug("Using defaults (no configuration file)")
	}
	return ctx, nil
}

func destroyAppContext(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)

	// settings store goes into report, so it has to be closed first
	if er := env.CloseStore(); er != nil {
		err = multierr.Append(err, fmt.Errorf("unable to close settings store: %w", er))
	}

	if env.Log != nil {
		env.Log.Debug("Program ended", zap.Duration("elapsed", env.Uptime()), zap.Strings("parsed args", cmd.Args().Slice()))
	}

	// close logging
	env.RestoreStdLog()

	// log is synced now and result can be used in report if necessary, errors
	// must be reported directly to stderr from now on
	if env.Rpt != nil {
		if er := env.Rpt.Close(); er != nil {
			err = multierr.Append(err, fmt.Errorf("unable to close debug report: %w", er))
		}
	}
	// reporting is closed now - remove empty panic file if any
	if env.Cfg != nil && len(env.Cfg.Logging.FileLogger.Destination) > 0 {
		debug.SetCrashOutput(nil, debug.CrashOptions{})
		fname := filepath.Join(filepath.Dir(env.Cfg.Logging.FileLogger.Destination), misc.GetAppName()+"-panic.log")
		if fi, er := os.Stat(fname); er == nil && fi.Size() == 0 {
			if er := os.Remove(fname); er != nil {
				err = multierr.Append(err, fmt.Errorf("unable to remove empty panic log file '%s': %w", fname, er))
			}
		}
	}
	return
}

// Ignore urfave/cli default error handling - for me cli.Exit() looks
// non-transparent and unnesessary. I will return regular errors from
// subcommands.
var errWasHandled bool

// this is called before appContext is destroyed, so we have a chance to
// properly log any error from subcommand
func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {
	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Error("Program ended with error", zap.Error(err))
		errWasHandled = true
	}
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	// do nothing special, error is reported either by exitErrHandler or on
	// exit directly to stderr.
	return err
}

func subcommandNotFoundHandler(ctx context.Context, _ *cli.Command, name string) {
	if log := state.EnvFromContext(ctx).Log; log != nil {
		log.Warn("Unknown command, nothing to do", zap.String("command", name))
	}
}

// positionUsage is help text shared by commands addressing single rule.
var positionUsage = fmt.Sprintf(`%s
POSITION:
    1-based rule number as shown by "rules list"
`, cli.CommandHelpTemplate)

func main() {

	// allow graceful shutdown on interrupt, catalog scanning of large font
	// directories may take a while
	ctx, stop := signal.NotifyContext(state.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	layoutFlag := &cli.StringFlag{Name: "layout", Aliases: []string{"l"},
		Usage: "generated CSS `LAYOUT`, overrides configuration (supported: " + strings.Join(common.CSSLayoutNames(), ", ") + ")"}

	app := &cli.Command{
		Name:            misc.GetAppName(),
		Usage:           "font substitution rules compiler, produces @font-face overrides for installed fonts",
		Version:         misc.GetVersion() + " (" + runtime.Version() + ") : " + misc.GetGitHash(),
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  exitErrHandler,
		CommandNotFound: subcommandNotFoundHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, DefaultText: "", Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "changes program behavior to help troubleshooting, produces report archive"},
		},
		Commands: []*cli.Command{
			{
				Name:         "catalog",
				Usage:        "Lists font families available for substitution",
				OnUsageError: usageErrorHandler,
				Action:       manage.Catalog,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "sort", Aliases: []string{"s"}, Usage: "order families naturally instead of discovery order"},
				},
				ArgsUsage: "[SOURCE...]",
				CustomHelpTemplate: fmt.Sprintf(`%s
SOURCE:
    font file, directory or zip archive to scan in addition to configured catalog sources
`, cli.CommandHelpTemplate),
			},
			{
				Name:         "resolve",
				Usage:        "Shows installed faces of the font family with their weights and styles",
				OnUsageError: usageErrorHandler,
				Action:       manage.Resolve,
				ArgsUsage:    "FAMILY [SOURCE...]",
			},
			{
				Name:         "rules",
				Usage:        "Manages stored substitution rules",
				OnUsageError: usageErrorHandler,
				Commands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "Shows stored rules",
						Action: manage.List,
					},
					{
						Name:   "add",
						Usage:  "Adds rule replacing SOURCE family with faces of TARGET family",
						Action: manage.Add,
						Flags: []cli.Flag{
							&cli.BoolFlag{Name: "disabled", Usage: "add rule in disabled state"},
						},
						ArgsUsage: "SOURCE TARGET",
					},
					{
						Name:               "remove",
						Usage:              "Removes rule",
						Action:             manage.Remove,
						ArgsUsage:          "POSITION",
						CustomHelpTemplate: positionUsage,
					},
					{
						Name:               "enable",
						Usage:              "Enables rule",
						Action:             manage.Toggle(true),
						ArgsUsage:          "POSITION",
						CustomHelpTemplate: positionUsage,
					},
					{
						Name:               "disable",
						Usage:              "Disables rule",
						Action:             manage.Toggle(false),
						ArgsUsage:          "POSITION",
						CustomHelpTemplate: positionUsage,
					},
					{
						Name:   "refresh",
						Usage:  "Resolves all rules against currently installed fonts",
						Action: manage.Refresh,
					},
					{
						Name:   "restore",
						Usage:  "Replaces stored rules with defaults",
						Action: manage.Restore,
					},
				},
			},
			{
				Name:         "export",
				Usage:        "Exports stored rules (JSON)",
				OnUsageError: usageErrorHandler,
				Action:       manage.Export,
				ArgsUsage:    "[DESTINATION]",
				CustomHelpTemplate: fmt.Sprintf(`%s
DESTINATION:
    file or directory, in later case file name is produced from configured template
    if absent - current working directory
`, cli.CommandHelpTemplate),
			},
			{
				Name:         "import",
				Usage:        "Replaces stored rules with previously exported ones",
				OnUsageError: usageErrorHandler,
				Action:       manage.Import,
				ArgsUsage:    "FILE",
			},
			{
				Name:         "compile",
				Usage:        "Produces CSS overrides for enabled rules",
				OnUsageError: usageErrorHandler,
				Action:       manage.Compile,
				Flags:        []cli.Flag{layoutFlag},
				ArgsUsage:    "[DESTINATION]",
				CustomHelpTemplate: fmt.Sprintf(`%s
DESTINATION:
    file name to write stylesheet to, if absent - STDOUT
`, cli.CommandHelpTemplate),
			},
			{
				Name:         "inject",
				Usage:        "Puts CSS overrides for enabled rules into HTML or XHTML document",
				OnUsageError: usageErrorHandler,
				Action:       inject.Run,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "as",
						Usage: "treat document as `TYPE` instead of guessing (supported: " + strings.Join(common.DocumentTypeNames(), ", ") + ")"},
					layoutFlag,
				},
				ArgsUsage: "DOCUMENT [DESTINATION]",
				CustomHelpTemplate: fmt.Sprintf(`%s
DOCUMENT:
    path to document, type is guessed from extension and content

DESTINATION:
    file name to write resulting document to, if absent - DOCUMENT is updated in place

Overrides are placed into style element with configured id. Element left by
previous run is replaced, when no rules are enabled it is removed.
`, cli.CommandHelpTemplate),
			},
			{
				Name:         "inspect",
				Usage:        "Shows @font-face overrides found in stylesheet or document",
				OnUsageError: usageErrorHandler,
				Action:       manage.Inspect,
				ArgsUsage:    "FILE",
			},
			{
				Name:  "dumpconfig",
				Usage: "Dumps either default or actual configuration (YAML)",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "default", Usage: "output default embedded configuration"},
				},
				OnUsageError: usageErrorHandler,
				Action:       outputConfiguration,
				ArgsUsage:    "DESTINATION",
				CustomHelpTemplate: fmt.Sprintf(`%s

DESTINATION:
    file name to write configuration to, if absent - STDOUT

Produces file with actual "active" configuration values wich is composition of
default values and values specified in configuration file. To see default
configuration embedded into the program use --default flag.
`, cli.CommandHelpTemplate),
			},
		},
	}

	var err error
	// NOTE: os.Exit is called at the end of main to set exit code, make sure
	// there are no other deffered functions after that
	defer func() {
		stop()
		if err != nil {
			// It may happen that log is either not set yet (argument parsing) or already closed,
			// report errors to stderr directly
			if !errWasHandled {
				fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
			}
			os.Exit(1)
		}
	}()
	err = app.Run(ctx, os.Args)
}

func outputConfiguration(ctx context.Context, cmd *cli.Command) error {

	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	fname := cmd.Args().Get(0)

	var (
		err   error
		data  []byte
		state string
	)

	out := os.Stdout
	if len(fname) > 0 {
		out, err = os.Create(fname)
		if err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", fname, err)
		}
		defer out.Close()
	}

	if cmd.Bool("default") {
		state = "default"
		data, err = config.Prepare()
	} else {
		state = "actual"
		data, err = config.Dump(env.Cfg)
	}
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	if len(fname) == 0 {
		fname = "STDOUT"
	}
	env.Log.Debug("Outputing configuration", zap.String("state", state), zap.String("file", fname))

	_, err = out.Write(data)
	if err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}
