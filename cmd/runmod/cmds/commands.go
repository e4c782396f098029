package cmds

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cosiner/argv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v2"

	"github.com/go-delve/runmod/pkg/catalog"
	"github.com/go-delve/runmod/pkg/config"
	"github.com/go-delve/runmod/pkg/gobuild"
	"github.com/go-delve/runmod/pkg/invoke"
	"github.com/go-delve/runmod/pkg/logflags"
	"github.com/go-delve/runmod/pkg/module"
	"github.com/go-delve/runmod/pkg/resolve"
	"github.com/go-delve/runmod/pkg/terminal"
	"github.com/go-delve/runmod/pkg/version"
)

// Exit codes.
const (
	ExitOK = iota
	ExitUsage
	ExitModuleNotFound
	ExitEntryPointNotFound
	ExitModuleFormat
	ExitFault
)

var (
	// log is whether to log debug statements.
	log bool
	// logOutput is a comma separated list of components that should produce debug output.
	logOutput string
	// logDest is the file path or file descriptor where logs should go.
	logDest string
	// args is the argument string handed to string parameters.
	args string
	// listAll lists the members of every package linked in the module.
	listAll bool
	// noWait disables the keep-alive wait after the invocation.
	noWait bool
	// buildFlags is the flags passed to 'go build' by the build subcommand.
	buildFlags string
	// output is the path of the plugin written by the build subcommand.
	output string

	// rootCommand is the root of the command tree.
	rootCommand *cobra.Command

	conf *config.Config
)

const runmodCommandLongDesc = `runmod loads a compiled Go module and invokes one of its entry points.

The module is a Go plugin built with 'go build -buildmode=plugin'. Its members
are read from the debug info embedded in it and bound to the live symbols of
the plugin once loaded.

Without an identifier all members of the module are listed with their token.
An identifier is either a fully qualified member name, compared ignoring case:

	runmod ./hello.so,example.com/hello.Hello.SayHello

or a token, in decimal or hexadecimal:

	runmod ./hello.so,@0x1f2e3

Window types, types with a Show method, are constructed and shown instead:

	runmod ./forms.so,example.com/forms.MainWindow

Arguments are synthesized from the parameter types, strings given with
--args are handed to string parameters:

	runmod --args "'Hello there' gopher" ./hello.so,example.com/hello.Hello.SayHello`

// New returns an initialized command tree.
func New(docCall bool) *cobra.Command {
	// Config setup and load.
	conf = config.LoadConfig()

	rootCommand = &cobra.Command{
		Use:   "runmod [flags] <path>[,<identifier>]",
		Short: "runmod lists and invokes the entry points of compiled Go modules.",
		Long:  runmodCommandLongDesc,
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, cmdArgs []string) {
			os.Exit(execute(cmdArgs[0], false))
		},
	}
	addLogFlags(rootCommand.PersistentFlags())
	rootCommand.PersistentFlags().BoolVarP(&listAll, "all", "", false, "List the members of every package linked in the module, not only the module's own.")
	rootCommand.Flags().StringVarP(&args, "args", "", "", "Arguments handed to string parameters, quoted like a shell command line.")
	rootCommand.Flags().BoolVarP(&noWait, "no-wait", "", false, "Exit as soon as the entry point returns.")

	// 'build' subcommand.
	buildCommand := &cobra.Command{
		Use:   "build [package][,<identifier>]",
		Short: "Builds a package as a plugin, then lists or invokes its members.",
		Long: `Builds the package in the current directory, or the one given, as a Go
plugin and then behaves as runmod does on the resulting module.

The plugin is removed on exit unless --output is used.`,
		Run: buildCmd,
	}
	buildCommand.Flags().StringVarP(&args, "args", "", "", "Arguments handed to string parameters, quoted like a shell command line.")
	buildCommand.Flags().BoolVarP(&noWait, "no-wait", "", false, "Exit as soon as the entry point returns.")
	buildCommand.Flags().StringVar(&buildFlags, "build-flags", "", "Build flags, to be passed to the compiler.")
	buildCommand.Flags().StringVarP(&output, "output", "o", "", "Output path for the plugin.")
	rootCommand.AddCommand(buildCommand)

	// 'types' subcommand.
	typesCommand := &cobra.Command{
		Use:   "types <path>",
		Short: "Lists the types of a module.",
		Long: `Lists the named types found in the debug info of a module, with their kind.

Window types are marked with the display method that is called when they are
used as an entry point.`,
		PersistentPreRunE: func(cmd *cobra.Command, cmdArgs []string) error {
			if len(cmdArgs) != 1 {
				return errors.New("you must provide the path of a module")
			}
			return nil
		},
		Run: func(cmd *cobra.Command, cmdArgs []string) {
			os.Exit(execute(cmdArgs[0], true))
		},
	}
	rootCommand.AddCommand(typesCommand)

	// 'version' subcommand.
	var versionVerbose = false
	versionCommand := &cobra.Command{
		Use:   "version",
		Short: "Prints version.",
		Run: func(cmd *cobra.Command, cmdArgs []string) {
			fmt.Printf("runmod\n%s\n", version.RunmodVersion)
			if versionVerbose {
				fmt.Printf("Build Details: %s\n", version.BuildInfo())
			}
		},
	}
	versionCommand.Flags().BoolVarP(&versionVerbose, "verbose", "v", false, "print verbose version info")
	rootCommand.AddCommand(versionCommand)

	// 'config' subcommand.
	rootCommand.AddCommand(&cobra.Command{
		Use:   "config [<option> <value>]",
		Short: "Prints or changes the configuration.",
		Long: `Without arguments prints the configuration read from the config file.

With an option and a value changes the option and saves the config file.
Options are spelled as in the config file, lists are comma separated:

	runmod config display-methods Show,Run
	runmod config keep-alive false`,
		Args: func(cmd *cobra.Command, cmdArgs []string) error {
			if len(cmdArgs) != 0 && len(cmdArgs) != 2 {
				return errors.New("you must provide an option and its value")
			}
			return nil
		},
		Run: func(cmd *cobra.Command, cmdArgs []string) {
			os.Exit(configure(cmdArgs))
		},
	})

	rootCommand.AddCommand(&cobra.Command{
		Use:   "log",
		Short: "Help about logging flags.",
		Long: `Logging can be enabled by specifying the --log flag and using the
--log-output flag to select which components should produce logs.

The argument of --log-output must be a comma separated list of component
names selected from this list:


	loader		Log module loading and symbol binding
	catalog		Log catalog construction
	resolver	Log entry point resolution
	invoke		Log receiver construction, argument synthesis and calls

Additionally --log-dest can be used to specify where the logs should be
written.
If the argument is a number it will be interpreted as a file descriptor,
otherwise as a file path.

`,
	})

	rootCommand.DisableAutoGenTag = true

	return rootCommand
}

func addLogFlags(fs *pflag.FlagSet) {
	fs.BoolVarP(&log, "log", "", false, "Enable logging.")
	fs.StringVarP(&logOutput, "log-output", "", "", `Comma separated list of components that should produce debug output (see 'runmod help log')`)
	fs.StringVarP(&logDest, "log-dest", "", "", "Writes logs to the specified file or file descriptor (see 'runmod help log').")
}

// parseTarget splits "<path>[,<identifier>]".
func parseTarget(target string) (path, identifier string) {
	i := strings.LastIndex(target, ",")
	if i < 0 {
		return strings.TrimSpace(target), ""
	}
	return strings.TrimSpace(target[:i]), strings.TrimSpace(target[i+1:])
}

// parseArgs splits the --args string like a shell would.
func parseArgs(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	v, err := argv.Argv(s,
		func(s string) (string, error) {
			return "", fmt.Errorf("Backtick not supported in '%s'", s)
		},
		nil)
	if err != nil {
		return nil, err
	}
	if len(v) != 1 {
		return nil, fmt.Errorf("illegal arguments '%s'", s)
	}
	return v[0], nil
}

// exitCodeFor maps the errors of loading, resolution and invocation to
// exit codes. Faults are checked first, their panic value may be any error.
func exitCodeFor(err error) int {
	var (
		fault     *invoke.Fault
		notFound  *module.NotFoundError
		format    *module.FormatError
		undefined *resolve.NotFoundError
	)
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &fault):
		return ExitFault
	case errors.As(err, &notFound):
		return ExitModuleNotFound
	case errors.As(err, &format):
		return ExitModuleFormat
	case errors.As(err, &undefined):
		return ExitEntryPointNotFound
	}
	return ExitUsage
}

func buildCmd(cmd *cobra.Command, cmdArgs []string) {
	status := func() int {
		pkg, identifier := ".", ""
		if len(cmdArgs) > 0 {
			pkg, identifier = parseTarget(cmdArgs[0])
			if pkg == "" {
				pkg = "."
			}
		}
		flags, err := parseArgs(buildFlags)
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not parse --build-flags: %v\n", err)
			return ExitUsage
		}
		out := output
		if out == "" {
			out = gobuild.DefaultPluginPath(filepath.Base(absOrSelf(pkg)))
			defer gobuild.Remove(out)
		}
		cmdline, buildOutput, err := gobuild.BuildPlugin("", out, []string{pkg}, flags)
		os.Stderr.Write(buildOutput)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", cmdline, err)
			return ExitUsage
		}
		target := out
		if identifier != "" {
			target += "," + identifier
		}
		return execute(target, false)
	}()
	os.Exit(status)
}

func configure(cmdArgs []string) int {
	if len(cmdArgs) == 0 {
		out, err := yaml.Marshal(conf)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return ExitUsage
		}
		os.Stdout.Write(out)
		return ExitOK
	}
	if err := conf.Set(cmdArgs[0], cmdArgs[1]); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return ExitUsage
	}
	if err := config.SaveConfig(conf); err != nil {
		fmt.Fprintf(os.Stderr, "could not save config: %v\n", err)
		return ExitUsage
	}
	return ExitOK
}

func absOrSelf(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

func execute(target string, listTypes bool) int {
	if err := logflags.Setup(log, logOutput, logDest); err != nil {
		logflags.WriteError(err.Error())
		return ExitUsage
	}
	defer logflags.Close()

	path, identifier := parseTarget(target)
	if path == "" {
		fmt.Fprintln(os.Stderr, "you must provide the path of a module")
		return ExitUsage
	}
	supplied, err := parseArgs(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not parse --args: %v\n", err)
		return ExitUsage
	}

	mod, err := module.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return exitCodeFor(err)
	}
	cat := catalog.Build(mod, conf)
	report := terminal.Stdout(conf)

	switch {
	case listTypes:
		var types []*catalog.Type
		for _, t := range cat.Types() {
			if listAll || t.Module == cat.Primary {
				types = append(types, t)
			}
		}
		report.PrintTypes(types)
		return ExitOK
	case identifier == "":
		report.PrintMembers(cat.Listing(!listAll))
		return ExitOK
	}

	restore := terminal.SaveState()
	res, err := invoke.New(cat, supplied).Run(identifier)
	restore()
	if err != nil {
		report.PrintError(err)
		var fault *invoke.Fault
		if errors.As(err, &fault) && logflags.Invoke() {
			logflags.WriteError(fmt.Sprintf("stack of %s:\n%s", fault.Target, fault.Stack))
		}
		return exitCodeFor(err)
	}
	report.PrintResult(res)

	if !noWait && conf.GetKeepAlive() {
		if err := terminal.WaitForExit(); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
		}
	}
	return ExitOK
}
