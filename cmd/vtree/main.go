package main

import (
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vtree/internal/config"
	"github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/dom"
	"github.com/vango-dev/vtree/pkg/modules"
	"github.com/vango-dev/vtree/pkg/vdom"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// globalFlags are shared by all commands.
type globalFlags struct {
	configPath string
	logLevel   string

	// cfg is loaded before any command runs.
	cfg *config.Config
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		errors.PrintError(err)
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "vtree",
		Short: "Virtual tree reconciliation engine",
		Long: `vtree reconciles virtual tree documents against a native tree.

Tree documents are JSON:

  {"sel": "ul#list", "children": [
    {"sel": "li", "key": "a", "text": "first"},
    {"sel": "li", "key": "b", "text": "second"}
  ]}

Commands:
  • render a document to HTML
  • patch one document into another and show the mutations
  • serve live sessions over HTTP and WebSocket`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(cmd, flags, stderr)
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Path to vtree.json (default: nearest vtree.json)")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error (default from vtree.json)")

	rootCmd.AddCommand(
		renderCmd(flags),
		patchCmd(flags),
		serveCmd(flags),
		benchCmd(flags),
		versionCmd(),
	)
	return rootCmd
}

// loadConfig loads --config, or the nearest vtree.json, or the defaults,
// then applies --log-level and validates.
func loadConfig(flags *globalFlags) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if flags.configPath != "" {
		cfg, err = config.LoadFile(flags.configPath)
	} else {
		cfg, err = config.LoadFromWorkingDir()
	}
	if err != nil {
		return nil, err
	}
	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setupLogging installs the default slog handler on stderr.
func setupLogging(cmd *cobra.Command, flags *globalFlags, stderr io.Writer) error {
	if cmd.Name() == "version" {
		return nil
	}
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	flags.cfg = cfg
	handler := slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})
	slog.SetDefault(slog.New(handler))
	return nil
}

// readTree reads and decodes a tree document. "-" reads stdin. Decode
// errors are located in path.
func readTree(cmd *cobra.Command, path string) (*vdom.VNode, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	tree, err := vdom.DecodeJSON(data)
	if err != nil {
		var e *errors.Error
		if stderrors.As(err, &e) && e.Location != nil {
			e.Location.File = path
			if path == "-" {
				e.Location.File = "<stdin>"
			}
		}
		return nil, err
	}
	return tree, nil
}

// engine is a journaled document with a Patcher mounted on a placeholder
// root element.
type engine struct {
	doc     *dom.Document
	journal *dom.Journal
	patcher *vdom.Patcher
	root    dom.Handle
}

// newEngine builds an engine with the named modules, or the configured
// ones when names is empty.
func newEngine(cfg *config.Config, names []string) (*engine, error) {
	if len(names) == 0 {
		names = cfg.Modules
	}

	doc := dom.NewDocument()
	body := doc.CreateElement("body")
	root := doc.CreateElement("div")
	doc.AppendChild(body, root)

	journal := dom.NewJournal(doc)
	mods, err := modules.New(names, journal)
	if err != nil {
		return nil, err
	}
	return &engine{
		doc:     doc,
		journal: journal,
		patcher: vdom.NewPatcher(journal, mods, vdom.WithLogger(slog.Default())),
		root:    root,
	}, nil
}

// mount materializes tree in place of the placeholder root.
func (e *engine) mount(tree *vdom.VNode) *vdom.VNode {
	return e.patcher.Patch(e.root, tree)
}
