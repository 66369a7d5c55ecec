// Package cli is the cobra command tree of the raggamuffin binary.
//
// Every command runs against an app opened in the root's PersistentPreRunE
// from the --data-dir and --config-dir flags, and closed again after the
// command returns.
package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/raggamuffin/raggamuffin/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// memoryConfigDir selects an in-memory config store instead of a TOML file.
const memoryConfigDir = ":memory:"

var (
	verbose   bool
	dataDir   string
	configDir string
)

// current is the app of the running command.
var current *app

var rootCmd = &cobra.Command{
	Use:   "raggamuffin",
	Short: "Relational document store for retrieval-augmented generation",
	Long: `raggamuffin keeps sources, entities, documents, events, chunks and
document sets in one SQLite database, and fills embeddings and summaries
through a local Ollama server.`,
	SilenceUsage:       true,
	PersistentPreRunE:  openCurrent,
	PersistentPostRunE: closeCurrent,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Database directory (default ~/.raggamuffin/data)")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "",
		"Config directory (default ~/.raggamuffin, \":memory:\" for no file)")
}

// Execute runs the root command.
func Execute() error {
	defer logger.Sync()
	err := rootCmd.Execute()
	// PersistentPostRunE is skipped when the command fails.
	if closeErr := closeCurrent(rootCmd, nil); err == nil {
		err = closeErr
	}
	return err
}

func openCurrent(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if cmd.Annotations[annotationNoApp] == "true" {
		return nil
	}
	if current != nil {
		return nil
	}
	a, err := openApp(cmd.Context(), options{dataDir: dataDir, configDir: configDir})
	if err != nil {
		return err
	}
	current = a
	return nil
}

func closeCurrent(_ *cobra.Command, _ []string) error {
	if current == nil {
		return nil
	}
	err := current.Close()
	current = nil
	return err
}

// annotationNoApp marks commands that run without opening the store.
const annotationNoApp = "no-app"

// requireApp returns the app of the running command.
func requireApp() (*app, error) {
	if current == nil {
		return nil, errors.New("store not opened")
	}
	return current, nil
}
