package cmd

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cottand/lattice/frontend/types"
	"github.com/cottand/lattice/frontend/universe"
	"github.com/cottand/lattice/internal/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var logger = log.DefaultLogger.With("section", "cli")

var (
	universePath         string
	logLevel             int
	noFunctionalFallback bool
)

func addUniverseFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&universePath, "universe", "u", "", "path of the universe YAML file")
	cmd.Flags().IntVarP(&logLevel, "log-level", "l", int(slog.LevelError), "log level")
	cmd.Flags().BoolVar(&noFunctionalFallback, "no-functional-fallback", false, "do not relate functional interfaces to function types")
}

// loadUniverse loads the file given with --universe, or an empty universe
// where only the well-known types are declared
func loadUniverse() (*universe.Universe, error) {
	log.SetLevel(slog.Level(logLevel))

	var opts []types.ContextOption
	if noFunctionalFallback {
		opts = append(opts, types.WithoutFunctionalInterfaceFallback())
	}
	if universePath == "" {
		return universe.Decode(nil, opts...)
	}
	target, err := filepath.Abs(universePath)
	if err != nil {
		return nil, errors.Wrap(err, "could not get absolute path of universe")
	}
	logger.Debug("loading universe", "path", target)
	return universe.Load(os.DirFS(filepath.Dir(target)), filepath.Base(target), opts...)
}

func parseAll(u *universe.Universe, sources []string) ([]types.StaticType, error) {
	parsed := make([]types.StaticType, 0, len(sources))
	for _, src := range sources {
		t, err := u.Parse(src)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, t)
	}
	return parsed, nil
}
