// Package generate implements the "generate" CLI command: it loads a
// resolved WIT world and emits the Go host integration layer described by
// internal/bindgen.
package generate

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/go-hostgen/hostgen/internal/bindgen"
	"github.com/go-hostgen/hostgen/internal/go/gen"
	"github.com/go-hostgen/hostgen/internal/witcli"
)

// Command is the CLI command for generate.
var Command = &cli.Command{
	Name:  "generate",
	Usage: "generate Go wazero host bindings from a resolved WIT world",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "world",
			Aliases:  []string{"w"},
			Value:    "",
			OnlyOnce: true,
			Config:   cli.StringConfig{TrimSpace: true},
			Usage:    "WIT world to generate; may be omitted only when the document declares exactly one world",
		},
		&cli.StringFlag{
			Name:      "out",
			Aliases:   []string{"o"},
			Value:     ".",
			TakesFile: true,
			OnlyOnce:  true,
			Config:    cli.StringConfig{TrimSpace: true},
			Usage:     "output directory",
		},
		&cli.StringFlag{
			Name:     "package-root",
			Aliases:  []string{"p"},
			Value:    "",
			OnlyOnce: true,
			Config:   cli.StringConfig{TrimSpace: true},
			Usage:    "Go package root, e.g. github.com/org/repo/internal",
		},
		&cli.BoolFlag{
			Name:  "versioned",
			Usage: "emit versioned Go package(s) for each WIT package version",
		},
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "do not write files; print to stdout",
		},
		&cli.StringFlag{
			Name:     "from-oci",
			OnlyOnce: true,
			Config:   cli.StringConfig{TrimSpace: true},
			Usage:    "fetch the resolved WIT document from an OCI registry reference instead of a local path",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "enable info-level logging",
		},
		&cli.BoolFlag{
			Name:    "debug",
			Aliases: []string{"vv"},
			Usage:   "enable debug-level logging",
		},
	},
	Action: action,
}

type config struct {
	dryRun    bool
	out       string
	outPerm   os.FileMode
	pkgRoot   string
	world     string
	versioned bool
	path      string
}

func action(ctx context.Context, cmd *cli.Command) error {
	logger := witcli.Logger(cmd.Bool("verbose"), cmd.Bool("debug"))

	cfg, err := parseFlags(cmd)
	if err != nil {
		return err
	}

	res, err := witcli.LoadWIT(ctx, cfg.path)
	if err != nil {
		return fmt.Errorf("loading WIT: %w", err)
	}

	packages, err := bindgen.Go(res,
		bindgen.GeneratedBy(cmd.Root().Name),
		bindgen.World(cfg.world),
		bindgen.PackageRoot(cfg.pkgRoot),
		bindgen.Versioned(cfg.versioned),
		bindgen.Logger(logger),
	)
	if err != nil {
		return fmt.Errorf("generating bindings: %w", err)
	}

	return writeGoPackages(packages, cfg, logger)
}

func parseFlags(cmd *cli.Command) (*config, error) {
	dryRun := cmd.Bool("dry-run")
	out := cmd.String("out")

	info, err := os.Stat(out)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", out)
	}
	outPerm := info.Mode().Perm()

	pkgRoot := cmd.String("package-root")
	if !cmd.IsSet("package-root") {
		pkgRoot, err = gen.PackagePath(out)
		if err != nil {
			return nil, err
		}
	}

	path := cmd.String("from-oci")
	if path == "" {
		path, err = witcli.LoadPath(cmd.Args().Slice()...)
		if err != nil {
			return nil, err
		}
	}

	return &config{
		dryRun:    dryRun,
		out:       out,
		outPerm:   outPerm,
		pkgRoot:   pkgRoot,
		world:     cmd.String("world"),
		versioned: cmd.Bool("versioned"),
		path:      path,
	}, nil
}

func writeGoPackages(packages []*gen.Package, cfg *config, logger *slog.Logger) error {
	logger.Debug("generated packages", slog.Int("count", len(packages)))
	for _, pkg := range packages {
		if !pkg.HasContent() {
			logger.Debug("skipping empty package", slog.String("path", pkg.Path))
			continue
		}

		names := make([]string, 0, len(pkg.Files))
		for name := range pkg.Files {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			file := pkg.Files[name]
			if !file.HasContent() {
				logger.Debug("skipping empty file", slog.String("name", name))
				continue
			}

			dir := filepath.Join(cfg.out, strings.TrimPrefix(file.Package.Path, cfg.pkgRoot))
			path := filepath.Join(dir, file.Name)

			content, err := file.Bytes()
			if err != nil {
				return fmt.Errorf("rendering %s: %w", path, err)
			}

			if cfg.dryRun {
				fmt.Printf("// %s\n%s\n", path, content)
				continue
			}

			if err := os.MkdirAll(dir, cfg.outPerm|0o700); err != nil {
				return err
			}
			if err := os.WriteFile(path, content, cfg.outPerm&^0o111|0o600); err != nil {
				return err
			}
			logger.Info("wrote file", slog.String("path", path))
		}
	}
	return nil
}
