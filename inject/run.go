package inject

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"fontswap/common"
	"fontswap/css"
	"fontswap/rules"
	"fontswap/state"
)

// Run injects compiled overrides of stored rules into document. Without
// destination document is updated in place.
func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("inject")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input document has been specified")
	}
	if src, err = filepath.Abs(src); err != nil {
		return err
	}
	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		dst = src
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("unable to read document: %w", err)
	}

	kind := Detect(src, data)
	if as := cmd.String("as"); len(as) > 0 {
		if kind, err = common.ParseDocumentType(as); err != nil {
			return err
		}
	}

	layout := env.Cfg.Inject.Layout
	if l := cmd.String("layout"); len(l) > 0 {
		if layout, err = common.ParseCSSLayout(l); err != nil {
			return err
		}
	}

	s, err := env.Store()
	if err != nil {
		return err
	}
	rs, err := s.Load(ctx)
	if err != nil {
		return err
	}
	text := css.FromDeclarations(rules.Compile(rs.Rules)).Render(layout)

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst), zap.Stringer("type", kind))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	out, err := Inject(data, kind, env.Cfg.Inject.ElementID, text)
	if err != nil {
		return err
	}
	if len(text) == 0 {
		log.Warn("No enabled rules, removing overrides from document")
	}
	env.Rpt.StoreData("injected"+kind.Ext(), out)

	if err := os.WriteFile(dst, out, 0644); err != nil {
		return fmt.Errorf("unable to write document: %w", err)
	}
	return nil
}
