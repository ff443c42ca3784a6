// Package manage implements commands working with stored substitution rules.
package manage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/maruel/natural"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"fontswap/catalog"
	"fontswap/common"
	"fontswap/css"
	"fontswap/fonts"
	"fontswap/inject"
	"fontswap/rules"
	"fontswap/state"
)

func output(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

// queryCatalog returns installed fonts or ErrAccessDenied.
func queryCatalog(ctx context.Context, env *state.LocalEnv, extra []string) ([]fonts.FontVariant, error) {
	list, err := catalog.Query(ctx, &env.Cfg.Catalog, extra, env.Log)
	if err != nil {
		return nil, err
	}
	env.Log.Debug("Font catalog ready", zap.Int("faces", len(list)))
	return list, nil
}

func loadRules(ctx context.Context, env *state.LocalEnv) (rules.RuleSet, error) {
	s, err := env.Store()
	if err != nil {
		return rules.RuleSet{}, err
	}
	return s.Load(ctx)
}

func saveRules(ctx context.Context, env *state.LocalEnv, rs rules.RuleSet) error {
	s, err := env.Store()
	if err != nil {
		return err
	}
	return s.Save(ctx, rs)
}

// resolveAll brings every rule to resolved shape when catalog is accessible.
// Rules which could not be resolved keep their shape and are reported.
func resolveAll(ctx context.Context, env *state.LocalEnv, rs rules.RuleSet, log *zap.Logger) (rules.RuleSet, error) {
	list, err := queryCatalog(ctx, env, nil)
	if errors.Is(err, catalog.ErrAccessDenied) {
		log.Info("Access to installed fonts is denied, rules are kept unresolved")
		return rs, nil
	}
	if err != nil {
		return rs, err
	}
	out, err := rules.Resolve(rs, list)
	if err != nil {
		log.Warn("Some rules could not be resolved", zap.Error(err))
	}
	return out, nil
}

// Catalog lists distinct font families.
func Catalog(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	env := state.EnvFromContext(ctx)

	list, err := queryCatalog(ctx, env, cmd.Args().Slice())
	if err != nil {
		return err
	}
	families := fonts.Families(list)
	if cmd.Bool("sort") {
		sort.Sort(natural.StringSlice(families))
	}

	w := output(cmd)
	for _, f := range families {
		fmt.Fprintln(w, f)
	}
	return nil
}

// Resolve shows faces of a family rule target would be replaced with.
func Resolve(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	env := state.EnvFromContext(ctx)

	family := cmd.Args().Get(0)
	if len(family) == 0 {
		return errors.New("no font family has been specified")
	}
	list, err := queryCatalog(ctx, env, cmd.Args().Tail())
	if err != nil {
		return err
	}
	locals, err := fonts.Resolve(family, list)
	if err != nil {
		return err
	}
	renderVariants(output(cmd), locals)
	return nil
}

// List shows stored rules.
func List(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	rs, err := loadRules(ctx, env)
	if err != nil {
		return err
	}
	renderRules(output(cmd), rs)
	return nil
}

// Add appends new rule, resolving its target when possible.
func Add(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("rules")

	if cmd.Args().Len() < 2 {
		return errors.New("both source and target font families must be specified")
	}
	source, target := strings.TrimSpace(cmd.Args().Get(0)), strings.TrimSpace(cmd.Args().Get(1))
	if source == "" || target == "" {
		return errors.New("font family names cannot be empty")
	}

	rs, err := loadRules(ctx, env)
	if err != nil {
		return err
	}

	var r rules.Rule = rules.NewRule(rules.Mapping{Source: source, Target: target, Enable: !cmd.Bool("disabled")})
	list, err := queryCatalog(ctx, env, nil)
	switch {
	case errors.Is(err, catalog.ErrAccessDenied):
		log.Info("Access to installed fonts is denied, rule is kept unresolved")
	case err != nil:
		return err
	default:
		resolved, err := rules.ResolveRule(r, list)
		if err != nil {
			log.Warn("Rule target could not be resolved", zap.String("target", target), zap.Error(err))
			break
		}
		r = resolved
	}

	rs = rs.Append(r)
	if err := saveRules(ctx, env, rs); err != nil {
		return err
	}
	log.Info("Rule added", zap.Int("position", len(rs.Rules)), zap.String("source", source), zap.String("target", target))
	return nil
}

func position(cmd *cli.Command) (int, error) {
	arg := cmd.Args().Get(0)
	if arg == "" {
		return 0, errors.New("rule position has not been specified")
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("bad rule position %q: %w", arg, err)
	}
	return n, nil
}

// Remove deletes rule at position.
func Remove(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	n, err := position(cmd)
	if err != nil {
		return err
	}
	rs, err := loadRules(ctx, env)
	if err != nil {
		return err
	}
	if rs, err = rs.Remove(n); err != nil {
		return err
	}
	return saveRules(ctx, env, rs)
}

// Toggle returns action enabling or disabling rule at position.
func Toggle(enable bool) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		env := state.EnvFromContext(ctx)

		n, err := position(cmd)
		if err != nil {
			return err
		}
		rs, err := loadRules(ctx, env)
		if err != nil {
			return err
		}
		if rs, err = rs.SetEnable(n, enable); err != nil {
			return err
		}
		return saveRules(ctx, env, rs)
	}
}

// Refresh resolves every stored rule against current catalog.
func Refresh(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("rules")

	rs, err := loadRules(ctx, env)
	if err != nil {
		return err
	}
	if rs, err = resolveAll(ctx, env, rs, log); err != nil {
		return err
	}
	if err := saveRules(ctx, env, rs); err != nil {
		return err
	}
	renderRules(output(cmd), rs)
	return nil
}

// Restore replaces stored rules with defaults.
func Restore(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	s, err := env.Store()
	if err != nil {
		return err
	}
	rs, err := s.Reset(ctx)
	if err != nil {
		return err
	}
	renderRules(output(cmd), rs)
	return nil
}

// Export writes stored rules without resolved faces into a file. Destination
// may be a directory, file name is built from template then.
func Export(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("exchange")

	rs, err := loadRules(ctx, env)
	if err != nil {
		return err
	}

	dst := cmd.Args().Get(0)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if fi, err := os.Stat(dst); err == nil && fi.IsDir() {
		name, err := ExportFileName(env.Cfg.Exchange.NameTemplate, env.Cfg.Exchange.Transliterate, newValues(rs, time.Now()))
		if err != nil {
			return err
		}
		dst = filepath.Join(dst, name)
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}

	data, err := rules.Export(rs)
	if err != nil {
		return err
	}
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return fmt.Errorf("unable to write exported rules: %w", err)
	}
	log.Info("Rules exported", zap.String("destination", dst), zap.Int("count", len(rs.Rules)))
	return nil
}

// Import replaces stored rules with ones from file. Imported rules are
// resolved when catalog is accessible.
func Import(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("exchange")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no file to import has been specified")
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("unable to read rules: %w", err)
	}
	env.Rpt.StoreData("imported.json", data)

	rs, err := rules.Decode(data)
	if err != nil {
		return fmt.Errorf("unable to import %s: %w", src, err)
	}
	if rs, err = resolveAll(ctx, env, rs, log); err != nil {
		return err
	}
	if err := saveRules(ctx, env, rs); err != nil {
		return err
	}
	log.Info("Rules imported", zap.String("source", src), zap.Int("count", len(rs.Rules)))
	return nil
}

// Compile writes CSS overrides of enabled stored rules.
func Compile(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("compile")

	layout := env.Cfg.Inject.Layout
	if l := cmd.String("layout"); len(l) > 0 {
		var err error
		if layout, err = common.ParseCSSLayout(l); err != nil {
			return err
		}
	}

	rs, err := loadRules(ctx, env)
	if err != nil {
		return err
	}
	decls := rules.Compile(rs.Rules)
	text := css.FromDeclarations(decls).Render(layout)
	log.Debug("Rules compiled", zap.Int("rules", len(rs.Rules)), zap.Int("declarations", len(decls)))

	dst := cmd.Args().Get(0)
	if len(dst) == 0 {
		_, err := io.WriteString(output(cmd), text)
		return err
	}
	if err := os.WriteFile(dst, []byte(text), 0644); err != nil {
		return fmt.Errorf("unable to write stylesheet: %w", err)
	}
	return nil
}

// Inspect shows @font-face declarations found in stylesheet or in document's
// override element.
func Inspect(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("inspect")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no file to inspect has been specified")
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}

	if !strings.EqualFold(filepath.Ext(src), ".css") {
		text, found, err := inject.Extract(data, inject.Detect(src, data), env.Cfg.Inject.ElementID)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("document has no element with id %q", env.Cfg.Inject.ElementID)
		}
		data = []byte(text)
	}

	sheet := css.NewParser(env.Log).Parse(data, src)
	for _, w := range sheet.Warnings {
		log.Warn("Unexpected CSS content", zap.String("detail", w))
	}
	renderFontFaces(output(cmd), sheet.FontFaces)
	return nil
}
