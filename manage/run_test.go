package manage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"fontswap/config"
	"fontswap/rules"
	"fontswap/state"
)

const snapshot = `
- {family: Arial, fullName: Arial, style: Regular}
- {family: Arial, fullName: Arial Bold, style: Bold}
- {family: Arial, fullName: Arial Italic, style: Italic}
- {family: Cascadia Code, fullName: Cascadia Code, style: Regular}
- {family: Cascadia Code, fullName: Cascadia Code SemiBold, style: SemiBold}
- {family: Bahnschrift, fullName: Bahnschrift, style: Regular}
- {family: Font 10, fullName: Font 10, style: Regular}
- {family: Font 9, fullName: Font 9, style: Regular}
`

func newEnv(t *testing.T) (context.Context, *state.LocalEnv, string) {
	t.Helper()
	dir := t.TempDir()

	ctx := state.ContextWithEnv(context.Background())
	env := state.EnvFromContext(ctx)

	cfg, err := config.LoadConfiguration("")
	require.NoError(t, err)
	cfg.Store.Path = filepath.Join(dir, "settings.db")
	cfg.Catalog.Snapshot = filepath.Join(dir, "snapshot.yaml")
	require.NoError(t, os.WriteFile(cfg.Catalog.Snapshot, []byte(snapshot), 0644))

	env.Cfg = cfg
	env.Log = zap.NewNop()
	t.Cleanup(func() { env.CloseStore() })
	return ctx, env, dir
}

// run executes action as a subcommand the way application does.
func run(t *testing.T, ctx context.Context, action cli.ActionFunc, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := &cli.Command{
		Name:   "fontswap",
		Writer: &out,
		Commands: []*cli.Command{{
			Name:   "test",
			Action: action,
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "sort"},
				&cli.BoolFlag{Name: "disabled"},
				&cli.StringFlag{Name: "layout"},
			},
		}},
	}
	err := root.Run(ctx, append([]string{"fontswap", "test"}, args...))
	return out.String(), err
}

func storedRules(t *testing.T, ctx context.Context, env *state.LocalEnv) rules.RuleSet {
	t.Helper()
	s, err := env.Store()
	require.NoError(t, err)
	rs, err := s.Load(ctx)
	require.NoError(t, err)
	return rs
}

func TestCatalog(t *testing.T) {
	ctx, _, _ := newEnv(t)

	out, err := run(t, ctx, Catalog)
	require.NoError(t, err)
	assert.Equal(t, "Arial\nCascadia Code\nBahnschrift\nFont 10\nFont 9\n", out)

	out, err = run(t, ctx, Catalog, "--sort")
	require.NoError(t, err)
	assert.Equal(t, "Arial\nBahnschrift\nCascadia Code\nFont 9\nFont 10\n", out)
}

func TestCatalog_Denied(t *testing.T) {
	ctx, env, _ := newEnv(t)
	env.Cfg.Catalog.Access = config.CatalogAccessDenied

	_, err := run(t, ctx, Catalog)
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	ctx, _, _ := newEnv(t)

	out, err := run(t, ctx, Resolve, "Cascadia Code")
	require.NoError(t, err)
	assert.Contains(t, out, "Cascadia Code SemiBold")
	assert.Contains(t, out, "600")

	_, err = run(t, ctx, Resolve, "Missing")
	assert.Error(t, err)

	_, err = run(t, ctx, Resolve)
	assert.Error(t, err)
}

func TestRulesLifecycle(t *testing.T) {
	ctx, env, _ := newEnv(t)

	out, err := run(t, ctx, List)
	require.NoError(t, err)
	assert.Contains(t, out, "Segoe UI")
	assert.Contains(t, out, "Consolas")

	// resolved when catalog is accessible
	_, err = run(t, ctx, Add, "Tahoma", "Arial")
	require.NoError(t, err)
	rs := storedRules(t, ctx, env)
	require.Len(t, rs.Rules, 3)
	resolved, ok := rs.Rules[2].(rules.ResolvedRule)
	require.True(t, ok)
	assert.True(t, resolved.Enable)
	assert.Len(t, resolved.Locals, 3)

	// unknown target is kept as legacy rule
	_, err = run(t, ctx, Add, "--disabled", "Verdana", "Missing Sans")
	require.NoError(t, err)
	rs = storedRules(t, ctx, env)
	require.Len(t, rs.Rules, 4)
	assert.Equal(t, rules.LegacyRule{Source: "Verdana", Target: "Missing Sans", Enable: false}, rs.Rules[3])

	_, err = run(t, ctx, Toggle(true), "2")
	require.NoError(t, err)
	assert.True(t, storedRules(t, ctx, env).Rules[1].Mapping().Enable)

	_, err = run(t, ctx, Remove, "4")
	require.NoError(t, err)
	assert.Len(t, storedRules(t, ctx, env).Rules, 3)

	_, err = run(t, ctx, Remove, "10")
	assert.ErrorIs(t, err, rules.ErrNoSuchRule)
	_, err = run(t, ctx, Remove, "first")
	assert.Error(t, err)

	// refresh resolves everything resolvable
	_, err = run(t, ctx, Refresh)
	require.NoError(t, err)
	rs = storedRules(t, ctx, env)
	for _, r := range rs.Rules {
		assert.IsType(t, rules.ResolvedRule{}, r)
	}

	out, err = run(t, ctx, Compile)
	require.NoError(t, err)
	assert.Contains(t, out, `font-family:"Consolas";src:local("Cascadia Code SemiBold");font-weight:600;font-style:normal;`)
	assert.Contains(t, out, `font-family:"Tahoma";src:local("Arial Bold")`)
	assert.NotContains(t, out, "Segoe UI", "disabled rules are not compiled")

	_, err = run(t, ctx, Restore)
	require.NoError(t, err)
	assert.Equal(t, rules.Defaults(), storedRules(t, ctx, env))
}

func TestAdd_Denied(t *testing.T) {
	ctx, env, _ := newEnv(t)
	env.Cfg.Catalog.Access = config.CatalogAccessDenied

	_, err := run(t, ctx, Add, "Tahoma", "Arial")
	require.NoError(t, err)
	rs := storedRules(t, ctx, env)
	assert.Equal(t, rules.LegacyRule{Source: "Tahoma", Target: "Arial", Enable: true}, rs.Rules[2])

	_, err = run(t, ctx, Add, "Tahoma")
	assert.Error(t, err)
}

func TestExportImport(t *testing.T) {
	ctx, env, dir := newEnv(t)

	_, err := run(t, ctx, Add, "Tahoma", "Arial")
	require.NoError(t, err)

	_, err = run(t, ctx, Export, dir)
	require.NoError(t, err)
	exported := filepath.Join(dir, rules.DefaultExportName)
	data, err := os.ReadFile(exported)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "locals")

	_, err = run(t, ctx, Restore)
	require.NoError(t, err)

	_, err = run(t, ctx, Import, exported)
	require.NoError(t, err)
	rs := storedRules(t, ctx, env)
	require.Len(t, rs.Rules, 3)
	assert.IsType(t, rules.ResolvedRule{}, rs.Rules[2])

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"rules":[{"source":"A"}]}`), 0644))
	_, err = run(t, ctx, Import, bad)
	assert.ErrorIs(t, err, rules.ErrInvalidShape)
	assert.Len(t, storedRules(t, ctx, env).Rules, 3, "failed import must not change stored rules")

	named := filepath.Join(dir, "custom.json")
	_, err = run(t, ctx, Export, named)
	require.NoError(t, err)
	assert.FileExists(t, named)
}

func TestCompile_ToFile(t *testing.T) {
	ctx, _, dir := newEnv(t)

	_, err := run(t, ctx, Toggle(true), "1")
	require.NoError(t, err)

	dst := filepath.Join(dir, "fonts.css")
	_, err = run(t, ctx, Compile, "--layout", "pretty", dst)
	require.NoError(t, err)
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "@font-face {\n"))
	assert.Contains(t, string(data), `  src: local("Arial");`)

	_, err = run(t, ctx, Compile, "--layout", "minified")
	assert.Error(t, err)
}

func TestInspect(t *testing.T) {
	ctx, _, dir := newEnv(t)

	sheet := filepath.Join(dir, "fonts.css")
	require.NoError(t, os.WriteFile(sheet, []byte(`@font-face{font-family:"Segoe UI";src:local("Arial Bold");font-weight:700;font-style:normal;}`), 0644))
	out, err := run(t, ctx, Inspect, sheet)
	require.NoError(t, err)
	assert.Contains(t, out, "Segoe UI")
	assert.Contains(t, out, "Arial Bold")

	page := filepath.Join(dir, "page.html")
	require.NoError(t, os.WriteFile(page, []byte(`<html><head><style id="fontswap">@font-face{font-family:"Consolas";src:local("Cascadia Code");}</style></head></html>`), 0644))
	out, err = run(t, ctx, Inspect, page)
	require.NoError(t, err)
	assert.Contains(t, out, "Cascadia Code")

	plain := filepath.Join(dir, "plain.html")
	require.NoError(t, os.WriteFile(plain, []byte(`<html><head></head></html>`), 0644))
	_, err = run(t, ctx, Inspect, plain)
	assert.Error(t, err)
}
