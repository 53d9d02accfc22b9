package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/phanxgames/nxview"
	"github.com/phanxgames/nxview/nx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeAssets writes a Base.nx and a UI.nx into a temp dir and returns it.
func writeAssets(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	px := nxview.Bitmap{Width: 2, Height: 2, Pix: bytes.Repeat([]byte{0x20, 0x40, 0x80, 0xFF}, 4)}
	base := nxview.NewContainer("").Add(
		nxview.NewContainer("Hello").Add(nxview.NewBitmap("img", px)),
		nxview.NewContainer("World").Add(nxview.NewString("hello.txt", "hi")),
	)
	ui := nxview.NewContainer("").Add(
		nxview.NewContainer("Login").Add(nxview.NewBitmap("BtOk", px)),
	)
	for label, root := range map[string]nxview.Node{"Base.nx": base, "UI.nx": ui} {
		var buf bytes.Buffer
		require.NoError(t, nx.Write(&buf, root))
		require.NoError(t, os.WriteFile(filepath.Join(dir, label), buf.Bytes(), 0o644))
	}
	return dir
}

// run executes the CLI with args and returns stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestSearchCmd(t *testing.T) {
	dir := writeAssets(t)
	out, errOut, err := run(t, "search", "--assets", dir, "HEL")
	require.NoError(t, err)
	assert.Equal(t, "Base.nx/Hello\nBase.nx/World/hello.txt\n", out)
	assert.Contains(t, errOut, "2 results")
}

func TestSearchCmd_NoArchives(t *testing.T) {
	_, _, err := run(t, "search", "-a", t.TempDir(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no archives found")
}

func TestSearchCmd_BadArchiveWarns(t *testing.T) {
	dir := writeAssets(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Mob.nx"), []byte("junk"), 0o644))
	out, errOut, err := run(t, "search", "-a", dir, "btok")
	require.NoError(t, err)
	assert.Equal(t, "UI.nx/Login/BtOk\n", out)
	assert.Contains(t, errOut, "warning")
	assert.Contains(t, errOut, "Mob.nx")
}

func TestResolveCmd(t *testing.T) {
	dir := writeAssets(t)
	out, _, err := run(t, "resolve", "-a", dir, "Base.nx/World/hello.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello.txt [string, 0 children] = hi\n", out)

	_, _, err = run(t, "resolve", "-a", dir, "Base.nx/Nope")
	assert.ErrorIs(t, err, nxview.ErrPathNotFound)

	_, _, err = run(t, "resolve", "-a", dir, "Map.nx")
	assert.ErrorIs(t, err, nxview.ErrUnknownArchive)
}

func TestLsCmd(t *testing.T) {
	dir := writeAssets(t)

	out, _, err := run(t, "ls", "-a", dir)
	require.NoError(t, err)
	assert.Equal(t, "Base.nx [2 children]\nUI.nx [1 children]\n", out)

	out, _, err = run(t, "ls", "-a", dir, "Base.nx")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Hello [none, 1 children]"))
	assert.True(t, strings.HasPrefix(lines[1], "World [none, 1 children]"))
}

func TestExportCmd(t *testing.T) {
	dir := writeAssets(t)
	file := filepath.Join(t.TempDir(), "btok.png")

	out, _, err := run(t, "export", "-a", dir, "UI.nx/Login", file)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote")

	f, err := os.Open(file)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 2, 2), img.Bounds())
	r, g, b, a := img.At(0, 0).RGBA()
	assert.Equal(t, []uint32{0x2020, 0x4040, 0x8080, 0xFFFF}, []uint32{r, g, b, a})

	_, _, err = run(t, "export", "-a", dir, "Base.nx/World", file)
	assert.ErrorIs(t, err, nxview.ErrNotABitmap)
}

func TestConfigFileAndFlagPrecedence(t *testing.T) {
	dir := writeAssets(t)
	cfgPath := filepath.Join(t.TempDir(), "nxview.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("assets: "+dir+"\n"), 0o644))

	out, _, err := run(t, "search", "--config", cfgPath, "login")
	require.NoError(t, err)
	assert.Equal(t, "UI.nx/Login\n", out)

	_, _, err = run(t, "search", "--config", cfgPath, "--assets", t.TempDir(), "login")
	require.Error(t, err, "--assets should override the config file")
}

func TestConfigFileInvalid(t *testing.T) {
	dir := writeAssets(t)
	cfgPath := filepath.Join(t.TempDir(), "nxview.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("assets: "+dir+"\nscale: 20\n"), 0o644))

	_, _, err := run(t, "search", "-c", cfgPath, "login")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scale")

	_, _, err = run(t, "search", "-c", filepath.Join(t.TempDir(), "missing.yaml"), "login")
	assert.Error(t, err)
}

func TestRunConfig_FlagsOverrideInvalidFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "nxview.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("assets: x\nscale: 10\ndebug: true\n"), 0o644))

	opts := &options{}
	cmd := newRootCmdWithOptions(opts)
	require.NoError(t, cmd.ParseFlags([]string{"--config", cfgPath, "--scale", "2", "--fps"}))

	cfg, err := opts.runConfig(cmd)
	require.NoError(t, err, "--scale replaces the file's out-of-range value before validation")
	assert.Equal(t, 2.0, cfg.Scale)
	assert.True(t, cfg.Debug, "unset flags keep the file's value")
	assert.True(t, cfg.ShowFPS)
	assert.Equal(t, "x", cfg.Assets)

	opts = &options{}
	cmd = newRootCmdWithOptions(opts)
	require.NoError(t, cmd.ParseFlags([]string{"--config", cfgPath}))
	_, err = opts.runConfig(cmd)
	assert.Error(t, err, "without --scale the file's scale is rejected")
}

// --- pack ---

func writePNG(t *testing.T, path string, c color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

func TestPackCmd_RoundTrip(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "Mob", "100100", "stand"), 0o755))
	writePNG(t, filepath.Join(src, "Mob", "100100", "stand", "0.png"), color.NRGBA{R: 255, A: 255})
	require.NoError(t, os.WriteFile(filepath.Join(src, "Mob", "100100", "name.txt"), []byte("Snail\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "Mob", "notes.md"), []byte("skipped"), 0o644))

	assets := t.TempDir()
	out, _, err := run(t, "pack", src, filepath.Join(assets, "Mob.nx"))
	require.NoError(t, err)
	assert.Contains(t, out, "wrote")

	out, _, err = run(t, "search", "-a", assets, "")
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"Mob.nx",
		"Mob.nx/Mob",
		"Mob.nx/Mob/100100",
		"Mob.nx/Mob/100100/name",
		"Mob.nx/Mob/100100/stand",
		"Mob.nx/Mob/100100/stand/0",
	}, "\n")+"\n", out)

	out, _, err = run(t, "resolve", "-a", assets, "Mob.nx/Mob/100100/name")
	require.NoError(t, err)
	assert.Equal(t, "name [string, 0 children] = Snail\n", out)

	out, _, err = run(t, "resolve", "-a", assets, "Mob.nx/Mob/100100/stand/0")
	require.NoError(t, err)
	assert.Equal(t, "0 [bitmap, 0 children] = 3x2\n", out)
}

func TestPackCmd_DuplicateNames(t *testing.T) {
	src := t.TempDir()
	writePNG(t, filepath.Join(src, "a.png"), color.NRGBA{A: 255})
	require.NoError(t, os.WriteFile(filepath.Join(src, "a.txt"), []byte("x"), 0o644))

	_, _, err := run(t, "pack", src, filepath.Join(t.TempDir(), "out.nx"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestPackCmd_NotADirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "f")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	_, _, err := run(t, "pack", file, filepath.Join(t.TempDir(), "out.nx"))
	require.Error(t, err)
}
