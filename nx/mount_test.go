package nx

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/phanxgames/nxview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeArchive(t *testing.T, dir, label string, root nxview.Node) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, label), writeTree(t, root), 0o644))
}

func TestMount_SkipsMissingFiles(t *testing.T) {
	dir := t.TempDir()
	writeArchive(t, dir, "Base.nx", buildTree())
	writeArchive(t, dir, "UI.nx", nxview.NewContainer("").Add(nxview.NewString("title", "ui")))

	set := nxview.NewArchiveSet()
	m, err := Mount(set, dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })

	assert.Equal(t, dir, m.Dir())
	assert.Len(t, m.Files(), 2)
	assert.Equal(t, 2, set.NumMounted())
	assert.True(t, set.Mounted(nxview.ArchiveBase))
	assert.True(t, set.Mounted(nxview.ArchiveUI))
	assert.False(t, set.Mounted(nxview.ArchiveMap))

	n, err := set.Resolve("UI.nx/title")
	require.NoError(t, err)
	assert.Equal(t, "ui", n.(nxview.Valuer).Value())

	_, err = set.Resolve("Map.nx/anything")
	assert.ErrorIs(t, err, nxview.ErrUnknownArchive)
}

func TestMount_ReportsBadFilesAndKeepsGoodOnes(t *testing.T) {
	dir := t.TempDir()
	writeArchive(t, dir, "Base.nx", buildTree())
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Mob.nx"), []byte("not an archive at all"), 0o644))

	set := nxview.NewArchiveSet()
	m, err := Mount(set, dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorrupt)
	assert.Contains(t, err.Error(), "Mob.nx")
	t.Cleanup(func() { _ = m.Close() })

	assert.True(t, set.Mounted(nxview.ArchiveBase))
	assert.False(t, set.Mounted(nxview.ArchiveMob))
}

func TestMountMissing_PicksUpNewFiles(t *testing.T) {
	dir := t.TempDir()
	writeArchive(t, dir, "Base.nx", buildTree())

	set := nxview.NewArchiveSet()
	m, err := Mount(set, dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })

	_, err = set.Resolve("Character.nx/b/img")
	assert.ErrorIs(t, err, nxview.ErrUnknownArchive)

	writeArchive(t, dir, "Character.nx", buildTree())
	added, err := m.MountMissing(set)
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	n, err := set.Resolve("Character.nx/b/img")
	require.NoError(t, err)
	assert.Equal(t, nxview.KindBitmap, n.Kind())

	added, err = m.MountMissing(set)
	require.NoError(t, err)
	assert.Zero(t, added)
}

func TestMounted_Close(t *testing.T) {
	dir := t.TempDir()
	writeArchive(t, dir, "Base.nx", buildTree())

	m, err := Mount(nxview.NewArchiveSet(), dir)
	require.NoError(t, err)
	require.NoError(t, m.Close())
	assert.Empty(t, m.Files())
	require.NoError(t, m.Close())
}
