package scanner_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdidvp/gltf-validator/internal/adapters/outbound/scanner"
)

func touch(t *testing.T, root string, rel ...string) {
	t.Helper()
	for _, r := range rel {
		p := filepath.Join(root, r)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0644))
	}
}

func TestAssetScanner_FindsAssets(t *testing.T) {
	root := t.TempDir()
	touch(t, root,
		"scene.gltf",
		"models/cube.glb",
		"models/UPPER.GLB",
		"models/textures/albedo.png",
		"scene.bin",
	)

	assets, err := scanner.New().Scan(root)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "models", "UPPER.GLB"),
		filepath.Join(root, "models", "cube.glb"),
		filepath.Join(root, "scene.gltf"),
	}, assets)
}

func TestAssetScanner_SkipsVendorGitAndState(t *testing.T) {
	root := t.TempDir()
	touch(t, root,
		"keep.glb",
		"vendor/lib.glb",
		"node_modules/pkg/model.gltf",
		".git/objects/blob.glb",
		".gltf-validator/cache/x.glb",
	)

	assets, err := scanner.New().Scan(root)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "keep.glb")}, assets)
}

func TestAssetScanner_ExtraExcludes(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "a.glb", "generated/b.glb")

	assets, err := scanner.New().Scan(root, "generated/")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "a.glb")}, assets)
}

func TestAssetScanner_Empty(t *testing.T) {
	assets, err := scanner.New().Scan(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, assets)
}

func TestAssetScanner_MissingRoot(t *testing.T) {
	_, err := scanner.New().Scan(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
