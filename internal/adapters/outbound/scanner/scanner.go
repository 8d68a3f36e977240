package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var skipDirs = map[string]bool{
	"vendor":          true,
	"node_modules":    true,
	".git":            true,
	".gltf-validator": true,
}

// assetExts are the extensions gltf_validator accepts.
var assetExts = map[string]bool{
	".gltf": true,
	".glb":  true,
}

// AssetScanner implements domain.AssetScanner by walking the filesystem.
type AssetScanner struct{}

func New() *AssetScanner {
	return &AssetScanner{}
}

// Scan returns the absolute paths of all .gltf and .glb files under root,
// sorted. excludePaths are extra directory names to skip.
func (s *AssetScanner) Scan(root string, excludePaths ...string) ([]string, error) {
	absPath, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	// Merge extra excludes with built-in skip dirs.
	extraSkip := make(map[string]bool, len(excludePaths))
	for _, p := range excludePaths {
		extraSkip[strings.TrimSuffix(p, "/")] = true
	}

	var assets []string
	err = filepath.WalkDir(absPath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != absPath && (skipDirs[d.Name()] || extraSkip[d.Name()]) {
				return filepath.SkipDir
			}
			return nil
		}

		if d.Type().IsRegular() && assetExts[strings.ToLower(filepath.Ext(d.Name()))] {
			assets = append(assets, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(assets)
	return assets, nil
}
