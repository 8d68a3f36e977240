package cli_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

const warningReport = `{"uri":"cube.glb","mimeType":"model/gltf-binary","validatorVersion":"2.0.0-dev.3.8","issues":{"numErrors":0,"numWarnings":1,"numInfos":0,"numHints":0,"messages":[{"code":"UNUSED_OBJECT","severity":1,"pointer":"/materials/0","message":"This object may be unused."}],"truncated":false},"info":{"version":"2.0","generator":"test","resources":[{"pointer":"/buffers/0","storage":"glb","byteLength":840}]}}`

// fakeProject creates a project whose config points at a shell script that
// prints payload, plus a cube.glb asset. It returns the project dir and asset path.
func fakeProject(t *testing.T, payload string) (string, string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	dir := t.TempDir()

	bin := filepath.Join(t.TempDir(), "gltf_validator")
	script := "#!/bin/sh\ncat <<'JSON'\n" + payload + "\nJSON\n"
	require.NoError(t, os.WriteFile(bin, []byte(script), 0755))

	cfg := "validator:\n  binary: " + bin + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gltf-validator.yaml"), []byte(cfg), 0644))

	asset := filepath.Join(dir, "cube.glb")
	require.NoError(t, os.WriteFile(asset, []byte("glTF\x02\x00\x00\x00"), 0644))
	return dir, asset
}
