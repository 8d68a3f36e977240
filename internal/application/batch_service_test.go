package application

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdidvp/gltf-validator/internal/adapters/outbound/cache"
	"github.com/abdidvp/gltf-validator/internal/adapters/outbound/history"
	"github.com/abdidvp/gltf-validator/internal/adapters/outbound/scanner"
	"github.com/abdidvp/gltf-validator/internal/domain"
)

const cleanPayload = `{"validatorVersion":"2.0.0-dev.3.8","issues":{"numErrors":0,"numWarnings":0,"numInfos":0,"numHints":1,"messages":[{"code":"UNSUPPORTED_EXTENSION","severity":3,"message":"Cannot validate an extension."}],"truncated":false}}`

// pathRunner answers by asset file name.
type pathRunner struct{}

func (pathRunner) Run(_ context.Context, _, assetPath string, _ domain.RunOptions) (*domain.RunOutput, error) {
	name := filepath.Base(assetPath)
	switch {
	case strings.HasPrefix(name, "broken"):
		return &domain.RunOutput{Stdout: []byte("Segmentation fault")}, nil
	case strings.HasPrefix(name, "warn"):
		return &domain.RunOutput{Stdout: []byte(warningPayload)}, nil
	}
	return &domain.RunOutput{Stdout: []byte(cleanPayload)}, nil
}

func newBatch(t *testing.T, files ...string) (*BatchService, string) {
	t.Helper()
	root := t.TempDir()
	for i, f := range files {
		p := filepath.Join(root, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte{byte(i)}, 0644))
	}
	svc := NewValidateService(&fakeConfig{cfg: domain.DefaultConfig()}, &fakeProvisioner{path: "gltf_validator"},
		pathRunner{}, cache.New(), history.New(), &fakeSink{}, &fakeGit{})
	return NewBatchService(scanner.New(), svc), root
}

func TestBatch_ValidatesEveryAsset(t *testing.T) {
	batch, root := newBatch(t, "a.glb", "models/b.gltf", "models/c.glb", "notes.txt")

	out, err := batch.ValidateTree(context.Background(), root, ValidateOptions{ProjectPath: root}, 2)
	require.NoError(t, err)
	assert.Equal(t, root, out.Root)
	assert.Equal(t, domain.StatusPass, out.Status)
	assert.Empty(t, out.Failures)
	require.Len(t, out.Outcomes, 3)
	assert.Equal(t, filepath.Join(root, "a.glb"), out.Outcomes[0].Asset.Path)
	assert.Equal(t, filepath.Join(root, "models", "c.glb"), out.Outcomes[2].Asset.Path)

	entries, err := history.New().Load(root)
	require.NoError(t, err)
	assert.Len(t, entries, 3, "concurrent runs must not drop history entries")
}

func TestBatch_WorstStatusWins(t *testing.T) {
	batch, root := newBatch(t, "a.glb", "warn.glb")

	out, err := batch.ValidateTree(context.Background(), root, ValidateOptions{ProjectPath: root}, 0)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusWarn, out.Status)

	out, err = batch.ValidateTree(context.Background(), root, ValidateOptions{ProjectPath: root, FailOn: "warning"}, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFail, out.Status)
}

func TestBatch_CollectsFailures(t *testing.T) {
	batch, root := newBatch(t, "a.glb", "broken.glb")

	out, err := batch.ValidateTree(context.Background(), root, ValidateOptions{ProjectPath: root}, 4)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFail, out.Status)
	require.Len(t, out.Outcomes, 1)
	require.Len(t, out.Failures, 1)
	assert.Equal(t, filepath.Join(root, "broken.glb"), out.Failures[0].Asset)
	assert.Contains(t, out.Failures[0].Error, "decoding validator output")
}

func TestBatch_EmptyTree(t *testing.T) {
	batch, root := newBatch(t)

	out, err := batch.ValidateTree(context.Background(), root, ValidateOptions{ProjectPath: root}, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPass, out.Status)
	assert.NotNil(t, out.Outcomes)
	assert.Empty(t, out.Outcomes)
}

func TestBatch_CanceledContext(t *testing.T) {
	batch, root := newBatch(t, "a.glb")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := batch.ValidateTree(ctx, root, ValidateOptions{ProjectPath: root}, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
