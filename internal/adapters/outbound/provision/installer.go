// Package provision downloads and installs the glTF-Validator release binary.
package provision

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/abdidvp/gltf-validator/internal/domain"
)

// BinaryName is the executable shipped inside each release archive.
const BinaryName = "gltf_validator"

var (
	// ErrUnsupportedPlatform is returned on operating systems without a
	// published validator build.
	ErrUnsupportedPlatform = errors.New("unsupported platform")
	// ErrBinaryNotInArchive is returned when the release archive has no
	// gltf_validator entry.
	ErrBinaryNotInArchive = errors.New("validator binary not found in archive")
)

// Options configure an Installer.
type Options struct {
	// Binary, when set, short-circuits provisioning.
	Binary  string
	Version string
	BaseURL string
	BinDir  string
	// GOOS overrides runtime.GOOS.
	GOOS string
}

// OptionsFromConfig maps validator settings onto installer options.
func OptionsFromConfig(cfg domain.ValidatorConfig) Options {
	return Options{
		Binary:  cfg.Binary,
		Version: cfg.Version,
		BaseURL: cfg.BaseURL,
		BinDir:  cfg.BinDir,
	}
}

// Installer manages one validator version on disk.
type Installer struct {
	opts   Options
	client *http.Client
	logger *slog.Logger
}

// NewInstaller returns an Installer. A nil client uses http.DefaultClient.
func NewInstaller(opts Options, client *http.Client) *Installer {
	if opts.Version == "" {
		opts.Version = domain.DefaultValidatorVersion
	}
	if opts.BaseURL == "" {
		opts.BaseURL = domain.DefaultBaseURL
	}
	if opts.GOOS == "" {
		opts.GOOS = runtime.GOOS
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Installer{
		opts:   opts,
		client: client,
		logger: slog.Default().With("component", "provision"),
	}
}

// Platform returns the release platform tag for the target OS.
func (i *Installer) Platform() (string, error) {
	switch i.opts.GOOS {
	case "linux":
		return "linux64", nil
	case "darwin":
		return "macos64", nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedPlatform, i.opts.GOOS)
}

// DownloadURL returns the release archive location.
func (i *Installer) DownloadURL() (string, error) {
	platform, err := i.Platform()
	if err != nil {
		return "", err
	}
	v := i.opts.Version
	return fmt.Sprintf("%s/%s/gltf_validator-%s-%s.tar.xz",
		strings.TrimRight(i.opts.BaseURL, "/"), v, v, platform), nil
}

// BinDir returns the install directory, defaulting to the user cache dir.
func (i *Installer) BinDir() (string, error) {
	if i.opts.BinDir != "" {
		return i.opts.BinDir, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("locating cache dir: %w", err)
	}
	return filepath.Join(base, "gltf-validator", i.opts.Version), nil
}

// BinaryPath returns where the installed binary lives.
func (i *Installer) BinaryPath() (string, error) {
	dir, err := i.BinDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, BinaryName), nil
}

// Installed reports whether an executable binary is present in the bin dir.
func (i *Installer) Installed() bool {
	p, err := i.BinaryPath()
	if err != nil {
		return false
	}
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular() && info.Mode().Perm()&0o111 != 0
}

// Remove deletes the installed binary. A missing binary is not an error.
func (i *Installer) Remove() error {
	p, err := i.BinaryPath()
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing %s: %w", p, err)
	}
	return nil
}

// Ensure returns a runnable validator path. A configured binary wins;
// otherwise the installed copy is used, downloading it first if needed.
func (i *Installer) Ensure(ctx context.Context) (string, error) {
	if i.opts.Binary != "" {
		p, err := exec.LookPath(i.opts.Binary)
		if err != nil {
			return "", fmt.Errorf("configured validator binary %q: %w", i.opts.Binary, err)
		}
		return p, nil
	}
	if _, err := i.Platform(); err != nil {
		return "", err
	}
	if i.Installed() {
		return i.BinaryPath()
	}
	return i.Install(ctx)
}

// Install downloads and extracts the release archive, replacing any existing binary.
func (i *Installer) Install(ctx context.Context) (string, error) {
	url, err := i.DownloadURL()
	if err != nil {
		return "", err
	}
	dest, err := i.BinaryPath()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return "", fmt.Errorf("creating bin dir: %w", err)
	}

	i.logger.Info("downloading validator", "version", i.opts.Version, "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("building download request: %w", err)
	}
	resp, err := i.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("downloading %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("downloading %s: unexpected status %s", url, resp.Status)
	}

	if err := extractBinary(resp.Body, dest); err != nil {
		return "", fmt.Errorf("installing %s: %w", url, err)
	}

	i.logger.Debug("validator installed", "path", dest)
	return dest, nil
}

// extractBinary finds BinaryName in a tar.xz stream and writes it to dest
// atomically with mode 0755.
func extractBinary(r io.Reader, dest string) error {
	xr, err := xz.NewReader(r)
	if err != nil {
		return fmt.Errorf("opening xz stream: %w", err)
	}
	tr := tar.NewReader(xr)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return ErrBinaryNotInArchive
		}
		if err != nil {
			return fmt.Errorf("reading archive: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg || path.Base(hdr.Name) != BinaryName {
			continue
		}
		return writeExecutable(tr, dest)
	}
}

func writeExecutable(r io.Reader, dest string) error {
	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+BinaryName+"-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return fmt.Errorf("writing binary: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0755); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dest)
}

// Provisioner implements domain.Provisioner by building an Installer from
// the validator settings of each call.
type Provisioner struct {
	Client *http.Client
}

// New returns a Provisioner using http.DefaultClient.
func New() *Provisioner { return &Provisioner{} }

func (p *Provisioner) Ensure(ctx context.Context, cfg domain.ValidatorConfig) (string, error) {
	return NewInstaller(OptionsFromConfig(cfg), p.Client).Ensure(ctx)
}
