// Package model makes sure the landmark model file is in place before the
// detector is created.
package model

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/tauraamui/maskdaemon/pkg/log"
	"github.com/tauraamui/xerror"
)

var (
	ErrModelMissing    = xerror.New("model file missing")
	ErrNoBundledModel  = xerror.New("no bundled model to copy from")
	ErrModelCopyFailed = xerror.New("unable to copy bundled model")
)

var fs = afero.NewOsFs()

// Ensure returns nil when a model exists at path. Otherwise it copies the
// model at bundledPath into place.
func Ensure(path, bundledPath string) error {
	if len(path) == 0 {
		return xerror.Errorf("%w: no model path configured", ErrModelMissing)
	}

	info, err := fs.Stat(path)
	if err == nil {
		if info.IsDir() {
			return xerror.Errorf("%w: %s is a directory", ErrModelMissing, path)
		}
		log.Debug("Found model: %s", path)
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return xerror.Errorf("unable to stat model %s: %w", path, err)
	}

	if len(bundledPath) == 0 {
		return xerror.Errorf("%w: %s and %v", ErrModelMissing, path, ErrNoBundledModel)
	}

	log.Info("Model not found at %s, copying bundled model from %s", path, bundledPath)
	if err := copyFile(bundledPath, path); err != nil {
		fs.Remove(path) //nolint
		return xerror.Errorf("%w: %v", ErrModelCopyFailed, err)
	}
	return nil
}

func copyFile(from, to string) error {
	src, err := fs.Open(from)
	if err != nil {
		return err
	}
	defer src.Close()

	if err := fs.MkdirAll(filepath.Dir(to), os.ModeDir|os.ModePerm); err != nil {
		return err
	}

	dst, err := fs.OpenFile(to, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}
