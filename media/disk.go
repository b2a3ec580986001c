package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
)

// Disk writes uploads into a local directory that the HTTP server exposes
// under URLPrefix.
type Disk struct {
	Dir       string
	URLPrefix string
}

var _ Store = (*Disk)(nil)

func NewDisk(dir, urlPrefix string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	return &Disk{Dir: dir, URLPrefix: urlPrefix}, nil
}

func (d *Disk) Save(_ context.Context, u Upload) (string, error) {
	u, err := Prepare("image", u)
	if err != nil {
		return "", err
	}

	name := objectName(u)
	dst, err := os.Create(filepath.Join(d.Dir, name))
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}

	n, err := io.Copy(dst, io.LimitReader(u.Body, MaxUploadSize+1))
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err == nil && n > MaxUploadSize {
		err = checkSize("image", n)
	}
	if err != nil {
		os.Remove(filepath.Join(d.Dir, name))
		return "", err
	}
	return path.Join(d.URLPrefix, name), nil
}
