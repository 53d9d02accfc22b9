package nx

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/phanxgames/nxview"
)

// Mounted owns the files opened by Mount. Close it after the last use of any
// node from the set it filled.
type Mounted struct {
	dir   string
	files []*File
}

// Mount opens <dir>/<label> for every known archive label and mounts each
// file's root into set. Missing files are skipped. Files that fail to open
// are skipped too and reported together in the returned error; the returned
// *Mounted is valid either way.
func Mount(set *nxview.ArchiveSet, dir string) (*Mounted, error) {
	m := &Mounted{dir: dir}
	_, err := m.MountMissing(set)
	return m, err
}

// MountMissing retries every archive that set does not have yet, with the
// same rules as Mount, and returns how many were newly mounted.
func (m *Mounted) MountMissing(set *nxview.ArchiveSet) (int, error) {
	var errs []error
	added := 0
	for _, a := range nxview.Archives() {
		if set.Mounted(a) {
			continue
		}
		path := filepath.Join(m.dir, a.Label())
		if _, err := os.Stat(path); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				errs = append(errs, fmt.Errorf("nx: stat %s: %w", path, err))
			}
			continue
		}
		f, err := Open(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := set.Mount(a, f.Root()); err != nil {
			_ = f.Close()
			errs = append(errs, fmt.Errorf("nx: mount %s: %w", a.Label(), err))
			continue
		}
		m.files = append(m.files, f)
		added++
	}
	return added, errors.Join(errs...)
}

// Dir returns the directory archives are mounted from.
func (m *Mounted) Dir() string { return m.dir }

// Files returns the open files in mount order.
func (m *Mounted) Files() []*File { return m.files }

// Close closes every mounted file.
func (m *Mounted) Close() error {
	var errs []error
	for _, f := range m.files {
		if err := f.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	m.files = nil
	return errors.Join(errs...)
}
