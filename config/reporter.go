package config

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"sync"
	"time"

	"fontswap/misc"
)

type ReporterConfig struct {
	Destination string `yaml:"destination" sanitize:"path_clean,assure_dir_exists_for_file" validate:"required,filepath"`
}

// Prepare creates empty report. When destination could not be created report
// goes to temporary directory.
func (conf *ReporterConfig) Prepare() (*Report, error) {
	r := &Report{entries: make(map[string]entry)}

	f, err := os.Create(conf.Destination)
	if err != nil {
		if f, err = os.CreateTemp("", misc.GetAppName()+"-report.*.zip"); err != nil {
			return nil, fmt.Errorf("unable to create report: %w", err)
		}
	}
	r.file = f
	return r, nil
}

// entry is either a reference to the file to be read when report is finalized
// (logs which are still being written) or data captured earlier.
type entry struct {
	path  string
	stamp time.Time
	data  []byte
}

func (e entry) captured() bool {
	return e.data != nil
}

// Report accumulates logs, settings and produced artifacts for troubleshooting
// and packs them into zip archive on Close. Nil report is valid and ignores
// everything.
type Report struct {
	mu      sync.Mutex
	entries map[string]entry
	file    *os.File
}

// Close finalizes debug report.
func (r *Report) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	defer r.file.Close()

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.finalize()
}

// Name returns absolute name of the report archive.
func (r *Report) Name() string {
	if r == nil || r.file == nil {
		return ""
	}
	if n, err := filepath.Abs(r.file.Name()); err == nil {
		return n
	}
	return r.file.Name()
}

// Store references file to be read when report is finalized.
func (r *Report) Store(name, path string) {
	if r == nil {
		return
	}
	if p, err := filepath.Abs(path); err == nil {
		path = p
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if old, exists := r.entries[name]; exists && old.path != path {
		panic(fmt.Sprintf("Attempt to overwrite file in the report for [%s]: was %s, now %s", name, old.path, path))
	}
	r.entries[name] = entry{path: path}
}

// StoreData puts data into report under requested name. Repeated names are
// versioned with timestamps.
func (r *Report) StoreData(name string, data []byte) {
	if r == nil {
		return
	}
	if data == nil {
		data = []byte{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.add(name, entry{data: bytes.Clone(data), stamp: time.Now()})
}

// StoreCopy captures content of the file as it is at the time of a call.
func (r *Report) StoreCopy(name, path string) error {
	if r == nil {
		return nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("unable to copy '%s' into report: not a regular file", path)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.add(name, entry{path: abs, data: data, stamp: info.ModTime()})
	return nil
}

func (r *Report) add(name string, e entry) {
	if _, exists := r.entries[name]; exists {
		ext := filepath.Ext(name)
		name = fmt.Sprintf("%s-%d%s", name[:len(name)-len(ext)], time.Now().UnixNano(), ext)
	}
	r.entries[name] = e
}

// finalize writes manifest followed by all stored entries in manifest order.
// Referenced files which do not exist by now are skipped.
func (r *Report) finalize() error {
	arc := zip.NewWriter(r.file)

	names, manifest := r.manifest(time.Now())
	if err := saveFile(arc, "MANIFEST", time.Now(), manifest); err != nil {
		return err
	}

	for _, name := range names {
		e := r.entries[name]
		if e.captured() {
			if err := saveFile(arc, name, e.stamp, bytes.NewReader(e.data)); err != nil {
				return err
			}
			continue
		}
		info, err := os.Stat(e.path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		f, err := os.Open(e.path)
		if err != nil {
			return err
		}
		err = saveFile(arc, name, info.ModTime(), f)
		f.Close()
		if err != nil {
			return err
		}
	}
	return arc.Close()
}

func (r *Report) manifest(now time.Time) ([]string, *bytes.Buffer) {
	buf := new(bytes.Buffer)
	fmt.Fprintf(buf, "%s %s (%s) %s/%s : %s\n", misc.GetAppName(), misc.GetVersion(), runtime.Version(), runtime.GOOS, runtime.GOARCH, misc.GetGitHash())

	keys := slices.Sorted(maps.Keys(r.entries))
	for _, k := range keys {
		e := r.entries[k]
		stamp := e.stamp
		if stamp.IsZero() {
			stamp = now
		}
		source := e.path
		if len(source) == 0 {
			source = "-"
		}
		fmt.Fprintf(buf, "%s\t%s\t%s\n", stamp.UTC().Format(time.UnixDate), k, source)
	}
	return keys, buf
}

func saveFile(dst *zip.Writer, name string, t time.Time, src io.Reader) error {
	w, err := dst.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: t})
	if err != nil {
		return err
	}
	_, err = io.Copy(w, src)
	return err
}
