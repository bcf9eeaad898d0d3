// Package export writes following lists to timestamped CSV files and reads them back.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonboulle/clockwork"
	"github.com/lestrrat-go/strftime"
	"github.com/spf13/afero"

	"followexport/core"
)

const (
	Header = "Following Usernames"

	// TimestampPattern renders as MMDDYYYY-HHMMSS.
	TimestampPattern = "%m%d%Y-%H%M%S"

	DefaultDir = "media"
)

type CSVExporter struct {
	fs    afero.Fs
	clock clockwork.Clock
	dir   string
}

func NewCSVExporter(fs afero.Fs, clock clockwork.Clock, dir string) *CSVExporter {
	if dir == "" {
		dir = DefaultDir
	}

	return &CSVExporter{
		fs:    fs,
		clock: clock,
		dir:   dir,
	}
}

func (e *CSVExporter) Dir() string {
	return e.dir
}

// EnsureDir creates the output directory, it is a no-op when it already exists.
func (e *CSVExporter) EnsureDir() error {
	if ok, err := afero.DirExists(e.fs, e.dir); err == nil && ok {
		return nil
	}

	if err := e.fs.MkdirAll(e.dir, 0755); err != nil {
		return &core.FileWriteError{Path: e.dir, Err: err}
	}
	return nil
}

// Filename returns the export name for username at the current time. It fails
// when username would place the file outside the output directory.
func (e *CSVExporter) Filename(username string) (string, error) {
	timestamp, err := strftime.Format(TimestampPattern, e.clock.Now())
	if err != nil {
		return "", err
	}

	path := filepath.Join(e.dir, fmt.Sprintf("%s-%s.csv", timestamp, username))
	if filepath.Dir(path) != filepath.Clean(e.dir) {
		return "", fmt.Errorf("username %q leaves the output directory", username)
	}
	return path, nil
}

// Export writes a new file and never overwrites an existing one, two exports of
// the same account within one second fail the second time.
func (e *CSVExporter) Export(username string, followings core.FollowingList) (string, error) {
	path, err := e.Filename(username)
	if err != nil {
		return "", &core.FileWriteError{Path: e.dir, Err: err}
	}

	file, err := e.fs.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return "", &core.FileWriteError{Path: path, Err: err}
	}

	if err := writeRows(file, followings); err != nil {
		file.Close()
		return "", &core.FileWriteError{Path: path, Err: err}
	}

	if err := file.Close(); err != nil {
		return "", &core.FileWriteError{Path: path, Err: err}
	}

	return path, nil
}

func writeRows(file afero.File, followings core.FollowingList) error {
	w := csv.NewWriter(file)
	w.UseCRLF = true

	if err := w.Write([]string{Header}); err != nil {
		return err
	}

	for _, handle := range followings {
		if err := w.Write([]string{handle}); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// Read returns the handles stored in an export file.
func Read(fs afero.Fs, path string) (core.FollowingList, error) {
	file, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = 1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("cannot parse %s: %w", path, err)
	}

	if len(records) == 0 || records[0][0] != Header {
		return nil, fmt.Errorf("cannot parse %s: missing %q header", path, Header)
	}

	list := make(core.FollowingList, 0, len(records)-1)
	for _, record := range records[1:] {
		list = append(list, record[0])
	}

	return list, nil
}
