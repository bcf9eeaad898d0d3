package export

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"github.com/spf13/afero"

	"followexport/core"
)

// exportNameRe matches the names Filename produces for handles accepted by core.ValidHandle.
var exportNameRe = regexp.MustCompile(`^(\d{8}-\d{6})-(\w+)\.csv$`)

// Entry is one export found in the output directory.
type Entry struct {
	Path     string
	Username string
	Time     time.Time
}

// History lists the exports of username in dir, newest first.
func History(fs afero.Fs, dir string, username string) ([]Entry, error) {
	if !core.ValidHandle(username) {
		return nil, fmt.Errorf("%w: %q", core.ErrInvalidUsername, username)
	}

	infos, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for _, info := range infos {
		if info.IsDir() {
			continue
		}

		m := exportNameRe.FindStringSubmatch(info.Name())
		if m == nil || m[2] != username {
			continue
		}

		// Same layout as TimestampPattern.
		t, err := time.ParseInLocation("01022006-150405", m[1], time.Local)
		if err != nil {
			continue
		}

		entries = append(entries, Entry{
			Path:     filepath.Join(dir, info.Name()),
			Username: m[2],
			Time:     t,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Time.After(entries[j].Time)
	})

	return entries, nil
}
