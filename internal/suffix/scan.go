package suffix

import (
	"os"
	"strings"

	"github.com/gobwas/glob"

	"github.com/igridvu/igridvu/internal/errs"
)

// Scan builds a suffix list from the files in dir whose names match
// pattern and start with namePrefix. The returned suffixes are the
// file names with namePrefix stripped, in directory order. An empty
// namePrefix keeps full file names.
func Scan(dir, namePrefix, pattern string) ([]string, error) {
	matcher, err := glob.Compile(pattern)
	if err != nil {
		return nil, errs.Wrapf(err, "invalid scan pattern %q", pattern)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.NewFileError("scan directory not found", dir, errs.FileNotFound, err)
		}
		return nil, errs.Wrapf(err, "cannot read directory %s", dir)
	}

	var suffixes []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !matcher.Match(name) {
			continue
		}
		if namePrefix != "" && !strings.HasPrefix(name, namePrefix) {
			continue
		}
		suffixes = append(suffixes, strings.TrimPrefix(name, namePrefix))
	}
	return suffixes, nil
}
