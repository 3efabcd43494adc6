// Package suffix implements the dataset model: an ordered list of
// filename suffixes persisted as a line-delimited text file.
package suffix

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/igridvu/igridvu/internal/errs"
)

// Load reads an ordered suffix list from path. One suffix per line;
// blank lines are skipped. Trailing whitespace is trimmed but leading
// whitespace is preserved, since a suffix may legitimately start with
// a space.
func Load(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.NewFileError("suffix file not found", path, errs.FileNotFound, err)
		}
		if os.IsPermission(err) {
			return nil, errs.NewFileError("suffix file access denied", path, errs.FileAccessDenied, err)
		}
		return nil, errs.Wrapf(err, "cannot open suffix file %s", path)
	}
	defer file.Close()

	var suffixes []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")
		if line == "" {
			continue
		}
		suffixes = append(suffixes, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errs.Wrapf(err, "cannot read suffix file %s", path)
	}
	return suffixes, nil
}

// Save writes the suffix list to path as a full overwrite, one suffix
// per line with a trailing newline.
func Save(path string, suffixes []string) error {
	var sb strings.Builder
	for _, s := range suffixes {
		sb.WriteString(s)
		sb.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return errs.NewFileError("cannot write suffix file", path, errs.FileWriteFailed, err)
	}
	return nil
}

// Normalize cleans raw editor input: each line is stripped of
// surrounding whitespace and empty results are dropped. Order is
// preserved.
func Normalize(lines []string) []string {
	var out []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

// Truncate caps the list at max entries, returning the kept prefix and
// the number of entries dropped. A max below one leaves the list alone.
func Truncate(suffixes []string, max int) ([]string, int) {
	if max < 1 || len(suffixes) <= max {
		return suffixes, 0
	}
	return suffixes[:max], len(suffixes) - max
}

// DefaultPathFor resolves the conventional location of a suffix file
// named name for a dataset prefix: inside the prefix when it is a
// directory, next to the members when the prefix is a filename stem.
func DefaultPathFor(prefix, name string) string {
	if info, err := os.Stat(prefix); err == nil && info.IsDir() {
		return filepath.Join(prefix, name)
	}
	return filepath.Join(filepath.Dir(prefix), name)
}
