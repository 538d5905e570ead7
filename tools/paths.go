package tools

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Private functions (alphabetical)

// countFrames counts the files in dir named like the frame pattern with the
// given extension (frame_0001.jpg, frame_12345.jpg, ...).
func countFrames(dir, format string) (int, error) {
	pattern, err := regexp.Compile(`^frame_\d{4,}\.` + regexp.QuoteMeta(format) + `$`)
	if err != nil {
		return 0, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, entry := range entries {
		if !entry.IsDir() && pattern.MatchString(entry.Name()) {
			count++
		}
	}
	return count, nil
}

// fileSizeMB returns the size of path in MiB.
func fileSizeMB(path string) (float64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return float64(info.Size()) / (1024 * 1024), nil
}

// inputExt returns the extension of path without the leading dot.
func inputExt(path string) string {
	return strings.TrimPrefix(filepath.Ext(path), ".")
}

// orDefault returns value, or fallback when value is blank.
func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

// requireFile fails with a ValidationError when path does not exist.
func requireFile(kind, path string) error {
	if path == "" {
		return missingFile(kind, path)
	}
	if _, err := os.Stat(path); err != nil {
		return missingFile(kind, path)
	}
	return nil
}

// splitPaths splits a comma-separated list and trims every entry. Empty
// entries are kept so that they fail the existence check.
func splitPaths(list string) []string {
	parts := strings.Split(list, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// stem returns the file name of path without its extension.
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Public functions (alphabetical)

// DefaultOutput derives an output path next to input: {stem}_{suffix}.{ext}.
// An empty suffix yields {stem}.{ext}; an empty ext reuses the input's
// extension. When there is no extension at all the dot is omitted.
func DefaultOutput(input, suffix, ext string) string {
	name := stem(input)
	if suffix != "" {
		name += "_" + suffix
	}
	if ext == "" {
		ext = inputExt(input)
	}
	if ext != "" {
		name += "." + ext
	}
	return filepath.Join(filepath.Dir(input), name)
}

// DefaultSibling derives an output path in the directory of input with a
// fixed base name and input's extension ({name}.{ext}).
func DefaultSibling(input, name string) string {
	if ext := inputExt(input); ext != "" {
		name += "." + ext
	}
	return filepath.Join(filepath.Dir(input), name)
}
