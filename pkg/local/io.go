package local

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/nemanja-m/logscan/pkg/logscan"
)

const (
	DefaultBufferSize = 1024 * 1024 // 1MB
)

// LoadLines reads the whole file into memory. Every line keeps its trailing
// newline. The file is either loaded completely or an ErrIO is returned.
func LoadLines(filePath string, bufferSize ...int) (logscan.LineSet, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", logscan.ErrIO, err)
	}
	defer file.Close()

	if len(bufferSize) == 0 {
		bufferSize = []int{DefaultBufferSize}
	}
	lines, err := ReadLines(bufio.NewReaderSize(file, bufferSize[0]))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", logscan.ErrIO, filePath, err)
	}
	return lines, nil
}

// ReadLines splits r into newline-terminated lines.
func ReadLines(r *bufio.Reader) (logscan.LineSet, error) {
	var lines logscan.LineSet
	for {
		line, err := r.ReadBytes('\n')
		if len(line) > 0 {
			lines = append(lines, logscan.Line(line))
		}
		if errors.Is(err, io.EOF) {
			return lines, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// FindFiles returns the regular files matching the glob pattern in sorted order.
func FindFiles(pattern string) ([]string, error) {
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid input pattern %q: %w", logscan.ErrArgument, pattern, err)
	}

	var files []string
	for _, name := range matches {
		info, err := os.Lstat(name)
		if err != nil {
			continue
		}
		if info.Mode().IsRegular() {
			files = append(files, name)
		}
	}
	slices.Sort(files)
	return files, nil
}

// LoadPattern loads every file matched by pattern and concatenates their
// lines in path order. A pattern without glob metacharacters is treated as a
// plain path, so a missing file surfaces as ErrIO.
func LoadPattern(pattern string) (logscan.LineSet, error) {
	if pattern == "" {
		return nil, fmt.Errorf("%w: input path is required", logscan.ErrArgument)
	}
	if !hasMeta(pattern) {
		return LoadLines(pattern)
	}

	files, err := FindFiles(pattern)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no files matched the input pattern: %s", logscan.ErrArgument, pattern)
	}

	var all logscan.LineSet
	for _, file := range files {
		lines, err := LoadLines(file)
		if err != nil {
			return nil, err
		}
		all = append(all, lines...)
	}
	return all, nil
}

func hasMeta(pattern string) bool {
	for _, c := range pattern {
		switch c {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}
