// Package requirements reads requirement files and scans requirement
// directories. Content it returns feeds the same normalization entry point
// used for direct text input; there is no file-specific parsing path.
package requirements

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultExtensions are the file extensions scanned when the caller does not
// name any.
var DefaultExtensions = []string{".md", ".markdown", ".txt", ".json", ".jsonl"}

// fileTypes maps extensions to the reported requirement type.
var fileTypes = map[string]string{
	".md":       "markdown",
	".markdown": "markdown",
	".txt":      "text",
	".json":     "json",
	".jsonl":    "jsonl",
}

// File is one requirement file read from disk.
type File struct {
	Path    string `json:"path"`
	Type    string `json:"type"`
	Content string `json:"content"`
}

// Reader reads requirement files from the local filesystem.
type Reader struct{}

// NewReader creates a requirement file reader.
func NewReader() *Reader {
	return &Reader{}
}

// ReadFile reads a single requirement file and reports its type.
func (r *Reader) ReadFile(path string) (*File, error) {
	ext := strings.ToLower(filepath.Ext(path))
	fileType, ok := fileTypes[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported file type: %s (supported: %s)", ext, strings.Join(DefaultExtensions, ", "))
	}

	switch ext {
	case ".jsonl":
		content, err := r.readJSONL(path)
		if err != nil {
			return nil, err
		}
		return &File{Path: path, Type: fileType, Content: content}, nil
	default:
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading file: %w", err)
		}
		return &File{Path: path, Type: fileType, Content: string(content)}, nil
	}
}

// ScanDirectory lists requirement files in a directory, filtered by
// extension. Subdirectories are not descended into.
func (r *Reader) ScanDirectory(path string, extensions []string) ([]string, error) {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("reading directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		for _, want := range extensions {
			if ext == strings.ToLower(want) {
				files = append(files, filepath.Join(path, entry.Name()))
				break
			}
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no requirement files found in %s", path)
	}
	return files, nil
}

// ReadInput reads a path that may be a file or a directory. For directories
// every readable requirement file is concatenated; unreadable files are
// skipped.
func (r *Reader) ReadInput(path string) (string, []string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", nil, fmt.Errorf("accessing path: %w", err)
	}

	if !info.IsDir() {
		file, err := r.ReadFile(path)
		if err != nil {
			return "", nil, err
		}
		return file.Content, []string{path}, nil
	}

	paths, err := r.ScanDirectory(path, nil)
	if err != nil {
		return "", nil, err
	}

	var combined strings.Builder
	var read []string
	for _, p := range paths {
		file, err := r.ReadFile(p)
		if err != nil {
			continue
		}
		combined.WriteString(fmt.Sprintf("# File: %s\n\n", filepath.Base(p)))
		combined.WriteString(file.Content)
		combined.WriteString("\n\n---\n\n")
		read = append(read, p)
	}

	if combined.Len() == 0 {
		return "", nil, fmt.Errorf("no readable requirement files in %s", path)
	}
	return combined.String(), read, nil
}

// readJSONL joins the non-empty lines of a JSONL file so each record stays
// an intact JSON value in the combined content.
func (r *Reader) readJSONL(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("reading file: %w", err)
	}

	return strings.Join(lines, "\n"), nil
}
