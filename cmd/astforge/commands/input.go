package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/Sumatoshi-tech/astforge/pkg/textutil"
)

// stdinPath selects standard input.
const stdinPath = "-"

// stdinLabel names standard input in messages.
const stdinLabel = "<stdin>"

var (
	// ErrDirectoryPath indicates a file operation was attempted on a directory.
	ErrDirectoryPath = errors.New("path points to a directory")
	// ErrEmptyPath indicates a path argument was empty.
	ErrEmptyPath = errors.New("path is empty")
	// ErrPathContainsNUL indicates the path contains a NUL byte.
	ErrPathContainsNUL = errors.New("path contains NUL byte")
	// ErrInputTooLarge indicates the input exceeds input.max_size.
	ErrInputTooLarge = errors.New("input exceeds maximum size")
	// ErrBinaryInput indicates the input is not text.
	ErrBinaryInput = errors.New("input looks like a binary file")
)

// readInput reads a file argument, or stdin for "-" or no argument, and
// refuses input larger than maxBytes. It returns the content and a label
// for messages.
func readInput(args []string, stdin io.Reader, maxBytes int64) ([]byte, string, error) {
	if len(args) == 0 || args[0] == stdinPath {
		data, err := readLimited(stdin, maxBytes, stdinLabel)

		return data, stdinLabel, err
	}

	resolvedPath, err := resolveUserFilePath(args[0])
	if err != nil {
		return nil, "", fmt.Errorf("resolve path %q: %w", args[0], err)
	}

	//nolint:gosec // resolvedPath is normalized and existence/type checked in resolveUserFilePath.
	f, err := os.Open(resolvedPath)
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", resolvedPath, err)
	}
	defer f.Close()

	data, err := readLimited(f, maxBytes, resolvedPath)

	return data, resolvedPath, err
}

func readLimited(r io.Reader, maxBytes int64, label string) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", label, err)
	}

	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: %s is larger than %s", ErrInputTooLarge, label, humanize.Bytes(uint64(maxBytes)))
	}

	return data, nil
}

// readText is readInput for Go source text; binary content is refused.
func readText(args []string, stdin io.Reader, maxBytes int64) (string, string, error) {
	data, label, err := readInput(args, stdin, maxBytes)
	if err != nil {
		return "", "", err
	}

	if textutil.IsBinary(data) {
		return "", "", fmt.Errorf("%w: %s", ErrBinaryInput, label)
	}

	return string(data), label, nil
}

func resolveUserFilePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", ErrEmptyPath
	}

	if strings.ContainsRune(path, '\x00') {
		return "", fmt.Errorf("%w: %q", ErrPathContainsNUL, path)
	}

	absPath, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", path, err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", absPath, err)
	}

	if info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrDirectoryPath, absPath)
	}

	return absPath, nil
}

// writeOutput writes text to path, or to w when path is empty or "-".
func writeOutput(w io.Writer, path, text string) error {
	if path == "" || path == stdinPath {
		_, err := io.WriteString(w, text)
		if err != nil {
			return fmt.Errorf("write output: %w", err)
		}

		return nil
	}

	err := os.WriteFile(path, []byte(text), outputFilePerm)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}

// outputFilePerm is the permission of files written with --output.
const outputFilePerm = 0o644
