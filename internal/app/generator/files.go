package generator

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// countLines counts lines the way universal-newline readers do: "\n", "\r\n"
// and a lone "\r" each end a line, and a trailing unterminated line counts too.
func countLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	count := 0
	var prev byte
	open := false
	for {
		c, err := r.ReadByte()
		if errors.Is(err, io.EOF) {
			if open {
				count++
			}
			return count, nil
		}
		if err != nil {
			return 0, fmt.Errorf("read %s: %w", path, err)
		}

		switch {
		case c == '\r':
			count++
			open = false
		case c == '\n':
			if prev != '\r' {
				count++
			}
			open = false
		default:
			open = true
		}
		prev = c
	}
}

// writeJSONFile replaces path with v encoded as 4-space indented JSON. The
// data goes to a temp file in the same directory first, so path is either
// left untouched or fully written.
func writeJSONFile(path string, v any) error {
	js, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(js); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
