package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gubarz/studymd/internal/parser"
)

// VarName is the binding exported by the generated data file
const VarName = "neetcodeData"

const prefix = "export const " + VarName + " = "

// Render serializes categories as a JavaScript module exporting one literal
func Render(categories []parser.Category) ([]byte, error) {
	if categories == nil {
		categories = []parser.Category{}
	}

	var buf bytes.Buffer
	buf.WriteString(prefix)

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(categories); err != nil {
		return nil, fmt.Errorf("encode data table: %w", err)
	}

	// Encode terminates with a newline; the statement needs its semicolon first
	out := bytes.TrimRight(buf.Bytes(), "\n")
	out = append(out, ";\n"...)
	return out, nil
}

// WriteFile renders categories and replaces path in one step. The content is
// staged in a temp file next to path so a failure never leaves a partial file.
func WriteFile(path string, categories []parser.Category) error {
	data, err := Render(categories)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// Decode reads a data table previously produced by Render
func Decode(data []byte) ([]parser.Category, error) {
	text := strings.TrimSpace(string(data))
	if idx := strings.Index(text, "="); idx != -1 && strings.HasPrefix(text, "export") {
		text = text[idx+1:]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), ";")

	var categories []parser.Category
	if err := json.Unmarshal([]byte(text), &categories); err != nil {
		return nil, fmt.Errorf("decode data table: %w", err)
	}
	return categories, nil
}

// ReadFile loads a generated data table from disk
func ReadFile(path string) ([]parser.Category, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}
