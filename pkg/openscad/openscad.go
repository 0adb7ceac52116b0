// Package openscad converts OpenSCAD sources into STL meshes by running
// the openscad binary.
package openscad

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
)

var importRegex = regexp.MustCompile(`^\s*(?:use|include)\s*<([^>]+)>`)

// IsSource reports whether path is an OpenSCAD source file
func IsSource(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".scad")
}

// Converter runs openscad
type Converter struct {
	binary string
}

// NewConverter looks up openscad in PATH
func NewConverter() (*Converter, error) {
	binary, err := exec.LookPath("openscad")
	if err != nil {
		return nil, fmt.Errorf("openscad not found in PATH, install it from https://openscad.org/")
	}
	return &Converter{binary: binary}, nil
}

// Convert renders scadFile into outputFile
func (c *Converter) Convert(ctx context.Context, scadFile, outputFile string) error {
	abs, err := filepath.Abs(scadFile)
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, c.binary, "-o", outputFile, abs)
	cmd.Dir = filepath.Dir(abs)
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(output.String())
		if msg == "" {
			return fmt.Errorf("failed to render %s: %w", scadFile, err)
		}
		return fmt.Errorf("failed to render %s: %w\n%s", scadFile, err, msg)
	}
	return nil
}

// ConvertTemp renders scadFile into a temporary STL file. The caller
// removes the returned file.
func (c *Converter) ConvertTemp(ctx context.Context, scadFile string) (string, error) {
	f, err := os.CreateTemp("", "landmarker-*.stl")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}
	path := f.Name()
	f.Close()

	if err := c.Convert(ctx, scadFile, path); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

// Dependencies returns scadFile and every file it uses or includes,
// transitively, as absolute paths
func Dependencies(scadFile string) ([]string, error) {
	abs, err := filepath.Abs(scadFile)
	if err != nil {
		return nil, err
	}
	visited := make(map[string]bool)
	var deps []string
	if err := collect(abs, filepath.Dir(abs), visited, &deps); err != nil {
		return nil, err
	}
	return deps, nil
}

func collect(file, rootDir string, visited map[string]bool, deps *[]string) error {
	if visited[file] {
		return nil
	}
	visited[file] = true
	*deps = append(*deps, file)

	imports, err := parseImports(file)
	if err != nil {
		return err
	}
	for _, imp := range imports {
		if err := collect(resolve(imp, filepath.Dir(file), rootDir), rootDir, visited, deps); err != nil {
			return err
		}
	}
	return nil
}

func parseImports(file string) ([]string, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", file, err)
	}
	defer f.Close()

	var imports []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "//") {
			continue
		}
		if m := importRegex.FindStringSubmatch(line); m != nil {
			imports = append(imports, m[1])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading %s: %w", file, err)
	}
	return imports, nil
}

// resolve looks for an import next to the importing file first, then in
// the directory of the root source
func resolve(imp, currentDir, rootDir string) string {
	local := filepath.Clean(filepath.Join(currentDir, imp))
	if strings.HasPrefix(imp, "./") || strings.HasPrefix(imp, "../") {
		return local
	}
	if _, err := os.Stat(local); err == nil {
		return local
	}
	return filepath.Clean(filepath.Join(rootDir, imp))
}
