package module

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// PathResolver resolves module names to on-disk source locations with
// platform-specific normalization. SourceLoader.resolvePath delegates its
// stdlib and search-path lookups here, keeping that resolution logic in one
// place instead of duplicated between the two files; it does not
// participate in the in-memory binding/using/import graph (see resolver.go
// for that).
type PathResolver struct {
	projectRoot   string
	stdlibPath    string
	searchPaths   []string
	caseSensitive bool
}

// NewPathResolver creates a new path resolver rooted at the current
// working directory.
func NewPathResolver() *PathResolver {
	return &PathResolver{
		projectRoot:   findProjectRoot(),
		stdlibPath:    findStdlibPath(),
		searchPaths:   getSearchPaths(),
		caseSensitive: isFileSystemCaseSensitive(),
	}
}

// NormalizePath normalizes a file path for the current platform: expands
// "~", cleans "." / "..", makes it absolute, and resolves symlinks.
func (r *PathResolver) NormalizePath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to expand home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}

	path = filepath.Clean(path)

	if !filepath.IsAbs(path) {
		abs, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to make path absolute: %w", err)
		}
		path = abs
	}

	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		if os.IsNotExist(err) {
			return path, nil
		}
		return "", fmt.Errorf("failed to resolve symlinks: %w", err)
	}
	return resolved, nil
}

// ResolveModuleSource resolves a module name to a source file path, trying
// (in order) the stdlib path, the project root, and any additional search
// paths, mirroring how AILANG's loader resolves import paths.
func (r *PathResolver) ResolveModuleSource(name string) (string, error) {
	candidates := make([]string, 0, 2+len(r.searchPaths))
	if strings.HasPrefix(name, "std/") {
		candidates = append(candidates, filepath.Join(r.stdlibPath, strings.TrimPrefix(name, "std/")))
	} else {
		candidates = append(candidates, filepath.Join(r.projectRoot, name))
		for _, sp := range r.searchPaths {
			candidates = append(candidates, filepath.Join(sp, name))
		}
	}

	for _, c := range candidates {
		path := c
		if !strings.HasSuffix(path, ".ail") {
			path += ".ail"
		}
		if normalized, err := r.NormalizePath(path); err == nil {
			if _, err := os.Stat(normalized); err == nil {
				return normalized, nil
			}
		}
	}
	return "", fmt.Errorf("module source not found: %s", name)
}

// findProjectRoot finds the project root directory by walking up from the
// working directory looking for go.mod, .git, or ailang.yaml.
func findProjectRoot() string {
	markers := []string{"go.mod", ".git", "ailang.yaml", ".ailang"}

	dir, err := os.Getwd()
	if err != nil {
		return "."
	}

	for {
		for _, marker := range markers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	pwd, _ := os.Getwd()
	return pwd
}

// findStdlibPath finds the standard library path via AILANG_STDLIB, the
// executable's directory, or the project root.
func findStdlibPath() string {
	if stdlib := os.Getenv("AILANG_STDLIB"); stdlib != "" {
		return stdlib
	}
	if exe, err := os.Executable(); err == nil {
		stdlib := filepath.Join(filepath.Dir(exe), "..", "stdlib")
		if info, err := os.Stat(stdlib); err == nil && info.IsDir() {
			return stdlib
		}
	}
	root := findProjectRoot()
	stdlib := filepath.Join(root, "stdlib")
	if info, err := os.Stat(stdlib); err == nil && info.IsDir() {
		return stdlib
	}
	return filepath.Join(".", "stdlib")
}

// getSearchPaths returns additional directories to search, from AILANG_PATH
// and the user's module directory.
func getSearchPaths() []string {
	var paths []string
	if ailangPath := os.Getenv("AILANG_PATH"); ailangPath != "" {
		for _, p := range strings.Split(ailangPath, string(os.PathListSeparator)) {
			if p != "" {
				paths = append(paths, p)
			}
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".ailang", "modules"))
	}
	paths = append(paths, findProjectRoot())
	return paths
}

// isFileSystemCaseSensitive reports whether the current platform's
// filesystem is (typically) case-sensitive.
func isFileSystemCaseSensitive() bool {
	switch runtime.GOOS {
	case "windows", "darwin":
		return false
	default:
		return true
	}
}
