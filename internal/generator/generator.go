package generator

import (
	"bytes"
	"context"
	"fmt"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/mod/modfile"

	"github.com/denizgursoy/cacik-ui/internal/logging"
)

// DefaultOutputFile is the test file the generator writes.
const DefaultOutputFile = "cacik_test.go"

type Options struct {
	// Dirs are searched recursively for annotated functions. Empty means
	// WorkDir.
	Dirs []string
	// WorkDir receives the generated file and decides its package. Empty
	// means the current directory.
	WorkDir    string
	OutputFile string
	Log        logrus.FieldLogger
}

// StartGenerator parses every directory in opts.Dirs and writes one test file
// registering everything found. It returns the path written.
func StartGenerator(ctx context.Context, codeParser GoCodeParser, opts Options) (string, error) {
	log := logging.OrDiscard(opts.Log)

	workDir := opts.WorkDir
	if workDir == "" {
		directory, err := os.Getwd()
		if err != nil {
			return "", err
		}
		workDir = directory
	}
	sources := opts.Dirs
	if len(sources) == 0 {
		sources = []string{workDir}
	}

	output := &Output{CustomTypes: make(map[string]*CustomType)}
	for _, source := range sources {
		parsed, err := codeParser.ParseFunctionCommentsOfGoFilesInDirectoryRecursively(ctx, source)
		if err != nil {
			return "", fmt.Errorf("parse %s: %w", source, err)
		}
		if err := output.Merge(parsed); err != nil {
			return "", err
		}
		log.WithFields(logrus.Fields{"dir": source, "steps": len(parsed.StepFunctions)}).Info("collected step definitions")
	}

	pkgName, pkgPath, err := detectPackage(workDir)
	if err != nil {
		log.WithError(err).Warn("could not detect package")
	}
	if pkgName != "" {
		output.PackageName = pkgName
	}
	if pkgPath != "" {
		output.CurrentPackagePath = pkgPath
	}

	name := opts.OutputFile
	if name == "" {
		name = DefaultOutputFile
	}
	path := filepath.Join(workDir, name)

	var buf bytes.Buffer
	if err := output.Generate(&buf); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	log.WithField("file", path).Info("generated test runner")
	return path, nil
}

// detectPackage reads the package name from the Go files in dir and its
// import path from the enclosing go.mod.
func detectPackage(dir string) (pkgName string, pkgPath string, err error) {
	pkgName, err = detectPackageName(dir)
	if err != nil {
		return "", "", err
	}

	pkgPath, err = DetectImportPath(dir)
	if err != nil {
		return pkgName, "", err
	}

	return pkgName, pkgPath, nil
}

// detectPackageName detects the Go package name for the given directory.
// It first tries to read the package clause from existing Go files.
// If no Go files exist, it falls back to deriving the name from the directory
// path (or the module path for the module root).
func detectPackageName(dir string) (string, error) {
	fset := token.NewFileSet()
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("cannot read directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") {
			continue
		}
		if name == DefaultOutputFile {
			continue
		}

		filePath := filepath.Join(dir, name)
		f, parseErr := parser.ParseFile(fset, filePath, nil, parser.PackageClauseOnly)
		if parseErr != nil {
			continue
		}
		if f.Name != nil && f.Name.Name != "" {
			return f.Name.Name, nil
		}
	}

	// No Go files found - derive package name from directory or module path.
	return packageNameFromDir(dir)
}

// packageNameFromDir derives a valid Go package name from the directory path.
// At the module root it uses the last segment of the module path from go.mod.
// Otherwise it uses the directory name, sanitising characters that are invalid
// in Go identifiers (hyphens, dots, etc.).
func packageNameFromDir(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	// Try to use the module path when we're at the module root.
	goModPath := filepath.Join(absDir, "go.mod")
	if data, readErr := os.ReadFile(goModPath); readErr == nil {
		modFile, parseErr := modfile.Parse(goModPath, data, nil)
		if parseErr == nil && modFile.Module != nil {
			base := filepath.Base(modFile.Module.Mod.Path)
			if name := sanitizePackageName(base); name != "" {
				return name, nil
			}
		}
	}

	// Fall back to the directory name.
	base := filepath.Base(absDir)
	if name := sanitizePackageName(base); name != "" {
		return name, nil
	}

	return "", fmt.Errorf("cannot derive package name from directory %s", dir)
}

// sanitizePackageName turns a raw name (directory segment or module path
// segment) into a valid Go package name. Invalid characters such as hyphens
// and dots are replaced with underscores, and leading digits are prefixed
// with an underscore.
func sanitizePackageName(raw string) string {
	if raw == "" || raw == "." || raw == "/" {
		return ""
	}

	var b strings.Builder
	for i, r := range raw {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			// Go package names are conventionally lowercase.
			b.WriteRune(r - 'A' + 'a')
		case r == '-' || r == '.':
			if i == 0 {
				continue // drop leading separator
			}
			b.WriteRune('_')
		default:
			// Drop other characters.
		}
	}

	name := b.String()
	if name == "" {
		return ""
	}
	// A package name must not start with a digit.
	if name[0] >= '0' && name[0] <= '9' {
		name = "_" + name
	}
	return name
}

// DetectImportPath walks up from dir looking for go.mod and joins the module
// path with dir's position below it.
func DetectImportPath(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	// Walk up looking for go.mod
	current := absDir
	for {
		goModPath := filepath.Join(current, "go.mod")
		data, readErr := os.ReadFile(goModPath)
		if readErr == nil {
			modFile, parseErr := modfile.Parse(goModPath, data, nil)
			if parseErr != nil {
				return "", fmt.Errorf("cannot parse go.mod: %w", parseErr)
			}

			modulePath := modFile.Module.Mod.Path
			rel, relErr := filepath.Rel(current, absDir)
			if relErr != nil {
				return "", relErr
			}

			if rel == "." {
				return modulePath, nil
			}
			return modulePath + "/" + filepath.ToSlash(rel), nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("go.mod not found in any parent of %s", dir)
		}
		current = parent
	}
}
