// Package comment_parser finds step definitions, custom parameter types and
// config or hooks providers in Go source, for the generator.
package comment_parser

import (
	"context"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/denizgursoy/cacik-ui/internal/generator"
	"github.com/denizgursoy/cacik-ui/internal/logging"
)

const (
	StepPrefix   = "@cacik"
	SpaceAndTick = " `"
)

// supportedPrimitives lists the underlying types a custom parameter type may
// have.
var supportedPrimitives = map[string]bool{
	"string":  true,
	"int":     true,
	"int8":    true,
	"int16":   true,
	"int32":   true,
	"int64":   true,
	"uint":    true,
	"uint8":   true,
	"uint16":  true,
	"uint32":  true,
	"uint64":  true,
	"float32": true,
	"float64": true,
	"bool":    true,
}

type GoSourceFileParser struct {
	log logrus.FieldLogger
}

func NewGoSourceFileParser(log logrus.FieldLogger) *GoSourceFileParser {
	return &GoSourceFileParser{log: logging.OrDiscard(log)}
}

// sourceFile is a parsed file with the import path of its package.
type sourceFile struct {
	path       string
	importPath string
	node       *ast.File
}

func (g *GoSourceFileParser) ParseFunctionCommentsOfGoFilesInDirectoryRecursively(ctx context.Context, parentDirectory string) (
	*generator.Output, error) {
	files, err := g.parseTree(ctx, parentDirectory)
	if err != nil {
		return nil, err
	}

	output := &generator.Output{
		StepFunctions: make([]*generator.StepFunctionLocator, 0),
		CustomTypes:   make(map[string]*generator.CustomType),
	}

	// Types first, so constants and step placeholders can refer to them
	// across files.
	for _, f := range files {
		parseCustomTypes(f.node, f.importPath, output.CustomTypes)
	}
	for _, f := range files {
		parseConstants(f.node, output.CustomTypes)
	}

	seen := make(map[string]string)
	for _, f := range files {
		for _, dec := range f.node.Decls {
			decl, ok := dec.(*ast.FuncDecl)
			if !ok || decl.Recv != nil {
				continue
			}
			locator := &generator.FunctionLocator{FullPackageName: f.importPath, FunctionName: decl.Name.Name}

			switch {
			case IsConfigFunction(decl):
				output.ConfigFunctions = append(output.ConfigFunctions, locator)
			case IsHooksFunction(decl):
				output.HooksFunctions = append(output.HooksFunctions, locator)
			default:
				step, isStepFunction := IsStepFunction(decl)
				if !isStepFunction {
					continue
				}
				pattern, err := transformStepPattern(*step, output.CustomTypes)
				if err != nil {
					return nil, fmt.Errorf("error in function %s: %w", decl.Name.Name, err)
				}
				where := f.importPath + "." + decl.Name.Name
				if previous, ok := seen[pattern]; ok {
					return nil, fmt.Errorf("duplicate step pattern %q in %s and %s", pattern, previous, where)
				}
				seen[pattern] = where
				output.StepFunctions = append(output.StepFunctions, &generator.StepFunctionLocator{
					StepName:        pattern,
					FunctionLocator: locator,
				})
			}
		}
	}

	g.log.WithFields(logrus.Fields{
		"dir":   parentDirectory,
		"steps": len(output.StepFunctions),
		"types": len(output.CustomTypes),
	}).Debug("parsed step definitions")
	return output, nil
}

// parseTree parses every Go file under dir, in lexical order, skipping
// testdata and hidden directories below the root.
func (g *GoSourceFileParser) parseTree(ctx context.Context, dir string) ([]sourceFile, error) {
	var files []sourceFile
	importPaths := make(map[string]string)
	fset := token.NewFileSet()

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != dir && (name == "testdata" || name == "vendor" || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}

		pkgDir := filepath.Dir(path)
		importPath, ok := importPaths[pkgDir]
		if !ok {
			importPath, err = generator.DetectImportPath(pkgDir)
			if err != nil {
				return err
			}
			importPaths[pkgDir] = importPath
		}

		node, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
		if err != nil {
			return err
		}
		files = append(files, sourceFile{path: path, importPath: importPath, node: node})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse go files in %s: %w", dir, err)
	}
	return files, nil
}

// parseCustomTypes finds declarations like `type TokenState string`.
func parseCustomTypes(file *ast.File, packagePath string, customTypes map[string]*generator.CustomType) {
	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.TYPE {
			continue
		}

		for _, spec := range genDecl.Specs {
			typeSpec, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			ident, ok := typeSpec.Type.(*ast.Ident)
			if !ok || !supportedPrimitives[ident.Name] {
				continue
			}

			typeName := typeSpec.Name.Name
			customTypes[strings.ToLower(typeName)] = &generator.CustomType{
				Name:        typeName,
				PackagePath: packagePath,
				Underlying:  ident.Name,
				Values:      make(map[string]string),
			}
		}
	}
}

// parseConstants collects the constants declared with a known custom type,
// following iota and implicit repetition inside const blocks.
func parseConstants(file *ast.File, customTypes map[string]*generator.CustomType) {
	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.CONST {
			continue
		}

		var (
			currentType string
			lastExpr    ast.Expr
		)
		for iotaValue, spec := range genDecl.Specs {
			valueSpec, ok := spec.(*ast.ValueSpec)
			if !ok {
				continue
			}

			if ident, ok := valueSpec.Type.(*ast.Ident); ok {
				currentType = ident.Name
			} else if valueSpec.Type != nil || len(valueSpec.Values) > 0 {
				// A new untyped or foreign-typed constant ends the run.
				currentType = ""
			}

			ct, ok := customTypes[strings.ToLower(currentType)]
			if !ok {
				continue
			}

			for i, name := range valueSpec.Names {
				expr := lastExpr
				if i < len(valueSpec.Values) {
					expr = valueSpec.Values[i]
					lastExpr = expr
				}

				var value string
				switch {
				case expr != nil:
					value = evaluateConstExpr(expr, int64(iotaValue), ct.Underlying)
				case isIntType(ct.Underlying):
					value = strconv.Itoa(iotaValue)
				}
				if value != "" {
					ct.Values[name.Name] = value
				}
			}
		}
	}
}

// evaluateConstExpr folds literals, iota and simple integer arithmetic.
// Anything else evaluates to "".
func evaluateConstExpr(expr ast.Expr, iotaValue int64, underlying string) string {
	switch e := expr.(type) {
	case *ast.BasicLit:
		if e.Kind == token.STRING {
			if s, err := strconv.Unquote(e.Value); err == nil {
				return s
			}
		}
		return e.Value

	case *ast.Ident:
		switch e.Name {
		case "iota":
			return strconv.FormatInt(iotaValue, 10)
		case "true", "false":
			return e.Name
		}
		return ""

	case *ast.BinaryExpr:
		if !isIntType(underlying) {
			return ""
		}
		left, err1 := strconv.ParseInt(evaluateConstExpr(e.X, iotaValue, underlying), 10, 64)
		right, err2 := strconv.ParseInt(evaluateConstExpr(e.Y, iotaValue, underlying), 10, 64)
		if err1 != nil || err2 != nil {
			return ""
		}
		switch e.Op {
		case token.ADD:
			return strconv.FormatInt(left+right, 10)
		case token.SUB:
			return strconv.FormatInt(left-right, 10)
		case token.MUL:
			return strconv.FormatInt(left*right, 10)
		case token.QUO:
			if right != 0 {
				return strconv.FormatInt(left/right, 10)
			}
		}
		return ""

	case *ast.UnaryExpr:
		if e.Op == token.SUB {
			if v := evaluateConstExpr(e.X, iotaValue, underlying); v != "" {
				return "-" + v
			}
		}
		return ""

	case *ast.ParenExpr:
		return evaluateConstExpr(e.X, iotaValue, underlying)
	}
	return ""
}

func isIntType(typeName string) bool {
	switch typeName {
	case "int", "int8", "int16", "int32", "int64",
		"uint", "uint8", "uint16", "uint32", "uint64":
		return true
	}
	return false
}

// builtInTypes maps {placeholder} names to their capture groups.
var builtInTypes = map[string]string{
	"int":    `(-?\d+)`,
	"float":  `(-?\d*\.?\d+)`,
	"word":   `(\w+)`,
	"string": `"([^"]*)"`, // content without the quotes
	"":       `(.*)`,
	"any":    `(.*)`,

	// user@example.com, user.name+tag@sub.domain.org
	"email": `([a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,})`,

	// time.Duration strings: 5s, 1h30m, 500ms
	"duration": `(-?(?:\d+\.?\d*(?:ns|us|µs|ms|s|m|h))+)`,

	"url": `(https?://[^\s]+)`,

	// Locator keys as they appear in the locator table: login-button, email_input.
	"key": `([A-Za-z0-9_-]+)`,
}

// transformStepPattern replaces {typename} placeholders with capture groups
// for built-in or custom types.
func transformStepPattern(pattern string, customTypes map[string]*generator.CustomType) (string, error) {
	result := pattern
	start := 0

	for {
		openBrace := strings.Index(result[start:], "{")
		if openBrace == -1 {
			break
		}
		openBrace += start

		closeBrace := strings.Index(result[openBrace:], "}")
		if closeBrace == -1 {
			break
		}
		closeBrace += openBrace

		typeName := result[openBrace+1 : closeBrace]
		// Regex quantifiers such as {2,} are left alone.
		if isQuantifier(typeName) {
			start = closeBrace + 1
			continue
		}

		regexPattern, ok := builtInTypes[strings.ToLower(typeName)]
		if !ok {
			ct, ok := customTypes[strings.ToLower(typeName)]
			if !ok {
				return "", fmt.Errorf("unknown parameter type {%s} in step pattern (not a built-in type or custom type)", typeName)
			}
			if len(ct.Values) == 0 {
				return "", fmt.Errorf("custom type %s has no defined constants", ct.Name)
			}
			regexPattern = "(" + ct.RegexPattern() + ")"
		}

		result = result[:openBrace] + regexPattern + result[closeBrace+1:]
		start = openBrace + len(regexPattern)
	}

	return result, nil
}

func isQuantifier(s string) bool {
	return s != "" && strings.Trim(s, "0123456789,") == ""
}

// IsConfigFunction reports a function returning *cacik.Config.
func IsConfigFunction(fnDecl *ast.FuncDecl) bool {
	return returnsOnly(fnDecl, "Config")
}

// IsHooksFunction reports a function returning *cacik.Hooks.
func IsHooksFunction(fnDecl *ast.FuncDecl) bool {
	return returnsOnly(fnDecl, "Hooks")
}

func returnsOnly(fnDecl *ast.FuncDecl, typeName string) bool {
	if fnDecl.Type.Params.NumFields() != 0 || fnDecl.Type.Results.NumFields() != 1 {
		return false
	}
	return slices.Contains([]string{"*cacik." + typeName, "*" + typeName},
		analyzeExpr(fnDecl.Type.Results.List[0].Type))
}

func IsStepFunction(decl *ast.FuncDecl) (*string, bool) {
	if with := GetCommentLineStartingWith(StepPrefix, decl); with != nil {
		return with, true
	}
	return nil, false
}

// GetCommentLineStartingWith returns the back-quoted text following keyword
// in the function's doc comment.
func GetCommentLineStartingWith(keyword string, fnDecl *ast.FuncDecl) *string {
	if fnDecl.Doc == nil {
		return nil
	}
	prefix := "// " + keyword
	for _, comment := range fnDecl.Doc.List {
		text := comment.Text
		if !strings.HasPrefix(text, prefix) {
			continue
		}
		startIndex := len(prefix) + len(SpaceAndTick)
		if len(text)-startIndex > 2 {
			stepDefinition := text[startIndex : len(text)-1]
			return &stepDefinition
		}
	}
	return nil
}

func analyzeExpr(expr ast.Expr) string {
	switch expr := expr.(type) {
	case *ast.Ident:
		return expr.Name
	case *ast.SelectorExpr:
		return analyzeExpr(expr.X) + "." + expr.Sel.Name
	case *ast.StarExpr:
		return "*" + analyzeExpr(expr.X)
	case *ast.ParenExpr:
		return analyzeExpr(expr.X)
	case *ast.ArrayType:
		return "[]" + analyzeExpr(expr.Elt)
	case *ast.MapType:
		return "map[" + analyzeExpr(expr.Key) + "]" + analyzeExpr(expr.Value)
	}
	return "unknown"
}
