package generator

import (
	"fmt"
	"io"
	"maps"
	"regexp"
	"slices"
	"strings"

	"github.com/dave/jennifer/jen"
)

const (
	cacikPackage  = "github.com/denizgursoy/cacik-ui/pkg/cacik"
	runnerPackage = "github.com/denizgursoy/cacik-ui/pkg/runner"
)

type (
	FunctionLocator struct {
		FullPackageName string
		FunctionName    string
	}

	StepFunctionLocator struct {
		StepName string
		*FunctionLocator
	}

	// CustomType is a named primitive such as `type TokenState string`,
	// with the constants declared for it.
	CustomType struct {
		Name        string
		PackagePath string
		Underlying  string            // "string", "int", "float64", ...
		Values      map[string]string // constant name -> value, e.g. {"TokenValid": "valid"}
	}

	Output struct {
		ConfigFunctions    []*FunctionLocator // Functions returning *cacik.Config
		HooksFunctions     []*FunctionLocator // Functions returning *cacik.Hooks
		StepFunctions      []*StepFunctionLocator
		CustomTypes        map[string]*CustomType // lowercase type name -> CustomType
		CurrentPackagePath string                 // Full import path of the package where the test file is generated
		PackageName        string                 // Short package name (e.g., "myapp"); if empty, defaults to "main"
	}
)

// NamesAndValues maps every lowercased constant name and value to the value,
// the lookup table the executor matches captures against.
func (ct *CustomType) NamesAndValues() map[string]string {
	result := make(map[string]string, 2*len(ct.Values))
	for name, value := range ct.Values {
		result[strings.ToLower(name)] = value
		result[strings.ToLower(value)] = value
	}
	return result
}

// RegexPattern is a case-insensitive alternation of every constant name and
// value, sorted so generated code is stable.
func (ct *CustomType) RegexPattern() string {
	parts := make([]string, 0, 2*len(ct.Values))
	for key := range ct.NamesAndValues() {
		parts = append(parts, regexp.QuoteMeta(key))
	}
	slices.Sort(parts)
	return "(?i:" + strings.Join(parts, "|") + ")"
}

// isSamePackage returns true when the function is in the same package as the
// generated test file and therefore should be called without an import qualifier.
func (o *Output) isSamePackage(fullPkg string) bool {
	return o.CurrentPackagePath != "" && fullPkg == o.CurrentPackagePath
}

// qualOrLocal returns a jen.Statement that either qualifies the function call with
// its package path (for external packages) or calls it directly (for same-package).
func (o *Output) qualOrLocal(fullPkg, funcName string) *jen.Statement {
	if o.isSamePackage(fullPkg) {
		return jen.Id(funcName)
	}
	return jen.Qual(fullPkg, funcName)
}

// Merge appends other's definitions. A step pattern defined in both is an
// error, as the runner would reject it.
func (o *Output) Merge(other *Output) error {
	if other == nil {
		return nil
	}
	for _, existing := range o.StepFunctions {
		for _, step := range other.StepFunctions {
			if existing.StepName == step.StepName {
				return fmt.Errorf("duplicate step pattern %q in %s.%s and %s.%s", step.StepName,
					existing.FullPackageName, existing.FunctionName, step.FullPackageName, step.FunctionName)
			}
		}
	}
	o.ConfigFunctions = append(o.ConfigFunctions, other.ConfigFunctions...)
	o.HooksFunctions = append(o.HooksFunctions, other.HooksFunctions...)
	o.StepFunctions = append(o.StepFunctions, other.StepFunctions...)
	if o.CustomTypes == nil {
		o.CustomTypes = make(map[string]*CustomType)
	}
	maps.Copy(o.CustomTypes, other.CustomTypes)
	return nil
}

// Generate writes a test file whose TestCacik runs every feature through a
// runner with everything in o registered.
func (o *Output) Generate(writer io.Writer) error {
	pkgName := o.PackageName
	if pkgName == "" {
		pkgName = "main"
	}
	file := jen.NewFile(pkgName)
	file.HeaderComment("Code generated by cacik-ui generate. DO NOT EDIT.")

	var statements []jen.Code

	if len(o.ConfigFunctions) > 0 {
		configCalls := make([]jen.Code, 0, len(o.ConfigFunctions))
		for _, cf := range o.ConfigFunctions {
			configCalls = append(configCalls, o.qualOrLocal(cf.FullPackageName, cf.FunctionName).Call())
		}
		statements = append(statements,
			jen.Id("config").Op(":=").Qual(cacikPackage, "MergeConfigs").Call(configCalls...),
		)
	}

	if len(o.HooksFunctions) > 0 {
		hooksCalls := make([]jen.Code, 0, len(o.HooksFunctions))
		for _, hf := range o.HooksFunctions {
			hooksCalls = append(hooksCalls, o.qualOrLocal(hf.FullPackageName, hf.FunctionName).Call())
		}
		statements = append(statements,
			jen.Id("hooks").Op(":=").Index().Op("*").Qual(cacikPackage, "Hooks").Values(hooksCalls...),
		)
	}

	runnerChain := jen.Id("err").Op(":=").Qual(runnerPackage, "NewCucumberRunner").Call().Id(".").Line().
		Id("WithTestingT").Call(jen.Id("t")).Id(".").Line()

	if len(o.ConfigFunctions) > 0 {
		runnerChain.Id("WithConfig").Call(jen.Id("config")).Id(".").Line()
	}
	if len(o.HooksFunctions) > 0 {
		runnerChain.Id("WithHooks").Call(jen.Id("hooks").Op("...")).Id(".").Line()
	}

	// Custom types before the steps that capture them.
	for _, key := range slices.Sorted(maps.Keys(o.CustomTypes)) {
		ct := o.CustomTypes[key]
		valuesMap := jen.Map(jen.String()).String().Values(jen.DictFunc(func(d jen.Dict) {
			for k, v := range ct.NamesAndValues() {
				d[jen.Lit(k)] = jen.Lit(v)
			}
		}))
		runnerChain.Id("RegisterCustomType").Call(
			jen.Lit(ct.Name),
			jen.Lit(ct.Underlying),
			valuesMap,
		).Id(".").Line()
	}

	for _, function := range o.StepFunctions {
		runnerChain.Id("RegisterStep").Call(jen.Lit(function.StepName), o.qualOrLocal(function.FullPackageName, function.FunctionName)).Id(".").Line()
	}

	runnerChain.Id("Run").Call()
	statements = append(statements,
		runnerChain,
		jen.If(jen.Id("err").Op("!=").Nil()).Block(
			jen.Id("t").Dot("Fatal").Call(jen.Id("err")),
		),
	)

	file.Func().Id("TestCacik").Params(
		jen.Id("t").Op("*").Qual("testing", "T"),
	).Block(statements...)

	return file.Render(writer)
}
