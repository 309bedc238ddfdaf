package generator

import (
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const loginPackage = "github.com/example/shop/steps/login"

func loginOutput() *Output {
	return &Output{
		PackageName:        "features",
		CurrentPackagePath: "github.com/example/shop/features",
		ConfigFunctions: []*FunctionLocator{
			{FullPackageName: loginPackage, FunctionName: "LoginConfig"},
		},
		HooksFunctions: []*FunctionLocator{
			{FullPackageName: loginPackage, FunctionName: "LoginHooks"},
		},
		CustomTypes: map[string]*CustomType{
			"tokenstate": {
				Name:        "TokenState",
				PackagePath: loginPackage,
				Underlying:  "string",
				Values:      map[string]string{"TokenValid": "valid", "TokenExpired": "expired"},
			},
		},
		StepFunctions: []*StepFunctionLocator{
			{
				StepName:        `^the user enters "([^"]*)" into the email field$`,
				FunctionLocator: &FunctionLocator{FullPackageName: loginPackage, FunctionName: "EnterEmail"},
			},
			{
				StepName:        `^the dashboard is open$`,
				FunctionLocator: &FunctionLocator{FullPackageName: "github.com/example/shop/features", FunctionName: "DashboardOpen"},
			},
		},
	}
}

// =============================================================================
// Generate Tests
// =============================================================================

func TestOutput_Generate(t *testing.T) {
	t.Run("generates a runnable test file", func(t *testing.T) {
		builder := &strings.Builder{}
		require.NoError(t, loginOutput().Generate(builder))
		code := builder.String()

		_, err := parser.ParseFile(token.NewFileSet(), "cacik_test.go", code, 0)
		require.NoError(t, err, code)

		require.Contains(t, code, "// Code generated by cacik-ui generate. DO NOT EDIT.")
		require.Contains(t, code, "package features")
		require.Contains(t, code, `"github.com/denizgursoy/cacik-ui/pkg/runner"`)
		require.Contains(t, code, "func TestCacik(t *testing.T)")
		require.Contains(t, code, "config := cacik.MergeConfigs(login.LoginConfig())")
		require.Contains(t, code, "hooks := []*cacik.Hooks{login.LoginHooks()}")
		require.Contains(t, code, "runner.NewCucumberRunner().")
		require.Contains(t, code, "WithTestingT(t).")
		require.Contains(t, code, "WithConfig(config).")
		require.Contains(t, code, "WithHooks(hooks...).")
		require.Contains(t, code, "t.Fatal(err)")
	})

	t.Run("registers custom types before steps", func(t *testing.T) {
		builder := &strings.Builder{}
		require.NoError(t, loginOutput().Generate(builder))
		code := builder.String()

		require.Contains(t, code, `RegisterCustomType("TokenState", "string", map[string]string{`)
		require.Regexp(t, `"tokenvalid":\s+"valid"`, code)
		require.Regexp(t, `"expired":\s+"expired"`, code)

		typeAt := strings.Index(code, "RegisterCustomType")
		stepAt := strings.Index(code, "RegisterStep")
		require.Less(t, typeAt, stepAt)
	})

	t.Run("qualifies only functions from other packages", func(t *testing.T) {
		builder := &strings.Builder{}
		require.NoError(t, loginOutput().Generate(builder))
		code := builder.String()

		require.Contains(t, code, "login.EnterEmail)")
		require.Contains(t, code, "RegisterStep(\"^the dashboard is open$\", DashboardOpen)")
	})

	t.Run("omits config and hooks when none were found", func(t *testing.T) {
		builder := &strings.Builder{}
		require.NoError(t, (&Output{}).Generate(builder))
		code := builder.String()

		require.Contains(t, code, "package main")
		require.NotContains(t, code, "WithConfig")
		require.NotContains(t, code, "WithHooks")
		require.Contains(t, code, "Run()")
	})

	t.Run("output is stable across runs", func(t *testing.T) {
		first, second := &strings.Builder{}, &strings.Builder{}
		require.NoError(t, loginOutput().Generate(first))
		require.NoError(t, loginOutput().Generate(second))
		require.Equal(t, first.String(), second.String())
	})
}

// =============================================================================
// Custom Type Tests
// =============================================================================

func TestCustomType(t *testing.T) {
	ct := &CustomType{
		Name:       "Priority",
		Underlying: "int",
		Values:     map[string]string{"Low": "1", "High": "3"},
	}

	t.Run("names and values are both accepted", func(t *testing.T) {
		require.Equal(t, map[string]string{"low": "1", "1": "1", "high": "3", "3": "3"}, ct.NamesAndValues())
	})

	t.Run("regex pattern is sorted and case insensitive", func(t *testing.T) {
		require.Equal(t, "(?i:1|3|high|low)", ct.RegexPattern())
	})

	t.Run("regex pattern escapes metacharacters", func(t *testing.T) {
		dotted := &CustomType{Name: "Version", Underlying: "string", Values: map[string]string{"V1": "1.0"}}
		require.Equal(t, `(?i:1\.0|v1)`, dotted.RegexPattern())
	})
}

// =============================================================================
// Merge Tests
// =============================================================================

func TestOutput_Merge(t *testing.T) {
	t.Run("appends definitions and types", func(t *testing.T) {
		out := &Output{}
		require.NoError(t, out.Merge(loginOutput()))
		require.NoError(t, out.Merge(&Output{
			StepFunctions: []*StepFunctionLocator{{
				StepName:        "^another step$",
				FunctionLocator: &FunctionLocator{FullPackageName: "b", FunctionName: "Another"},
			}},
			CustomTypes: map[string]*CustomType{"priority": {Name: "Priority"}},
		}))

		require.Len(t, out.StepFunctions, 3)
		require.Len(t, out.ConfigFunctions, 1)
		require.Len(t, out.HooksFunctions, 1)
		require.Contains(t, out.CustomTypes, "tokenstate")
		require.Contains(t, out.CustomTypes, "priority")
	})

	t.Run("rejects a pattern defined twice", func(t *testing.T) {
		out := loginOutput()
		err := out.Merge(&Output{StepFunctions: []*StepFunctionLocator{{
			StepName:        "^the dashboard is open$",
			FunctionLocator: &FunctionLocator{FullPackageName: "other", FunctionName: "Open"},
		}}})
		require.ErrorContains(t, err, "duplicate step pattern")
		require.ErrorContains(t, err, "other.Open")
	})

	t.Run("nil is a no-op", func(t *testing.T) {
		out := loginOutput()
		require.NoError(t, out.Merge(nil))
		require.Len(t, out.StepFunctions, 2)
	})
}
