// Package executor matches step text against registered definitions and
// invokes them with converted arguments.
package executor

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/denizgursoy/cacik-ui/pkg/cacik"
)

var ErrUndefinedStep = errors.New("undefined step")

var (
	contextType      = reflect.TypeFor[context.Context]()
	cacikContextType = reflect.TypeFor[*cacik.Context]()
	tableType        = reflect.TypeFor[cacik.Table]()
	errorType        = reflect.TypeFor[error]()
)

// StepDefinition holds a compiled regex pattern and its associated function
type StepDefinition struct {
	Pattern  *regexp.Regexp
	Function any
}

// Match is a step definition selected for a step, with its captured
// arguments.
type Match struct {
	Definition StepDefinition
	Args       []string
	// Locs holds [start, end] byte offsets of each capture group, without
	// the full-match pair.
	Locs []int
}

// StepExecutor handles matching and executing step definitions
type StepExecutor struct {
	steps       []StepDefinition
	patternSet  map[string]bool
	customTypes map[string]customType
}

// customType is an enum-like named type whose captured text is looked up,
// case-insensitively, before conversion.
type customType struct {
	underlying reflect.Kind
	values     map[string]string
}

var primitiveKinds = map[string]reflect.Kind{
	"string":  reflect.String,
	"bool":    reflect.Bool,
	"int":     reflect.Int,
	"int8":    reflect.Int8,
	"int16":   reflect.Int16,
	"int32":   reflect.Int32,
	"int64":   reflect.Int64,
	"uint":    reflect.Uint,
	"uint8":   reflect.Uint8,
	"uint16":  reflect.Uint16,
	"uint32":  reflect.Uint32,
	"uint64":  reflect.Uint64,
	"float32": reflect.Float32,
	"float64": reflect.Float64,
}

func NewStepExecutor() *StepExecutor {
	return &StepExecutor{
		patternSet:  make(map[string]bool),
		customTypes: make(map[string]customType),
	}
}

// RegisterCustomType declares the accepted spellings of a named type. values
// maps a lower-case constant name or value to the value it stands for.
func (e *StepExecutor) RegisterCustomType(name, underlying string, values map[string]string) error {
	kind, ok := primitiveKinds[underlying]
	if !ok {
		return fmt.Errorf("custom type %s: unsupported underlying type %q", name, underlying)
	}
	lowered := make(map[string]string, len(values))
	for k, v := range values {
		lowered[strings.ToLower(k)] = v
	}
	e.customTypes[name] = customType{underlying: kind, values: lowered}
	return nil
}

// RegisterStep registers fn for pattern. The function may take
// *cacik.Context, context.Context and cacik.Table in any position, and one
// string, bool, integer or float parameter per capture group. It may return
// nothing or an error.
func (e *StepExecutor) RegisterStep(pattern string, fn any) error {
	if e.patternSet[pattern] {
		return fmt.Errorf("duplicate step pattern: %s", pattern)
	}

	compiled, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid step pattern %q: %w", pattern, err)
	}

	fnType := reflect.TypeOf(fn)
	if fnType == nil || fnType.Kind() != reflect.Func {
		return fmt.Errorf("step handler must be a function, got %T", fn)
	}
	if err := checkSignature(fnType, compiled.NumSubexp()); err != nil {
		return fmt.Errorf("step %q: %w", pattern, err)
	}

	e.steps = append(e.steps, StepDefinition{Pattern: compiled, Function: fn})
	e.patternSet[pattern] = true
	return nil
}

func checkSignature(fnType reflect.Type, groups int) error {
	captured := 0
	for i := range fnType.NumIn() {
		switch p := fnType.In(i); {
		case p == cacikContextType, p == contextType, p == tableType:
		case convertible(p):
			captured++
		default:
			return fmt.Errorf("unsupported parameter type %s", p)
		}
	}
	if captured > groups {
		return fmt.Errorf("function takes %d arguments but the pattern captures %d", captured, groups)
	}
	if fnType.NumOut() > 1 || (fnType.NumOut() == 1 && fnType.Out(0) != errorType) {
		return fmt.Errorf("step must return nothing or error, got %s", fnType)
	}
	return nil
}

func convertible(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// Len is the number of registered definitions.
func (e *StepExecutor) Len() int {
	return len(e.steps)
}

// Match returns the first definition, in registration order, whose pattern
// matches text.
func (e *StepExecutor) Match(text string) (*Match, error) {
	for _, def := range e.steps {
		idx := def.Pattern.FindStringSubmatchIndex(text)
		if idx == nil {
			continue
		}
		m := &Match{Definition: def, Locs: idx[2:]}
		for i := 2; i+1 < len(idx); i += 2 {
			if idx[i] < 0 {
				m.Args = append(m.Args, "")
				continue
			}
			m.Args = append(m.Args, text[idx[i]:idx[i+1]])
		}
		return m, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUndefinedStep, text)
}

// Invoke calls the matched function. A panic inside the step, including a
// failed assertion, is returned as an error.
func (e *StepExecutor) Invoke(c *cacik.Context, m *Match, table cacik.Table) (err error) {
	fnValue := reflect.ValueOf(m.Definition.Function)

	callArgs, err := e.buildCallArgs(fnValue.Type(), c, table, m.Args)
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			err = cacik.Recovered(r)
		}
	}()

	results := fnValue.Call(callArgs)
	if len(results) == 1 && !results[0].IsNil() {
		return results[0].Interface().(error)
	}
	return nil
}

func (e *StepExecutor) buildCallArgs(fnType reflect.Type, c *cacik.Context, table cacik.Table, captured []string) ([]reflect.Value, error) {
	callArgs := make([]reflect.Value, 0, fnType.NumIn())
	next := 0
	for i := range fnType.NumIn() {
		switch p := fnType.In(i); p {
		case cacikContextType:
			callArgs = append(callArgs, reflect.ValueOf(c))
		case contextType:
			callArgs = append(callArgs, reflect.ValueOf(c.Context()))
		case tableType:
			callArgs = append(callArgs, reflect.ValueOf(table))
		default:
			if next >= len(captured) {
				return nil, fmt.Errorf("not enough captured arguments: have %d", len(captured))
			}
			arg, err := e.lookupCustom(captured[next], p)
			if err != nil {
				return nil, err
			}
			v, err := convertArg(arg, p)
			if err != nil {
				return nil, fmt.Errorf("failed to convert argument %q to %s: %w", captured[next], p, err)
			}
			next++
			callArgs = append(callArgs, v)
		}
	}
	return callArgs, nil
}

// lookupCustom maps arg to its canonical value when target is a registered
// custom type.
func (e *StepExecutor) lookupCustom(arg string, target reflect.Type) (string, error) {
	ct, ok := e.customTypes[target.Name()]
	if !ok || ct.underlying != target.Kind() {
		return arg, nil
	}
	v, ok := ct.values[strings.ToLower(arg)]
	if !ok {
		return "", fmt.Errorf("invalid value %q for %s", arg, target.Name())
	}
	return v, nil
}

// convertArg converts a captured string to the parameter's kind.
func convertArg(arg string, target reflect.Type) (reflect.Value, error) {
	v := reflect.New(target).Elem()
	switch target.Kind() {
	case reflect.String:
		v.SetString(arg)
	case reflect.Bool:
		b, err := strconv.ParseBool(arg)
		if err != nil {
			return reflect.Value{}, err
		}
		v.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(arg, 10, target.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(arg, 10, target.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		v.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(arg, target.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		v.SetFloat(f)
	default:
		return reflect.Value{}, fmt.Errorf("unsupported parameter type: %s", target.Kind())
	}
	return v, nil
}
