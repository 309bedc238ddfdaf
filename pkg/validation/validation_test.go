package validation

import (
	"context"
	"errors"
	"testing"

	"github.com/dop251/goja"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/denizgursoy/cacik-ui/pkg/browser"
)

// stubDOM is the minimal browser surface the script touches. The observer
// constructor counts instances and exposes the last callback for triggering.
const stubDOM = `
var window = this;
var observers = 0;
var lastCallback = null;
function MutationObserver(cb) { observers++; lastCallback = cb; }
MutationObserver.prototype.observe = function (target, opts) {
  this.target = target;
  this.opts = opts;
};
function HTMLFormElement() {}
function HTMLInputElement() {}
function HTMLTextAreaElement() {}
var forms = [];
function addForm() {
  var f = new HTMLFormElement();
  f.attrs = {};
  f.setAttribute = function (k, v) { this.attrs[k] = v; };
  forms.push(f);
  return f;
}
var document = {
  body: {},
  querySelectorAll: function (sel) { return sel === 'form' ? forms : []; }
};
`

func newVM(t *testing.T) *goja.Runtime {
	t.Helper()
	vm := goja.New()
	_, err := vm.RunString(stubDOM)
	require.NoError(t, err)
	return vm
}

func run(t *testing.T, vm *goja.Runtime, src string) goja.Value {
	t.Helper()
	v, err := vm.RunString(src)
	require.NoError(t, err)
	return v
}

// =============================================================================
// Script Tests
// =============================================================================

func TestScript(t *testing.T) {
	t.Run("installs a single observer across repeated runs", func(t *testing.T) {
		vm := newVM(t)

		require.Equal(t, int64(1), run(t, vm, Script).ToInteger())
		require.Equal(t, int64(0), run(t, vm, Script).ToInteger())
		require.Equal(t, int64(0), run(t, vm, Script).ToInteger())

		require.Equal(t, int64(1), run(t, vm, "observers").ToInteger())
		require.True(t, run(t, vm, "!!window."+GuardFlag).ToBoolean())
	})

	t.Run("observes document.body subtree", func(t *testing.T) {
		vm := newVM(t)
		run(t, vm, Script)

		require.True(t, run(t, vm, "window."+GuardFlag+".target === document.body").ToBoolean())
		require.True(t, run(t, vm, "window."+GuardFlag+".opts.childList && window."+GuardFlag+".opts.subtree").ToBoolean())
	})

	t.Run("disables validation on controls and forms", func(t *testing.T) {
		vm := newVM(t)
		run(t, vm, "var f = addForm();")
		run(t, vm, Script)

		require.True(t, run(t, vm, "f.noValidate").ToBoolean())
		require.True(t, run(t, vm, "'novalidate' in f.attrs").ToBoolean())
		require.True(t, run(t, vm, "new HTMLInputElement().checkValidity()").ToBoolean())
		require.True(t, run(t, vm, "new HTMLFormElement().reportValidity()").ToBoolean())
		require.True(t, run(t, vm, "new HTMLInputElement().validity.valid").ToBoolean())
		require.Equal(t, "", run(t, vm, "new HTMLTextAreaElement().validationMessage").String())

		required := run(t, vm, "var i = new HTMLInputElement(); i.required = true; i.required")
		require.False(t, required.ToBoolean())
	})

	t.Run("observer callback patches forms added later", func(t *testing.T) {
		vm := newVM(t)
		run(t, vm, Script)
		run(t, vm, "var late = addForm(); lastCallback([]);")

		require.True(t, run(t, vm, "late.noValidate").ToBoolean())
		require.Equal(t, int64(1), run(t, vm, "observers").ToInteger())
	})

	t.Run("page without a body installs nothing", func(t *testing.T) {
		vm := newVM(t)
		run(t, vm, "document.body = null;")

		require.Equal(t, int64(0), run(t, vm, Script).ToInteger())
		require.Equal(t, int64(0), run(t, vm, "observers").ToInteger())
	})
}

// =============================================================================
// Apply Tests
// =============================================================================

func TestApply(t *testing.T) {
	ctx := context.Background()

	t.Run("executes the script in the page", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		b := browser.NewMockBrowser(ctrl)
		b.EXPECT().Execute(ctx, Script, gomock.Any()).Return(nil)

		require.NoError(t, Apply(ctx, b))
	})

	t.Run("wraps execution errors", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		b := browser.NewMockBrowser(ctrl)
		b.EXPECT().Execute(ctx, Script, gomock.Any()).Return(browser.ErrClosed)

		err := Apply(ctx, b)
		require.True(t, errors.Is(err, browser.ErrClosed))
	})
}

func TestInstalled(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	b := browser.NewMockBrowser(ctrl)
	b.EXPECT().Execute(ctx, "!!window."+GuardFlag, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, result any) error {
			*(result.(*bool)) = true
			return nil
		})

	ok, err := Installed(ctx, b)
	require.NoError(t, err)
	require.True(t, ok)
}
