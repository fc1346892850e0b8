package proxy

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/patternkit/internal/testkit"
)

const orders = `
declarations:
  - name: IOrderService
    namespace: Demo
    kind: interface
    modifiers: [partial]
    accessibility: public
    attributes: [{name: GenerateProxy, named: {InterceptorMode: None}}]
    members:
      - name: Total
        kind: method
        returns: decimal
        parameters: [{name: orderId, type: int}]
      - name: Cancel
        kind: method
        parameters: [{name: orderId, type: int}]
      - name: LoadAsync
        kind: method
        returns: ValueTask<string>
        parameters:
          - {name: orderId, type: int}
          - {name: cancellationToken, type: CancellationToken}
      - name: Region
        kind: property
        type: string
        accessors: [get]
`

const directText = `// <auto-generated />
#nullable enable

namespace Demo
{
    public sealed partial class OrderServiceProxy : IOrderService
    {
        private readonly IOrderService _inner;

        public OrderServiceProxy(IOrderService inner)
        {
            _inner = inner ?? throw new global::System.ArgumentNullException(nameof(inner));
        }

        public decimal Total(int orderId) => _inner.Total(orderId);

        public void Cancel(int orderId) => _inner.Cancel(orderId);

        public global::System.Threading.Tasks.ValueTask<string> LoadAsync(int orderId, global::System.Threading.CancellationToken cancellationToken) => _inner.LoadAsync(orderId, cancellationToken);

        public string Region
        {
            get => _inner.Region;
        }
    }
}
`

func withMode(mode string) string {
	return strings.Replace(orders, "{InterceptorMode: None}", "{InterceptorMode: "+mode+"}", 1)
}

func TestDirectForwarding(t *testing.T) {
	out := testkit.Run(t, New(), orders, "Demo.IOrderService")
	require.Empty(t, out.Diagnostics)
	assert.Equal(t, []string{"Demo.IOrderService.Proxy.g"}, testkit.Keys(out.Documents))

	text := testkit.Doc(t, out, "Demo.IOrderService.Proxy.g")
	assert.Equal(t, directText, text)
	assert.NotContains(t, strings.ToLower(text), "interceptor")
}

func TestSingleInterceptor(t *testing.T) {
	out := testkit.Run(t, New(), withMode("Single"), "Demo.IOrderService")
	require.Empty(t, out.Diagnostics)
	assert.Equal(t, []string{"Demo.IOrderService.Proxy.g", "Demo.IOrderService.Proxy.Interceptor.g"}, testkit.Keys(out.Documents))
	text := testkit.Doc(t, out, "Demo.IOrderService.Proxy.g")

	assert.Contains(t, text, "private readonly IOrderServiceInterceptor? _interceptor;")
	assert.Contains(t, text, "public OrderServiceProxy(IOrderService inner, IOrderServiceInterceptor? interceptor = null)")

	want := `        public decimal Total(int orderId)
        {
            var interceptor = _interceptor;
            if (interceptor is null)
            {
                return _inner.Total(orderId);
            }
            var invocation = new OrderServiceInvocation("Total", new object?[] { orderId });
            interceptor.Before(invocation);
            decimal result;
            try
            {
                result = _inner.Total(orderId);
            }
            catch (global::System.Exception ex)
            {
                interceptor.OnException(invocation, ex);
                throw;
            }
            invocation.Result = result;
            interceptor.After(invocation);
            return result;
        }
`
	assert.Contains(t, text, want)
	// properties are forwarded without interception
	assert.Contains(t, text, "get => _inner.Region;")
}

func TestVoidAndAsyncInterception(t *testing.T) {
	text := testkit.Doc(t, testkit.Run(t, New(), withMode("Single"), "Demo.IOrderService"), "Demo.IOrderService.Proxy.g")

	cancel := text[strings.Index(text, "public void Cancel"):strings.Index(text, "LoadAsync(")]
	assert.Contains(t, cancel, "_inner.Cancel(orderId);\n                return;")
	assert.NotContains(t, cancel, "result")

	load := text[strings.Index(text, "LoadAsync("):]
	assert.Contains(t, text, "public async global::System.Threading.Tasks.ValueTask<string> LoadAsync(")
	assert.Contains(t, load, "return await _inner.LoadAsync(orderId, cancellationToken).ConfigureAwait(false);")
	assert.Contains(t, load, "string result;")
	assert.Contains(t, load, "result = await _inner.LoadAsync(orderId, cancellationToken).ConfigureAwait(false);")
}

func TestAsyncDisabledReturnsTask(t *testing.T) {
	src := strings.Replace(orders, "{InterceptorMode: None}", "{InterceptorMode: Single, GenerateAsync: false}", 1)
	text := testkit.Doc(t, testkit.Run(t, New(), src, "Demo.IOrderService"), "Demo.IOrderService.Proxy.g")
	assert.NotContains(t, text, "async")
	assert.Contains(t, text, "global::System.Threading.Tasks.ValueTask<string> result;")
}

func TestPipelineOrdering(t *testing.T) {
	out := testkit.Run(t, New(), withMode("Pipeline"), "Demo.IOrderService")
	require.Empty(t, out.Diagnostics)
	text := testkit.Doc(t, out, "Demo.IOrderService.Proxy.g")

	assert.Contains(t, text, "public OrderServiceProxy(IOrderService inner, params IOrderServiceInterceptor[] interceptors)")
	total := text[strings.Index(text, "public decimal Total"):strings.Index(text, "public void Cancel")]

	before := "            for (var i = 0; i < interceptors.Length; i++)\n            {\n                interceptors[i].Before(invocation);\n            }\n"
	onError := "                for (var i = interceptors.Length - 1; i >= 0; i--)\n                {\n                    interceptors[i].OnException(invocation, ex);\n                }\n"
	after := "            for (var i = interceptors.Length - 1; i >= 0; i--)\n            {\n                interceptors[i].After(invocation);\n            }\n"
	assert.Contains(t, total, before)
	assert.Contains(t, total, onError)
	assert.Contains(t, total, after)
	assert.Less(t, strings.Index(total, before), strings.Index(total, "result = _inner.Total(orderId);"))
	assert.Less(t, strings.Index(total, "invocation.Result = result;"), strings.Index(total, after))
}

func TestInterceptorContract(t *testing.T) {
	out := testkit.Run(t, New(), withMode("Single"), "Demo.IOrderService")
	text := testkit.Doc(t, out, "Demo.IOrderService.Proxy.Interceptor.g")
	assert.Contains(t, text, "public interface IOrderServiceInterceptor")
	assert.Contains(t, text, "void OnException(OrderServiceInvocation invocation, global::System.Exception exception);")
	assert.Contains(t, text, "public sealed class OrderServiceInvocation")
	assert.Contains(t, text, "public object? Result { get; set; }")
}

func TestIgnoredMemberForwardsDirectly(t *testing.T) {
	src := strings.Replace(withMode("Single"), "        returns: decimal\n", "        returns: decimal\n        attributes: [{name: ProxyIgnore}]\n", 1)
	text := testkit.Doc(t, testkit.Run(t, New(), src, "Demo.IOrderService"), "Demo.IOrderService.Proxy.g")
	assert.Contains(t, text, "public decimal Total(int orderId) => _inner.Total(orderId);")
}

func TestCustomProxyName(t *testing.T) {
	src := strings.Replace(orders, "named: {InterceptorMode: None}", "args: [OrdersForwarder], named: {InterceptorMode: None}", 1)
	text := testkit.Doc(t, testkit.Run(t, New(), src, "Demo.IOrderService"), "Demo.IOrderService.Proxy.g")
	assert.Contains(t, text, "public sealed partial class OrdersForwarder : IOrderService")
}

func TestAbstractClassContract(t *testing.T) {
	src := `
declarations:
  - name: Repository
    namespace: Demo
    kind: class
    modifiers: [partial, abstract]
    attributes: [{name: GenerateProxy, named: {InterceptorMode: None}}]
    members:
      - name: Find
        kind: method
        returns: string
        accessibility: public
        modifiers: [abstract]
        parameters: [{name: id, type: int}]
      - name: Log
        kind: method
        accessibility: protected
        modifiers: [virtual]
      - name: Helper
        kind: method
        accessibility: public
`
	out := testkit.Run(t, New(), src, "Demo.Repository")
	assert.Equal(t, []string{"PKPRX006"}, testkit.IDs(out))
	text := testkit.Doc(t, out, "Demo.Repository.Proxy.g")
	assert.Contains(t, text, "internal sealed partial class RepositoryProxy : Repository")
	assert.Contains(t, text, "public override string Find(int id) => _inner.Find(id);")
	assert.NotContains(t, text, "Log")
	assert.NotContains(t, text, "Helper")
}

func TestByRefWithoutInterception(t *testing.T) {
	src := strings.Replace(orders, "        parameters: [{name: orderId, type: int}]\n      - name: LoadAsync",
		"        parameters: [{name: orderId, type: int, ref: ref}]\n      - name: LoadAsync", 1)
	out := testkit.Run(t, New(), src, "Demo.IOrderService")
	require.Empty(t, out.Diagnostics)
	assert.Contains(t, testkit.Doc(t, out, "Demo.IOrderService.Proxy.g"), "public void Cancel(ref int orderId) => _inner.Cancel(ref orderId);")
}

func TestDiagnostics(t *testing.T) {
	collision := `
  - name: OrderServiceProxy
    namespace: Demo
    kind: class
`
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"not partial", strings.Replace(orders, "modifiers: [partial]", "modifiers: []", 1), []string{"PKPRX001"}},
		{"generic contract", strings.Replace(orders, "accessibility: public\n    attributes", "accessibility: public\n    type_parameters: [T]\n    attributes", 1), []string{"PKPRX002"}},
		{"generic method", strings.Replace(orders, "        returns: decimal\n", "        returns: decimal\n        type_parameters: [T]\n", 1), []string{"PKPRX003"}},
		{"event", orders + "      - {name: Changed, kind: event, type: EventHandler}\n", []string{"PKPRX004"}},
		{"concrete class", strings.Replace(orders, "kind: interface", "kind: class", 1), []string{"PKPRX005"}},
		{"struct", strings.Replace(orders, "kind: interface", "kind: struct", 1), []string{"PKPRX005"}},
		{"name collision", orders + strings.TrimPrefix(collision, "\n"), []string{"PKPRX007"}},
		{"by-ref intercepted", strings.Replace(withMode("Single"), "        parameters: [{name: orderId, type: int}]\n      - name: LoadAsync",
			"        parameters: [{name: orderId, type: int, ref: out}]\n      - name: LoadAsync", 1), []string{"PKPRX008"}},
		{"invalid mode", withMode("Chain"), []string{"PKPRX009"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotEqual(t, orders, tt.src)
			out := testkit.Run(t, New(), tt.src, "Demo.IOrderService")
			assert.Equal(t, tt.want, testkit.IDs(out))
			assert.Empty(t, out.Documents)
		})
	}
}

func TestPartialProxyTypeIsAllowed(t *testing.T) {
	src := orders + `  - name: OrderServiceProxy
    namespace: Demo
    kind: class
    modifiers: [partial]
`
	out := testkit.Run(t, New(), src, "Demo.IOrderService")
	require.Empty(t, out.Diagnostics)
	assert.Len(t, out.Documents, 1)
}
