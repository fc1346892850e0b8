package observer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/patternkit/internal/testkit"
)

const stream = `
declarations:
  - name: Reading
    namespace: Sensors
    kind: record
  - name: TemperatureStream
    namespace: Sensors
    kind: class
    modifiers: [partial]
    attributes:
      - name: Observer
        args: [Reading]
        named: {ExceptionPolicy: Aggregate}
`

func generate(t *testing.T, named string) string {
	t.Helper()
	src := strings.Replace(stream, "{ExceptionPolicy: Aggregate}", "{"+named+"}", 1)
	out := testkit.Run(t, New(), src, "Sensors.TemperatureStream")
	require.Empty(t, out.Diagnostics)
	return testkit.Doc(t, out, "Sensors.TemperatureStream.Observer.g")
}

// between returns the text of the member starting at header up to the next blank line
func between(t *testing.T, text, header string) string {
	t.Helper()
	i := strings.Index(text, header)
	require.GreaterOrEqual(t, i, 0, header)
	rest := text[i:]
	if j := strings.Index(rest, "\n\n"); j >= 0 {
		rest = rest[:j]
	}
	return rest
}

func TestAggregatePolicy(t *testing.T) {
	text := generate(t, "ExceptionPolicy: Aggregate")
	publish := between(t, text, "public void Publish(Reading payload)")

	want := `public void Publish(Reading payload)
        {
            var snapshot = SnapshotSubscribers();
            global::System.Collections.Generic.List<global::System.Exception>? errors = null;
            foreach (var subscription in snapshot)
            {
                try
                {
                    if (subscription.Handler is null)
                    {
                        continue;
                    }
                    subscription.Handler(payload);
                }
                catch (global::System.Exception ex)
                {
                    (errors ??= new global::System.Collections.Generic.List<global::System.Exception>()).Add(ex);
                }
            }
            if (errors is not null)
            {
                throw new global::System.AggregateException(errors);
            }
        }`
	assert.Equal(t, want, publish)
}

func TestStopPolicy(t *testing.T) {
	publish := between(t, generate(t, "ExceptionPolicy: Stop"), "public void Publish(")
	assert.NotContains(t, publish, "catch")
	assert.Contains(t, publish, "subscription.Handler(payload);")
}

func TestFirstOnlyPolicy(t *testing.T) {
	publish := between(t, generate(t, "ExceptionPolicy: FirstOnly"), "public void Publish(")
	assert.Contains(t, publish, "first ??= ex;")
	assert.Contains(t, publish, "ExceptionDispatchInfo.Capture(first).Throw();")
	assert.NotContains(t, publish, "AggregateException")
}

func TestThreadingPolicies(t *testing.T) {
	tests := []struct {
		name    string
		policy  string
		want    []string
		notWant []string
	}{
		{
			name:    "single threaded",
			policy:  "SingleThreadedFast",
			want:    []string{"var id = ++_nextSubscriptionId;", "return _subscribers.ToArray();"},
			notWant: []string{"lock (", "ConcurrentDictionary"},
		},
		{
			name:   "locking",
			policy: "Locking",
			want: []string{
				"private readonly object _subscribersGate = new object();",
				"lock (_subscribersGate)\n            {\n                return _subscribers.ToArray();",
			},
			notWant: []string{"ConcurrentDictionary"},
		},
		{
			name:   "concurrent",
			policy: "Concurrent",
			want: []string{
				"ConcurrentDictionary<long, Subscription>",
				"global::System.Threading.Interlocked.Increment(ref _nextSubscriptionId);",
				"_subscribers.TryRemove(subscription.Id, out _);",
				"global::System.Array.Sort(entries, static (a, b) => a.Key.CompareTo(b.Key));",
			},
			notWant: []string{"lock ("},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := generate(t, "ThreadingPolicy: "+tt.policy)
			for _, s := range tt.want {
				assert.Contains(t, text, s)
			}
			for _, s := range tt.notWant {
				assert.NotContains(t, text, s)
			}
		})
	}
}

func TestAsyncSurface(t *testing.T) {
	text := generate(t, "GenerateAsync: true")
	assert.Contains(t, text, "public global::System.IDisposable Subscribe(global::System.Func<Reading, global::System.Threading.CancellationToken, global::System.Threading.Tasks.ValueTask> handler)")
	assert.Contains(t, text, "public async global::System.Threading.Tasks.ValueTask PublishAsync(Reading payload, global::System.Threading.CancellationToken cancellationToken = default)")
	assert.Contains(t, text, "await subscription.AsyncHandler(payload, cancellationToken).ConfigureAwait(false);")

	syncOnly := generate(t, "GenerateAsync: false")
	assert.NotContains(t, syncOnly, "PublishAsync")
	assert.NotContains(t, syncOnly, "id, null, handler")
}

func TestDisposeIsIdempotent(t *testing.T) {
	text := generate(t, "ThreadingPolicy: Locking")
	dispose := between(t, text, "public void Dispose()")
	assert.Contains(t, dispose, "var owner = global::System.Threading.Interlocked.Exchange(ref _owner, null);")
	assert.Contains(t, dispose, "owner?.Unsubscribe(this);")
}

func TestPublishUsesSnapshot(t *testing.T) {
	for _, policy := range []string{"SingleThreadedFast", "Locking", "Concurrent"} {
		text := generate(t, "ThreadingPolicy: "+policy)
		for _, header := range []string{"public void Publish(", "PublishAsync("} {
			body := between(t, text, header)
			assert.Contains(t, body, "var snapshot = SnapshotSubscribers();", policy)
			assert.NotContains(t, body, "_subscribers", policy)
		}
	}
}

func TestDiagnostics(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		want []string
		docs int
	}{
		{"not partial", "modifiers: [partial]", "modifiers: []", []string{"PKOBS001"}, 0},
		{"missing payload", "args: [Reading]\n", "\n", []string{"PKOBS002"}, 0},
		{"racy async warns", "{ExceptionPolicy: Aggregate}", "{ThreadingPolicy: SingleThreadedFast, ForceAsync: true}", []string{"PKOBS003"}, 1},
		{"invalid argument", "{ExceptionPolicy: Aggregate}", "{ExceptionPolicy: Retry}", []string{"PKOBS004"}, 0},
		{"struct", "kind: class", "kind: struct", []string{"PKOBS005"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := testkit.Run(t, New(), strings.Replace(stream, tt.from, tt.to, 1), "Sensors.TemperatureStream")
			assert.Equal(t, tt.want, testkit.IDs(out))
			assert.Len(t, out.Documents, tt.docs)
		})
	}
}

func TestDeterministic(t *testing.T) {
	assert.Equal(t, generate(t, "ThreadingPolicy: Concurrent"), generate(t, "ThreadingPolicy: Concurrent"))
}
