package router

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/indiimusic/indii/internal/config"
	"github.com/indiimusic/indii/internal/llm"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

// mockProvider records calls and returns a fixed reply or error.
type mockProvider struct {
	name   string
	reply  string
	err    error
	health llm.Health
	panics bool
	delay  time.Duration

	mu    sync.Mutex
	calls []llm.GenerateOptions
}

func (m *mockProvider) Generate(ctx context.Context, message string, opts llm.GenerateOptions) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, opts)
	m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

func (m *mockProvider) HealthCheck(ctx context.Context) llm.Health {
	if m.panics {
		panic("probe exploded")
	}
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return llm.Health{Healthy: false, Error: ctx.Err().Error()}
		}
	}
	return m.health
}

func (m *mockProvider) Name() string { return m.name }

func (m *mockProvider) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func TestNewDefaults(t *testing.T) {
	r := New()
	assert.Equal(t, []string{"gemini", "openai", "anthropic"}, r.Providers())
	assert.Equal(t, "gemini", r.DefaultProvider())
	assert.Empty(t, r.Configured())
	assert.False(t, r.IsConfigured())
}

func TestRoutePrimarySucceeds(t *testing.T) {
	r := New()
	gemini := &mockProvider{name: "gemini", reply: "  raw reply\n"}
	openai := &mockProvider{name: "openai", reply: "fallback"}
	r.Register("gemini", gemini)
	r.Register("openai", openai)

	text, err := r.Route(context.Background(), "hi", Options{Role: "artist"})
	require.NoError(t, err)
	assert.Equal(t, "  raw reply\n", text)
	assert.Equal(t, 0, openai.callCount())
	assert.Equal(t, "artist", gemini.calls[0].Role)
}

func TestRouteDefaultRole(t *testing.T) {
	r := New()
	gemini := &mockProvider{name: "gemini", reply: "ok"}
	r.Register("gemini", gemini)

	_, err := r.Route(context.Background(), "hi", Options{})
	require.NoError(t, err)
	assert.Equal(t, DefaultRole, gemini.calls[0].Role)
}

func TestRouteFallsBackInOrder(t *testing.T) {
	r := New()
	gemini := &mockProvider{name: "gemini", err: errors.New("quota")}
	openai := &mockProvider{name: "openai", err: errors.New("down")}
	anthropic := &mockProvider{name: "anthropic", reply: "from anthropic"}
	r.Register("gemini", gemini)
	r.Register("openai", openai)
	r.Register("anthropic", anthropic)

	text, err := r.Route(context.Background(), "hi", Options{})
	require.NoError(t, err)
	assert.Equal(t, "from anthropic", text)
	assert.Equal(t, 1, gemini.callCount())
	assert.Equal(t, 1, openai.callCount())
}

func TestRouteDoesNotRetryRequestedProvider(t *testing.T) {
	r := New()
	gemini := &mockProvider{name: "gemini", reply: "gemini"}
	openai := &mockProvider{name: "openai", err: errors.New("down")}
	r.Register("gemini", gemini)
	r.Register("openai", openai)

	text, err := r.Route(context.Background(), "hi", Options{Provider: "openai"})
	require.NoError(t, err)
	assert.Equal(t, "gemini", text)
	assert.Equal(t, 1, openai.callCount())
}

func TestRouteSkipsUnconfiguredPrimary(t *testing.T) {
	r := New()
	openai := &mockProvider{name: "openai", reply: "openai"}
	r.Register("openai", openai)

	text, err := r.Route(context.Background(), "hi", Options{})
	require.NoError(t, err)
	assert.Equal(t, "openai", text)
}

func TestRouteAllFail(t *testing.T) {
	errA := errors.New("quota")
	errB := errors.New("down")

	r := New()
	r.Register("gemini", &mockProvider{name: "gemini", err: errA})
	r.Register("anthropic", &mockProvider{name: "anthropic", err: errB})

	_, err := r.Route(context.Background(), "hi", Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAllProvidersFailed)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
}

func TestRouteNoProviders(t *testing.T) {
	_, err := New().Route(context.Background(), "hi", Options{})
	assert.ErrorIs(t, err, ErrAllProvidersFailed)
}

func TestRouteUnknownRequestedProvider(t *testing.T) {
	r := New()
	r.Register("gemini", &mockProvider{name: "gemini", reply: "ok"})

	text, err := r.Route(context.Background(), "hi", Options{Provider: "mistral"})
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
}

func TestRouteStopsOnCanceledContext(t *testing.T) {
	r := New()
	gemini := &mockProvider{name: "gemini", err: errors.New("quota")}
	openai := &mockProvider{name: "openai", reply: "late"}
	r.Register("gemini", gemini)
	r.Register("openai", openai)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Route(ctx, "hi", Options{})
	assert.ErrorIs(t, err, ErrAllProvidersFailed)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, openai.callCount())
}

func TestInitializeProvider(t *testing.T) {
	r := New()
	require.NoError(t, r.InitializeProvider(context.Background(), "openai", nil))
	assert.Equal(t, []string{"openai"}, r.Configured())

	err := r.InitializeProvider(context.Background(), "mistral", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported provider: mistral")
}

func TestHealthCheck(t *testing.T) {
	r := New()
	r.Register("gemini", &mockProvider{name: "gemini", health: llm.Health{Healthy: true, Status: 200}})
	r.Register("openai", &mockProvider{name: "openai", panics: true})

	status := r.HealthCheck(context.Background())
	require.Len(t, status, 3)
	assert.Equal(t, llm.Health{Healthy: true, Status: 200}, status["gemini"])
	assert.False(t, status["openai"].Healthy)
	assert.Contains(t, status["openai"].Error, "probe exploded")
	assert.Equal(t, llm.Health{Healthy: false, Error: "Not configured"}, status["anthropic"])
}

func TestHealthCheckRunsConcurrently(t *testing.T) {
	r := New()
	for _, name := range []string{"gemini", "openai", "anthropic"} {
		r.Register(name, &mockProvider{name: name, delay: 200 * time.Millisecond, health: llm.Health{Healthy: true}})
	}

	start := time.Now()
	status := r.HealthCheck(context.Background())
	elapsed := time.Since(start)

	for name, h := range status {
		assert.True(t, h.Healthy, name)
	}
	assert.Less(t, elapsed, 500*time.Millisecond)
}

func TestRegisterAddsUnknownName(t *testing.T) {
	r := New()
	r.Register("local", &mockProvider{name: "local", reply: "x"})

	assert.Contains(t, r.Providers(), "local")
	assert.Equal(t, []string{"local"}, r.Configured())
	assert.Equal(t, []string{"local"}, r.Available())
}

func TestConcurrentRouteAndRegister(t *testing.T) {
	r := New()
	r.Register("gemini", &mockProvider{name: "gemini", reply: "ok"})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = r.Route(context.Background(), "hi", Options{})
		}()
		go func() {
			defer wg.Done()
			r.Register("openai", &mockProvider{name: "openai", reply: "ok"})
		}()
	}
	wg.Wait()
	assert.True(t, r.IsConfigured())
}

func TestFromConfig(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")

	cfg := config.Default()
	cfg.LLM.Providers["anthropic"] = config.ProviderConfig{APIKey: "sk-test"}

	r, err := FromConfig(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"anthropic"}, r.Configured())
	assert.Empty(t, r.Available())

	stats := r.Stats()
	require.Len(t, stats, 1)
	assert.Equal(t, "anthropic", stats[0].Provider)
}
