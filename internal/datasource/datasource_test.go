package datasource

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/1ogcotu/s-b-a/internal/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testHTTPClient() *RateLimitedHTTPClient {
	cfg := DefaultHTTPClientConfig()
	cfg.RateLimit = 1000
	cfg.MaxRetries = 0
	return NewRateLimitedHTTPClient(cfg, testLogger())
}

func TestStaticProviderLookup(t *testing.T) {
	provider := NewStaticProvider(map[string][]float64{
		"stat_x":     {1, 2, 3},
		"p7:stat_x":  {9, 9},
		"other_stat": {5},
	})
	ctx := context.Background()

	samples, err := provider.History(ctx, models.PlayerContext{PlayerID: "p1"}, "stat_x")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(samples) != 3 || samples[0] != 1 {
		t.Fatalf("expected bare-key series, got %v", samples)
	}

	// Player-scoped key takes precedence.
	samples, err = provider.History(ctx, models.PlayerContext{PlayerID: "p7"}, "stat_x")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(samples) != 2 || samples[0] != 9 {
		t.Fatalf("expected player-scoped series, got %v", samples)
	}

	samples, err = provider.History(ctx, models.PlayerContext{PlayerID: "p1"}, "unknown")
	if err != nil {
		t.Fatalf("expected missing series to be non-fatal, got %v", err)
	}
	if len(samples) != 0 {
		t.Fatalf("expected empty series, got %v", samples)
	}

	// Mutating a returned slice must not leak into the provider.
	first, _ := provider.History(ctx, models.PlayerContext{PlayerID: "p1"}, "stat_x")
	first[0] = 100
	second, _ := provider.History(ctx, models.PlayerContext{PlayerID: "p1"}, "stat_x")
	if second[0] != 1 {
		t.Fatalf("expected provider series to be immutable, got %v", second)
	}
}

// countingFeed counts upstream fetches so cache hits are observable.
type countingFeed struct {
	calls int
}

func (f *countingFeed) History(context.Context, models.PlayerContext, string) ([]float64, error) {
	f.calls++
	return []float64{1, 2, 3}, nil
}

func TestCachedProviderMemoizes(t *testing.T) {
	feed := &countingFeed{}
	provider := NewCachedProvider(feed, time.Minute)
	ctx := context.Background()
	player := models.PlayerContext{PlayerID: "p1"}

	for i := 0; i < 3; i++ {
		if _, err := provider.History(ctx, player, "stat_x"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	}
	if feed.calls != 1 {
		t.Fatalf("expected one upstream fetch, got %d", feed.calls)
	}

	// Distinct players miss independently.
	if _, err := provider.History(ctx, models.PlayerContext{PlayerID: "p2"}, "stat_x"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if feed.calls != 2 {
		t.Fatalf("expected a second upstream fetch, got %d", feed.calls)
	}

	provider.Flush()
	if _, err := provider.History(ctx, player, "stat_x"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if feed.calls != 3 {
		t.Fatalf("expected refetch after flush, got %d", feed.calls)
	}
}

func TestESPNGameLogParsing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sports/football/leagues/nfl/athletes/42/statisticslog" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		// Mixed numeric and display-only values; one unparseable entry
		// is dropped rather than failing the series.
		io.WriteString(w, `{"entries":[
			{"stats":[{"name":"passingYards","value":287.0},{"name":"completions","value":24}]},
			{"stats":[{"name":"passingYards","displayValue":"301.5"}]},
			{"stats":[{"name":"passingYards","displayValue":"DNP"}]},
			{"stats":[{"name":"passingYards","value":265.0}]}
		]}`)
	}))
	defer server.Close()

	client := NewESPNClient(testHTTPClient(), server.URL, "", testLogger())
	samples, err := client.GameLog(context.Background(), "football", "nfl", "42", "passingYards")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	want := []float64{287.0, 301.5, 265.0}
	if len(samples) != len(want) {
		t.Fatalf("expected %d samples, got %d (%v)", len(want), len(samples), samples)
	}
	for i := range want {
		if samples[i] != want[i] {
			t.Errorf("sample %d: expected %v, got %v", i, want[i], samples[i])
		}
	}
}

func TestESPNGameLogMissingStatYieldsEmptySeries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"entries":[{"stats":[{"name":"rushingYards","value":55.0}]}]}`)
	}))
	defer server.Close()

	client := NewESPNClient(testHTTPClient(), server.URL, "", testLogger())
	samples, err := client.GameLog(context.Background(), "football", "nfl", "42", "passingYards")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(samples) != 0 {
		t.Fatalf("expected empty series, got %v", samples)
	}
}

func TestGameLogProviderUnknownStatKey(t *testing.T) {
	provider := NewGameLogProvider(nil, "football", "nfl")

	samples, err := provider.History(context.Background(), models.PlayerContext{PlayerID: "42"}, "first_td_pass_odds")
	if !errors.Is(err, models.ErrNoHistory) {
		t.Fatalf("expected ErrNoHistory for unmapped stat keys, got %v", err)
	}
	if samples != nil {
		t.Fatalf("expected nil series, got %v", samples)
	}
}

func TestESPNRosterFetch(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/athletes":
			io.WriteString(w, `{"count":1,"items":[{"$ref":"`+server.URL+`/athletes/42"}]}`)
		case "/athletes/42":
			io.WriteString(w, `{"id":"42","fullName":"Test Quarterback","position":{"abbreviation":"QB"}}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := NewESPNClient(testHTTPClient(), server.URL, "", testLogger())
	players, err := client.FetchRoster(context.Background(), TeamData{
		ID:          "12",
		DisplayName: "Testers",
		AthletesURL: server.URL + "/athletes",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(players) != 1 {
		t.Fatalf("expected one player, got %d", len(players))
	}
	player := players[0]
	if player.PlayerID != "42" || player.Name != "Test Quarterback" || player.TeamID != "12" || player.Position != "QB" {
		t.Fatalf("unexpected player context: %+v", player)
	}
}

func TestHTTPClientConcurrentRequests(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := testHTTPClient()
	defer client.Close()

	// The analyzer shares one client across the roster fan-out, so the
	// breaker state must hold up under parallel calls.
	const goroutines = 8
	const callsPerGoroutine = 20

	errs := make(chan error, goroutines*callsPerGoroutine)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < callsPerGoroutine; j++ {
				resp, err := client.Get(context.Background(), server.URL)
				if err != nil {
					errs <- err
					return
				}
				resp.Body.Close()
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("unexpected error from concurrent request: %v", err)
	}
}

func TestHTTPClientCircuitBreakerOpens(t *testing.T) {
	// A closed server yields connection errors, which are what count as
	// consecutive failures.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	cfg := DefaultHTTPClientConfig()
	cfg.RateLimit = 1000
	cfg.MaxRetries = 0
	cfg.CircuitBreakerMax = 2
	client := NewRateLimitedHTTPClient(cfg, testLogger())
	defer client.Close()

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := client.Get(ctx, url); err == nil {
			t.Fatal("expected connection error")
		}
	}

	_, err := client.Get(ctx, url)
	if err == nil || !strings.Contains(err.Error(), "circuit breaker open") {
		t.Fatalf("expected circuit breaker to be open, got %v", err)
	}
}
