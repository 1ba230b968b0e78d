package signal

import (
	"errors"
	"math"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/zen/components"
	"github.com/pthm-cable/zen/config"
)

func TestCellDefaultsToNeutral(t *testing.T) {
	c := NewCell(time.Second)
	if got := c.Load(time.Now()); got != components.NeutralSignal() {
		t.Errorf("empty cell = %+v, want neutral", got)
	}
	if _, _, ok := c.Latest(); ok {
		t.Error("Latest() ok before first write")
	}
}

func TestCellLastValueWins(t *testing.T) {
	c := NewCell(0)
	base := time.Unix(1000, 0)

	c.StoreAt(components.Signal{Detected: true, Openness: 0.2}, base)
	c.StoreAt(components.Signal{Detected: true, Openness: 0.9}, base.Add(time.Millisecond))

	got := c.Load(base.Add(time.Hour))
	if !got.Detected || got.Openness != 0.9 {
		t.Errorf("Load = %+v, want latest {true 0.9}", got)
	}
}

func TestCellStaleness(t *testing.T) {
	c := NewCell(500 * time.Millisecond)
	base := time.Unix(1000, 0)
	c.StoreAt(components.Signal{Detected: true, Openness: 0.3}, base)

	tests := []struct {
		name string
		at   time.Duration
		want components.Signal
	}{
		{"fresh", 100 * time.Millisecond, components.Signal{Detected: true, Openness: 0.3}},
		{"at limit", 500 * time.Millisecond, components.Signal{Detected: true, Openness: 0.3}},
		{"stale", 501 * time.Millisecond, components.NeutralSignal()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Load(base.Add(tt.at)); got != tt.want {
				t.Errorf("Load(+%v) = %+v, want %+v", tt.at, got, tt.want)
			}
		})
	}

	// Raw reading is still available for status display
	sig, at, ok := c.Latest()
	if !ok || !at.Equal(base) || sig.Openness != 0.3 {
		t.Errorf("Latest() = %+v %v %v", sig, at, ok)
	}
}

func TestCellLoadDoesNotAllocate(t *testing.T) {
	c := NewCell(time.Second)
	c.Store(components.Signal{Detected: true, Openness: 0.5})
	now := time.Now()

	allocs := testing.AllocsPerRun(100, func() {
		_ = c.Load(now)
	})
	if allocs != 0 {
		t.Errorf("Load allocated %v times, want 0", allocs)
	}
}

func TestPinchOpenness(t *testing.T) {
	r := DefaultPinchRange()
	origin := r3.Vec{}

	tests := []struct {
		name string
		dist float64
		want float32
	}{
		{"touching", 0.0, 0},
		{"at min", 0.02, 0},
		{"midway", 0.135, 0.5},
		{"at max", 0.25, 1},
		{"beyond max", 0.6, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Openness(origin, r3.Vec{X: tt.dist})
			if math.Abs(float64(got-tt.want)) > 1e-5 {
				t.Errorf("Openness(dist=%v) = %v, want %v", tt.dist, got, tt.want)
			}
		})
	}

	// Uses full 3D distance, including depth
	got := r.Openness(r3.Vec{X: 0.1, Y: 0.1, Z: 0}, r3.Vec{X: 0.1, Y: 0.1, Z: 0.25})
	if got != 1 {
		t.Errorf("depth-only separation = %v, want 1", got)
	}
}

func TestScript(t *testing.T) {
	s := NewScript(config.ScriptConfig{Base: 0.5, Amplitude: 0.4, Period: 4, DropoutEvery: 10, Dropout: 2})

	tests := []struct {
		name         string
		t            float64
		wantDetected bool
		wantOpenness float32
	}{
		{"start", 0, true, 0.5},
		{"peak", 1, true, 0.9},
		{"trough", 3, true, 0.1},
		{"dropout", 8.5, false, 1},
		{"recovered", 10, true, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.At(tt.t)
			if got.Detected != tt.wantDetected {
				t.Errorf("At(%v).Detected = %v, want %v", tt.t, got.Detected, tt.wantDetected)
			}
			if math.Abs(float64(got.Openness-tt.wantOpenness)) > 1e-5 {
				t.Errorf("At(%v).Openness = %v, want %v", tt.t, got.Openness, tt.wantOpenness)
			}
		})
	}

	// Clamped to [0, 1]
	loud := NewScript(config.ScriptConfig{Base: 0.5, Amplitude: 2, Period: 4})
	if o := loud.At(1).Openness; o != 1 {
		t.Errorf("loud peak = %v, want 1", o)
	}
	if o := loud.At(3).Openness; o != 0 {
		t.Errorf("loud trough = %v, want 0", o)
	}
}

func TestMessageSignal(t *testing.T) {
	yes, no := true, false
	half := 0.5
	high := 1.5
	nan := math.NaN()
	thumb := [3]float64{0.5, 0.5, 0}
	index := [3]float64{0.5, 0.75, 0}

	tests := []struct {
		name    string
		msg     Message
		want    components.Signal
		wantErr bool
	}{
		{"openness", Message{Detected: &yes, Openness: &half}, components.Signal{Detected: true, Openness: 0.5}, false},
		{"implicit detected", Message{Openness: &half}, components.Signal{Detected: true, Openness: 0.5}, false},
		{"clamped", Message{Detected: &yes, Openness: &high}, components.Signal{Detected: true, Openness: 1}, false},
		{"landmarks", Message{Detected: &yes, Thumb: &thumb, Index: &index}, components.Signal{Detected: true, Openness: 1}, false},
		{"lost", Message{Detected: &no}, components.NeutralSignal(), false},
		{"lost ignores value", Message{Detected: &no, Openness: &half}, components.NeutralSignal(), false},
		{"empty", Message{}, components.Signal{}, true},
		{"thumb only", Message{Detected: &yes, Thumb: &thumb}, components.Signal{}, true},
		{"nan", Message{Openness: &nan}, components.Signal{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.msg.Signal(DefaultPinchRange())
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedMessage) {
					t.Errorf("error = %v, want ErrMalformedMessage", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			if got != tt.want {
				t.Errorf("Signal() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestServerRoundTrip(t *testing.T) {
	cell := NewCell(0)
	cfg := config.SignalConfig{Path: "/signal", PinchMin: 0.02, PinchMax: 0.25}
	srv := NewServer(cell, cfg)

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/signal"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	waitFor(t, "client registration", func() bool { return srv.Clients() == 1 })

	// Malformed messages are skipped without dropping the connection
	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatal(err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"detected":true}`)); err != nil {
		t.Fatal(err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"detected":true,"openness":0.25}`)); err != nil {
		t.Fatal(err)
	}
	waitFor(t, "openness reading", func() bool {
		sig := cell.Load(time.Now())
		return sig.Detected && sig.Openness == 0.25
	})

	if err := conn.WriteJSON(map[string]any{
		"detected": true,
		"thumb":    []float64{0.4, 0.4, 0},
		"index":    []float64{0.4, 0.42, 0},
	}); err != nil {
		t.Fatal(err)
	}
	waitFor(t, "pinched reading", func() bool {
		sig := cell.Load(time.Now())
		return sig.Detected && sig.Openness == 0
	})

	conn.Close()
	waitFor(t, "disconnect fallback", func() bool {
		return srv.Clients() == 0 && !cell.Load(time.Now()).Detected
	})
}
