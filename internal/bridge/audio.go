package bridge

// #region imports
import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/danielpatrickdp/masking-engine/go-engine/internal/extract"
)

// #endregion imports

// #region frame

// frame is the wire format of the external audio-analysis service.
type frame struct {
	Emotions        map[string]float64 `json:"emotions"`
	ProsodyMismatch float64            `json:"prosody_mismatch"`
	FlatPositive    float64            `json:"flat_positive"`
	VocalEnergy     float64            `json:"vocal_energy"`
	TimestampMs     int64              `json:"timestamp_ms"`
}

// #endregion frame

// #region config

// Config holds connection parameters for the audio bridge.
type Config struct {
	URL               string
	ReconnectDelay    time.Duration
	MaxReconnectDelay time.Duration
	ReadTimeout       time.Duration
}

// DefaultConfig returns the standard bridge settings.
func DefaultConfig(url string) Config {
	return Config{
		URL:               url,
		ReconnectDelay:    time.Second,
		MaxReconnectDelay: 30 * time.Second,
		ReadTimeout:       60 * time.Second,
	}
}

// #endregion config

// #region bridge

// Handler receives normalized audio features as they arrive. The host
// typically forwards them straight into Engine.Ingest.
type Handler func(f extract.AudioFeatures, at time.Time)

// AudioBridge maintains a WebSocket connection to the external audio
// analysis capability and forwards parsed frames to the handler. The
// obligation to normalize scores stays with extract.AudioScores; the
// bridge only speaks the wire format.
type AudioBridge struct {
	config  Config
	handler Handler
	log     zerolog.Logger

	mu     sync.Mutex
	conn   *websocket.Conn
	cancel context.CancelFunc
	done   chan struct{}
}

// NewAudioBridge creates a bridge. handler must be non-nil.
func NewAudioBridge(config Config, handler Handler, log zerolog.Logger) *AudioBridge {
	return &AudioBridge{config: config, handler: handler, log: log}
}

// #endregion bridge

// #region run

// Run connects and reads frames until ctx is cancelled, reconnecting
// with capped backoff on failure.
func (b *AudioBridge) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	b.mu.Lock()
	b.cancel = cancel
	b.done = make(chan struct{})
	b.mu.Unlock()
	defer close(b.done)

	delay := b.config.ReconnectDelay
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := b.readOnce(ctx)
		if err == nil || ctx.Err() != nil {
			return ctx.Err()
		}

		b.log.Warn().Err(err).Dur("retry_in", delay).Msg("audio bridge connection lost")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
		if delay > b.config.MaxReconnectDelay {
			delay = b.config.MaxReconnectDelay
		}
	}
}

// readOnce dials once and pumps frames until the connection drops.
func (b *AudioBridge) readOnce(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, b.config.URL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", b.config.URL, err)
	}
	b.mu.Lock()
	b.conn = conn
	b.mu.Unlock()
	defer conn.Close()

	b.log.Info().Str("url", b.config.URL).Msg("audio bridge connected")

	for {
		if b.config.ReadTimeout > 0 {
			conn.SetReadDeadline(time.Now().Add(b.config.ReadTimeout))
		}
		_, data, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read frame: %w", err)
		}

		var f frame
		if err := json.Unmarshal(data, &f); err != nil {
			b.log.Debug().Err(err).Msg("dropping malformed audio frame")
			continue
		}

		at := time.Now()
		if f.TimestampMs > 0 {
			at = time.UnixMilli(f.TimestampMs)
		}
		b.handler(extract.AudioFeatures{
			Emotions:        f.Emotions,
			ProsodyMismatch: f.ProsodyMismatch,
			FlatPositive:    f.FlatPositive,
			VocalEnergy:     f.VocalEnergy,
		}, at)
	}
}

// #endregion run

// #region close

// Close tears the connection down and stops reconnecting.
func (b *AudioBridge) Close() {
	b.mu.Lock()
	cancel := b.cancel
	conn := b.conn
	done := b.done
	b.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if conn != nil {
		conn.Close()
	}
	if done != nil {
		<-done
	}
}

// #endregion close
