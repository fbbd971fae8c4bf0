// Package audio provides pronunciation playback for review sessions.
//
// The HTTP player delegates synthesis to an external text-to-speech
// service. Playback is fire-and-forget: a session never waits on the
// network, and failures are logged rather than surfaced.
package audio

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const requestTimeout = 10 * time.Second

// HTTPPlayer triggers pronunciation audio by issuing a GET to a
// text-to-speech endpoint. When a word carries a pre-rendered audio
// URL that URL is fetched instead of synthesizing.
type HTTPPlayer struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewHTTPPlayer creates a player against the given TTS base URL. An
// empty baseURL yields a player that only plays pre-rendered URLs. A
// nil client falls back to a default with a request timeout.
func NewHTTPPlayer(baseURL string, client *http.Client, logger *slog.Logger) *HTTPPlayer {
	if client == nil {
		client = &http.Client{Timeout: requestTimeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPPlayer{
		baseURL: baseURL,
		client:  client,
		logger:  logger.With(slog.String("component", "audio_player")),
	}
}

// Play requests pronunciation audio for word. The preferred URL wins
// when present; otherwise the word text is sent to the TTS service.
// The request runs on its own goroutine and never blocks the caller.
func (p *HTTPPlayer) Play(ctx context.Context, word, preferredAudioURL string) {
	target := preferredAudioURL
	if target == "" {
		if p.baseURL == "" || word == "" {
			return
		}
		target = fmt.Sprintf("%s?text=%s", p.baseURL, url.QueryEscape(word))
	}

	go func() {
		reqCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), requestTimeout)
		defer cancel()

		req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, target, nil)
		if err != nil {
			p.logger.Debug("failed to build audio request",
				slog.String("word", word),
				slog.String("error", err.Error()))
			return
		}

		resp, err := p.client.Do(req)
		if err != nil {
			p.logger.Debug("audio request failed",
				slog.String("word", word),
				slog.String("error", err.Error()))
			return
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusOK {
			p.logger.Debug("audio request returned non-OK status",
				slog.String("word", word),
				slog.Int("status", resp.StatusCode))
		}
	}()
}
