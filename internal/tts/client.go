// Package tts wraps the SiliconFlow-compatible speech API: voice listing,
// reference-audio enrollment, and text-to-speech synthesis. The enrollment
// cache guarantees at most one reference upload per character per process.
package tts

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hazuki/autodub/internal/corpus"
)

const (
	voiceListEndpoint = "/audio/voice/list"
	uploadEndpoint    = "/uploads/audio/voice"
	speechEndpoint    = "/audio/speech"

	warmUpTimeout = 15 * time.Second

	// Used when a reference sample has no transcript of its own.
	defaultReferenceText = "在一无所知中, 梦里的一天结束了，一个新的轮回便会开始"
)

var (
	// ErrDisabled means the client has no credential; synthesis is optional
	// and callers should degrade, not fail.
	ErrDisabled = errors.New("tts client is disabled (no API key)")

	// ErrUnavailable covers transient upstream failure for this cycle. The
	// next trigger retries naturally because nothing negative is cached.
	ErrUnavailable = errors.New("tts service unavailable")
)

// Options configures a Client.
type Options struct {
	BaseURL    string
	APIKey     string
	Model      string
	Format     string
	SampleRate int
}

// Client is the synthesis client. Construct it with NewClient; a client
// without an API key is permanently disabled but still safe to call.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	format     string
	sampleRate int

	httpClient *http.Client
	cache      *EnrollmentCache

	// Serializes enrollment so concurrent misses for one identity cannot
	// race into duplicate uploads.
	enrollMu sync.Mutex
}

// Voice is one remotely enrolled voice.
type Voice struct {
	CustomName string `json:"customName"`
	URI        string `json:"uri"`
}

type voiceListResponse struct {
	Results []Voice `json:"results"`
}

// NewClient builds the client and, when a credential is present, warms the
// enrollment cache from the remote voice list so characters enrolled in a
// previous run are never re-uploaded. Warm-up failure is non-fatal.
func NewClient(opts Options) *Client {
	format, rate := normalizeFormat(opts.Format, opts.SampleRate)
	c := &Client{
		baseURL:    opts.BaseURL,
		apiKey:     opts.APIKey,
		model:      opts.Model,
		format:     format,
		sampleRate: rate,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		cache:      NewEnrollmentCache(),
	}

	if c.Disabled() {
		log.Warn().Msg("No TTS API key configured, synthesis is disabled")
		return c
	}

	ctx, cancel := context.WithTimeout(context.Background(), warmUpTimeout)
	defer cancel()
	if err := c.warmUp(ctx); err != nil {
		log.Warn().Err(err).Msg("Voice cache warm-up failed")
	}
	return c
}

// Disabled reports whether the client lacks a credential.
func (c *Client) Disabled() bool {
	return c.apiKey == ""
}

// EnrolledVoices returns how many voices the cache currently knows about.
func (c *Client) EnrolledVoices() int {
	return c.cache.Len()
}

func (c *Client) warmUp(ctx context.Context) error {
	voices, err := c.ListVoices(ctx)
	if err != nil {
		return err
	}
	for _, v := range voices {
		if v.CustomName != "" && v.URI != "" {
			c.cache.Store(v.CustomName, v.URI)
		}
	}
	log.Info().Int("voices", c.cache.Len()).Msg("Loaded enrolled voices")
	return nil
}

// ListVoices fetches the remotely enrolled voices.
func (c *Client) ListVoices(ctx context.Context) ([]Voice, error) {
	if c.Disabled() {
		return nil, ErrDisabled
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+voiceListEndpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create voice list request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn().Err(err).Msg("Voice list request failed")
		return nil, ErrUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		log.Warn().Int("status", resp.StatusCode).Bytes("body", body).Msg("Voice list request rejected")
		return nil, ErrUnavailable
	}

	var listResp voiceListResponse
	if err := json.NewDecoder(resp.Body).Decode(&listResp); err != nil {
		return nil, fmt.Errorf("failed to decode voice list: %w", err)
	}
	return listResp.Results, nil
}

// EnsureVoice returns the remote voice handle for identityKey, uploading the
// reference sample only when no enrollment exists yet. Each distinct identity
// incurs at most one upload per process run; a failed upload is not cached,
// so a later cycle retries.
func (c *Client) EnsureVoice(ctx context.Context, identityKey string, sample corpus.ReferenceSample) (string, error) {
	if c.Disabled() {
		return "", ErrDisabled
	}

	hash := IdentityHash(identityKey)

	c.enrollMu.Lock()
	defer c.enrollMu.Unlock()

	if handle, ok := c.cache.Lookup(hash); ok {
		log.Debug().Str("identity", identityKey).Msg("Voice already enrolled")
		return handle, nil
	}

	handle, err := c.uploadVoice(ctx, hash, sample)
	if err != nil {
		return "", err
	}
	c.cache.Store(hash, handle)
	log.Info().Str("identity", identityKey).Str("handle", handle).Msg("Voice enrolled")
	return handle, nil
}

func (c *Client) uploadVoice(ctx context.Context, customName string, sample corpus.ReferenceSample) (string, error) {
	audio, err := os.ReadFile(sample.AudioPath)
	if err != nil {
		log.Warn().Err(err).Str("path", sample.AudioPath).Msg("Reference audio unreadable")
		return "", ErrUnavailable
	}

	refText := sample.Transcript
	if refText == "" {
		refText = defaultReferenceText
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	fields := map[string]string{
		"model":      c.model,
		"customName": customName,
		"text":       refText,
		"audio":      "data:audio/wav;base64," + base64.StdEncoding.EncodeToString(audio),
	}
	for k, v := range fields {
		if err := form.WriteField(k, v); err != nil {
			return "", fmt.Errorf("failed to build upload form: %w", err)
		}
	}
	if err := form.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+uploadEndpoint, &body)
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn().Err(err).Msg("Voice upload failed")
		return "", ErrUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		log.Warn().Int("status", resp.StatusCode).Bytes("body", respBody).Msg("Voice upload rejected")
		return "", ErrUnavailable
	}

	var uploadResp struct {
		URI string `json:"uri"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&uploadResp); err != nil || uploadResp.URI == "" {
		log.Warn().Err(err).Msg("Voice upload returned no URI")
		return "", ErrUnavailable
	}
	return uploadResp.URI, nil
}

type speechRequest struct {
	Model          string  `json:"model"`
	Voice          string  `json:"voice"`
	Input          string  `json:"input"`
	ResponseFormat string  `json:"response_format"`
	Speed          float64 `json:"speed"`
	Gain           float64 `json:"gain"`
	SampleRate     int     `json:"sample_rate,omitempty"`
}

// Synthesize generates audio for text. An empty voiceURI falls back to the
// model's default voice rather than failing. Transport errors and non-200
// responses surface as ErrUnavailable, never as a fatal condition.
func (c *Client) Synthesize(ctx context.Context, text, voiceURI string) ([]byte, error) {
	if c.Disabled() {
		return nil, ErrDisabled
	}

	voice := voiceURI
	if voice == "" {
		voice = c.model + ":default"
	}

	payload := speechRequest{
		Model:          c.model,
		Voice:          voice,
		Input:          Sanitize(text),
		ResponseFormat: c.format,
		Speed:          1.0,
		Gain:           0.0,
		SampleRate:     c.sampleRate,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal speech request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+speechEndpoint, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create speech request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	log.Debug().Str("voice", voice).Str("format", c.format).Int("chars", len(payload.Input)).Msg("Requesting synthesis")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn().Err(err).Msg("Synthesis request failed")
		return nil, ErrUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		log.Warn().Int("status", resp.StatusCode).Bytes("body", body).Msg("Synthesis request rejected")
		return nil, ErrUnavailable
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to read synthesis response")
		return nil, ErrUnavailable
	}
	return audio, nil
}

// normalizeFormat clamps a format/sample-rate pair to something the service
// accepts. Invalid combinations are normalized to a valid default instead of
// being rejected: wav/pcm take a wide range, mp3 allows two rates, opus is
// fixed at 48 kHz.
func normalizeFormat(format string, rate int) (string, int) {
	switch format {
	case "wav", "pcm":
		if rate < 8000 || rate > 48000 {
			rate = 44100
		}
	case "mp3":
		if rate != 32000 && rate != 44100 {
			rate = 44100
		}
	case "opus":
		rate = 48000
	default:
		format = "wav"
		if rate < 8000 || rate > 48000 {
			rate = 44100
		}
	}
	return format, rate
}
