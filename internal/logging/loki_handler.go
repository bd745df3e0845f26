package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

// ModuleKey is the attribute promoted to a Loki stream label / Attribut promu en label de flux Loki
const ModuleKey = "module"

const flushInterval = 5 * time.Second

// LokiHandler is a slog.Handler that pushes batched records to Loki over HTTP.
// Records carrying a module attribute go to a stream labelled with it, so each
// app of the platform (users, blog, flashcards, web) can be queried on its own.
type LokiHandler struct {
	sink   *lokiSink
	level  slog.Level
	attrs  []scopedAttr
	groups []string
	module string
}

// scopedAttr is a WithAttrs attribute and the groups open when it was added
type scopedAttr struct {
	groups []string
	attr   slog.Attr
}

// lokiSink is the batch shared by a handler and its WithAttrs/WithGroup children
type lokiSink struct {
	url        string
	labels     map[string]string
	client     *http.Client
	mu         sync.Mutex
	batch      []lokiEntry
	batchSize  int
	flushTimer *time.Timer
	enabled    bool
}

type lokiEntry struct {
	module    string
	timestamp time.Time
	line      string
}

type lokiPushRequest struct {
	Streams []lokiStream `json:"streams"`
}

type lokiStream struct {
	Stream map[string]string `json:"stream"`
	Values [][]string        `json:"values"`
}

// NewLokiHandler creates a handler pushing to url + /loki/api/v1/push.
// batchSize 0 sends every record immediately.
// Crée un handler qui pousse vers Loki.
func NewLokiHandler(url string, labels map[string]string, batchSize int, enabled bool, level slog.Level) *LokiHandler {
	if labels == nil {
		labels = make(map[string]string)
	}

	sink := &lokiSink{
		url:       url + "/loki/api/v1/push",
		labels:    labels,
		client:    &http.Client{Timeout: 5 * time.Second},
		batch:     make([]lokiEntry, 0, batchSize),
		batchSize: batchSize,
		enabled:   enabled,
	}

	if batchSize > 0 && enabled {
		sink.flushTimer = time.AfterFunc(flushInterval, sink.periodicFlush)
	}

	return &LokiHandler{sink: sink, level: level}
}

// Enabled reports whether the handler handles records at the given level.
func (h *LokiHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.sink.enabled && level >= h.level
}

// Handle encodes the record as one JSON log line.
func (h *LokiHandler) Handle(_ context.Context, r slog.Record) error {
	if !h.sink.enabled {
		return nil
	}

	logData := map[string]any{
		"time":  r.Time.Format(time.RFC3339Nano),
		"level": r.Level.String(),
		"msg":   r.Message,
	}

	for _, sa := range h.attrs {
		addAttr(groupTarget(logData, sa.groups), sa.attr)
	}

	module := h.module
	if r.NumAttrs() > 0 {
		target := groupTarget(logData, h.groups)
		r.Attrs(func(a slog.Attr) bool {
			if a.Key == ModuleKey && len(h.groups) == 0 {
				module = a.Value.String()
			}
			addAttr(target, a)
			return true
		})
	}

	line, err := json.Marshal(logData)
	if err != nil {
		return fmt.Errorf("failed to marshal log to JSON: %w", err)
	}

	return h.sink.add(lokiEntry{module: module, timestamp: r.Time, line: string(line)})
}

// groupTarget returns the map nested under groups, creating it on the way
func groupTarget(root map[string]any, groups []string) map[string]any {
	target := root
	for _, g := range groups {
		next, ok := target[g].(map[string]any)
		if !ok {
			next = map[string]any{}
			target[g] = next
		}
		target = next
	}
	return target
}

func addAttr(dst map[string]any, a slog.Attr) {
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		attrs := v.Group()
		if len(attrs) == 0 {
			return
		}
		inner := dst
		if a.Key != "" {
			inner = map[string]any{}
			dst[a.Key] = inner
		}
		for _, ga := range attrs {
			addAttr(inner, ga)
		}
		return
	}
	if a.Key == "" {
		return
	}
	if err, ok := v.Any().(error); ok {
		dst[a.Key] = err.Error()
		return
	}
	dst[a.Key] = v.Any()
}

// WithAttrs returns a child handler sharing the batch.
func (h *LokiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	child := h.clone()
	for _, a := range attrs {
		if a.Key == ModuleKey && len(h.groups) == 0 {
			child.module = a.Value.String()
			continue
		}
		child.attrs = append(child.attrs, scopedAttr{groups: child.groups, attr: a})
	}
	return child
}

// WithGroup returns a child handler nesting later attributes under name.
func (h *LokiHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	child := h.clone()
	child.groups = append(child.groups, name)
	return child
}

func (h *LokiHandler) clone() *LokiHandler {
	return &LokiHandler{
		sink:   h.sink,
		level:  h.level,
		attrs:  append([]scopedAttr(nil), h.attrs...),
		groups: append([]string(nil), h.groups...),
		module: h.module,
	}
}

// Close flushes any remaining logs and stops the periodic flush timer
func (h *LokiHandler) Close() error {
	if h.sink.flushTimer != nil {
		h.sink.flushTimer.Stop()
	}
	return h.sink.flush()
}

func (s *lokiSink) add(e lokiEntry) error {
	s.mu.Lock()
	s.batch = append(s.batch, e)
	full := s.batchSize == 0 || len(s.batch) >= s.batchSize
	s.mu.Unlock()

	if full {
		return s.flush()
	}
	return nil
}

// flush sends all batched logs, one stream per module
func (s *lokiSink) flush() error {
	s.mu.Lock()
	if len(s.batch) == 0 {
		s.mu.Unlock()
		return nil
	}
	entries := make([]lokiEntry, len(s.batch))
	copy(entries, s.batch)
	s.batch = s.batch[:0]
	s.mu.Unlock()

	byModule := make(map[string][][]string)
	for _, e := range entries {
		byModule[e.module] = append(byModule[e.module], []string{
			strconv.FormatInt(e.timestamp.UnixNano(), 10),
			e.line,
		})
	}

	modules := make([]string, 0, len(byModule))
	for m := range byModule {
		modules = append(modules, m)
	}
	sort.Strings(modules)

	push := lokiPushRequest{Streams: make([]lokiStream, 0, len(modules))}
	for _, m := range modules {
		push.Streams = append(push.Streams, lokiStream{Stream: s.streamLabels(m), Values: byModule[m]})
	}

	return s.send(push)
}

func (s *lokiSink) streamLabels(module string) map[string]string {
	if module == "" {
		return s.labels
	}
	labels := make(map[string]string, len(s.labels)+1)
	for k, v := range s.labels {
		labels[k] = v
	}
	labels[ModuleKey] = module
	return labels
}

// send posts the request; Loki being down never fails the caller
func (s *lokiSink) send(req lokiPushRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal push request: %w", err)
	}

	httpReq, err := http.NewRequest(http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loki push failed: %v\n", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		fmt.Fprintf(os.Stderr, "loki returned %d: %s\n", resp.StatusCode, msg)
	}
	return nil
}

func (s *lokiSink) periodicFlush() {
	_ = s.flush()
	if s.flushTimer != nil {
		s.flushTimer.Reset(flushInterval)
	}
}
