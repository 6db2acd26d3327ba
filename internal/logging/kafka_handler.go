package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// RequestLogKey marks request log records; they are shipped at any level.
const RequestLogKey = "request_log"

// MessageWriter is the part of *kafka.Writer the handler uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// LogEntry is the JSON document shipped for each record.
type LogEntry struct {
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	TraceID   string                 `json:"trace_id,omitempty"`
	Env       string                 `json:"env"`
	Timestamp string                 `json:"timestamp"`
	Extra     map[string]interface{} `json:"extra,omitempty"`
}

// KafkaHandler ships warn and above, plus request logs, to a Kafka topic.
type KafkaHandler struct {
	writer MessageWriter
	env    string
	level  slog.Level
	attrs  []slog.Attr
	group  string
}

// NewKafkaWriter creates an async writer for topic.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		Async:                  true,
		AllowAutoTopicCreation: true,
	}
}

// NewKafkaHandler creates a handler writing to w.
func NewKafkaHandler(w MessageWriter, env string, level slog.Level) *KafkaHandler {
	return &KafkaHandler{writer: w, env: env, level: level}
}

// Enabled admits info so request logs reach Handle; Handle does the filtering.
func (h *KafkaHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelInfo
}

func (h *KafkaHandler) Handle(ctx context.Context, record slog.Record) error {
	extra := make(map[string]interface{}, record.NumAttrs()+len(h.attrs))
	isRequest := false
	collect := func(group string) func(slog.Attr) bool {
		return func(a slog.Attr) bool {
			if a.Key == RequestLogKey {
				isRequest = a.Value.Resolve().Kind() == slog.KindBool && a.Value.Bool()
				return true
			}
			extra[qualify(group, a.Key)] = a.Value.Resolve().Any()
			return true
		}
	}
	for _, a := range h.attrs {
		collect("")(a)
	}
	record.Attrs(collect(h.group))

	if record.Level < h.level && !isRequest {
		return nil
	}

	entry := LogEntry{
		Level:     record.Level.String(),
		Message:   record.Message,
		Env:       h.env,
		Timestamp: record.Time.UTC().Format(time.RFC3339Nano),
		Extra:     extra,
	}
	if traceID, ok := extra["trace_id"].(string); ok {
		entry.TraceID = traceID
		delete(extra, "trace_id")
	}

	body, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode log entry: %w", err)
	}
	return h.writer.WriteMessages(ctx, kafka.Message{Value: body, Time: record.Time})
}

// WithAttrs binds attrs under the groups opened so far.
func (h *KafkaHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append([]slog.Attr{}, h.attrs...)
	for _, a := range attrs {
		if a.Key != RequestLogKey {
			a.Key = qualify(h.group, a.Key)
		}
		clone.attrs = append(clone.attrs, a)
	}
	return &clone
}

func qualify(group, key string) string {
	if group == "" {
		return key
	}
	return group + "." + key
}

func (h *KafkaHandler) WithGroup(name string) slog.Handler {
	clone := *h
	if clone.group != "" {
		name = clone.group + "." + name
	}
	clone.group = name
	return &clone
}
