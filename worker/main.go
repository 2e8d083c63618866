package main

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/newspulse/sentiment-dashboard/internal/config"
	"github.com/newspulse/sentiment-dashboard/internal/dedupe"
	"github.com/newspulse/sentiment-dashboard/internal/elasticsearch"
	"github.com/newspulse/sentiment-dashboard/internal/logger"
	"github.com/newspulse/sentiment-dashboard/internal/models"
)

// rawArticle is the sentiment-scored payload produced upstream. Topics may
// arrive as a JSON array or as a string that itself contains a JSON array;
// both are parsed strictly, never evaluated.
type rawArticle struct {
	PublishedAt string          `json:"publishedAt"`
	Title       string          `json:"title"`
	Text        string          `json:"text"`
	Sentiment   string          `json:"sentiment"`
	Topics      json.RawMessage `json:"topics"`
	Source      string          `json:"source"`
	URL         string          `json:"url"`
}

type articleIndexer interface {
	IndexArticle(ctx context.Context, a models.Article) error
}

func main() {
	log := logger.New("worker")
	cfg, err := config.LoadWorker()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	esClient, err := elasticsearch.New(cfg.Common, log)
	if err != nil {
		log.Error("init elasticsearch", slog.Any("err", err))
		os.Exit(1)
	}

	seen := dedupe.New(cfg.DedupeCapacity, cfg.DedupeTTL)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.KafkaBrokers,
		Topic:          cfg.KafkaTopic,
		GroupID:        cfg.KafkaConsumer,
		QueueCapacity:  cfg.BatchSize,
		MinBytes:       1e3,
		MaxBytes:       10e6,
		CommitInterval: 0, // Disable auto-commit; manual commit only
	})
	defer reader.Close()

	dlqWriter := kafka.NewWriter(kafka.WriterConfig{
		Brokers:     cfg.KafkaBrokers,
		Topic:       cfg.KafkaTopic + "_dlq",
		MaxAttempts: 3,
	})
	defer dlqWriter.Close()

	log.Info("worker started",
		slog.String("topic", cfg.KafkaTopic),
		slog.String("group", cfg.KafkaConsumer),
		slog.String("dlq_topic", cfg.KafkaTopic+"_dlq"),
	)

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				log.Info("context canceled, stopping")
				return
			}
			log.Error("fetch message", slog.Any("err", err))
			continue
		}

		if err := processMessage(ctx, log, esClient, seen, msg); err != nil {
			log.Warn("process message failed, sending to DLQ",
				slog.Any("err", err),
				slog.Int("partition", msg.Partition),
				slog.Int64("offset", msg.Offset),
			)

			dlqMsg := kafka.Message{
				Value: msg.Value,
				Headers: append(msg.Headers,
					kafka.Header{Key: "original_partition", Value: []byte(fmt.Sprintf("%d", msg.Partition))},
					kafka.Header{Key: "original_offset", Value: []byte(fmt.Sprintf("%d", msg.Offset))},
					kafka.Header{Key: "error", Value: []byte(err.Error())},
					kafka.Header{Key: "timestamp", Value: []byte(time.Now().UTC().Format(time.RFC3339))},
				),
			}

			// Retry DLQ write with exponential backoff; commit only after a
			// successful write so nothing is silently dropped.
			dlqSuccess := false
			for attempt := 0; attempt < 5; attempt++ {
				if dlqErr := dlqWriter.WriteMessages(ctx, dlqMsg); dlqErr == nil {
					dlqSuccess = true
					break
				} else {
					backoff := time.Duration(1<<uint(attempt)) * time.Second
					log.Warn("DLQ write failed, retrying",
						slog.Any("err", dlqErr),
						slog.Int("attempt", attempt+1),
						slog.Duration("backoff", backoff),
					)
					select {
					case <-time.After(backoff):
					case <-ctx.Done():
						log.Info("context canceled during DLQ retry")
						return
					}
				}
			}

			if dlqSuccess {
				if err := reader.CommitMessages(ctx, msg); err != nil {
					log.Error("commit failed message to dlq", slog.Any("err", err))
				}
			} else {
				log.Error("DLQ write exhausted retries, message may be lost if later messages commit",
					slog.Int("partition", msg.Partition),
					slog.Int64("offset", msg.Offset),
				)
			}
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit message", slog.Any("err", err))
		}
	}
}

func processMessage(ctx context.Context, log *slog.Logger, indexer articleIndexer, seen *dedupe.Seen, msg kafka.Message) error {
	var payload rawArticle
	if err := json.Unmarshal(msg.Value, &payload); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}

	title := strings.TrimSpace(payload.Title)
	txt := strings.TrimSpace(payload.Text)
	if title == "" && txt == "" {
		return errors.New("empty payload")
	}

	sentiment := strings.ToLower(strings.TrimSpace(payload.Sentiment))
	if sentiment == "" {
		return errors.New("missing sentiment label")
	}

	topics, err := decodeTopics(payload.Topics)
	if err != nil {
		return fmt.Errorf("decode topics: %w", err)
	}

	ts := parseTimestamp(payload.PublishedAt)
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	source := strings.TrimSpace(payload.Source)
	if source == "" {
		source = "unknown"
	}
	url := strings.TrimSpace(payload.URL)

	doc := models.Article{
		ID:          buildDocumentID(title, url, ts),
		PublishedAt: ts,
		Title:       title,
		Text:        txt,
		Sentiment:   sentiment,
		Topics:      topics,
		Source:      source,
		URL:         url,
	}

	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}

	if seen.Observed(doc.ID) {
		log.Debug("duplicate article", slog.String("id", doc.ID))
		return nil
	}

	if err := indexer.IndexArticle(ctx, doc); err != nil {
		return err
	}

	seen.Record(doc.ID)
	log.Info("indexed article",
		slog.String("id", doc.ID),
		slog.String("title", doc.Title),
		slog.String("sentiment", doc.Sentiment),
	)
	return nil
}

// decodeTopics accepts either a JSON array of strings or a JSON string whose
// content is itself a JSON array. Anything else is a malformed record.
func decodeTopics(raw json.RawMessage) ([]string, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}

	var topics []string
	if err := json.Unmarshal(raw, &topics); err == nil {
		return cleanTopics(topics), nil
	}

	var encoded string
	if err := json.Unmarshal(raw, &encoded); err != nil {
		return nil, errors.New("topics must be a JSON array or an encoded JSON array")
	}
	if err := json.Unmarshal([]byte(encoded), &topics); err != nil {
		return nil, fmt.Errorf("topics string is not a JSON array: %w", err)
	}
	return cleanTopics(topics), nil
}

func cleanTopics(topics []string) []string {
	out := make([]string, 0, len(topics))
	for _, t := range topics {
		if trimmed := strings.TrimSpace(t); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// buildDocumentID hashes the most stable fields to form deterministic IDs.
func buildDocumentID(title, url string, ts time.Time) string {
	if title == "" && url == "" {
		return ""
	}
	s := sha1.Sum([]byte(title + "|" + url + "|" + ts.UTC().Format(time.RFC3339)))
	return hex.EncodeToString(s[:])
}

func parseTimestamp(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}

	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
	}

	for _, f := range formats {
		if ts, err := time.Parse(f, raw); err == nil {
			return ts
		}
	}

	return time.Time{}
}
