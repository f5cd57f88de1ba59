package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/DRSN-tech/film-indexer/internal/cfg"
	"github.com/DRSN-tech/film-indexer/internal/domain"
	"github.com/DRSN-tech/film-indexer/pkg/e"
	"github.com/DRSN-tech/film-indexer/pkg/logger"
	"github.com/google/uuid"
	"github.com/jimlawless/whereami"
	"github.com/segmentio/kafka-go"
)

// FilmsIngestedEvent публикуется после успешной записи фильмов за год.
type FilmsIngestedEvent struct {
	EventID        string  `json:"event_id"`
	EventTimestamp int64   `json:"event_timestamp"`
	RunID          string  `json:"run_id"`
	Year           string  `json:"year"`
	FilmIDs        []int64 `json:"film_ids"`
	Model          string  `json:"model"`
	Table          string  `json:"table"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	writer messageWriter
	logger logger.Logger
	cfg    *cfg.KafkaCfg
}

func NewProducer(logger logger.Logger, cfg *cfg.KafkaCfg) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchSize:    1,
		BatchTimeout: 50 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Warnf("Kafka producer error: %s", err.Error())
			}
		},
	}

	return newProducer(writer, logger, cfg)
}

func newProducer(writer messageWriter, logger logger.Logger, cfg *cfg.KafkaCfg) *Producer {
	return &Producer{
		writer: writer,
		logger: logger,
		cfg:    cfg,
	}
}

// PublishFilmsIngested пишет событие с ключом-годом, чтобы события одного года шли в одну партицию.
func (p *Producer) PublishFilmsIngested(ctx context.Context, run *domain.IngestionRun) error {
	value, err := GetPayloadBytes(run)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(run.Year),
		Value: value,
	}); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// EnsureTopic создаёт топик, если брокер его ещё не знает.
func (p *Producer) EnsureTopic(timeout time.Duration) error {
	const (
		partitions        = 1
		replicationFactor = 1
	)

	if len(p.cfg.Brokers) == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrMissingConfig)
	}

	conn, err := kafka.Dial("tcp", p.cfg.Brokers[0])
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	defer conn.Close()

	topics, err := conn.ReadPartitions(p.cfg.Topic)
	if err == nil && len(topics) > 0 {
		return nil
	}

	done := make(chan error, 1)
	go func() {
		done <- conn.CreateTopics(kafka.TopicConfig{
			Topic:             p.cfg.Topic,
			NumPartitions:     partitions,
			ReplicationFactor: replicationFactor,
		})
	}()

	select {
	case err := <-done:
		if err != nil {
			return e.Wrap(whereami.WhereAmI(), fmt.Errorf("failed to create topic %s: %w", p.cfg.Topic, err))
		}
		return nil
	case <-time.After(timeout):
		_ = conn.Close()
		return e.Wrap(whereami.WhereAmI(), fmt.Errorf("timeout: %v, topic: %s", timeout, p.cfg.Topic))
	}
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

func GetPayloadBytes(run *domain.IngestionRun) ([]byte, error) {
	event := FilmsIngestedEvent{
		EventID:        uuid.NewString(),
		EventTimestamp: time.Now().UnixNano(),
		RunID:          run.RunID,
		Year:           run.Year,
		FilmIDs:        run.FilmIDs,
		Model:          run.Model,
		Table:          run.Table,
	}

	return json.Marshal(event)
}
