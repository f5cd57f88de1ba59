package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/DRSN-tech/film-indexer/internal/cfg"
	"github.com/DRSN-tech/film-indexer/internal/domain"
	"github.com/DRSN-tech/film-indexer/internal/repository/redis/converter"
	"github.com/DRSN-tech/film-indexer/pkg/clients"
	"github.com/DRSN-tech/film-indexer/pkg/e"
	"github.com/DRSN-tech/film-indexer/pkg/logger"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

// StatusRepo хранит последний успешный прогон загрузки по каждому году.
type StatusRepo struct {
	client *clients.RedisClient
	conv   converter.IngestionRunConverter
	cfg    *cfg.RedisCfg
	logger logger.Logger
}

func NewStatusRepo(client *clients.RedisClient, conv converter.IngestionRunConverter,
	cfg *cfg.RedisCfg, logger logger.Logger) *StatusRepo {
	return &StatusRepo{
		client: client,
		conv:   conv,
		cfg:    cfg,
		logger: logger,
	}
}

// Save перезаписывает статус года с TTL из конфигурации.
func (s *StatusRepo) Save(ctx context.Context, run *domain.IngestionRun) error {
	data, err := json.Marshal(s.conv.ToRedisModel(run))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := s.client.Client.Set(ctx, yearKey(run.Year), data, s.cfg.StatusTTL).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// Get возвращает статус года или e.ErrIngestionNotFound.
func (s *StatusRepo) Get(ctx context.Context, year string) (*domain.IngestionRun, error) {
	data, err := s.client.Client.Get(ctx, yearKey(year)).Bytes()
	if err != nil {
		if errors.Is(err, r.Nil) {
			return nil, e.ErrIngestionNotFound
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var model converter.IngestionRunRedisModel
	if err := json.Unmarshal(data, &model); err != nil {
		s.logger.Warnf("Redis unmarshal failed, dropping key %s: %v", yearKey(year), err)
		if err := s.client.Client.Del(ctx, yearKey(year)).Err(); err != nil {
			s.logger.Warnf("Redis del failed: %v", e.Wrap(whereami.WhereAmI(), err))
		}
		return nil, e.ErrIngestionNotFound
	}

	return s.conv.ToEntity(&model), nil
}

// yearKey возвращает Redis-ключ статуса года
func yearKey(year string) string {
	return fmt.Sprintf("ingestion:year:%s", year)
}
