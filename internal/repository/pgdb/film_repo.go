package pgdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/DRSN-tech/film-indexer/internal/domain"
	"github.com/DRSN-tech/film-indexer/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/film-indexer/pkg/e"
	"github.com/DRSN-tech/film-indexer/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

type querier interface {
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// FilmRepo хранит фильмы и их эмбеддинги в PostgreSQL (pgvector).
type FilmRepo struct {
	pool  *pgxpool.Pool
	conv  converter.FilmConverter
	table string
}

func NewFilmRepo(pool *pgxpool.Pool, conv converter.FilmConverter, table string) *FilmRepo {
	return &FilmRepo{
		pool:  pool,
		conv:  conv,
		table: pgx.Identifier{table}.Sanitize(),
	}
}

// Upsert записывает все фильмы одной пачкой; существующие записи перезаписываются по id.
// Работает в транзакции из контекста, если она есть.
func (f *FilmRepo) Upsert(ctx context.Context, films []domain.EmbeddedFilm) error {
	if len(films) == 0 {
		return nil
	}

	// VALUES ($1, $2, $3, $4, $5, $6) id, title, overview, release_date, backdrop_path, embedding
	query := fmt.Sprintf(`
		INSERT INTO %s (id, title, overview, release_date, backdrop_path, embedding)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id)
		DO UPDATE SET
			title = EXCLUDED.title,
			overview = EXCLUDED.overview,
			release_date = EXCLUDED.release_date,
			backdrop_path = EXCLUDED.backdrop_path,
			embedding = EXCLUDED.embedding,
			updated_at = NOW()
	`, f.table)

	batch := &pgx.Batch{}
	for i := range films {
		m := f.conv.ToModel(&films[i])
		batch.Queue(query, m.ID, m.Title, m.Overview, m.ReleaseDate, m.BackdropPath, m.Embedding)
	}

	br := f.querier(ctx).SendBatch(ctx, batch)
	for range films {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return e.Wrap(whereami.WhereAmI(), datastoreError(err))
		}
	}

	if err := br.Close(); err != nil {
		return e.Wrap(whereami.WhereAmI(), datastoreError(err))
	}

	return nil
}

func (f *FilmRepo) querier(ctx context.Context) querier {
	if tx, err := tr.TxFromCtx(ctx); err == nil {
		return tx
	}
	return f.pool
}

// datastoreError переводит ошибку PostgreSQL в клиентскую ошибку записи.
func datastoreError(err error) error {
	msg := err.Error()

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		msg = pgErr.Message
	}

	return fmt.Errorf("%w: %w", e.NewPublic(e.ErrDatastoreWrite, msg), err)
}
