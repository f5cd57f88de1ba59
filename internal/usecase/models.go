package usecase

import (
	"fmt"

	"github.com/DRSN-tech/film-indexer/internal/domain"
)

// FILM USECASE

// IngestReq описывает запрос на загрузку фильмов за год.
type IngestReq struct {
	Year string
}

// IngestRes содержит результат успешной загрузки.
type IngestRes struct {
	RunID     string
	Year      string
	FilmCount int
}

// Message возвращает текст ответа для клиента.
func (r *IngestRes) Message() string {
	return fmt.Sprintf("%d films added for year %s", r.FilmCount, r.Year)
}

// INFRASTUCTURE

// DiscoverRes — первая страница каталога за год.
type DiscoverRes struct {
	Films []domain.Film
	Raw   []byte // тело ответа каталога как есть
}

// MAPPERS

func NewIngestReq(year string) *IngestReq {
	return &IngestReq{Year: year}
}

func NewIngestRes(runID, year string, count int) *IngestRes {
	return &IngestRes{
		RunID:     runID,
		Year:      year,
		FilmCount: count,
	}
}

func NewDiscoverRes(films []domain.Film, raw []byte) *DiscoverRes {
	return &DiscoverRes{
		Films: films,
		Raw:   raw,
	}
}
