package domain

import "time"

// IngestionRun описывает успешный прогон загрузки фильмов за год
type IngestionRun struct {
	RunID      string    `json:"run_id"`
	Year       string    `json:"year"`
	FilmCount  int       `json:"film_count"`
	FilmIDs    []int64   `json:"film_ids"`
	Model      string    `json:"model"`
	Table      string    `json:"table"`
	FinishedAt time.Time `json:"finished_at"`
}

func NewIngestionRun(runID, year, model, table string, films []EmbeddedFilm) *IngestionRun {
	ids := make([]int64, 0, len(films))
	for _, f := range films {
		ids = append(ids, f.ID)
	}

	return &IngestionRun{
		RunID:      runID,
		Year:       year,
		FilmCount:  len(films),
		FilmIDs:    ids,
		Model:      model,
		Table:      table,
		FinishedAt: time.Now().UTC(),
	}
}
