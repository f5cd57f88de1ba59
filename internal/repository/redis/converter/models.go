package converter

// IngestionRunRedisModel хранит JSON-представление прогона загрузки в Redis.
type IngestionRunRedisModel struct {
	RunID      string  `json:"run_id"`
	Year       string  `json:"year"`
	FilmCount  int     `json:"film_count"`
	FilmIDs    []int64 `json:"film_ids"`
	Model      string  `json:"model"`
	Table      string  `json:"table"`
	FinishedAt int64   `json:"finished_at"` // unix, секунды
}
