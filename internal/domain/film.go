package domain

// Film описывает фильм из каталога (TMDB)
type Film struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Overview     string `json:"overview"`
	ReleaseDate  string `json:"release_date"`
	BackdropPath string `json:"backdrop_path"`
}

// EmbeddedFilm хранит фильм вместе с эмбеддингом его описания.
// ID всегда совпадает с ID исходного Film.
type EmbeddedFilm struct {
	Film
	Embedding []float32 `json:"embedding"`
}

func NewEmbeddedFilm(film Film, embedding []float32) *EmbeddedFilm {
	return &EmbeddedFilm{
		Film:      film,
		Embedding: embedding,
	}
}
