package converter

import (
	"time"

	"github.com/pgvector/pgvector-go"
)

// FilmModel представляет запись таблицы фильмов в PostgreSQL.
type FilmModel struct {
	ID           int64           `db:"id"`
	Title        string          `db:"title"`
	Overview     string          `db:"overview"`
	ReleaseDate  string          `db:"release_date"`
	BackdropPath string          `db:"backdrop_path"`
	Embedding    pgvector.Vector `db:"embedding"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`
}
