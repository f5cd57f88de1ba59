package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/DRSN-tech/film-indexer/pkg/logger"
)

//	@title			film-indexer API
//	@version		1.0
//	@description	Загрузка фильмов TMDB с эмбеддингами описаний в векторное хранилище.
//	@BasePath		/api/v1
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.NewSlogLogger()

	if err := newCommand(log).Run(ctx, os.Args); err != nil {
		log.Errorf(err, "command failed")
		os.Exit(1)
	}
}
