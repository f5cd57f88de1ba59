package main

import (
	"context"
	"fmt"
	"time"

	"github.com/DRSN-tech/film-indexer/internal/app"
	config "github.com/DRSN-tech/film-indexer/internal/cfg"
	"github.com/DRSN-tech/film-indexer/pkg/logger"
	"github.com/urfave/cli/v3"
)

func envFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "env",
		Usage: "путь к .env файлу",
		Value: ".env",
	}
}

func newCommand(log logger.Logger) *cli.Command {
	return &cli.Command{
		Name:  "film-indexer",
		Usage: "загрузка фильмов TMDB с эмбеддингами в векторное хранилище",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "запустить HTTP и gRPC серверы",
				Flags:  []cli.Flag{envFlag()},
				Action: serveAction(log),
			},
			{
				Name:  "ingest",
				Usage: "загрузить фильмы за один год и выйти",
				Flags: []cli.Flag{
					envFlag(),
					&cli.StringFlag{
						Name:     "year",
						Usage:    "год выпуска, YYYY",
						Required: true,
					},
				},
				Action: ingestAction(log),
			},
		},
	}
}

func serveAction(log logger.Logger) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := config.Load(log, cmd.String("env"))
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		application, err := app.NewApp(cfg, log)
		if err != nil {
			return fmt.Errorf("failed to initialize app: %w", err)
		}

		return application.Run()
	}
}

func ingestAction(log logger.Logger) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := config.Load(log, cmd.String("env"))
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		application, err := app.NewApp(cfg, log)
		if err != nil {
			return fmt.Errorf("failed to initialize app: %w", err)
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := application.Close(closeCtx); err != nil {
				log.Warnf("shutdown finished with errors: %v", err)
			}
		}()

		res, err := application.Ingest(ctx, cmd.String("year"))
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.Root().Writer, res.Message())
		return nil
	}
}
