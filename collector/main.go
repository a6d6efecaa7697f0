package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nytarchive/internal/config"
	"nytarchive/internal/elasticsearch"
	"nytarchive/internal/export"
	"nytarchive/internal/logger"
	"nytarchive/internal/models"
	"nytarchive/internal/normalize"
	"nytarchive/internal/nytimes"
)

type articleSearcher interface {
	Search(ctx context.Context, params nytimes.SearchParams) ([]normalize.RawRecord, error)
}

type articleIndexer interface {
	IndexArticle(ctx context.Context, doc models.Article) error
}

func main() {
	log := logger.New("collector")
	cfg, err := config.LoadCollector()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	jobs, err := config.LoadJobs(cfg.JobsFile)
	if err != nil {
		log.Error("load jobs", slog.Any("err", err), slog.String("file", cfg.JobsFile))
		os.Exit(1)
	}

	normalizer, err := normalize.New(cfg.RequiredFields)
	if err != nil {
		log.Error("configure normalizer", slog.Any("err", err))
		os.Exit(1)
	}

	var indexer articleIndexer
	if cfg.IndexArticles {
		esClient, err := elasticsearch.New(cfg.ElasticsearchAddr, cfg.ElasticsearchIndex, log)
		if err != nil {
			log.Error("init elasticsearch", slog.Any("err", err))
			os.Exit(1)
		}

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = esClient.Ping(pingCtx)
		cancel()
		if err != nil {
			log.Error("elasticsearch unreachable", slog.Any("err", err))
			os.Exit(1)
		}

		indexer = esClient
	}

	client := nytimes.New(cfg.APIKey, cfg.BaseURL, cfg.RequestInterval, cfg.MaxRetries, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	log.Info("collector started",
		slog.Int("jobs", len(jobs)),
		slog.Bool("strict", cfg.Strict),
		slog.Bool("index_articles", cfg.IndexArticles),
	)

	for _, job := range jobs {
		if err := runJob(ctx, log, client, normalizer, indexer, cfg, job); err != nil {
			if errors.Is(err, context.Canceled) {
				log.Info("collection interrupted", slog.String("job", job.Name))
				return
			}
			log.Error("job failed", slog.String("job", job.Name), slog.Any("err", err))
			os.Exit(1)
		}
	}

	log.Info("all jobs complete")
}

func runJob(
	ctx context.Context,
	log *slog.Logger,
	client articleSearcher,
	normalizer *normalize.Normalizer,
	indexer articleIndexer,
	cfg *config.Collector,
	job config.Job,
) error {
	log.Info("job started",
		slog.String("job", job.Name),
		slog.String("query", job.Query),
		slog.Int("results", job.Results),
	)

	docs, err := client.Search(ctx, nytimes.SearchParams{
		Query:     job.Query,
		BeginDate: job.BeginDate,
		EndDate:   job.EndDate,
		Results:   job.Results,
	})
	if err != nil {
		return err
	}

	proc := normalize.NewProcessor(normalizer, cfg.Strict, func(id, reason string) {
		log.Warn("skipping article",
			slog.String("job", job.Name),
			slog.String("id", id),
			slog.String("reason", reason),
		)
	})

	result, err := proc.ProcessAll(docs)
	if err != nil {
		return err
	}

	log.Info("batch processed",
		slog.String("job", job.Name),
		slog.Int("processed", len(result.Records)),
		slog.Int("errors", result.Errors),
	)

	if len(result.Records) == 0 {
		log.Warn("no articles to save", slog.String("job", job.Name))
		return nil
	}

	if err := export.WriteFile(job.Output, result.Records); err != nil {
		return err
	}
	log.Info("articles saved",
		slog.String("job", job.Name),
		slog.String("output", job.Output),
		slog.Int("articles", len(result.Records)),
	)

	if indexer == nil {
		return nil
	}

	for _, flat := range result.Records {
		if err := indexer.IndexArticle(ctx, models.FromFlat(flat)); err != nil {
			return err
		}
	}
	log.Info("articles indexed",
		slog.String("job", job.Name),
		slog.Int("articles", len(result.Records)),
	)

	return nil
}
