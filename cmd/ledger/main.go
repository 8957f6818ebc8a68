package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"max.ks1230/expense-ledger/internal/clients/cache"
	"max.ks1230/expense-ledger/internal/clients/kafka"
	"max.ks1230/expense-ledger/internal/config"
	"max.ks1230/expense-ledger/internal/logger"
	"max.ks1230/expense-ledger/internal/model/export"
	"max.ks1230/expense-ledger/internal/model/ledger"
	"max.ks1230/expense-ledger/internal/model/storage"
	"max.ks1230/expense-ledger/internal/model/trend"
	"max.ks1230/expense-ledger/internal/tracing"
)

const usage = `usage: ledger <command> [flags]

commands:
  register  create an account
  add       add an expense
  list      list expenses, optionally filtered and ordered
  trend     print the monthly average trend
  export    write the account to the export directory
  reset     remove every expense of the account
  delete    delete the account`

type app struct {
	ledger     *ledger.Service
	aggregator *trend.Aggregator
	exporter   *export.Writer
	closers    []io.Closer
}

func main() {
	defer logger.Sync()

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	// .env is optional
	_ = godotenv.Load()

	conf, err := config.New()
	if err != nil {
		logger.Fatal("failed to init config:", zap.Error(err))
	}

	a, err := newApp(conf)
	if err != nil {
		logger.Fatal("failed to init ledger:", zap.Error(err))
	}
	defer a.close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err = a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		a.close()
		os.Exit(1)
	}
}

func newApp(conf *config.Service) (*app, error) {
	a := &app{}

	tracer, err := tracing.Init(conf.Tracing())
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, tracer)

	docs, err := newStorage(conf)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, docs)

	var opts []ledger.Option
	if conf.Memcached().Enabled() {
		mc, err := cache.NewMemcache(conf.Memcached())
		if err != nil {
			logger.Warn("memcached unavailable, running without cache", zap.Error(err))
		} else {
			opts = append(opts, ledger.WithCache(mc))
		}
	}
	if conf.Kafka().Enabled() {
		producer, err := kafka.NewProducer(conf.Kafka())
		if err != nil {
			logger.Warn("kafka unavailable, events are not published", zap.Error(err))
		} else {
			a.closers = append(a.closers, closerFunc(producer.Close))
			opts = append(opts, ledger.WithEvents(producer))
		}
	}

	a.ledger = ledger.NewService(docs, opts...)
	a.aggregator = trend.NewAggregator(conf.App())
	a.exporter = export.NewWriter(conf.App(), a.ledger)
	return a, nil
}

type documentStorage interface {
	io.Closer
	FindByCredentials(ctx context.Context, username, password string) (storage.Document, error)
	Get(ctx context.Context, username string) (storage.Document, error)
	Insert(ctx context.Context, doc storage.Document) error
	UpdateBody(ctx context.Context, username string, body []byte) error
	Delete(ctx context.Context, username string) error
}

func newStorage(conf *config.Service) (documentStorage, error) {
	switch conf.Storage().Backend() {
	case config.BackendPostgres:
		return storage.NewPostgresStorage(conf.Postgres())
	case config.BackendSQLite:
		return storage.NewSQLiteStorage(conf.Storage().SQLitePath())
	default:
		logger.Warn("in-memory storage: accounts are lost on exit")
		return storage.NewInMemStorage(), nil
	}
}

type closerFunc func()

func (f closerFunc) Close() error {
	f()
	return nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			logger.Error("close failed", zap.Error(err))
		}
	}
	a.closers = nil
}
