package main

import (
	"context"
	"log"
	"os"
	"runtime/debug"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iota-uz/timesheet/modules/timesheet"
	"github.com/iota-uz/timesheet/pkg/configuration"
	"github.com/iota-uz/timesheet/pkg/eventbus"
	"github.com/iota-uz/timesheet/pkg/middleware"
	"github.com/iota-uz/timesheet/pkg/server"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			log.Println(r)
			debug.PrintStack()
			os.Exit(1)
		}
	}()

	conf := configuration.Use()
	logger := conf.Logger()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	pool, err := pgxpool.New(ctx, conf.Database.ConnectionString())
	if err != nil {
		panic(err)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		panic(err)
	}

	bus := eventbus.NewEventPublisher(logger)
	module := timesheet.NewModule(conf, bus, logger)

	srv := &server.HTTPServer{
		Controllers: module.Controllers(conf, logger),
		Middlewares: []mux.MiddlewareFunc{
			middleware.RequestLogger(logger),
			middleware.ProvidePool(pool),
			middleware.ProvideTenantID(),
		},
	}

	logger.WithField("address", conf.SocketAddress).Info("listening")
	if err := srv.Start(conf.SocketAddress); err != nil {
		panic(err)
	}
}
