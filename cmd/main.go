package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"apodweb/pkg/apod"
	"apodweb/pkg/config"
	"apodweb/pkg/consts"
	"apodweb/pkg/handler"
	repo "apodweb/pkg/repository"
	srvc "apodweb/pkg/service"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

// sessions that saved nothing for this long are dropped from sql stores at startup
const favoritesMaxAge = 30 * 24 * time.Hour

func main() {
	logrus.SetFormatter(new(logrus.JSONFormatter))

	configPath := flag.String("config", "", "path to a TOML config file")
	flag.Parse()

	if err := config.LoadEnvFile(".env"); err != nil {
		logrus.Fatalf("failed to load .env: %s", err.Error())
	}

	cnf, err := config.Load(*configPath)
	if err != nil {
		logrus.Fatalf("failed to load config: %s", err.Error())
	}

	if os.Getenv(consts.EnvApiKey) == "" {
		logrus.Warnf("%s is not set, APOD requests will be rejected", consts.EnvApiKey)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var db *sqlx.DB
	if cnf.Store.Driver != consts.DriverMemory {
		db, err = repo.NewDB(ctx, cnf.Store)
		if err != nil {
			logrus.Fatalf("failed to initialize db: %s", err.Error())
		}

		store := repo.NewSQL(db)
		if err := store.Migrate(ctx); err != nil {
			logrus.Fatalf("failed to migrate db: %s", err.Error())
		}

		n, err := store.Purge(ctx, time.Now().Add(-favoritesMaxAge))
		if err != nil {
			logrus.Errorf("error occured while purging old favorites: %s", err.Error())
		} else {
			logrus.Infof("purged %d stale favorites", n)
		}
	}

	client := apod.NewClient(apod.ClientConfig{
		BaseURL:    cnf.Apod.BaseURL,
		Credential: func() string { return os.Getenv(consts.EnvApiKey) },
		Verbose:    cnf.Apod.Verbose,
		Logger:     logrus.StandardLogger(),
	})

	services := srvc.NewService(client, repo.NewRepository(db))

	handlers, err := handler.NewHandler(services, cnf.Session)
	if err != nil {
		logrus.Fatalf("failed to initialize handlers: %s", err.Error())
	}

	srv := new(server)
	go func() {
		if err := srv.Run(cnf.Port, handlers.InitRoutes()); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("error occured while running http server: %s", err.Error())
		}
	}()

	logrus.Infof("apodweb listening on :%s", cnf.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Printf("apodweb Shutting Down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
	}

	if db != nil {
		if err := db.Close(); err != nil {
			logrus.Errorf("error occured on db connection close: %s", err.Error())
		}
	}
}

type server struct {
	httpSrv *http.Server
}

func (s *server) Run(port string, h http.Handler) error {
	s.httpSrv = &http.Server{
		Addr:           ":" + port,
		Handler:        h,
		MaxHeaderBytes: 1 << 20,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    10 * time.Second,
	}

	return s.httpSrv.ListenAndServe()
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}
