package main

import (
	"context"
	"flag"
	"log/syslog"
	"os"
	"os/signal"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	logrusys "github.com/sirupsen/logrus/hooks/syslog"
	"github.com/softala/kartoteka"
	"github.com/softala/kartoteka/persistent"
	"github.com/softala/kartoteka/transport/rest"
	"github.com/uptrace/bun"
	_ "github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
)

type config struct {
	Debug        bool   `env:"DEBUG" env-default:"false"`
	ListenAddr   string `env:"LISTEN_ADDR" env-default:":8080"`
	PostgresDsn  string `env:"POSTGRES_DSN" env-required:"true"`
	AllowOrigins string `env:"CORS_ALLOW_ORIGINS" env-default:"*"`
}

func loadConfig() config {
	// .env is a dev convenience, absence is fine.
	_ = godotenv.Load()

	var cfg config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		logrus.WithError(err).Fatalln("Could not read config from env.")
	}
	return cfg
}

func listenAndServe(ctx context.Context, db *bun.DB, cfg config) func() error {
	profileStore := &persistent.ProfileStore{DB: db}
	profileService := &kartoteka.ProfileService{Store: profileStore}
	profileController := rest.ProfileController{Service: profileService}

	server := fiber.New()
	server.Use(rest.LogHandler())

	api := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorHandler: rest.ErrorHandler,
	})
	api.Use(cors.New(cors.Config{AllowOrigins: cfg.AllowOrigins}))

	api.Get("/status", monitor.New())
	profileController.InstallTo(api)
	server.Mount("/api/v1/", api)

	server.Use(rest.NotFoundHandler)

	go server.Listen(cfg.ListenAddr)

	return func() error {
		return server.Shutdown()
	}
}

func setupLogger(verbose bool) {
	logrus.SetFormatter(&logrus.TextFormatter{
		TimestampFormat: time.Stamp,
		FullTimestamp:   true,
	})
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	syslogHook, err := logrusys.NewSyslogHook("", "", syslog.LOG_USER, "kartoteka_backend")
	if err != nil {
		logrus.WithError(err).Warningln("Could not create syslog hook.")
		return
	}
	logrus.AddHook(syslogHook)
}

func awaitInterruption() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	<-c
}

func main() {
	flag.Parse()
	cfg := loadConfig()
	setupLogger(cfg.Debug)
	logrus.Infoln("Starting backend.")

	logrus.Infoln("Opening database.")
	db := persistent.PgOpen(context.Background(), cfg.PostgresDsn)
	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	defer db.DB.Close()
	defer db.Close()

	logrus.Infoln("Starting listening... To shut down use ^C")
	shutdown := listenAndServe(context.Background(), db, cfg)

	awaitInterruption()

	logrus.Infoln("Shutting down...")
	err := shutdown()
	if err != nil {
		logrus.WithError(err).Warningln("Fiber shutdown failed.")
	}
	logrus.Exit(0)
}
