/*
note is the scoring service for a sheet-music practice tool: it aligns a
performer's transcribed notes against a reference score, localizes the
performance errors, and reports tempo stability.

Command line usage is

	note [-h] [-c config] [-p hostport] [-d]
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	sentry "github.com/getsentry/sentry-go"

	"github.com/orangishcat/note/internal/auth"
	"github.com/orangishcat/note/internal/config"
	"github.com/orangishcat/note/internal/storage"
	"github.com/orangishcat/note/internal/transcribe"
)

const description = `
note is the scoring engine behind a sheet-music practice tool: given a
reference score and a transcribed performance, it reports an edit script of
performance errors plus a tempo-stability analysis.

It runs as an HTTP service; see server.go for the route contract and
internal/scoring for the engine itself.
`

func usage() {
	fmt.Printf("Usage: note [OPTIONS]\n  -h    print this help message.\n")
	flag.PrintDefaults()
	fmt.Println(description)
}

func main() {
	flag.Usage = usage

	var debug bool
	flag.BoolVar(&debug, "d", false, "Enable diagnostic logging")

	var configPath string
	flag.StringVar(&configPath, "c", config.GetConfigPath(), "Path to the TOML config file")

	var hostport string
	flag.StringVar(&hostport, "p", "", "Host:port to listen on (overrides config)")

	flag.Parse()

	if err := config.LoadDotEnv(debug); err != nil {
		logrus.WithError(err).Fatal("failed to load .env")
	}

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if debug {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}

	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: dsn}); err != nil {
			logrus.WithError(err).Error("sentry.Init failed, continuing without error reporting")
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}
	if hostport != "" {
		cfg.ListenAddr = hostport
	}

	bucket, err := buildBucket(debug, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("failed to set up storage")
	}

	transcriber := transcribe.NewHTTPTranscriber(cfg.TranscriberURL)

	var verifier *auth.Verifier
	if secret := os.Getenv("SECRET_KEY"); secret != "" {
		verifier = auth.NewVerifier([]byte(secret))
	} else {
		logrus.Warn("SECRET_KEY not set, running with authentication disabled")
	}

	srv := NewServer(bucket, transcriber, verifier, cfg.Tempo.ToParams(), cfg.RateLimitRPS, cfg.RateLimitBurst)

	logrus.WithField("addr", cfg.ListenAddr).Info("starting note scoring service")
	runServer(srv, cfg)
}

func buildBucket(debug bool, cfg config.Config) (storage.Bucket, error) {
	if debug {
		return storage.NewLocalFixtureBucket("fixtures")
	}
	return storage.NewS3Bucket(context.Background(), cfg.StorageBucket)
}

func runServer(srv *Server, cfg config.Config) {
	certpath, keypath := os.Getenv(cfg.TLSCertEnv), os.Getenv(cfg.TLSKeyEnv)
	engine := srv.Router()

	if certpath != "" && keypath != "" {
		logrus.WithField("addr", cfg.ListenAddr).Info("serving with TLS")
		if err := engine.RunTLS(cfg.ListenAddr, certpath, keypath); err != nil {
			logrus.WithError(err).Fatal("could not start TLS listener")
		}
		return
	}

	if err := engine.Run(cfg.ListenAddr); err != nil {
		logrus.WithError(err).Fatal("could not start listener")
	}
}
