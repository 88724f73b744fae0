package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/MKhiriev/apitools/internal/app"
	"github.com/MKhiriev/apitools/internal/chain"
	"github.com/MKhiriev/apitools/internal/config"
	myHTTP "github.com/MKhiriev/apitools/internal/handler/http"
	"github.com/MKhiriev/apitools/internal/httperr"
	"github.com/MKhiriev/apitools/internal/logger"
	"github.com/MKhiriev/apitools/internal/utils"
	"github.com/MKhiriev/apitools/internal/validation"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	cfg, err := config.GetStructuredConfig(os.Args[1:])
	if err != nil {
		logger.NewLogger("apitools-example").Fatal().Err(err).Msg("error getting configs")
	}

	log := logger.New("apitools-example", cfg.LoggerOptions())
	log.Debug().Any("config", cfg).Msg("received configs")

	httpCfg, err := cfg.HTTPConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid http configuration")
	}

	a := app.New(httpCfg, log, app.WithShutdownTimeout(cfg.Server.ShutdownTimeout))
	if err = a.TrustProxy(cfg.Server.TrustProxy); err != nil {
		log.Fatal().Err(err).Msg("invalid TRUST_PROXY")
	}

	a.UseInitialMiddlewares(nil).UseCompression().UseRateLimit(100, time.Minute)
	a.Use(chain.Step("before", func(_ http.ResponseWriter, r *http.Request) chain.Outcome {
		logger.FromRequest(r).Debug().Str("path", r.URL.Path).Msg("before middleware")
		return chain.Next()
	}))

	registerRoutes(a)

	a.UseHealthyRoute().UseRootRoute().UseMetricsRoute()
	a.Use(chain.Recover("inspect", func(err error, _ http.ResponseWriter, r *http.Request) chain.Outcome {
		logger.FromRequest(r).Debug().Err(err).Msg("error middleware")
		return chain.Fail(err)
	}))
	a.UseApiFinalMiddlewares(nil)

	if _, err = a.Start(cfg.Server.Port); err != nil {
		log.Fatal().Err(err).Msg("error starting server")
	}

	if err = a.Run(context.Background()); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
	log.Info().Msg("server stopped")
}

type signupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func registerRoutes(a *app.Application) {
	structs := validation.NewStructs()

	a.Get("/ok", app.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	a.Get("/throw", app.Wrap(func(http.ResponseWriter, *http.Request) error {
		return errors.New("Unexpected error")
	}))
	a.Get("/bad", app.Wrap(func(http.ResponseWriter, *http.Request) error {
		return httperr.BadRequest("")
	}))
	a.Get("/not", app.Wrap(func(http.ResponseWriter, *http.Request) error {
		return httperr.NotImplemented("")
	}))
	a.Get("/valid",
		validation.New().MustValidate(validation.Schemas{
			validation.Query: map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]any{
					"param": map[string]any{"type": "string"},
				},
				"required": []any{"param"},
			},
		}),
		app.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = fmt.Fprintf(w, "valid %s", r.URL.Query().Get("param"))
		}),
	)
	a.Post("/signup", app.Wrap(func(w http.ResponseWriter, r *http.Request) error {
		var req signupRequest
		if err := structs.BindJSON(r, &req); err != nil {
			return err
		}
		_, err := utils.WriteJSON(w, map[string]string{"email": req.Email}, http.StatusCreated)
		return err
	}))
	a.Post("/echo", app.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := myHTTP.Body(r)
		logger.FromRequest(r).Debug().Any("body", body).Msg("echo")
		_, _ = utils.WriteJSON(w, body, http.StatusOK)
	}))
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
