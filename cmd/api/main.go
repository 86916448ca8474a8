package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/datapact/datapact-go/internal/config"
	"github.com/datapact/datapact-go/internal/handler"
	"github.com/datapact/datapact-go/internal/ledger"
	"github.com/datapact/datapact-go/internal/middleware"
	"github.com/datapact/datapact-go/internal/repository"
	"github.com/datapact/datapact-go/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := repository.NewDB(cfg.DatabaseDSN)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	// Account is the one entity family with a ledger-backed variant; the
	// hybrid strategy construction fails here, at startup, if the wiring is
	// incomplete.
	relationalAccounts := repository.NewRelationalAccountRepository(db)
	var accountStrategy *repository.Strategy[repository.AccountRepository]
	if cfg.LedgerEndpoint != "" {
		client := ledger.NewHTTPClient(cfg.LedgerEndpoint, cfg.LedgerTimeout)
		accountStrategy, err = repository.NewHybridStrategy[repository.AccountRepository](
			relationalAccounts, ledger.NewAccountRepository(client))
		if err != nil {
			slog.Error("account backend wiring failed", "error", err)
			os.Exit(1)
		}
		slog.Info("ledger-backed account repository enabled", "endpoint", cfg.LedgerEndpoint)
	} else {
		accountStrategy = repository.NewStrategy[repository.AccountRepository](relationalAccounts)
	}

	offerStrategy := repository.NewStrategy[repository.OfferRepository](
		repository.NewRelationalOfferRepository(db))
	shareStrategy := repository.NewStrategy[repository.OfferShareRepository](
		repository.NewRelationalOfferShareRepository(db))
	profileStrategy := repository.NewStrategy[repository.ProfileRepository](
		repository.NewRelationalProfileRepository(db))
	fileStrategy := repository.NewStrategy[repository.FileRepository](
		repository.NewRelationalFileRepository(db))
	searchStrategy := repository.NewStrategy[repository.SearchRequestRepository](
		repository.NewRelationalSearchRequestRepository(db))

	accountService := service.NewAccountService(accountStrategy)
	offerService := service.NewOfferService(offerStrategy)
	shareService := service.NewOfferShareService(shareStrategy, offerStrategy)
	profileService := service.NewProfileService(profileStrategy)
	fileService := service.NewFileService(fileStrategy)
	searchService := service.NewSearchRequestService(searchStrategy)

	authHandler := handler.NewAuthHandler(accountService)
	offerHandler := handler.NewOfferHandler(accountService, offerService)
	shareHandler := handler.NewShareHandler(accountService, shareService)
	profileHandler := handler.NewProfileHandler(accountService, profileService)
	fileHandler := handler.NewFileHandler(fileService)
	searchHandler := handler.NewSearchHandler(accountService, searchService)

	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(5, 10))
		r.Post("/registration", authHandler.HandleRegistration)
		r.Post("/exist", authHandler.HandleExist)
	})

	r.Route("/client", func(r chi.Router) {
		r.Patch("/", profileHandler.HandleUpdateData)
		r.Get("/{pk}/", profileHandler.HandleGetData)

		r.Route("/{pk}/offer", func(r chi.Router) {
			r.Put("/", offerHandler.HandleSaveOffer)
			r.Get("/", offerHandler.HandleGetOffers)
			r.Put("/{id}/", offerHandler.HandleSaveOffer)
			r.Get("/{id}/", offerHandler.HandleGetOffer)
			r.Delete("/{id}/", offerHandler.HandleDeleteOffer)

			r.Post("/share/", shareHandler.HandleShare)
			r.Patch("/share/", shareHandler.HandleAccept)
			r.Get("/share/", shareHandler.HandleGetShareData)
		})

		r.Route("/{pk}/search/request", func(r chi.Router) {
			r.Post("/", searchHandler.HandleSave)
			r.Get("/", searchHandler.HandleGet)
			r.Delete("/{id}/", searchHandler.HandleDelete)
		})
	})

	r.Route("/v1/file/{pk}", func(r chi.Router) {
		r.Put("/", fileHandler.HandleUpload)
		r.Get("/", fileHandler.HandleList)
		r.Put("/{id}/", fileHandler.HandleUpload)
		r.Get("/{id}/", fileHandler.HandleDownload)
		r.Delete("/{id}/", fileHandler.HandleDelete)
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
