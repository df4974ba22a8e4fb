package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/mail"
	"storefront/internal/payment"
	"storefront/internal/repository"
	"storefront/internal/routes"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	backups := newBackupManager(cfg)
	if cfg.Storage.Driver != "mongo" {
		// Revisión de arranque: restaurar o crear los archivos dañados
		if _, err := backups.RecoverAll(repository.DataFiles(cfg.Storage.DataDir)); err != nil {
			return err
		}
	}

	stores, closeStores, err := openStores(cmd.Context(), cfg, backups)
	if err != nil {
		return err
	}
	defer closeStores()

	c := cache.New(cfg.Cache.TTL)
	defer c.Close()

	deps := routes.Deps{
		Stores:           stores,
		Cache:            c,
		CacheTTL:         cfg.Cache.TTL,
		RazorpaySecret:   cfg.Razorpay.KeySecret,
		AllowOrderDelete: cfg.Orders.AllowDelete,
		Production:       cfg.IsProduction(),
		Port:             cfg.Port,
		Env:              cfg.Env,
	}

	if gateway, err := payment.NewRazorpayGateway(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret); err == nil {
		deps.Gateway = gateway
	} else {
		log.Println("⚠️ Razorpay credentials missing, payment routes disabled")
	}

	mailer, err := mail.New(mail.Settings{
		GmailUser:         cfg.Mail.GmailUser,
		GmailAppPassword:  cfg.Mail.GmailAppPassword,
		HostingerEmail:    cfg.Mail.HostingerEmail,
		HostingerPassword: cfg.Mail.HostingerPassword,
		RelayURL:          cfg.Mail.RelayURL,
		RelayToken:        cfg.Mail.RelayToken,
	})
	if err == nil {
		deps.Notifier = mail.NewNotifier(mailer, cfg.ShopName, cfg.Mail.From, cfg.Mail.Inbox)
	} else {
		log.Println("⚠️ Email disabled:", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Println("🚀 Server running on port", cfg.Port)
		log.Println("🌍 Environment:", cfg.Env)
		log.Println("📊 Storage:", stores.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Failed to serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	log.Println("Server exiting")
	return nil
}
