package entrypoint

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/soonhyok/accountd/internal/auth"
	"github.com/soonhyok/accountd/internal/config"
	"github.com/soonhyok/accountd/internal/database"
	"github.com/soonhyok/accountd/internal/database/accounts"
	"github.com/soonhyok/accountd/internal/database/audit"
	http_controllers "github.com/soonhyok/accountd/internal/http"
	"github.com/soonhyok/accountd/internal/scheduler"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully within the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// Run wires the application together and serves it.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting accountd v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	accountRepo := accounts.NewRepository(db.DB)
	auditRepo := audit.NewRepository(db.DB)

	authService := auth.NewService(accountRepo, cfg.Auth)

	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatalf("Failed to get SQL DB: %v", err)
	}
	sessionManager, err := auth.NewSessionManager(sqlDB, cfg.Auth)
	if err != nil {
		log.Fatalf("Failed to create session manager: %v", err)
	}

	policy := auth.NewPolicy(auth.DefaultRules())
	authMiddleware := auth.NewMiddleware(authService, sessionManager, policy)

	authController, err := auth.NewController(authService, sessionManager, auditRepo, cfg.UI.TemplatesPath, cfg.Auth)
	if err != nil {
		log.Fatalf("Failed to create auth controller: %v", err)
	}

	// Session secret doubles as the CSRF signing key
	secret := cfg.Auth.SessionSecret
	if secret == "" {
		secret, err = auth.GenerateSessionSecret()
		if err != nil {
			log.Fatalf("Failed to generate session secret: %v", err)
		}
		log.Printf("AUTH_SESSION_SECRET not set, generated an ephemeral secret (sessions will not survive restarts)")
	}
	csrfSecret, err := hex.DecodeString(secret)
	if err != nil {
		// Secret was supplied as a raw string rather than hex
		csrfSecret = []byte(secret)
	}

	auditCleanup := scheduler.NewAuditCleanupScheduler(auditRepo, cfg.Audit.RetentionDays)
	if err := auditCleanup.Start(cfg.Audit.CleanupSchedule); err != nil {
		log.Fatalf("Failed to start audit cleanup scheduler: %v", err)
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Database:       db,
		SessionManager: sessionManager,
		AuthMiddleware: authMiddleware,
		AuthController: authController,
		CSRFSecret:     csrfSecret,
		SecureCookies:  cfg.Auth.SecureCookies,
		StaticPath:     cfg.UI.StaticPath,
		Version:        version,
	})

	Serve(router, cfg, func(ctx context.Context) {
		authController.Stop()
		auditCleanup.Stop()
	})
}
