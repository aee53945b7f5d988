package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go-inventory-ledger/internal/config"
	"go-inventory-ledger/internal/handler"
	"go-inventory-ledger/internal/ledger"
	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/notify"
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/internal/service"
	"go-inventory-ledger/internal/ws"
	"go-inventory-ledger/pkg/database"
	"go-inventory-ledger/pkg/jwt"
	zlog "go-inventory-ledger/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Env
	envErr := godotenv.Load()
	cfg := config.LoadEnv()

	log, err := zlog.New(zlog.Config{
		Development: cfg.IsDevelopment(),
		Level:       cfg.Logger.Level,
		Encoding:    cfg.Logger.Encoding,
	})
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	if envErr != nil {
		log.Warn(".env file not found, relying on system env")
	}

	// 2. Load the ledger; the app does not start without it
	book, err := ledger.Open(cfg.Ledger.Path)
	if err != nil {
		log.Fatal("unsupported ledger path", zap.String("path", cfg.Ledger.Path), zap.Error(err))
	}
	rows, err := book.Load(context.Background())
	if err != nil {
		log.Fatal("failed to load ledger", zap.String("path", book.Path()), zap.Error(err))
	}
	records := repository.NewRecordRepo(cfg.Stock.DefaultThreshold)
	if dups := records.Load(rows); len(dups) > 0 {
		log.Warn("ledger contains duplicate ids", zap.Strings("ids", dups))
	}
	log.Info("ledger loaded", zap.String("path", book.Path()), zap.Int("records", records.Len()))

	// 3. Movement journal: postgres when configured, memory otherwise
	movements := repository.NewMemoryMovementRepo()
	if cfg.Database.URL != "" {
		db, err := database.ConnectDB(cfg.Database.URL)
		if err != nil {
			log.Fatal("failed to connect to database", zap.Error(err))
		}
		if err := db.AutoMigrate(&model.Movement{}); err != nil {
			log.Fatal("failed to migrate movements", zap.Error(err))
		}
		movements = repository.NewMovementRepo(db)
	}

	// 4. Setup WebSocket Hub
	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	wsHub := ws.NewHub(log)
	go wsHub.Run(ctx)

	// 5. Dependency Injection (Wiring Layers)
	settingsService := service.NewSettingsService(model.MailSettings{
		Sender:    cfg.Mail.Username,
		Password:  cfg.Mail.Password,
		Recipient: cfg.Mail.Recipient,
	}, log)
	policy := service.NewLowStockPolicy(cfg.Stock.LowStockThreshold, cfg.Stock.PerRecordThreshold)

	invService := service.NewInventoryService(service.InventoryDeps{
		Records:          records,
		Movements:        movements,
		Ledger:           book,
		Policy:           policy,
		Notifier:         newNotifier(cfg.Mail, log),
		Settings:         settingsService,
		Publisher:        wsHub,
		Logger:           log,
		DefaultThreshold: cfg.Stock.DefaultThreshold,
	})
	filterService := service.NewFilterService(invService)
	identifyService := service.NewIdentifyService(invService)
	dashService := service.NewDashboardService(invService, policy)
	authService := newAuthService(cfg.Admin, log)

	importColumns := ledger.RequiredColumns
	if cfg.Ledger.ImportColumns == "legacy" {
		importColumns = ledger.LegacyColumns
	}

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Inventory Ledger v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 7. Routes
	handler.Register(app, handler.Handlers{
		Inventory: handler.NewInventoryHandler(invService, filterService, identifyService, importColumns, log),
		Scan:      handler.NewScanHandler(identifyService, log),
		Dashboard: handler.NewDashboardHandler(dashService),
		Auth:      handler.NewAuthHandler(authService),
		Settings:  handler.NewSettingsHandler(settingsService),
	}, authService)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Join(c)
		defer wsHub.Leave(c)

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Panic("server stopped", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}
	stop()

	log.Info("server exited")
}

func newNotifier(cfg config.MailConfig, log *zap.Logger) service.LowStockNotifier {
	switch cfg.Driver {
	case "none":
		return notify.Discard{Log: log}
	case "sendgrid":
		return notify.NewLowStockMailer(notify.NewSendGridClient(cfg.SendGridAPIKey, log), log)
	default:
		return notify.NewLowStockMailer(notify.NewSMTPClient(cfg.Host, cfg.Port, cfg.DialTimeout, log), log)
	}
}

// newAuthService prefers a stored hash; a plain ADMIN_PASSWORD is hashed at
// startup. With neither, the settings routes stay locked.
func newAuthService(cfg config.AdminConfig, log *zap.Logger) service.AuthService {
	hash := cfg.PasswordHash
	if hash == "" && cfg.Password != "" {
		var err error
		if hash, err = service.HashPassword(cfg.Password); err != nil {
			log.Fatal("failed to hash admin password", zap.Error(err))
		}
	}
	if hash == "" {
		log.Warn("no admin password configured, mail settings are read-only")
	}

	secret := cfg.JWTSecret
	if secret == "" {
		secret = uuid.New().String()
	}
	return service.NewAuthService(hash, jwt.NewManager(secret, cfg.TokenTTL), cfg.TokenTTL)
}
