package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"hotelfront/internal/config"
	"hotelfront/internal/database"
	"hotelfront/internal/middleware"
	"hotelfront/internal/modules/auth"
	"hotelfront/internal/modules/booking"
	"hotelfront/internal/modules/payment"
	"hotelfront/internal/modules/room"
	"hotelfront/internal/notification"
	jwtsvc "hotelfront/internal/pkg/jwt"
	"hotelfront/internal/repository"

	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.IsProdLike() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}

	hub := notification.NewHub(cfg.AllowedOrigins()...)
	notifier := notification.Fanout{hub}
	if cfg.TelegramBotToken != "" {
		tg, err := notification.NewTelegram(cfg.TelegramBotToken, cfg.TelegramChatIDs)
		if err != nil {
			log.Printf("level=warn msg=telegram disabled err=%v", err)
		} else {
			notifier = append(notifier, tg)
		}
	}

	r := newRouter(cfg, db, hub, notifier)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("level=info msg=listening addr=%s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Println("level=info msg=shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("level=error msg=shutdown failed err=%v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// newRouter wires repositories, services and handlers onto one engine.
func newRouter(cfg *config.Config, db *gorm.DB, hub *notification.Hub, notifier notification.Notifier) *gin.Engine {
	userRepo := repository.NewUserRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	counterRepo := repository.NewCounterRepository(db)
	reportRepo := repository.NewMaintenanceRepository(db)
	txManager := repository.NewTxManager(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	authService := auth.NewService(userRepo, j, log.Printf)
	authHandler := auth.NewHandler(authService)

	paymentService := payment.NewService(counterRepo, paymentRepo, payment.Options{
		Policy:        cfg.Policy,
		ReceiptPrefix: cfg.ReceiptPrefix,
		InvoicePrefix: cfg.InvoicePrefix,
		Location:      cfg.Location,
	}, log.Printf)
	paymentHandler := payment.NewHandler(paymentService)

	bookingService := booking.NewService(booking.Deps{
		Bookings: bookingRepo,
		Rooms:    roomRepo,
		Payments: paymentRepo,
		Recorder: paymentService,
		Tx:       txManager,
		Notifier: notifier,
	}, booking.Options{
		Policy:   cfg.Policy,
		Location: cfg.Location,
	}, log.Printf)
	bookingHandler := booking.NewHandler(bookingService)

	roomService := room.NewService(room.Deps{
		Rooms:    roomRepo,
		Bookings: bookingRepo,
		Reports:  reportRepo,
		Tx:       txManager,
		Notifier: notifier,
	}, room.Options{
		Policy:   cfg.Policy,
		Location: cfg.Location,
	}, log.Printf)
	roomHandler := room.NewHandler(roomService)

	r := gin.New()
	r.Use(middleware.CORS(cfg.AllowedOrigins()), middleware.RequestLogger(), middleware.ErrorLogger())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("")
		protected.Use(middleware.JWTAuth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			roomHandler.RegisterRoutes(protected)
			protected.GET("/ws", hub.ServeWS)

			desk := protected.Group("")
			desk.Use(middleware.FrontDesk())
			{
				bookingHandler.RegisterRoutes(desk)
				paymentHandler.RegisterRoutes(desk)
			}
		}
	}

	return r
}
