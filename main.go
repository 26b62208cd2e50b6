package main

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/Kariqs/treats-api/controllers"
	"github.com/Kariqs/treats-api/events"
	"github.com/Kariqs/treats-api/initializers"
	"github.com/Kariqs/treats-api/middlewares"
	"github.com/Kariqs/treats-api/paypal"
	"github.com/Kariqs/treats-api/routes"
	"github.com/Kariqs/treats-api/utils"
)

func init() {
	initializers.LoadEnv()
}

func main() {
	app.Run(func(ctx context.Context, lg *zap.Logger, m *app.Telemetry) error {
		cfg, err := initializers.LoadConfig()
		if err != nil {
			return err
		}
		return run(ctx, lg, m, cfg)
	})
}

func run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *initializers.Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr), zap.String("db", cfg.DatabaseDriver))

	db, err := initializers.ConnectToDB(ctx, cfg)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	if err := initializers.SyncDatabase(db); err != nil {
		return err
	}

	deps := controllers.Deps{
		Payments: paypal.New(paypal.Config{
			BaseURL:      cfg.PayPal.BaseURL,
			ClientID:     cfg.PayPal.ClientID,
			ClientSecret: cfg.PayPal.ClientSecret,
			Currency:     cfg.PayPal.Currency,
			Timeout:      cfg.PayPal.Timeout,
		}),
		Mailer: utils.NewMailer(utils.SMTPSettings{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		}),
		Events: events.Nop{},
	}

	if cfg.S3.Bucket != "" {
		uploader, err := utils.NewS3Uploader(ctx, cfg.S3.Bucket)
		if err != nil {
			return errors.Wrap(err, "create s3 uploader")
		}
		deps.Images = uploader
	} else {
		lg.Info("S3 bucket not set, product image uploads disabled")
	}

	if cfg.RabbitMQ.URI != "" {
		publisher, err := events.DialAMQP(cfg.RabbitMQ.URI, cfg.RabbitMQ.Queue)
		if err != nil {
			return errors.Wrap(err, "connect to rabbitmq")
		}
		defer func() {
			if err := publisher.Close(); err != nil {
				lg.Warn("Close rabbitmq publisher", zap.Error(err))
			}
		}()
		deps.Events = publisher
	} else {
		lg.Info("RabbitMQ URI not set, order events disabled")
	}

	h := controllers.NewHandler(controllers.Config{
		JWTSecret:   cfg.JWTSecret,
		TokenTTL:    cfg.TokenTTL,
		AdminEmail:  cfg.AdminEmail,
		ImagePrefix: cfg.S3.Prefix,
		Currency:    cfg.PayPal.Currency,
	}, db, deps)

	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	// Browsers refuse credentials on a wildcard origin.
	if allowsAnyOrigin(cfg.CORS.Origins) {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORS.Origins
		corsConfig.AllowCredentials = true
	}

	gin.SetMode(gin.ReleaseMode)
	server := gin.New()
	server.Use(
		cors.New(corsConfig),
		middlewares.RequestID(),
		middlewares.Logger(lg),
		middlewares.Recovery(),
	)
	routes.Register(server, h, cfg.JWTSecret)

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      45 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Handler: otelhttp.NewHandler(server, "treats-api",
			otelhttp.WithTracerProvider(m.TracerProvider()),
			otelhttp.WithMeterProvider(m.MeterProvider()),
		),
	}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}

func allowsAnyOrigin(origins []string) bool {
	return len(origins) == 0 || slices.Contains(origins, "*")
}
