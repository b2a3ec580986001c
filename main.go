package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"chirp/auth"
	"chirp/config"
	"chirp/handlers"
	"chirp/media"
	"chirp/middleware"
	"chirp/service"
	"chirp/store"
	"chirp/store/mongostore"
	"chirp/store/sqlstore"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}

	log, err := middleware.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		logrus.WithError(err).Fatal("invalid LOG_LEVEL")
	}

	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

func run(cfg *config.Config, log *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			log.WithError(err).Warn("close store")
		}
	}()

	mediaStore, uploadDir, err := openMedia(ctx, cfg)
	if err != nil {
		return err
	}

	limiter, closeLimiter := openLimiter(ctx, cfg, log)
	defer closeLimiter()

	issuer := auth.NewIssuer([]byte(cfg.JWTSecret), cfg.TokenTTL)

	gin.SetMode(cfg.GinMode)
	router := handlers.NewRouter(handlers.Deps{
		Services:    service.New(st, issuer, cfg.BcryptCost),
		Auth:        issuer,
		Media:       mediaStore,
		Limiter:     limiter,
		Metrics:     middleware.NewMetrics(),
		Log:         log,
		CORSOrigins: cfg.CORSOrigins,
		UploadDir:   uploadDir,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{
			"port":  cfg.Port,
			"store": cfg.StoreDriver,
			"media": cfg.MediaDriver,
		}).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	switch cfg.StoreDriver {
	case config.StoreMySQL:
		return sqlstore.Open(cfg.MySQLDSN)
	default:
		st, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		if err := st.EnsureIndexes(ctx); err != nil {
			_ = st.Close(context.Background())
			return nil, err
		}
		return st, nil
	}
}

// openMedia returns the upload store and, for disk media, the directory to
// serve at /uploads.
func openMedia(ctx context.Context, cfg *config.Config) (media.Store, string, error) {
	if cfg.MediaDriver == config.MediaMinIO {
		ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
		m, err := media.NewMinIO(ctx, media.MinIOConfig{
			Endpoint:  cfg.MinIOEndpoint,
			AccessKey: cfg.MinIOAccessKey,
			SecretKey: cfg.MinIOSecretKey,
			Bucket:    cfg.MinIOBucket,
			UseSSL:    cfg.MinIOUseSSL,
			PublicURL: cfg.MinIOPublicURL,
		})
		return m, "", err
	}

	d, err := media.NewDisk(cfg.UploadDir, "/uploads")
	if err != nil {
		return nil, "", err
	}
	return d, cfg.UploadDir, nil
}

// openLimiter prefers a shared Redis window and falls back to an in-process
// limiter when Redis is not configured or unreachable.
func openLimiter(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (middleware.Limiter, func()) {
	local := middleware.NewLocalLimiter(cfg.ThrottleRate, cfg.ThrottleBurst)
	if cfg.RedisAddr == "" {
		return local, func() {}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.WithError(err).WithField("addr", cfg.RedisAddr).Warn("redis unavailable, throttling per process")
		_ = rdb.Close()
		return local, func() {}
	}

	return middleware.NewRedisLimiter(rdb, cfg.ThrottleBurst, cfg.ThrottleWindow), func() {
		if err := rdb.Close(); err != nil {
			log.WithError(err).Warn("close redis")
		}
	}
}
