// Executável principal da API: carrega a configuração, prepara o banco, roda o seed e sobe o servidor HTTP.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/marcelojr/candidatos-sp/internal/app/auth"
	"github.com/marcelojr/candidatos-sp/internal/app/candidatos"
	"github.com/marcelojr/candidatos-sp/internal/app/httpapi"
	"github.com/marcelojr/candidatos-sp/internal/app/seed"
	"github.com/marcelojr/candidatos-sp/internal/domain"
	"github.com/marcelojr/candidatos-sp/internal/platform/antifraude"
	"github.com/marcelojr/candidatos-sp/internal/platform/clock"
	"github.com/marcelojr/candidatos-sp/internal/platform/config"
	"github.com/marcelojr/candidatos-sp/internal/platform/health"
	"github.com/marcelojr/candidatos-sp/internal/platform/ids"
	"github.com/marcelojr/candidatos-sp/internal/platform/logger"
	"github.com/marcelojr/candidatos-sp/internal/platform/migrations"
	"github.com/marcelojr/candidatos-sp/internal/platform/security"
	postgresstorage "github.com/marcelojr/candidatos-sp/internal/platform/storage/postgres"
	redisstorage "github.com/marcelojr/candidatos-sp/internal/platform/storage/redis"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("configuracao invalida", "err", err)
	}
	logger.SetLevel(logger.ParseLevel(cfg.LogLevel))

	// O banco costuma subir junto com a API no compose; tentamos algumas vezes antes de desistir.
	db, err := postgresstorage.OpenComRetry(ctx, cfg.DatabaseDriver, cfg.DatabaseDSN(), cfg.DBConnectRetries, cfg.DBConnectDelay)
	if err != nil {
		logger.Fatal("falha ao conectar no banco", "err", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("falha ao resgatar sql.DB", "err", err)
	}
	defer sqlDB.Close()

	if cfg.AutoMigrate {
		if err := migrations.Run(db); err != nil {
			logger.Fatal("falha na migracao automatica", "err", err)
		}
	}

	if cfg.SeedOnStartup {
		// Falha de seed não derruba a API.
		if _, err := seed.ExecutarTodas(ctx, seed.Padrao(db, cfg.SeedDataDirs), cfg.SeedForce); err != nil {
			logger.Warn("seed inicial concluido com falhas", "err", err)
		}
	}

	// Redis só é necessário para o limite de tentativas de login.
	var redisClient *redis.Client
	var limitador domain.Limitador = antifraude.Permissivo{}
	if cfg.LoginRateLimitEnabled {
		redisClient, err = redisstorage.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Fatal("falha ao conectar no redis", "err", err)
		}
		defer redisClient.Close()
		limitador = antifraude.NewLimitadorLogin(redisClient, cfg.LoginRateLimitMax, cfg.LoginRateLimitWindow(), cfg.LoginRateLimitKeyPrefix)
	}

	clockSystem := clock.NewSystemClock()
	emissor, err := security.NewEmissor(cfg.SecretKey, cfg.Algorithm, cfg.AccessTokenTTL(), clockSystem)
	if err != nil {
		logger.Fatal("configuracao de token invalida", "err", err)
	}

	servicos := httpapi.Servicos{
		CandidatosSP: candidatos.NewService[domain.CandidatoSP](postgresstorage.NewCandidatoSPRepository(db), "Candidato"),
		Grid:         candidatos.NewService[domain.CandidatoGrid](postgresstorage.NewCandidatoGridRepository(db), "Candidato"),
		Federais:     candidatos.NewService[domain.FederalNaoEleitoSP](postgresstorage.NewFederalNaoEleitoRepository(db), "Registro"),
		Estaduais:    candidatos.NewService[domain.EstadualNaoEleitoSP](postgresstorage.NewEstadualNaoEleitoRepository(db), "Registro"),
		SP2224:       candidatos.NewService[domain.CandidatoSP2224](postgresstorage.NewCandidatoSP2224Repository(db), "Registro"),
		Auth:         auth.NewService(postgresstorage.NewUsuarioRepository(db), emissor, limitador),
	}

	mux := http.NewServeMux()
	checker := health.NewChecker(sqlDB, redisClient)

	// HTTP expõe API, health checks e métricas que o Prometheus coleta.
	api := httpapi.New(servicos, httpapi.Config{ExigirAuthEscrita: cfg.RequireAuthForWrites, Tokens: emissor}, logger.L())
	api.Register(mux)
	mux.HandleFunc("GET /healthz", health.LiveHandler)
	mux.HandleFunc("GET /readyz", checker.ReadyHandler())
	mux.Handle("GET /metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              cfg.HTTPAddress,
		Handler:           httpapi.Handler(mux, ids.NewGenerator(clockSystem), cfg.CORSOrigins, logger.L()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("erro ao encerrar servidor", "err", err)
		}
	}()

	logger.Info("api ouvindo", "addr", cfg.HTTPAddress, "driver", cfg.DatabaseDriver)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("erro no servidor", "err", err)
	}
	logger.Info("api encerrada")
}
