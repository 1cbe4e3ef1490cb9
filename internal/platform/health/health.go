// Pacote health expõe as checagens de liveness e readiness usadas pelo orquestrador.
package health

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	statusOK           = "ok"
	statusFalha        = "falha"
	statusDesabilitado = "desabilitado"
)

// Relatorio descreve o estado de cada dependência checada.
type Relatorio struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Redis    string `json:"redis"`
}

type Checker struct {
	db    *sql.DB
	redis *redis.Client
}

// NewChecker aceita dependências nulas; o Redis só existe quando o limite de login está ligado.
func NewChecker(db *sql.DB, redis *redis.Client) *Checker {
	return &Checker{db: db, redis: redis}
}

func (c *Checker) Checar(ctx context.Context) Relatorio {
	rel := Relatorio{Status: statusOK, Database: statusDesabilitado, Redis: statusDesabilitado}

	if c.db != nil {
		rel.Database = statusOK
		if err := c.db.PingContext(ctx); err != nil {
			rel.Database = statusFalha
			rel.Status = statusFalha
		}
	}

	if c.redis != nil {
		rel.Redis = statusOK
		if err := c.redis.Ping(ctx).Err(); err != nil {
			rel.Redis = statusFalha
			rel.Status = statusFalha
		}
	}

	return rel
}

func (c *Checker) ReadyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		rel := c.Checar(ctx)
		status := http.StatusOK
		if rel.Status != statusOK {
			status = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(rel)
	}
}

func LiveHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
