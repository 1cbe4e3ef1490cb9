package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/rs/cors"

	"github.com/marcelojr/candidatos-sp/internal/platform/ids"
	"github.com/marcelojr/candidatos-sp/internal/platform/metrics"
)

const HeaderRequestID = "X-Request-ID"

var ErrNaoAutenticado = errors.New("nao autenticado")

type ctxKey int

const (
	chaveRequestID ctxKey = iota
	chaveUsuario
)

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(chaveRequestID).(string)
	return id
}

// UsuarioFromContext devolve o subject do token validado pela rota de escrita.
func UsuarioFromContext(ctx context.Context) string {
	sub, _ := ctx.Value(chaveUsuario).(string)
	return sub
}

// Handler monta a cadeia de middlewares em volta do mux. observar precisa envolver o mux
// diretamente para ler r.Pattern depois do roteamento.
func Handler(mux *http.ServeMux, gerador *ids.Generator, origens []string, logger *slog.Logger) http.Handler {
	return requestID(gerador)(corsHandler(origens).Handler(observar(logger)(mux)))
}

func requestID(gerador *ids.Generator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(HeaderRequestID)
			if !ids.Valido(id) {
				id = gerador.New()
			}
			w.Header().Set(HeaderRequestID, id)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), chaveRequestID, id)))
		})
	}
}

func corsHandler(origens []string) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins:   origens,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", HeaderRequestID},
		ExposedHeaders:   []string{HeaderRequestID, "Retry-After"},
		AllowCredentials: true,
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

func observar(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			inicio := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			rota := r.Pattern
			if rota == "" {
				rota = "desconhecida"
			}
			duracao := time.Since(inicio)
			metrics.ObserveHTTPRequest(r.Method, rota, rec.status, duracao.Seconds())
			logger.Info("requisicao http",
				"metodo", r.Method,
				"caminho", r.URL.Path,
				"rota", rota,
				"status", rec.status,
				"duracao_ms", duracao.Milliseconds(),
				"request_id", RequestIDFromContext(r.Context()),
			)
		})
	}
}

// escrita exige token bearer quando REQUIRE_AUTH_FOR_WRITES está ligado.
func (a *API) escrita(next http.Handler) http.Handler {
	if !a.cfg.ExigirAuthEscrita || a.cfg.Tokens == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cabecalho := r.Header.Get("Authorization")
		esquema, token, ok := strings.Cut(cabecalho, " ")
		if !ok || !strings.EqualFold(esquema, "bearer") || strings.TrimSpace(token) == "" {
			responderErro(a.logger, w, r, ErrNaoAutenticado)
			return
		}

		claims, err := a.cfg.Tokens.Validar(strings.TrimSpace(token))
		if err != nil {
			responderErro(a.logger, w, r, errors.Join(ErrNaoAutenticado, err))
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), chaveUsuario, claims.Subject)))
	})
}
