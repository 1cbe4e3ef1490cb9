// Pacote httpapi expõe os handlers REST e traduz requisições HTTP para os serviços de candidatos e autenticação.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/marcelojr/candidatos-sp/internal/app/auth"
	"github.com/marcelojr/candidatos-sp/internal/app/candidatos"
	"github.com/marcelojr/candidatos-sp/internal/domain"
	"github.com/marcelojr/candidatos-sp/internal/platform/antifraude"
	"github.com/marcelojr/candidatos-sp/internal/platform/security"
)

// Servico é o contrato do CRUD genérico consumido pelos handlers.
type Servico[T any] interface {
	Listar(ctx context.Context, consulta domain.Consulta) ([]T, error)
	Obter(ctx context.Context, id int64) (T, error)
	Atualizar(ctx context.Context, id int64, dados map[string]any) (T, error)
	Criar(ctx context.Context, registro T) (T, error)
	Contar(ctx context.Context) (int64, error)
}

type AuthService interface {
	Registrar(ctx context.Context, cadastro auth.Cadastro) (domain.Usuario, error)
	Autenticar(ctx context.Context, email, senha, origem string) (auth.Token, error)
}

// ValidadorToken confere tokens bearer nas rotas de escrita.
type ValidadorToken interface {
	Validar(token string) (security.Claims, error)
}

type Servicos struct {
	CandidatosSP Servico[domain.CandidatoSP]
	Grid         Servico[domain.CandidatoGrid]
	Federais     Servico[domain.FederalNaoEleitoSP]
	Estaduais    Servico[domain.EstadualNaoEleitoSP]
	SP2224       Servico[domain.CandidatoSP2224]
	Auth         AuthService
}

type Config struct {
	ExigirAuthEscrita bool
	Tokens            ValidadorToken
}

// API empacota handlers HTTP ligados aos serviços e ao logger.
type API struct {
	servicos Servicos
	cfg      Config
	logger   *slog.Logger
}

func New(servicos Servicos, cfg Config, logger *slog.Logger) *API {
	return &API{servicos: servicos, cfg: cfg, logger: logger}
}

func (a *API) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/users", a.registrarUsuario)
	mux.HandleFunc("POST /api/v1/login", a.login)

	sp := rota[domain.CandidatoSP]{
		servico:      a.servicos.CandidatosSP,
		logger:       a.logger,
		limitePadrao: 10,
		limiteMaximo: 100,
		parametros:   []parametro{{nome: "nome_candidato", coluna: "candidato", aliases: []string{"q"}}},
	}
	mux.HandleFunc("GET /api/v1/candidatos2022sp", sp.listar)
	mux.HandleFunc("GET /api/v1/candidatos2022sp/{id}", sp.obter)
	mux.Handle("PUT /api/v1/candidatos2022sp/{id}", a.escrita(http.HandlerFunc(sp.atualizar)))

	sp2224 := rota[domain.CandidatoSP2224]{
		servico:      a.servicos.SP2224,
		logger:       a.logger,
		limitePadrao: 100,
		limiteMaximo: 1000,
		parametros: []parametro{
			{nome: "nome", coluna: "nome"},
			{nome: "partido", coluna: "partido"},
			{nome: "genero", coluna: "genero"},
			{nome: "ano", coluna: "ano", inteiro: true},
			{nome: "resultado_agregado", coluna: "resultado_agregado"},
		},
	}
	mux.HandleFunc("GET /api/v1/candidatos-sp-22-24", sp2224.listar)
	mux.HandleFunc("GET /api/v1/candidatos-sp-22-24/stats/count", sp2224.contar)
	mux.HandleFunc("GET /api/v1/candidatos-sp-22-24/{id}", sp2224.obter)

	filtrosNaoEleitos := []parametro{
		{nome: "nome_candidato", coluna: "candidato"},
		{nome: "partido", coluna: "partido"},
		{nome: "situacao", coluna: "situacao"},
	}
	federais := rota[domain.FederalNaoEleitoSP]{
		servico:      a.servicos.Federais,
		logger:       a.logger,
		limitePadrao: 100,
		limiteMaximo: 500,
		parametros:   filtrosNaoEleitos,
	}
	mux.HandleFunc("GET /api/v1/federais-nao-eleitos-sp", federais.listar)
	mux.HandleFunc("GET /api/v1/federais-nao-eleitos-sp/stats/count", federais.contar)
	mux.HandleFunc("GET /api/v1/federais-nao-eleitos-sp/{id}", federais.obter)

	estaduais := rota[domain.EstadualNaoEleitoSP]{
		servico:      a.servicos.Estaduais,
		logger:       a.logger,
		limitePadrao: 100,
		limiteMaximo: 500,
		parametros:   filtrosNaoEleitos,
	}
	mux.HandleFunc("GET /api/v1/estaduais-nao-eleitos-sp", estaduais.listar)
	mux.HandleFunc("GET /api/v1/estaduais-nao-eleitos-sp/stats/count", estaduais.contar)
	mux.HandleFunc("GET /api/v1/estaduais-nao-eleitos-sp/{id}", estaduais.obter)

	grid := rota[domain.CandidatoGrid]{
		servico:      a.servicos.Grid,
		logger:       a.logger,
		limitePadrao: 1000,
		limiteMaximo: 1000,
		parametros: []parametro{
			{nome: "nome_urna", coluna: "nome_urna"},
			{nome: "partido", coluna: "partido"},
			{nome: "genero", coluna: "genero"},
			{nome: "status", coluna: "status"},
		},
	}
	mux.HandleFunc("GET /api/candidatos", grid.listar)
	mux.Handle("POST /api/candidato/cadastrar", a.escrita(http.HandlerFunc(a.cadastrarGrid)))
	mux.Handle("PUT /api/candidato/{id}", a.escrita(http.HandlerFunc(grid.atualizar)))
}

func responderJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

type erroDetalhe struct {
	Detail string `json:"detail"`
}

func statusDoErro(err error) int {
	switch {
	case errors.Is(err, candidatos.ErrNaoEncontrado):
		return http.StatusNotFound
	case errors.Is(err, candidatos.ErrNenhumCampo),
		errors.Is(err, domain.ErrCampoObrigatorio),
		errors.Is(err, auth.ErrEmailJaRegistrado):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrValorInvalido), errors.Is(err, ErrValidacao),
		errors.Is(err, security.ErrSenhaLonga):
		return http.StatusUnprocessableEntity
	case errors.Is(err, auth.ErrCredenciaisInvalidas), errors.Is(err, ErrNaoAutenticado):
		return http.StatusUnauthorized
	case errors.Is(err, antifraude.ErrRateLimitExceeded):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func responderErro(logger *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	status := statusDoErro(err)
	mensagem := mensagemDoErro(err)

	if status == http.StatusInternalServerError {
		logger.Error("erro inesperado", "err", err, "rota", r.Pattern, "request_id", RequestIDFromContext(r.Context()))
		mensagem = "Erro interno."
	} else {
		logger.Warn("requisicao rejeitada", "err", err, "status", status, "rota", r.Pattern)
	}

	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	var bloqueio antifraude.ErroBloqueio
	if errors.As(err, &bloqueio) {
		w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(bloqueio.Espera.Seconds()))))
	}
	responderJSON(w, status, erroDetalhe{Detail: mensagem})
}

// mensagemDoErro devolve o texto amigável das sentinelas conhecidas; demais erros usam a própria mensagem.
func mensagemDoErro(err error) string {
	switch {
	case errors.Is(err, auth.ErrEmailJaRegistrado):
		return "E-mail já registrado."
	case errors.Is(err, auth.ErrCredenciaisInvalidas):
		return "Credenciais inválidas."
	case errors.Is(err, antifraude.ErrRateLimitExceeded):
		return "Muitas tentativas de login. Tente novamente mais tarde."
	case errors.Is(err, ErrNaoAutenticado):
		return "Não autenticado."
	case errors.Is(err, security.ErrSenhaLonga):
		return "password: máximo de 72 bytes"
	default:
		return err.Error()
	}
}
