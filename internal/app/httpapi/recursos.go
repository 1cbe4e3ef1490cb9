package httpapi

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/marcelojr/candidatos-sp/internal/domain"
)

// parametro liga um query param a uma coluna. Aliases são consultados quando o nome principal está vazio.
type parametro struct {
	nome    string
	coluna  string
	aliases []string
	inteiro bool
}

// rota agrupa os handlers de leitura e edição de uma entidade.
type rota[T any] struct {
	servico      Servico[T]
	logger       *slog.Logger
	parametros   []parametro
	limitePadrao int
	limiteMaximo int
}

func (rt rota[T]) consulta(r *http.Request) (domain.Consulta, error) {
	limite, err := lerLimite(r, rt.limitePadrao, rt.limiteMaximo)
	if err != nil {
		return domain.Consulta{}, err
	}

	query := r.URL.Query()
	consulta := domain.NovaConsulta(limite)
	for _, p := range rt.parametros {
		valor := query.Get(p.nome)
		for _, alias := range p.aliases {
			if valor != "" {
				break
			}
			valor = query.Get(alias)
		}
		if valor == "" {
			continue
		}

		if p.inteiro {
			n, err := strconv.ParseInt(valor, 10, 64)
			if err != nil {
				return domain.Consulta{}, invalido("%s: deve ser um número inteiro", p.nome)
			}
			consulta = consulta.IgualA(p.coluna, n)
			continue
		}
		consulta = consulta.Contendo(p.coluna, valor)
	}
	return consulta, nil
}

func (rt rota[T]) listar(w http.ResponseWriter, r *http.Request) {
	consulta, err := rt.consulta(r)
	if err != nil {
		responderErro(rt.logger, w, r, err)
		return
	}

	registros, err := rt.servico.Listar(r.Context(), consulta)
	if err != nil {
		responderErro(rt.logger, w, r, err)
		return
	}
	responderJSON(w, http.StatusOK, registros)
}

func (rt rota[T]) obter(w http.ResponseWriter, r *http.Request) {
	id, err := lerID(r)
	if err != nil {
		responderErro(rt.logger, w, r, err)
		return
	}

	registro, err := rt.servico.Obter(r.Context(), id)
	if err != nil {
		responderErro(rt.logger, w, r, err)
		return
	}
	responderJSON(w, http.StatusOK, registro)
}

// atualizar repassa o corpo como mapa para que só as chaves enviadas sejam aplicadas.
func (rt rota[T]) atualizar(w http.ResponseWriter, r *http.Request) {
	id, err := lerID(r)
	if err != nil {
		responderErro(rt.logger, w, r, err)
		return
	}

	var dados map[string]any
	if err := decodificar(r, &dados); err != nil {
		responderErro(rt.logger, w, r, err)
		return
	}

	registro, err := rt.servico.Atualizar(r.Context(), id, dados)
	if err != nil {
		responderErro(rt.logger, w, r, err)
		return
	}
	rt.logger.Info("registro atualizado", "rota", r.Pattern, "id", id, "usuario", UsuarioFromContext(r.Context()))
	responderJSON(w, http.StatusOK, registro)
}

func (rt rota[T]) contar(w http.ResponseWriter, r *http.Request) {
	total, err := rt.servico.Contar(r.Context())
	if err != nil {
		responderErro(rt.logger, w, r, err)
		return
	}
	responderJSON(w, http.StatusOK, map[string]int64{"total": total})
}

type gridRequest struct {
	PosicaoCandidato *int    `json:"posicao_candidato" validate:"required"`
	Vaga             *string `json:"vaga"`
	NomeUrna         string  `json:"nome_urna" validate:"required"`
	VotoProjMax      *string `json:"voto_proj_max"`
	VotoProjMin      *string `json:"voto_proj_min"`
	HistoricoVotos   *string `json:"historico_votos"`
	CargoDisputado   *string `json:"cargo_disputado"`
	Ano              *string `json:"ano"`
	FEFCProjetado    *string `json:"fefc_projetado"`
	FEFCHistorico    *string `json:"fefc_historico"`
	Reduto           *string `json:"reduto"`
	Partido          *string `json:"partido"`
	Genero           *string `json:"genero"`
	Raca             *string `json:"raca"`
	Status           *string `json:"status"`
	HasInfo          *bool   `json:"has_info"`
}

func (g gridRequest) registro() domain.CandidatoGrid {
	c := domain.CandidatoGrid{
		PosicaoCandidato: *g.PosicaoCandidato,
		Vaga:             g.Vaga,
		NomeUrna:         g.NomeUrna,
		VotoProjMax:      g.VotoProjMax,
		VotoProjMin:      g.VotoProjMin,
		HistoricoVotos:   g.HistoricoVotos,
		CargoDisputado:   g.CargoDisputado,
		Ano:              g.Ano,
		FEFCProjetado:    g.FEFCProjetado,
		FEFCHistorico:    g.FEFCHistorico,
		Reduto:           g.Reduto,
		Partido:          g.Partido,
		Genero:           g.Genero,
		Raca:             g.Raca,
		Status:           g.Status,
	}
	if g.HasInfo != nil {
		c.HasInfo = *g.HasInfo
	}
	return c
}

func (a *API) cadastrarGrid(w http.ResponseWriter, r *http.Request) {
	var req gridRequest
	if err := decodificar(r, &req); err != nil {
		responderErro(a.logger, w, r, err)
		return
	}
	if err := validarStruct(req); err != nil {
		responderErro(a.logger, w, r, err)
		return
	}

	criado, err := a.servicos.Grid.Criar(r.Context(), req.registro())
	if err != nil {
		responderErro(a.logger, w, r, err)
		return
	}
	a.logger.Info("candidato do grid cadastrado", "id", criado.ID, "nome_urna", criado.NomeUrna, "usuario", UsuarioFromContext(r.Context()))
	responderJSON(w, http.StatusCreated, criado)
}
