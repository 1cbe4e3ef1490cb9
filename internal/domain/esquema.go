package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

var (
	ErrValorInvalido    = errors.New("valor invalido")
	ErrCampoObrigatorio = errors.New("campo obrigatorio nao pode ser nulo")
)

type TipoColuna int

const (
	TipoTexto TipoColuna = iota
	TipoInteiro
	TipoDecimal
	TipoBooleano
)

func (t TipoColuna) String() string {
	switch t {
	case TipoInteiro:
		return "inteiro"
	case TipoDecimal:
		return "decimal"
	case TipoBooleano:
		return "booleano"
	default:
		return "texto"
	}
}

// Coluna descreve um campo editável de uma tabela. O nome é o mesmo na tabela e no JSON.
type Coluna struct {
	Nome        string
	Tipo        TipoColuna
	Obrigatoria bool
}

// Esquema lista as colunas de dados de uma entidade, sem a chave primária.
type Esquema []Coluna

func (e Esquema) Coluna(nome string) (Coluna, bool) {
	for _, c := range e {
		if c.Nome == nome {
			return c, true
		}
	}
	return Coluna{}, false
}

func (e Esquema) Nomes() []string {
	nomes := make([]string, len(e))
	for i, c := range e {
		nomes[i] = c.Nome
	}
	return nomes
}

// Campos filtra um payload decodificado e devolve apenas as colunas conhecidas, já convertidas
// para o tipo da coluna. Chaves desconhecidas (incluindo id) são descartadas.
func (e Esquema) Campos(dados map[string]any) (map[string]any, error) {
	campos := make(map[string]any, len(dados))
	for nome, bruto := range dados {
		coluna, ok := e.Coluna(nome)
		if !ok {
			continue
		}

		if bruto == nil {
			if coluna.Obrigatoria {
				return nil, fmt.Errorf("%w: %s", ErrCampoObrigatorio, nome)
			}
			campos[nome] = nil
			continue
		}

		valor, err := converter(coluna.Tipo, bruto)
		if err != nil {
			return nil, fmt.Errorf("%w: %s deve ser %s", ErrValorInvalido, nome, coluna.Tipo)
		}
		campos[nome] = valor
	}
	return campos, nil
}

func converter(tipo TipoColuna, bruto any) (any, error) {
	switch tipo {
	case TipoTexto:
		if s, ok := bruto.(string); ok {
			return s, nil
		}
	case TipoBooleano:
		if b, ok := bruto.(bool); ok {
			return b, nil
		}
	case TipoInteiro:
		switch v := bruto.(type) {
		case json.Number:
			return v.Int64()
		case float64:
			if v == math.Trunc(v) {
				return int64(v), nil
			}
		case int:
			return int64(v), nil
		case int64:
			return v, nil
		}
	case TipoDecimal:
		switch v := bruto.(type) {
		case json.Number:
			return v.Float64()
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		}
	}
	return nil, fmt.Errorf("tipo %T nao suportado", bruto)
}

var esquemaCandidatoSP = Esquema{
	{Nome: "uf", Tipo: TipoTexto, Obrigatoria: true},
	{Nome: "candidato", Tipo: TipoTexto, Obrigatoria: true},
	{Nome: "historico_de_votos", Tipo: TipoInteiro},
	{Nome: "cargo", Tipo: TipoTexto, Obrigatoria: true},
	{Nome: "ano", Tipo: TipoInteiro, Obrigatoria: true},
	{Nome: "historico_de_fefc", Tipo: TipoInteiro},
	{Nome: "partido", Tipo: TipoTexto, Obrigatoria: true},
	{Nome: "genero", Tipo: TipoTexto},
	{Nome: "raca_cor", Tipo: TipoTexto},
	{Nome: "situacao", Tipo: TipoTexto},
}

var esquemaCandidatoGrid = Esquema{
	{Nome: "posicao_candidato", Tipo: TipoInteiro, Obrigatoria: true},
	{Nome: "vaga", Tipo: TipoTexto},
	{Nome: "nome_urna", Tipo: TipoTexto, Obrigatoria: true},
	{Nome: "voto_proj_max", Tipo: TipoTexto},
	{Nome: "voto_proj_min", Tipo: TipoTexto},
	{Nome: "historico_votos", Tipo: TipoTexto},
	{Nome: "cargo_disputado", Tipo: TipoTexto},
	{Nome: "ano", Tipo: TipoTexto},
	{Nome: "fefc_projetado", Tipo: TipoTexto},
	{Nome: "fefc_historico", Tipo: TipoTexto},
	{Nome: "reduto", Tipo: TipoTexto},
	{Nome: "partido", Tipo: TipoTexto},
	{Nome: "genero", Tipo: TipoTexto},
	{Nome: "raca", Tipo: TipoTexto},
	{Nome: "status", Tipo: TipoTexto},
	{Nome: "has_info", Tipo: TipoBooleano, Obrigatoria: true},
}

var esquemaNaoEleitoSP = Esquema{
	{Nome: "uf", Tipo: TipoTexto, Obrigatoria: true},
	{Nome: "candidato", Tipo: TipoTexto, Obrigatoria: true},
	{Nome: "historico_de_votos", Tipo: TipoInteiro},
	{Nome: "cargo", Tipo: TipoTexto, Obrigatoria: true},
	{Nome: "historico_de_fefc", Tipo: TipoInteiro},
	{Nome: "partido", Tipo: TipoTexto, Obrigatoria: true},
	{Nome: "genero", Tipo: TipoTexto},
	{Nome: "situacao", Tipo: TipoTexto},
}

var esquemaCandidatoSP2224 = Esquema{
	{Nome: "sequencial_restultado", Tipo: TipoTexto},
	{Nome: "sequencial_candidato", Tipo: TipoTexto},
	{Nome: "sequencial_fundo", Tipo: TipoTexto},
	{Nome: "ano", Tipo: TipoInteiro},
	{Nome: "titulo_eleitoral", Tipo: TipoTexto},
	{Nome: "nome", Tipo: TipoTexto},
	{Nome: "nome_urna", Tipo: TipoTexto},
	{Nome: "raca", Tipo: TipoTexto},
	{Nome: "genero", Tipo: TipoTexto},
	{Nome: "cargo", Tipo: TipoTexto},
	{Nome: "partido", Tipo: TipoTexto},
	{Nome: "resultado", Tipo: TipoTexto},
	{Nome: "resultado_agregado", Tipo: TipoTexto},
	{Nome: "votos", Tipo: TipoInteiro},
	{Nome: "fundo_especial", Tipo: TipoDecimal},
	{Nome: "fundo_partidario", Tipo: TipoDecimal},
	{Nome: "fundo_total", Tipo: TipoDecimal},
	{Nome: "ordem", Tipo: TipoInteiro},
}

func (CandidatoSP) Esquema() Esquema { return esquemaCandidatoSP }

func (CandidatoGrid) Esquema() Esquema { return esquemaCandidatoGrid }

func (NaoEleitoSP) Esquema() Esquema { return esquemaNaoEleitoSP }

func (CandidatoSP2224) Esquema() Esquema { return esquemaCandidatoSP2224 }
