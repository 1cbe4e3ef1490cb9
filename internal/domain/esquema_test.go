package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodificar(t *testing.T, payload string) map[string]any {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(payload))
	dec.UseNumber()
	var dados map[string]any
	require.NoError(t, dec.Decode(&dados))
	return dados
}

func TestEsquema_Campos_QuandoPayloadParcial_DeveManterSomenteColunasConhecidas(t *testing.T) {
	dados := decodificar(t, `{"id": 99, "candidato": "Ana Lima", "historico_de_votos": 1200, "desconhecido": "x"}`)

	campos, err := CandidatoSP{}.Esquema().Campos(dados)

	require.NoError(t, err)
	assert.Equal(t, map[string]any{"candidato": "Ana Lima", "historico_de_votos": int64(1200)}, campos)
}

func TestEsquema_Campos_QuandoNuloEmColunaOpcional_DeveAplicarNulo(t *testing.T) {
	dados := decodificar(t, `{"genero": null}`)

	campos, err := CandidatoSP{}.Esquema().Campos(dados)

	require.NoError(t, err)
	assert.Contains(t, campos, "genero")
	assert.Nil(t, campos["genero"])
}

func TestEsquema_Campos_QuandoNuloEmColunaObrigatoria_DeveRetornarErro(t *testing.T) {
	dados := decodificar(t, `{"partido": null}`)

	_, err := CandidatoSP{}.Esquema().Campos(dados)

	assert.ErrorIs(t, err, ErrCampoObrigatorio)
}

func TestEsquema_Campos_QuandoTipoIncompativel_DeveRetornarValorInvalido(t *testing.T) {
	casos := []string{
		`{"ano": "dois mil"}`,
		`{"ano": 2022.5}`,
		`{"candidato": 10}`,
	}

	for _, payload := range casos {
		_, err := CandidatoSP{}.Esquema().Campos(decodificar(t, payload))
		assert.ErrorIs(t, err, ErrValorInvalido, payload)
	}
}

func TestEsquema_Campos_QuandoDecimal_DeveAceitarInteiroEFracao(t *testing.T) {
	dados := decodificar(t, `{"fundo_total": 10, "fundo_especial": 1234.56}`)

	campos, err := CandidatoSP2224{}.Esquema().Campos(dados)

	require.NoError(t, err)
	assert.Equal(t, 10.0, campos["fundo_total"])
	assert.Equal(t, 1234.56, campos["fundo_especial"])
}

func TestEsquema_Campos_QuandoEsquemaPromovido_DeveValerParaFederaisEEstaduais(t *testing.T) {
	dados := decodificar(t, `{"situacao": "SUPLENTE"}`)

	federal, err := FederalNaoEleitoSP{}.Esquema().Campos(dados)
	require.NoError(t, err)
	estadual, err := EstadualNaoEleitoSP{}.Esquema().Campos(dados)
	require.NoError(t, err)

	assert.Equal(t, federal, estadual)
}

func TestConsulta_Contendo_QuandoValorVazio_NaoDeveAdicionarFiltro(t *testing.T) {
	consulta := NovaConsulta(10).Contendo("partido", "").Contendo("nome", "  ").Contendo("genero", "FEM")

	require.Len(t, consulta.Filtros, 1)
	assert.Equal(t, Filtro{Coluna: "genero", Valor: "FEM"}, consulta.Filtros[0])
	assert.Equal(t, 10, consulta.Limite)
}

func TestConsulta_IgualA_NaoDeveAlterarConsultaOriginal(t *testing.T) {
	base := NovaConsulta(5).Contendo("nome", "ana")

	derivada := base.IgualA("ano", 2022)

	assert.Len(t, base.Filtros, 1)
	require.Len(t, derivada.Filtros, 2)
	assert.True(t, derivada.Filtros[1].Exato)
}
