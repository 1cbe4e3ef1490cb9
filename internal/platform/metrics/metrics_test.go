package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveHTTPRequest_QuandoRotaVazia_DeveUsarDesconhecida(t *testing.T) {
	antes := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "desconhecida", "404"))

	ObserveHTTPRequest("GET", "", 404, 0.01)

	assert.Equal(t, antes+1, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "desconhecida", "404")))
}

func TestObserveSeed_QuandoSemRegistros_NaoDeveSomarRegistros(t *testing.T) {
	// Arrange
	execucoes := seedExecucoesTotal.WithLabelValues("teste_metricas", "pulado")
	registros := seedRegistrosTotal.WithLabelValues("teste_metricas")
	antesExecucoes := testutil.ToFloat64(execucoes)
	antesRegistros := testutil.ToFloat64(registros)

	// Act
	ObserveSeed("teste_metricas", "pulado", 0)
	ObserveSeed("teste_metricas", "carregado", 3)

	// Assert
	assert.Equal(t, antesExecucoes+1, testutil.ToFloat64(execucoes))
	assert.Equal(t, antesRegistros+3, testutil.ToFloat64(registros))
}

func TestObserveLogin_DeveContarPorResultado(t *testing.T) {
	antes := testutil.ToFloat64(loginTotal.WithLabelValues("bloqueado"))

	ObserveLogin("bloqueado")
	ObserveLogin("bloqueado")

	assert.Equal(t, antes+2, testutil.ToFloat64(loginTotal.WithLabelValues("bloqueado")))
}
