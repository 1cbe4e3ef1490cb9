// Pacote metrics registra os contadores Prometheus expostos em /metrics.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "candidatos_http_requests_total",
		Help: "Total de requisicoes HTTP atendidas por rota e status",
	}, []string{"method", "rota", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "candidatos_http_request_duration_seconds",
		Help:    "Tempo de resposta das rotas HTTP",
		Buckets: prometheus.DefBuckets,
	}, []string{"rota"})

	seedExecucoesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "candidatos_seed_execucoes_total",
		Help: "Execucoes de carga de CSV por dataset e resultado",
	}, []string{"dataset", "status"})

	seedRegistrosTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "candidatos_seed_registros_total",
		Help: "Registros inseridos pelas cargas de CSV",
	}, []string{"dataset"})

	loginTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "candidatos_login_total",
		Help: "Tentativas de login por resultado",
	}, []string{"resultado"})
)

func ObserveHTTPRequest(method, rota string, status int, seconds float64) {
	if rota == "" {
		rota = "desconhecida"
	}
	httpRequestsTotal.WithLabelValues(method, rota, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(rota).Observe(seconds)
}

func ObserveSeed(dataset, status string, registros int) {
	seedExecucoesTotal.WithLabelValues(dataset, status).Inc()
	if registros > 0 {
		seedRegistrosTotal.WithLabelValues(dataset).Add(float64(registros))
	}
}

func ObserveLogin(resultado string) {
	loginTotal.WithLabelValues(resultado).Inc()
}
