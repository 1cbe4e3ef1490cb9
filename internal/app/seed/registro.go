package seed

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/marcelojr/candidatos-sp/internal/domain"
	"github.com/marcelojr/candidatos-sp/internal/platform/logger"
	postgresstorage "github.com/marcelojr/candidatos-sp/internal/platform/storage/postgres"
)

const (
	DatasetCandidatosSP        = "candidatos_sp"
	DatasetFederaisNaoEleitos  = "federais_nao_eleitos_sp"
	DatasetEstaduaisNaoEleitos = "estaduais_nao_eleitos_sp"
	DatasetCandidatosSP2224    = "candidatos_sp_22_24"
)

// Padrao monta as cargas conhecidas na ordem em que são executadas na inicialização.
func Padrao(db *gorm.DB, diretorios []string) []Carga {
	return []Carga{
		NewDataset[domain.CandidatoSP](DatasetCandidatosSP,
			[]string{"candidatos_sp_2022.csv"},
			diretorios, postgresstorage.NewCandidatoSPRepository(db)),
		NewDataset[domain.FederalNaoEleitoSP](DatasetFederaisNaoEleitos,
			[]string{"SÃO PAULO_TOP_40_FEDERAIS_NAO_ELEITOS_2022.csv", "federais.csv"},
			diretorios, postgresstorage.NewFederalNaoEleitoRepository(db)),
		NewDataset[domain.EstadualNaoEleitoSP](DatasetEstaduaisNaoEleitos,
			[]string{"SÃO PAULO_TOP_40_ESTADUAIS_NAO_ELEITOS_2022.csv", "estaduais.csv"},
			diretorios, postgresstorage.NewEstadualNaoEleitoRepository(db)),
		NewDataset[domain.CandidatoSP2224](DatasetCandidatosSP2224,
			[]string{"candidatos_cargo_2022_2024.csv"},
			diretorios, postgresstorage.NewCandidatoSP2224Repository(db)),
	}
}

// Selecionar filtra as cargas pelo nome; lista vazia devolve todas.
func Selecionar(cargas []Carga, nomes []string) ([]Carga, error) {
	if len(nomes) == 0 {
		return cargas, nil
	}

	porNome := make(map[string]Carga, len(cargas))
	for _, c := range cargas {
		porNome[c.Nome()] = c
	}

	selecionadas := make([]Carga, 0, len(nomes))
	for _, nome := range nomes {
		c, ok := porNome[nome]
		if !ok {
			return nil, fmt.Errorf("dataset desconhecido: %s", nome)
		}
		selecionadas = append(selecionadas, c)
	}
	return selecionadas, nil
}

// ExecutarTodas roda cada carga em sequência. Falhas são registradas e não interrompem as demais;
// o primeiro erro é devolvido ao final.
func ExecutarTodas(ctx context.Context, cargas []Carga, force bool) ([]Resultado, error) {
	var primeiro error
	resultados := make([]Resultado, 0, len(cargas))
	for _, c := range cargas {
		if err := ctx.Err(); err != nil {
			return resultados, err
		}
		resultado, err := c.Executar(ctx, force)
		if err != nil {
			logger.Error("falha no seed", "dataset", c.Nome(), "err", err)
			if primeiro == nil {
				primeiro = err
			}
		}
		resultados = append(resultados, resultado)
	}
	return resultados, primeiro
}
