// Pacote migrations centraliza as versões gormigrate aplicadas na inicialização.
package migrations

import (
	"fmt"

	gormigrate "github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"github.com/marcelojr/candidatos-sp/internal/domain"
	"github.com/marcelojr/candidatos-sp/internal/platform/texto"
)

const (
	IDInitSchema        = "202501150001_init_schema"
	IDCorrigeFederais   = "202501150002_corrige_encoding_federais"
	tamanhoLoteCorrecao = 200
)

// DropTable e HasTable recebem ...any.
var tabelas = []any{
	"candidatos_sp_22_24",
	"estaduais_nao_eleitos_sp",
	"federais_nao_eleitos_sp",
	"candidatos_grid",
	"candidatos_sp",
	"users",
}

func lista() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		{
			ID: IDInitSchema,
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(
					&domain.Usuario{},
					&domain.CandidatoSP{},
					&domain.CandidatoGrid{},
					&domain.FederalNaoEleitoSP{},
					&domain.EstadualNaoEleitoSP{},
					&domain.CandidatoSP2224{},
				)
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(tabelas...)
			},
		},
		{
			// A primeira importação de federais gravou UTF-8 lido como Windows-1252.
			// O registro em migrations garante que a correção rode uma única vez por banco.
			ID:      IDCorrigeFederais,
			Migrate: corrigirEncodingFederais,
			Rollback: func(tx *gorm.DB) error {
				return nil
			},
		},
	}
}

func Run(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("migrations: db nulo")
	}

	m := gormigrate.New(db, gormigrate.DefaultOptions, lista())

	if err := m.Migrate(); err != nil {
		return fmt.Errorf("migrations: falha ao aplicar: %w", err)
	}

	return nil
}

func corrigirEncodingFederais(tx *gorm.DB) error {
	var lote []domain.FederalNaoEleitoSP
	resultado := tx.FindInBatches(&lote, tamanhoLoteCorrecao, func(_ *gorm.DB, _ int) error {
		for _, registro := range lote {
			campos := camposCorrigidos(registro.NaoEleitoSP)
			if len(campos) == 0 {
				continue
			}
			if err := tx.Model(&domain.FederalNaoEleitoSP{}).Where("id = ?", registro.ID).Updates(campos).Error; err != nil {
				return fmt.Errorf("migrations: corrigir federal %d: %w", registro.ID, err)
			}
		}
		return nil
	})
	return resultado.Error
}

func camposCorrigidos(r domain.NaoEleitoSP) map[string]any {
	campos := map[string]any{}
	obrigatorios := map[string]string{
		"uf":        r.UF,
		"candidato": r.Candidato,
		"cargo":     r.Cargo,
		"partido":   r.Partido,
	}
	for coluna, valor := range obrigatorios {
		if corrigido := texto.CorrigirMojibake(valor); corrigido != valor {
			campos[coluna] = corrigido
		}
	}

	opcionais := map[string]*string{
		"genero":   r.Genero,
		"situacao": r.Situacao,
	}
	for coluna, valor := range opcionais {
		if valor == nil {
			continue
		}
		if corrigido := texto.CorrigirMojibake(*valor); corrigido != *valor {
			campos[coluna] = corrigido
		}
	}
	return campos
}
