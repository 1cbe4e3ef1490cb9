package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/marcelojr/candidatos-sp/internal/domain"
)

const tamanhoLote = 500

// Definicao parametriza o repositório genérico: filtros fixos aplicados em toda listagem e a ordenação.
type Definicao struct {
	Condicoes []clause.Expression
	Ordem     []clause.OrderByColumn
}

// Repositorio implementa o CRUD compartilhado pelas tabelas de candidatos.
type Repositorio[T domain.Registro] struct {
	db   *gorm.DB
	def  Definicao
	nome string
}

func NewRepositorio[T domain.Registro](db *gorm.DB, def Definicao) *Repositorio[T] {
	var zero T
	return &Repositorio[T]{db: db, def: def, nome: zero.TableName()}
}

func (r *Repositorio[T]) Listar(ctx context.Context, consulta domain.Consulta) ([]T, error) {
	query := r.db.WithContext(ctx).Model(new(T))

	for _, cond := range r.def.Condicoes {
		query = query.Where(cond)
	}

	for _, filtro := range consulta.Filtros {
		coluna := clause.Column{Name: filtro.Coluna}
		if filtro.Exato {
			query = query.Where(clause.Eq{Column: coluna, Value: filtro.Valor})
			continue
		}
		padrao := "%" + strings.ToLower(fmt.Sprint(filtro.Valor)) + "%"
		query = query.Where(clause.Expr{SQL: "LOWER(?) LIKE ?", Vars: []any{coluna, padrao}})
	}

	for _, ordem := range r.def.Ordem {
		query = query.Order(ordem)
	}
	query = query.Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}})

	limite := consulta.Limite
	if limite < 1 {
		limite = 1
	}

	registros := make([]T, 0)
	if err := query.Limit(limite).Find(&registros).Error; err != nil {
		return nil, fmt.Errorf("gorm %s: listar: %w", r.nome, err)
	}
	return registros, nil
}

func (r *Repositorio[T]) BuscarPorID(ctx context.Context, id int64) (T, error) {
	var registro T
	if err := r.db.WithContext(ctx).First(&registro, id).Error; err != nil {
		var zero T
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return zero, domain.ErrNotFound
		}
		return zero, fmt.Errorf("gorm %s: buscar por id: %w", r.nome, err)
	}
	return registro, nil
}

// Atualizar grava somente as colunas presentes em campos, dentro de uma transação.
func (r *Repositorio[T]) Atualizar(ctx context.Context, id int64, campos map[string]any) (T, error) {
	var atual T
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&atual, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("gorm %s: carregar: %w", r.nome, err)
		}

		if len(campos) > 0 {
			if err := tx.Model(new(T)).Where("id = ?", id).Updates(campos).Error; err != nil {
				return fmt.Errorf("gorm %s: atualizar: %w", r.nome, err)
			}
		}

		var recarregado T
		if err := tx.First(&recarregado, id).Error; err != nil {
			return fmt.Errorf("gorm %s: recarregar: %w", r.nome, err)
		}
		atual = recarregado
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return atual, nil
}

func (r *Repositorio[T]) Criar(ctx context.Context, registro *T) error {
	if err := r.db.WithContext(ctx).Create(registro).Error; err != nil {
		return fmt.Errorf("gorm %s: criar: %w", r.nome, err)
	}
	return nil
}

func (r *Repositorio[T]) Contar(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(new(T)).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("gorm %s: contar: %w", r.nome, err)
	}
	return total, nil
}

// Substituir apaga todas as linhas e insere registros em lote; qualquer falha desfaz tudo.
func (r *Repositorio[T]) Substituir(ctx context.Context, registros []T) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(new(T)).Error; err != nil {
			return fmt.Errorf("gorm %s: limpar tabela: %w", r.nome, err)
		}
		if len(registros) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(&registros, tamanhoLote).Error; err != nil {
			return fmt.Errorf("gorm %s: inserir lote: %w", r.nome, err)
		}
		return nil
	})
}

func desc(coluna string) clause.OrderByColumn {
	return clause.OrderByColumn{Column: clause.Column{Name: coluna}, Desc: true}
}

func asc(coluna string) clause.OrderByColumn {
	return clause.OrderByColumn{Column: clause.Column{Name: coluna}}
}

// nulosPorUltimo mantém registros sem votos no fim da lista nos dois bancos suportados.
func nulosPorUltimo(coluna string) clause.OrderByColumn {
	return clause.OrderByColumn{Column: clause.Column{Name: fmt.Sprintf("%s IS NULL", coluna), Raw: true}}
}

func NewCandidatoSPRepository(db *gorm.DB) *Repositorio[domain.CandidatoSP] {
	return NewRepositorio[domain.CandidatoSP](db, Definicao{
		Ordem: []clause.OrderByColumn{asc("candidato")},
	})
}

func NewCandidatoGridRepository(db *gorm.DB) *Repositorio[domain.CandidatoGrid] {
	return NewRepositorio[domain.CandidatoGrid](db, Definicao{
		Ordem: []clause.OrderByColumn{asc("posicao_candidato")},
	})
}

func NewFederalNaoEleitoRepository(db *gorm.DB) *Repositorio[domain.FederalNaoEleitoSP] {
	return NewRepositorio[domain.FederalNaoEleitoSP](db, Definicao{
		Ordem: []clause.OrderByColumn{nulosPorUltimo("historico_de_votos"), desc("historico_de_votos")},
	})
}

func NewEstadualNaoEleitoRepository(db *gorm.DB) *Repositorio[domain.EstadualNaoEleitoSP] {
	return NewRepositorio[domain.EstadualNaoEleitoSP](db, Definicao{
		Ordem: []clause.OrderByColumn{nulosPorUltimo("historico_de_votos"), desc("historico_de_votos")},
	})
}

// A listagem de 22/24 mostra apenas a linha principal de cada candidato (ordem 1) com fundo partidário.
func NewCandidatoSP2224Repository(db *gorm.DB) *Repositorio[domain.CandidatoSP2224] {
	return NewRepositorio[domain.CandidatoSP2224](db, Definicao{
		Condicoes: []clause.Expression{
			clause.Eq{Column: clause.Column{Name: "ordem"}, Value: 1},
			clause.Neq{Column: clause.Column{Name: "fundo_partidario"}, Value: nil},
		},
		Ordem: []clause.OrderByColumn{nulosPorUltimo("votos"), desc("votos")},
	})
}

var (
	_ domain.Repositorio[domain.CandidatoSP]         = (*Repositorio[domain.CandidatoSP])(nil)
	_ domain.Repositorio[domain.CandidatoGrid]       = (*Repositorio[domain.CandidatoGrid])(nil)
	_ domain.Repositorio[domain.FederalNaoEleitoSP]  = (*Repositorio[domain.FederalNaoEleitoSP])(nil)
	_ domain.Repositorio[domain.EstadualNaoEleitoSP] = (*Repositorio[domain.EstadualNaoEleitoSP])(nil)
	_ domain.Repositorio[domain.CandidatoSP2224]     = (*Repositorio[domain.CandidatoSP2224])(nil)
)
