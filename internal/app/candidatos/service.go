// Pacote candidatos implementa as regras de consulta e edição compartilhadas pelas tabelas de candidatos.
package candidatos

import (
	"context"
	"errors"
	"fmt"

	"github.com/marcelojr/candidatos-sp/internal/domain"
)

var (
	ErrNaoEncontrado = errors.New("registro nao encontrado")
	ErrNenhumCampo   = errors.New("nenhuma informacao foi enviada para atualizacao")
)

// erroNegocio associa a mensagem exibida ao cliente à sentinela usada no mapeamento de status.
type erroNegocio struct {
	sentinela error
	mensagem  string
}

func (e erroNegocio) Error() string { return e.mensagem }

func (e erroNegocio) Unwrap() error { return e.sentinela }

// Service aplica as regras de negócio sobre o repositório de uma entidade.
type Service[T domain.Registro] struct {
	repo    domain.Repositorio[T]
	esquema domain.Esquema
	rotulo  string
}

// NewService recebe o nome da entidade usado nas mensagens ("Candidato", "Registro").
func NewService[T domain.Registro](repo domain.Repositorio[T], rotulo string) *Service[T] {
	var zero T
	if rotulo == "" {
		rotulo = "Registro"
	}
	return &Service[T]{repo: repo, esquema: zero.Esquema(), rotulo: rotulo}
}

func (s *Service[T]) Listar(ctx context.Context, consulta domain.Consulta) ([]T, error) {
	return s.repo.Listar(ctx, consulta)
}

func (s *Service[T]) Obter(ctx context.Context, id int64) (T, error) {
	registro, err := s.repo.BuscarPorID(ctx, id)
	if err != nil {
		return registro, s.traduzir(err)
	}
	return registro, nil
}

// Atualizar aplica somente os campos presentes em dados. Payload sem campos conhecidos é
// rejeitado antes de consultar o banco.
func (s *Service[T]) Atualizar(ctx context.Context, id int64, dados map[string]any) (T, error) {
	var zero T

	campos, err := s.esquema.Campos(dados)
	if err != nil {
		return zero, err
	}
	if len(campos) == 0 {
		return zero, erroNegocio{sentinela: ErrNenhumCampo, mensagem: "Nenhuma informação foi enviada para atualização."}
	}

	registro, err := s.repo.Atualizar(ctx, id, campos)
	if err != nil {
		return zero, s.traduzir(err)
	}
	return registro, nil
}

func (s *Service[T]) Criar(ctx context.Context, registro T) (T, error) {
	if err := s.repo.Criar(ctx, &registro); err != nil {
		var zero T
		return zero, err
	}
	return registro, nil
}

func (s *Service[T]) Contar(ctx context.Context) (int64, error) {
	return s.repo.Contar(ctx)
}

func (s *Service[T]) traduzir(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return erroNegocio{sentinela: ErrNaoEncontrado, mensagem: fmt.Sprintf("%s não encontrado.", s.rotulo)}
	}
	return err
}
