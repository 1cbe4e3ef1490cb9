package domain

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound  = errors.New("registro nao encontrado")
	ErrDuplicado = errors.New("registro duplicado")
)

// Registro é o contrato das entidades servidas pelo CRUD genérico.
type Registro interface {
	TableName() string
	Esquema() Esquema
}

// Filtro aplica igualdade quando Exato, senão busca por trecho sem diferenciar maiúsculas.
type Filtro struct {
	Coluna string
	Valor  any
	Exato  bool
}

type Consulta struct {
	Filtros []Filtro
	Limite  int
}

func NovaConsulta(limite int) Consulta {
	return Consulta{Limite: limite}
}

// Contendo ignora valores vazios: string vazia significa "sem filtro".
func (c Consulta) Contendo(coluna, valor string) Consulta {
	if strings.TrimSpace(valor) == "" {
		return c
	}
	c.Filtros = append(append([]Filtro(nil), c.Filtros...), Filtro{Coluna: coluna, Valor: valor})
	return c
}

func (c Consulta) IgualA(coluna string, valor any) Consulta {
	c.Filtros = append(append([]Filtro(nil), c.Filtros...), Filtro{Coluna: coluna, Valor: valor, Exato: true})
	return c
}

type Repositorio[T any] interface {
	Listar(ctx context.Context, consulta Consulta) ([]T, error)
	BuscarPorID(ctx context.Context, id int64) (T, error)
	Atualizar(ctx context.Context, id int64, campos map[string]any) (T, error)
	Criar(ctx context.Context, registro *T) error
	Contar(ctx context.Context) (int64, error)
	Substituir(ctx context.Context, registros []T) error
}

type UsuarioRepository interface {
	Criar(ctx context.Context, usuario *Usuario) error
	BuscarPorEmail(ctx context.Context, email string) (Usuario, error)
}

// Limitador bloqueia chaves que excederam o número de tentativas na janela.
type Limitador interface {
	Validar(ctx context.Context, chave string) error
}

type Clock interface {
	Agora() time.Time
}
