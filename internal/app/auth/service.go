// Pacote auth implementa cadastro de usuários e emissão de tokens de acesso.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/marcelojr/candidatos-sp/internal/domain"
	"github.com/marcelojr/candidatos-sp/internal/platform/antifraude"
	"github.com/marcelojr/candidatos-sp/internal/platform/logger"
	"github.com/marcelojr/candidatos-sp/internal/platform/metrics"
	"github.com/marcelojr/candidatos-sp/internal/platform/security"
)

var (
	ErrEmailJaRegistrado    = errors.New("e-mail ja registrado")
	ErrCredenciaisInvalidas = errors.New("credenciais invalidas")
)

const TokenTypeBearer = "bearer"

// Emissor assina tokens para um usuário autenticado.
type Emissor interface {
	Emitir(usuario domain.Usuario) (string, error)
}

type Cadastro struct {
	Email    string
	FullName *string
	Senha    string
}

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type Service struct {
	usuarios  domain.UsuarioRepository
	emissor   Emissor
	limitador domain.Limitador
}

func NewService(usuarios domain.UsuarioRepository, emissor Emissor, limitador domain.Limitador) *Service {
	return &Service{usuarios: usuarios, emissor: emissor, limitador: limitador}
}

func normalizarEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) Registrar(ctx context.Context, cadastro Cadastro) (domain.Usuario, error) {
	email := normalizarEmail(cadastro.Email)

	_, err := s.usuarios.BuscarPorEmail(ctx, email)
	switch {
	case err == nil:
		return domain.Usuario{}, ErrEmailJaRegistrado
	case !errors.Is(err, domain.ErrNotFound):
		return domain.Usuario{}, err
	}

	hash, err := security.HashSenha(cadastro.Senha)
	if err != nil {
		return domain.Usuario{}, err
	}

	usuario := domain.Usuario{
		Email:          email,
		FullName:       cadastro.FullName,
		HashedPassword: hash,
	}
	if err := s.usuarios.Criar(ctx, &usuario); err != nil {
		// Dois cadastros simultâneos: o índice único decide.
		if errors.Is(err, domain.ErrDuplicado) {
			return domain.Usuario{}, ErrEmailJaRegistrado
		}
		return domain.Usuario{}, err
	}
	return usuario, nil
}

// Autenticar verifica as credenciais; origem compõe a chave do limitador junto com o e-mail.
func (s *Service) Autenticar(ctx context.Context, email, senha, origem string) (Token, error) {
	email = normalizarEmail(email)

	if s.limitador != nil {
		err := s.limitador.Validar(ctx, email+"|"+origem)
		switch {
		case errors.Is(err, antifraude.ErrRateLimitExceeded):
			metrics.ObserveLogin("bloqueado")
			return Token{}, err
		case err != nil:
			// Redis fora do ar não impede login.
			logger.Warn("limitador de login indisponivel", "err", err)
		}
	}

	usuario, err := s.usuarios.BuscarPorEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			metrics.ObserveLogin("invalido")
			return Token{}, ErrCredenciaisInvalidas
		}
		return Token{}, err
	}

	if !security.VerificarSenha(senha, usuario.HashedPassword) {
		metrics.ObserveLogin("invalido")
		return Token{}, ErrCredenciaisInvalidas
	}

	token, err := s.emissor.Emitir(usuario)
	if err != nil {
		return Token{}, fmt.Errorf("auth: emitir token: %w", err)
	}

	metrics.ObserveLogin("sucesso")
	return Token{AccessToken: token, TokenType: TokenTypeBearer}, nil
}
