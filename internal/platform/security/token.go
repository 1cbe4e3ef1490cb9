package security

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/marcelojr/candidatos-sp/internal/domain"
)

var ErrTokenInvalido = errors.New("token invalido ou expirado")

// Claims carrega o id do usuário em sub e o e-mail, como esperado pelo painel.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type Emissor struct {
	segredo   []byte
	metodo    jwt.SigningMethod
	expiracao time.Duration
	clock     domain.Clock
}

func NewEmissor(segredo, algoritmo string, expiracao time.Duration, clock domain.Clock) (*Emissor, error) {
	metodo, ok := jwt.GetSigningMethod(algoritmo).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("security: algoritmo %q nao suportado", algoritmo)
	}
	if segredo == "" {
		return nil, errors.New("security: segredo vazio")
	}
	return &Emissor{
		segredo:   []byte(segredo),
		metodo:    metodo,
		expiracao: expiracao,
		clock:     clock,
	}, nil
}

func (e *Emissor) Emitir(usuario domain.Usuario) (string, error) {
	agora := e.clock.Agora()
	claims := Claims{
		Email: usuario.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(usuario.ID, 10),
			IssuedAt:  jwt.NewNumericDate(agora),
			ExpiresAt: jwt.NewNumericDate(agora.Add(e.expiracao)),
		},
	}

	token, err := jwt.NewWithClaims(e.metodo, claims).SignedString(e.segredo)
	if err != nil {
		return "", fmt.Errorf("security: assinar token: %w", err)
	}
	return token, nil
}

func (e *Emissor) Validar(token string) (Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return e.segredo, nil
	},
		jwt.WithValidMethods([]string{e.metodo.Alg()}),
		jwt.WithTimeFunc(e.clock.Agora),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrTokenInvalido, err)
	}
	return claims, nil
}
