// Pacote security concentra hash de senha e emissão/validação dos tokens de acesso.
package security

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt só considera os primeiros 72 bytes.
const tamanhoMaximoSenha = 72

var ErrSenhaLonga = errors.New("senha excede 72 bytes")

func HashSenha(senha string) (string, error) {
	if len(senha) > tamanhoMaximoSenha {
		return "", ErrSenhaLonga
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(senha), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("security: gerar hash: %w", err)
	}
	return string(hash), nil
}

func VerificarSenha(senha, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(senha)) == nil
}
