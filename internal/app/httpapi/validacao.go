package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var ErrValidacao = errors.New("requisicao invalida")

// erroValidacao carrega o texto exibido no campo detail.
type erroValidacao struct {
	mensagem string
}

func (e erroValidacao) Error() string { return e.mensagem }

func (e erroValidacao) Unwrap() error { return ErrValidacao }

func invalido(formato string, args ...any) error {
	return erroValidacao{mensagem: fmt.Sprintf(formato, args...)}
}

var validate = novoValidador()

func novoValidador() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Mensagens usam o nome do campo no JSON.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		nome, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if nome == "-" {
			return ""
		}
		return nome
	})
	return v
}

func validarStruct(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	problemas := make([]string, 0, len(ve))
	for _, fe := range ve {
		campo := fe.Field()
		switch fe.Tag() {
		case "required":
			problemas = append(problemas, campo+": campo obrigatório")
		case "email":
			problemas = append(problemas, campo+": e-mail inválido")
		case "min":
			problemas = append(problemas, fmt.Sprintf("%s: mínimo de %s caracteres", campo, fe.Param()))
		case "max":
			problemas = append(problemas, fmt.Sprintf("%s: máximo de %s caracteres", campo, fe.Param()))
		default:
			problemas = append(problemas, campo+": valor inválido")
		}
	}
	return erroValidacao{mensagem: strings.Join(problemas, "; ")}
}

// decodificar aceita um único objeto JSON.
func decodificar(r *http.Request, destino any) error {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(destino); err != nil {
		if errors.Is(err, io.EOF) {
			return invalido("corpo da requisição vazio")
		}
		return invalido("JSON inválido: %v", err)
	}
	if dec.More() {
		return invalido("JSON inválido: conteúdo após o objeto")
	}
	return nil
}

func lerID(r *http.Request) (int64, error) {
	bruto := r.PathValue("id")
	id, err := strconv.ParseInt(bruto, 10, 64)
	if err != nil {
		return 0, invalido("id: deve ser um número inteiro")
	}
	return id, nil
}

func lerLimite(r *http.Request, padrao, maximo int) (int, error) {
	bruto := r.URL.Query().Get("limit")
	if bruto == "" {
		return padrao, nil
	}

	limite, err := strconv.Atoi(bruto)
	if err != nil {
		return 0, invalido("limit: deve ser um número inteiro")
	}
	if err := validate.Var(limite, fmt.Sprintf("min=1,max=%d", maximo)); err != nil {
		return 0, invalido("limit: deve estar entre 1 e %d", maximo)
	}
	return limite, nil
}
