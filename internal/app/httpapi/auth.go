package httpapi

import (
	"net"
	"net/http"
	"strings"

	"github.com/marcelojr/candidatos-sp/internal/app/auth"
)

type usuarioRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	FullName *string `json:"full_name" validate:"omitempty,max=255"`
	Password string  `json:"password" validate:"required,min=8,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type usuarioResponse struct {
	ID       int64   `json:"id"`
	Email    string  `json:"email"`
	FullName *string `json:"full_name"`
}

func (a *API) registrarUsuario(w http.ResponseWriter, r *http.Request) {
	var req usuarioRequest
	if err := decodificar(r, &req); err != nil {
		responderErro(a.logger, w, r, err)
		return
	}
	if err := validarStruct(req); err != nil {
		responderErro(a.logger, w, r, err)
		return
	}

	usuario, err := a.servicos.Auth.Registrar(r.Context(), auth.Cadastro{
		Email:    req.Email,
		FullName: req.FullName,
		Senha:    req.Password,
	})
	if err != nil {
		responderErro(a.logger, w, r, err)
		return
	}

	a.logger.Info("usuario registrado", "id", usuario.ID)
	responderJSON(w, http.StatusCreated, usuarioResponse{ID: usuario.ID, Email: usuario.Email, FullName: usuario.FullName})
}

func (a *API) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodificar(r, &req); err != nil {
		responderErro(a.logger, w, r, err)
		return
	}
	if err := validarStruct(req); err != nil {
		responderErro(a.logger, w, r, err)
		return
	}

	token, err := a.servicos.Auth.Autenticar(r.Context(), req.Email, req.Password, origem(r))
	if err != nil {
		responderErro(a.logger, w, r, err)
		return
	}
	responderJSON(w, http.StatusOK, token)
}

// origem usa o primeiro X-Forwarded-For quando presente.
func origem(r *http.Request) string {
	if encaminhado := r.Header.Get("X-Forwarded-For"); encaminhado != "" {
		primeiro, _, _ := strings.Cut(encaminhado, ",")
		return strings.TrimSpace(primeiro)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
