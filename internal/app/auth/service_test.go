package auth

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/marcelojr/candidatos-sp/internal/domain"
	"github.com/marcelojr/candidatos-sp/internal/platform/antifraude"
	"github.com/marcelojr/candidatos-sp/internal/platform/clock"
	"github.com/marcelojr/candidatos-sp/internal/platform/security"
	postgresstorage "github.com/marcelojr/candidatos-sp/internal/platform/storage/postgres"
)

type deps struct {
	service *Service
	emissor *security.Emissor
	repo    *postgresstorage.UsuarioRepository
}

func setupAuth(t *testing.T, limitador domain.Limitador) deps {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&domain.Usuario{}))
	t.Cleanup(func() { sqlDB.Close() })

	emissor, err := security.NewEmissor("change-me", "HS256", time.Hour, clock.NewSystemClock())
	require.NoError(t, err)

	repo := postgresstorage.NewUsuarioRepository(db)
	return deps{service: NewService(repo, emissor, limitador), emissor: emissor, repo: repo}
}

func TestService_Registrar_QuandoNovoEmail_DeveGravarSenhaComHash(t *testing.T) {
	d := setupAuth(t, antifraude.Permissivo{})
	nome := "Ana Lima"

	usuario, err := d.service.Registrar(context.Background(), Cadastro{Email: " Ana@Exemplo.com", FullName: &nome, Senha: "senha-forte"})

	require.NoError(t, err)
	assert.NotZero(t, usuario.ID)
	assert.Equal(t, "ana@exemplo.com", usuario.Email)
	assert.NotEqual(t, "senha-forte", usuario.HashedPassword)
	assert.True(t, security.VerificarSenha("senha-forte", usuario.HashedPassword))
}

func TestService_Registrar_QuandoEmailExiste_DeveRetornarErrEmailJaRegistrado(t *testing.T) {
	d := setupAuth(t, antifraude.Permissivo{})
	ctx := context.Background()
	_, err := d.service.Registrar(ctx, Cadastro{Email: "ana@exemplo.com", Senha: "senha-forte"})
	require.NoError(t, err)

	_, err = d.service.Registrar(ctx, Cadastro{Email: "ANA@exemplo.com", Senha: "outra-senha"})

	assert.ErrorIs(t, err, ErrEmailJaRegistrado)
}

func TestService_Autenticar_QuandoCredenciaisCorretas_DeveEmitirTokenBearer(t *testing.T) {
	d := setupAuth(t, antifraude.Permissivo{})
	ctx := context.Background()
	usuario, err := d.service.Registrar(ctx, Cadastro{Email: "ana@exemplo.com", Senha: "senha-forte"})
	require.NoError(t, err)

	token, err := d.service.Autenticar(ctx, "ana@exemplo.com", "senha-forte", "127.0.0.1")

	require.NoError(t, err)
	assert.Equal(t, "bearer", token.TokenType)
	claims, err := d.emissor.Validar(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "ana@exemplo.com", claims.Email)
	assert.Equal(t, "1", claims.Subject)
	assert.Equal(t, int64(1), usuario.ID)
}

func TestService_Autenticar_QuandoSenhaErrada_DeveRetornarErrCredenciaisInvalidas(t *testing.T) {
	d := setupAuth(t, antifraude.Permissivo{})
	ctx := context.Background()
	_, err := d.service.Registrar(ctx, Cadastro{Email: "ana@exemplo.com", Senha: "senha-forte"})
	require.NoError(t, err)

	token, err := d.service.Autenticar(ctx, "ana@exemplo.com", "senha-errada", "127.0.0.1")

	assert.ErrorIs(t, err, ErrCredenciaisInvalidas)
	assert.Empty(t, token.AccessToken)
}

func TestService_Autenticar_QuandoEmailDesconhecido_DeveRetornarErrCredenciaisInvalidas(t *testing.T) {
	d := setupAuth(t, antifraude.Permissivo{})

	_, err := d.service.Autenticar(context.Background(), "ninguem@exemplo.com", "qualquer", "127.0.0.1")

	assert.ErrorIs(t, err, ErrCredenciaisInvalidas)
}

func TestService_Autenticar_QuandoLimiteExcedido_DeveBloquearAntesDeVerificarSenha(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	d := setupAuth(t, antifraude.NewLimitadorLogin(client, 2, time.Minute, "login"))
	ctx := context.Background()
	_, err := d.service.Registrar(ctx, Cadastro{Email: "ana@exemplo.com", Senha: "senha-forte"})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := d.service.Autenticar(ctx, "ana@exemplo.com", "errada", "10.0.0.1")
		require.ErrorIs(t, err, ErrCredenciaisInvalidas)
	}

	_, err = d.service.Autenticar(ctx, "ana@exemplo.com", "senha-forte", "10.0.0.1")
	assert.ErrorIs(t, err, antifraude.ErrRateLimitExceeded)

	_, err = d.service.Autenticar(ctx, "ana@exemplo.com", "senha-forte", "10.0.0.2")
	assert.NoError(t, err)
}

func TestService_Autenticar_QuandoRedisIndisponivel_DevePermitirLogin(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { client.Close() })
	d := setupAuth(t, antifraude.NewLimitadorLogin(client, 1, time.Minute, "login"))
	ctx := context.Background()
	_, err := d.service.Registrar(ctx, Cadastro{Email: "ana@exemplo.com", Senha: "senha-forte"})
	require.NoError(t, err)
	mr.Close()

	token, err := d.service.Autenticar(ctx, "ana@exemplo.com", "senha-forte", "10.0.0.1")

	require.NoError(t, err)
	assert.NotEmpty(t, token.AccessToken)
}
