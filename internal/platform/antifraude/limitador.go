// Pacote antifraude limita tentativas de login por e-mail e origem usando contadores no Redis.
package antifraude

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/marcelojr/candidatos-sp/internal/domain"
)

var ErrRateLimitExceeded = errors.New("limite de tentativas de login atingido")

// ErroBloqueio informa quanto falta para a janela de tentativas reabrir.
type ErroBloqueio struct {
	Espera time.Duration
}

func (e ErroBloqueio) Error() string {
	return fmt.Sprintf("%s, aguarde %s", ErrRateLimitExceeded, e.Espera.Round(time.Second))
}

func (e ErroBloqueio) Unwrap() error { return ErrRateLimitExceeded }

// LimitadorLogin conta tentativas por chave em janelas fixas.
type LimitadorLogin struct {
	client  *redis.Client
	maximo  int
	janela  time.Duration
	prefixo string
}

func NewLimitadorLogin(client *redis.Client, maximo int, janela time.Duration, prefixo string) *LimitadorLogin {
	if prefixo == "" {
		prefixo = "login"
	}
	return &LimitadorLogin{client: client, maximo: maximo, janela: janela, prefixo: prefixo}
}

// Validar registra uma tentativa. Sem cliente ou com limites não positivos tudo é permitido.
func (l *LimitadorLogin) Validar(ctx context.Context, chave string) error {
	if l.client == nil || l.maximo <= 0 || l.janela <= 0 {
		return nil
	}

	key := l.chaveRedis(chave)
	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		ttl = pipe.TTL(ctx, key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("antifraude: registrar tentativa: %w", err)
	}

	// TTL negativo: chave nova ou que perdeu a expiração.
	espera := ttl.Val()
	if espera < 0 {
		if err := l.client.Expire(ctx, key, l.janela).Err(); err != nil {
			return fmt.Errorf("antifraude: definir janela: %w", err)
		}
		espera = l.janela
	}

	if incr.Val() > int64(l.maximo) {
		return ErroBloqueio{Espera: espera}
	}
	return nil
}

func (l *LimitadorLogin) chaveRedis(chave string) string {
	// Redis não guarda e-mail nem IP em texto puro.
	soma := sha256.Sum256([]byte(chave))
	return l.prefixo + ":" + hex.EncodeToString(soma[:16])
}

// Permissivo é usado quando LOGIN_RATE_LIMIT_ENABLED está desligado.
type Permissivo struct{}

func (Permissivo) Validar(context.Context, string) error { return nil }

var (
	_ domain.Limitador = (*LimitadorLogin)(nil)
	_ domain.Limitador = Permissivo{}
)
