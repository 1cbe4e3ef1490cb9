// Pacote ids gera os identificadores de requisição propagados no header X-Request-ID.
package ids

import (
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/marcelojr/candidatos-sp/internal/domain"
)

// Generator produz ULIDs monotônicos; seguro para uso concorrente pelos handlers.
type Generator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
	clock   domain.Clock
}

func NewGenerator(clock domain.Clock) *Generator {
	src := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Generator{
		entropy: ulid.Monotonic(src, 0),
		clock:   clock,
	}
}

func (g *Generator) New() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(g.clock.Agora()), g.entropy).String()
}

// Valido indica se o id recebido de um cliente pode ser reaproveitado nos logs.
func Valido(id string) bool {
	_, err := ulid.ParseStrict(id)
	return err == nil
}
