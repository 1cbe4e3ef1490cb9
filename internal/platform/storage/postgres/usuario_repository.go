package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/marcelojr/candidatos-sp/internal/domain"
)

// UsuarioRepository persiste as contas de acesso usando GORM.
type UsuarioRepository struct {
	db *gorm.DB
}

func NewUsuarioRepository(db *gorm.DB) *UsuarioRepository {
	return &UsuarioRepository{db: db}
}

func (r *UsuarioRepository) Criar(ctx context.Context, usuario *domain.Usuario) error {
	if err := r.db.WithContext(ctx).Create(usuario).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicado
		}
		return fmt.Errorf("gorm usuario: criar: %w", err)
	}
	return nil
}

// BuscarPorEmail compara o e-mail sem diferenciar maiúsculas, igual ao cadastro.
func (r *UsuarioRepository) BuscarPorEmail(ctx context.Context, email string) (domain.Usuario, error) {
	var usuario domain.Usuario
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&usuario).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Usuario{}, domain.ErrNotFound
		}
		return domain.Usuario{}, fmt.Errorf("gorm usuario: buscar por email: %w", err)
	}
	return usuario, nil
}

var _ domain.UsuarioRepository = (*UsuarioRepository)(nil)
