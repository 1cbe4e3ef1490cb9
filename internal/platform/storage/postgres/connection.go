// Pacote postgres implementa a camada de persistência via GORM (Postgres em produção, SQLite local).
package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	applog "github.com/marcelojr/candidatos-sp/internal/platform/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

func dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case DriverPostgres, "":
		return postgres.Open(dsn), nil
	case DriverSQLite:
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("postgres gorm: driver %q nao suportado", driver)
	}
}

func Open(ctx context.Context, driver, dsn string) (*gorm.DB, error) {
	dial, err := dialector(driver, dsn)
	if err != nil {
		return nil, err
	}

	// TranslateError converte violação de unique em gorm.ErrDuplicatedKey nos dois drivers.
	gormDB, err := gorm.Open(dial, &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			SingularTable: false,
		},
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("postgres gorm: abrir conexao: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("postgres gorm: obter sql.DB: %w", err)
	}

	if driver == DriverSQLite {
		// SQLite serializa escritas; uma conexão evita "database is locked".
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(25)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(60 * time.Minute)
	}

	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctxPing); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("postgres gorm: ping falhou: %w", err)
	}

	return gormDB, nil
}

// OpenComRetry tenta conectar um número fixo de vezes; usado na subida enquanto o banco inicializa.
func OpenComRetry(ctx context.Context, driver, dsn string, tentativas int, intervalo time.Duration) (*gorm.DB, error) {
	if tentativas < 1 {
		tentativas = 1
	}

	var ultimoErro error
	for i := 1; i <= tentativas; i++ {
		db, err := Open(ctx, driver, dsn)
		if err == nil {
			return db, nil
		}
		ultimoErro = err
		applog.Warn("banco indisponivel, nova tentativa", "tentativa", i, "max", tentativas, "err", err)

		if i == tentativas {
			break
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("postgres gorm: conexao cancelada: %w", ctx.Err())
		case <-time.After(intervalo):
		}
	}

	return nil, fmt.Errorf("postgres gorm: sem conexao apos %d tentativas: %w", tentativas, ultimoErro)
}
