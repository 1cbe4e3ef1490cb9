// Pacote seed carrega os arquivos CSV de candidatos nas tabelas correspondentes.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/marcelojr/candidatos-sp/internal/domain"
	"github.com/marcelojr/candidatos-sp/internal/platform/logger"
	"github.com/marcelojr/candidatos-sp/internal/platform/metrics"
)

type Status string

const (
	StatusCarregado      Status = "carregado"
	StatusPulado         Status = "pulado"
	StatusArquivoAusente Status = "arquivo_ausente"
	StatusVazio          Status = "vazio"
	StatusFalha          Status = "falha"
)

type Resultado struct {
	Dataset   string
	Status    Status
	Arquivo   string
	Registros int
}

// Carga é um dataset que sabe se popular.
type Carga interface {
	Nome() string
	Localizar() (string, bool)
	Executar(ctx context.Context, force bool) (Resultado, error)
}

// Destino é a parte do repositório usada pela carga.
type Destino[T any] interface {
	Contar(ctx context.Context) (int64, error)
	Substituir(ctx context.Context, registros []T) error
}

type Dataset[T domain.Registro] struct {
	nome       string
	arquivos   []string
	diretorios []string
	destino    Destino[T]
}

func NewDataset[T domain.Registro](nome string, arquivos, diretorios []string, destino Destino[T]) *Dataset[T] {
	return &Dataset[T]{nome: nome, arquivos: arquivos, diretorios: diretorios, destino: destino}
}

func (d *Dataset[T]) Nome() string { return d.nome }

// Localizar percorre diretórios x nomes na ordem configurada; o primeiro arquivo existente vence.
func (d *Dataset[T]) Localizar() (string, bool) {
	for _, dir := range d.diretorios {
		for _, arquivo := range d.arquivos {
			caminho := filepath.Join(dir, arquivo)
			if info, err := os.Stat(caminho); err == nil && !info.IsDir() {
				return caminho, true
			}
		}
	}
	return "", false
}

// Executar substitui todo o conteúdo da tabela pelo CSV. Sem force, tabela com dados é mantida.
func (d *Dataset[T]) Executar(ctx context.Context, force bool) (Resultado, error) {
	resultado, err := d.executar(ctx, force)
	if err != nil {
		resultado.Status = StatusFalha
	}
	metrics.ObserveSeed(d.nome, string(resultado.Status), resultado.Registros)
	return resultado, err
}

func (d *Dataset[T]) executar(ctx context.Context, force bool) (Resultado, error) {
	resultado := Resultado{Dataset: d.nome}
	log := logger.With("dataset", d.nome)

	caminho, ok := d.Localizar()
	if !ok {
		log.Error("arquivo de seed nao encontrado", "arquivos", d.arquivos, "diretorios", d.diretorios)
		resultado.Status = StatusArquivoAusente
		return resultado, nil
	}
	resultado.Arquivo = caminho
	log.Debug("arquivo de seed localizado", "arquivo", caminho)

	if !force {
		total, err := d.destino.Contar(ctx)
		if err != nil {
			return resultado, fmt.Errorf("seed %s: contar registros: %w", d.nome, err)
		}
		if total > 0 {
			log.Info("seed ja executado, pulando", "registros", total)
			resultado.Status = StatusPulado
			return resultado, nil
		}
	}

	registros, err := d.ler(caminho, log)
	if err != nil {
		return resultado, fmt.Errorf("seed %s: %w", d.nome, err)
	}
	if len(registros) == 0 {
		log.Warn("nenhum registro encontrado no arquivo", "arquivo", caminho)
		resultado.Status = StatusVazio
		return resultado, nil
	}

	if err := d.destino.Substituir(ctx, registros); err != nil {
		return resultado, fmt.Errorf("seed %s: gravar registros: %w", d.nome, err)
	}

	resultado.Status = StatusCarregado
	resultado.Registros = len(registros)
	log.Info("seed concluido", "arquivo", caminho, "registros", len(registros))
	return resultado, nil
}

func (d *Dataset[T]) ler(caminho string, log *slog.Logger) ([]T, error) {
	arquivo, err := os.Open(caminho)
	if err != nil {
		return nil, fmt.Errorf("abrir %s: %w", caminho, err)
	}
	defer arquivo.Close()

	var zero T
	esquema := zero.Esquema()

	linhas, codificacao, err := lerLinhas(arquivo, esquema)
	if err != nil {
		return nil, err
	}
	if codificacao == CodificacaoWindows1252 {
		log.Warn("arquivo nao esta em UTF-8, lido como Windows-1252", "arquivo", caminho)
	} else {
		log.Debug("codificacao do arquivo", "arquivo", caminho, "codificacao", codificacao)
	}

	registros := make([]T, 0, len(linhas))
	for i, linha := range linhas {
		if err := obrigatoriosPresentes(esquema, linha); err != nil {
			return nil, fmt.Errorf("linha %d: %w", i+2, err)
		}
		registro, err := montar[T](linha)
		if err != nil {
			return nil, fmt.Errorf("linha %d: %w", i+2, err)
		}
		registros = append(registros, registro)
	}
	return registros, nil
}

// montar usa as tags json da entidade, que coincidem com os nomes das colunas.
func montar[T any](linha map[string]any) (T, error) {
	var registro T
	payload, err := json.Marshal(linha)
	if err != nil {
		return registro, err
	}
	if err := json.Unmarshal(payload, &registro); err != nil {
		return registro, fmt.Errorf("montar registro: %w", err)
	}
	return registro, nil
}
