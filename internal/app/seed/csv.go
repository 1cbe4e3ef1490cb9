package seed

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/marcelojr/candidatos-sp/internal/domain"
	"github.com/marcelojr/candidatos-sp/internal/platform/logger"
	"github.com/marcelojr/candidatos-sp/internal/platform/texto"
)

const (
	CodificacaoUTF8        = "utf-8"
	CodificacaoUTF8BOM     = "utf-8-sig"
	CodificacaoWindows1252 = "windows-1252"
)

var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

// decodificarTexto aceita UTF-8 com ou sem BOM. Conteúdo que não é UTF-8 válido é lido como
// Windows-1252, formato das planilhas exportadas pelo Excel.
func decodificarTexto(conteudo []byte) (io.Reader, string) {
	codificacao := CodificacaoUTF8
	if sem, ok := bytes.CutPrefix(conteudo, bomUTF8); ok {
		conteudo, codificacao = sem, CodificacaoUTF8BOM
	}
	if utf8.Valid(conteudo) {
		return bytes.NewReader(conteudo), codificacao
	}
	return transform.NewReader(bytes.NewReader(conteudo), charmap.Windows1252.NewDecoder()), CodificacaoWindows1252
}

// lerLinhas converte o CSV em mapas coluna -> valor tipado, considerando apenas as colunas do esquema.
// Colunas do esquema ausentes no arquivo ficam nulas. Devolve também a codificação detectada.
func lerLinhas(r io.Reader, esquema domain.Esquema) ([]map[string]any, string, error) {
	conteudo, err := io.ReadAll(r)
	if err != nil {
		return nil, "", fmt.Errorf("ler arquivo: %w", err)
	}
	fonte, codificacao := decodificarTexto(conteudo)

	linhas, err := lerRegistros(fonte, esquema)
	return linhas, codificacao, err
}

func lerRegistros(r io.Reader, esquema domain.Esquema) ([]map[string]any, error) {
	leitor := csv.NewReader(r)
	leitor.FieldsPerRecord = -1
	leitor.LazyQuotes = true

	cabecalho, err := leitor.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ler cabecalho: %w", err)
	}

	posicoes := make(map[string]int, len(cabecalho))
	for i, coluna := range cabecalho {
		nome := texto.NormalizarColuna(coluna)
		if _, ok := esquema.Coluna(nome); !ok {
			continue
		}
		if _, repetida := posicoes[nome]; !repetida {
			posicoes[nome] = i
		}
	}

	var linhas []map[string]any
	for numero := 2; ; numero++ {
		campos, err := leitor.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ler linha %d: %w", numero, err)
		}

		linha := make(map[string]any, len(esquema))
		for _, coluna := range esquema {
			i, ok := posicoes[coluna.Nome]
			if !ok || i >= len(campos) {
				linha[coluna.Nome] = nil
				continue
			}
			linha[coluna.Nome] = interpretar(coluna, campos[i])
		}
		linhas = append(linhas, linha)
	}
	return linhas, nil
}

// interpretar aplica as regras de formato brasileiro. Valor numérico inválido vira nulo com aviso.
func interpretar(coluna domain.Coluna, bruto string) any {
	valor := strings.TrimSpace(bruto)
	if valor == "" {
		return nil
	}

	switch coluna.Tipo {
	case domain.TipoInteiro:
		limpo := strings.NewReplacer(".", "", ",", "").Replace(valor)
		n, err := strconv.ParseInt(limpo, 10, 64)
		if err != nil {
			logger.Warn("valor inteiro invalido", "campo", coluna.Nome, "valor", valor)
			return nil
		}
		return n
	case domain.TipoDecimal:
		normalizado, ok := normalizarDecimal(valor)
		f, err := strconv.ParseFloat(normalizado, 64)
		if !ok || err != nil {
			logger.Warn("valor decimal invalido", "campo", coluna.Nome, "valor", valor)
			return nil
		}
		return f
	case domain.TipoBooleano:
		switch strings.ToLower(valor) {
		case "true", "1", "sim", "s", "yes":
			return true
		case "false", "0", "nao", "não", "n", "no":
			return false
		}
		logger.Warn("valor booleano invalido", "campo", coluna.Nome, "valor", valor)
		return nil
	default:
		return valor
	}
}

// normalizarDecimal trata "1.234,56" como 1234.56. Sem vírgula o ponto é o separador decimal.
// Ponto depois da vírgula ("1,234.56") é formato americano e não é aceito.
func normalizarDecimal(valor string) (string, bool) {
	virgula := strings.LastIndex(valor, ",")
	if virgula < 0 {
		return valor, true
	}
	if strings.Count(valor, ",") > 1 || strings.LastIndex(valor, ".") > virgula {
		return "", false
	}
	return strings.ReplaceAll(strings.ReplaceAll(valor, ".", ""), ",", "."), true
}

func obrigatoriosPresentes(esquema domain.Esquema, linha map[string]any) error {
	for _, coluna := range esquema {
		if coluna.Obrigatoria && linha[coluna.Nome] == nil {
			return fmt.Errorf("%w: %s", domain.ErrCampoObrigatorio, coluna.Nome)
		}
	}
	return nil
}
