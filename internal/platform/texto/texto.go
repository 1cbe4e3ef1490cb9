// Pacote texto reúne as transformações de strings usadas na carga dos CSVs e na correção de encoding.
package texto

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizarColuna converte um cabeçalho de planilha no nome de coluna usado no banco:
// "Histórico de Votos" vira "historico_de_votos" e "RAÇA/COR" vira "raca_cor".
func NormalizarColuna(cabecalho string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	semAcento, _, err := transform.String(t, cabecalho)
	if err != nil {
		semAcento = cabecalho
	}

	var b strings.Builder
	b.Grow(len(semAcento))
	for _, r := range semAcento {
		switch {
		case r > unicode.MaxASCII:
			continue
		case unicode.IsSpace(r) || r == '/':
			b.WriteByte('_')
		default:
			b.WriteRune(unicode.ToLower(r))
		}
	}

	normalizado := b.String()
	for strings.Contains(normalizado, "__") {
		normalizado = strings.ReplaceAll(normalizado, "__", "_")
	}
	return strings.Trim(normalizado, "_")
}

// CorrigirMojibake desfaz o caso em que bytes UTF-8 foram lidos como Windows-1252 e regravados
// ("JOSÃ‰" volta a ser "JOSÉ"). Strings que não se encaixam nesse padrão voltam intactas.
func CorrigirMojibake(s string) string {
	if !strings.ContainsAny(s, "ÃÂ") {
		return s
	}

	bruto, err := charmap.Windows1252.NewEncoder().String(s)
	if err != nil {
		return s
	}
	if !utf8.ValidString(bruto) || bruto == s {
		return s
	}
	return bruto
}
