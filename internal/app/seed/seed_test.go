package seed

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"golang.org/x/text/encoding/charmap"
	"gorm.io/gorm/logger"

	"github.com/marcelojr/candidatos-sp/internal/domain"
	postgresstorage "github.com/marcelojr/candidatos-sp/internal/platform/storage/postgres"
)

const cabecalhoCandidatosSP = "UF,CANDIDATO,HISTÓRICO DE VOTOS,CARGO,ANO,HISTÓRICO DE FEFC,PARTIDO,GÊNERO,RAÇA/COR,SITUAÇÃO\n"

func setupDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&domain.CandidatoSP{},
		&domain.FederalNaoEleitoSP{},
		&domain.EstadualNaoEleitoSP{},
		&domain.CandidatoSP2224{},
	))
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func escrever(t *testing.T, dir, nome, conteudo string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, nome), []byte(conteudo), 0o644))
}

func cargaCandidatosSP(db *gorm.DB, dirs ...string) *Dataset[domain.CandidatoSP] {
	return NewDataset[domain.CandidatoSP](DatasetCandidatosSP, []string{"candidatos_sp_2022.csv"}, dirs, postgresstorage.NewCandidatoSPRepository(db))
}

func TestDataset_Executar_QuandoLinhaUnica_DeveGravarCamposTipados(t *testing.T) {
	// Arrange
	db := setupDB(t)
	dir := t.TempDir()
	escrever(t, dir, "candidatos_sp_2022.csv", cabecalhoCandidatosSP+"SP,Ana Lima,,Deputado,2022,,XX,,,\n")

	// Act
	resultado, err := cargaCandidatosSP(db, dir).Executar(context.Background(), false)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, StatusCarregado, resultado.Status)
	assert.Equal(t, 1, resultado.Registros)

	var registros []domain.CandidatoSP
	require.NoError(t, db.Find(&registros).Error)
	require.Len(t, registros, 1)
	assert.Equal(t, "Ana Lima", registros[0].Candidato)
	assert.Equal(t, 2022, registros[0].Ano)
	assert.Nil(t, registros[0].HistoricoDeVotos)
	assert.Nil(t, registros[0].HistoricoDeFEFC)
	assert.Nil(t, registros[0].Genero)
}

func TestDataset_Executar_QuandoTabelaPopuladaSemForce_DeveManterConteudo(t *testing.T) {
	db := setupDB(t)
	dir := t.TempDir()
	escrever(t, dir, "candidatos_sp_2022.csv", cabecalhoCandidatosSP+"SP,Ana Lima,1.500,Deputado,2022,,XX,,,\n")
	carga := cargaCandidatosSP(db, dir)
	_, err := carga.Executar(context.Background(), false)
	require.NoError(t, err)

	var antes []domain.CandidatoSP
	require.NoError(t, db.Order("id").Find(&antes).Error)

	// CSV muda, mas sem force a tabela com dados é preservada
	escrever(t, dir, "candidatos_sp_2022.csv", cabecalhoCandidatosSP+"SP,Bruno,1,Senador,2022,,YY,,,\nSP,Carla,2,Senador,2022,,YY,,,\n")
	resultado, err := carga.Executar(context.Background(), false)

	require.NoError(t, err)
	assert.Equal(t, StatusPulado, resultado.Status)
	var depois []domain.CandidatoSP
	require.NoError(t, db.Order("id").Find(&depois).Error)
	assert.Equal(t, antes, depois)
	require.NotNil(t, depois[0].HistoricoDeVotos)
	assert.Equal(t, int64(1500), *depois[0].HistoricoDeVotos)
}

func TestDataset_Executar_QuandoForce_DeveSubstituirTudo(t *testing.T) {
	db := setupDB(t)
	dir := t.TempDir()
	escrever(t, dir, "candidatos_sp_2022.csv", cabecalhoCandidatosSP+"SP,Ana Lima,,Deputado,2022,,XX,,,\n")
	carga := cargaCandidatosSP(db, dir)
	_, err := carga.Executar(context.Background(), false)
	require.NoError(t, err)

	escrever(t, dir, "candidatos_sp_2022.csv", cabecalhoCandidatosSP+"SP,Bruno,,Senador,2022,,YY,,,\nSP,Carla,,Senador,2022,,YY,,,\n")
	resultado, err := carga.Executar(context.Background(), true)

	require.NoError(t, err)
	assert.Equal(t, 2, resultado.Registros)
	var registros []domain.CandidatoSP
	require.NoError(t, db.Order("candidato").Find(&registros).Error)
	require.Len(t, registros, 2)
	assert.Equal(t, "Bruno", registros[0].Candidato)
	assert.Equal(t, "Carla", registros[1].Candidato)
}

func TestDataset_Executar_QuandoArquivoAusente_DeveRetornarStatusSemErro(t *testing.T) {
	db := setupDB(t)

	resultado, err := cargaCandidatosSP(db, t.TempDir()).Executar(context.Background(), true)

	require.NoError(t, err)
	assert.Equal(t, StatusArquivoAusente, resultado.Status)
}

func TestDataset_Executar_QuandoSomenteCabecalho_DeveRetornarVazio(t *testing.T) {
	db := setupDB(t)
	dir := t.TempDir()
	escrever(t, dir, "candidatos_sp_2022.csv", cabecalhoCandidatosSP)

	resultado, err := cargaCandidatosSP(db, dir).Executar(context.Background(), false)

	require.NoError(t, err)
	assert.Equal(t, StatusVazio, resultado.Status)
}

func TestDataset_Executar_QuandoCampoObrigatorioVazio_DeveFalharSemGravar(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, db.Create(&domain.CandidatoSP{UF: "SP", Candidato: "Existente", Cargo: "Senador", Ano: 2022, Partido: "XX"}).Error)
	dir := t.TempDir()
	escrever(t, dir, "candidatos_sp_2022.csv", cabecalhoCandidatosSP+"SP,Ana Lima,,Deputado,2022,,XX,,,\nSP,,,Deputado,2022,,XX,,,\n")

	resultado, err := cargaCandidatosSP(db, dir).Executar(context.Background(), true)

	assert.ErrorIs(t, err, domain.ErrCampoObrigatorio)
	assert.Equal(t, StatusFalha, resultado.Status)
	var registros []domain.CandidatoSP
	require.NoError(t, db.Find(&registros).Error)
	require.Len(t, registros, 1)
	assert.Equal(t, "Existente", registros[0].Candidato)
}

func TestDataset_Executar_QuandoArquivoComBOMENumerosBrasileiros_DeveConverter(t *testing.T) {
	db := setupDB(t)
	dir := t.TempDir()
	conteudo := "\ufeffSEQUENCIAL RESTULTADO,ANO,NOME,NOME URNA,CARGO,VOTOS,FUNDO ESPECIAL,FUNDO PARTIDÁRIO,FUNDO TOTAL,ORDEM,COLUNA EXTRA\n" +
		"r1,2022,Ana Lima,Ana,Deputado,\"12.345\",\"1.234,56\",10.5,abc,1,ignorada\n"
	escrever(t, dir, "candidatos_cargo_2022_2024.csv", conteudo)
	carga := NewDataset[domain.CandidatoSP2224](DatasetCandidatosSP2224, []string{"candidatos_cargo_2022_2024.csv"}, []string{dir}, postgresstorage.NewCandidatoSP2224Repository(db))

	_, err := carga.Executar(context.Background(), false)

	require.NoError(t, err)
	var registro domain.CandidatoSP2224
	require.NoError(t, db.First(&registro).Error)
	require.NotNil(t, registro.SequencialResultado)
	assert.Equal(t, "r1", *registro.SequencialResultado)
	require.NotNil(t, registro.Votos)
	assert.Equal(t, int64(12345), *registro.Votos)
	require.NotNil(t, registro.FundoEspecial)
	assert.InDelta(t, 1234.56, *registro.FundoEspecial, 1e-9)
	require.NotNil(t, registro.FundoPartidario)
	assert.InDelta(t, 10.5, *registro.FundoPartidario, 1e-9)
	assert.Nil(t, registro.FundoTotal)
	assert.Nil(t, registro.Genero)
}

func TestDataset_Localizar_DeveRespeitarOrdemDeDiretoriosENomes(t *testing.T) {
	db := setupDB(t)
	primeiro, segundo := t.TempDir(), t.TempDir()
	escrever(t, segundo, "SÃO PAULO_TOP_40_FEDERAIS_NAO_ELEITOS_2022.csv", "")
	escrever(t, primeiro, "federais.csv", "")
	carga := NewDataset[domain.FederalNaoEleitoSP](DatasetFederaisNaoEleitos,
		[]string{"SÃO PAULO_TOP_40_FEDERAIS_NAO_ELEITOS_2022.csv", "federais.csv"},
		[]string{filepath.Join(primeiro, "inexistente"), primeiro, segundo},
		postgresstorage.NewFederalNaoEleitoRepository(db))

	caminho, ok := carga.Localizar()

	require.True(t, ok)
	assert.Equal(t, filepath.Join(primeiro, "federais.csv"), caminho)
}

func TestDataset_Executar_QuandoFederais_DeveGravarNaTabelaPropria(t *testing.T) {
	db := setupDB(t)
	dir := t.TempDir()
	escrever(t, dir, "federais.csv", "UF,CANDIDATO,HISTÓRICO DE VOTOS,CARGO,HISTÓRICO DE FEFC,PARTIDO,GÊNERO,SITUAÇÃO\n"+
		"SÃO PAULO,José,\"98.765\",Deputado Federal,\"1.000\",PXX,MASCULINO,SUPLENTE\n")

	cargas, err := Selecionar(Padrao(db, []string{dir}), []string{DatasetFederaisNaoEleitos})
	require.NoError(t, err)
	resultados, err := ExecutarTodas(context.Background(), cargas, false)

	require.NoError(t, err)
	require.Len(t, resultados, 1)
	assert.Equal(t, StatusCarregado, resultados[0].Status)
	var federal domain.FederalNaoEleitoSP
	require.NoError(t, db.First(&federal).Error)
	assert.Equal(t, "SÃO PAULO", federal.UF)
	require.NotNil(t, federal.HistoricoDeVotos)
	assert.Equal(t, int64(98765), *federal.HistoricoDeVotos)
	require.NotNil(t, federal.Situacao)
	assert.Equal(t, "SUPLENTE", *federal.Situacao)

	var estaduais int64
	require.NoError(t, db.Model(&domain.EstadualNaoEleitoSP{}).Count(&estaduais).Error)
	assert.Zero(t, estaduais)
}

func TestDataset_Executar_QuandoArquivoWindows1252_DeveConverterParaUTF8(t *testing.T) {
	// Arrange: exportação do Excel no Windows
	db := setupDB(t)
	dir := t.TempDir()
	conteudo, err := charmap.Windows1252.NewEncoder().String("UF,CANDIDATO,HISTÓRICO DE VOTOS,CARGO,HISTÓRICO DE FEFC,PARTIDO,GÊNERO,SITUAÇÃO\n" +
		"SÃO PAULO,JOSÉ SERRA,\"98.765\",Deputado Federal,\"1.000\",PSDB,MASCULINO,NÃO ELEITO\n")
	require.NoError(t, err)
	escrever(t, dir, "federais.csv", conteudo)
	carga := NewDataset[domain.FederalNaoEleitoSP](DatasetFederaisNaoEleitos, []string{"federais.csv"}, []string{dir},
		postgresstorage.NewFederalNaoEleitoRepository(db))

	// Act
	resultado, err := carga.Executar(context.Background(), false)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, StatusCarregado, resultado.Status)
	var federal domain.FederalNaoEleitoSP
	require.NoError(t, db.First(&federal).Error)
	assert.Equal(t, "SÃO PAULO", federal.UF)
	assert.Equal(t, "JOSÉ SERRA", federal.Candidato)
	require.NotNil(t, federal.HistoricoDeVotos)
	assert.Equal(t, int64(98765), *federal.HistoricoDeVotos)
	require.NotNil(t, federal.HistoricoDeFEFC)
	assert.Equal(t, int64(1000), *federal.HistoricoDeFEFC)
	require.NotNil(t, federal.Genero)
	assert.Equal(t, "MASCULINO", *federal.Genero)
	require.NotNil(t, federal.Situacao)
	assert.Equal(t, "NÃO ELEITO", *federal.Situacao)
}

func TestDecodificarTexto_DeveDetectarCodificacao(t *testing.T) {
	latin, err := charmap.Windows1252.NewEncoder().String("GÊNERO")
	require.NoError(t, err)

	casos := []struct {
		entrada     string
		codificacao string
	}{
		{"GÊNERO", CodificacaoUTF8},
		{"\ufeffGÊNERO", CodificacaoUTF8BOM},
		{latin, CodificacaoWindows1252},
	}
	for _, c := range casos {
		r, codificacao := decodificarTexto([]byte(c.entrada))
		lido, err := io.ReadAll(r)

		require.NoError(t, err)
		assert.Equal(t, c.codificacao, codificacao)
		assert.Equal(t, "GÊNERO", string(lido))
	}
}

func TestExecutarTodas_QuandoUmaCargaFalha_DeveContinuarERetornarErro(t *testing.T) {
	db := setupDB(t)
	dir := t.TempDir()
	escrever(t, dir, "candidatos_sp_2022.csv", cabecalhoCandidatosSP+"SP,,,Deputado,2022,,XX,,,\n")
	escrever(t, dir, "estaduais.csv", "UF,CANDIDATO,CARGO,PARTIDO\nSP,Maria,Deputado Estadual,PYY\n")

	resultados, err := ExecutarTodas(context.Background(), Padrao(db, []string{dir}), false)

	assert.Error(t, err)
	require.Len(t, resultados, 4)
	assert.Equal(t, StatusFalha, resultados[0].Status)
	assert.Equal(t, StatusArquivoAusente, resultados[1].Status)
	assert.Equal(t, StatusCarregado, resultados[2].Status)
	assert.Equal(t, StatusArquivoAusente, resultados[3].Status)
}

func TestSelecionar_QuandoNomeDesconhecido_DeveRetornarErro(t *testing.T) {
	_, err := Selecionar(Padrao(nil, nil), []string{"inexistente"})

	assert.Error(t, err)
}

func TestInterpretar_DeveAplicarFormatoBrasileiro(t *testing.T) {
	inteiro := domain.Coluna{Nome: "votos", Tipo: domain.TipoInteiro}
	decimal := domain.Coluna{Nome: "fundo_total", Tipo: domain.TipoDecimal}
	textoCol := domain.Coluna{Nome: "nome", Tipo: domain.TipoTexto}

	assert.Equal(t, int64(1234567), interpretar(inteiro, "1.234.567"))
	assert.Equal(t, int64(1234), interpretar(inteiro, " 1,234 "))
	assert.Nil(t, interpretar(inteiro, "n/d"))
	assert.Equal(t, 1234.56, interpretar(decimal, "1.234,56"))
	assert.Equal(t, 0.5, interpretar(decimal, "0,5"))
	assert.Equal(t, 1234.5, interpretar(decimal, "1234.5"))
	assert.Nil(t, interpretar(decimal, "x"))
	assert.Nil(t, interpretar(decimal, "1,234.56"))
	assert.Nil(t, interpretar(decimal, "1,2,3"))
	assert.Equal(t, "Ana", interpretar(textoCol, "  Ana "))
	assert.Nil(t, interpretar(textoCol, "   "))
}
