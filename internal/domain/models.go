package domain

import (
	"time"
)

// Usuario é a conta usada para autenticação na API.
type Usuario struct {
	ID             int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Email          string    `gorm:"column:email;type:varchar(255);not null;uniqueIndex" json:"email"`
	FullName       *string   `gorm:"column:full_name;type:varchar(255)" json:"full_name"`
	HashedPassword string    `gorm:"column:hashed_password;type:varchar(255);not null" json:"-"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// CandidatoSP representa um candidato paulista da eleição de 2022.
type CandidatoSP struct {
	ID               int64   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UF               string  `gorm:"column:uf;type:varchar(50);not null;index" json:"uf"`
	Candidato        string  `gorm:"column:candidato;type:varchar(255);not null;index" json:"candidato"`
	HistoricoDeVotos *int64  `gorm:"column:historico_de_votos" json:"historico_de_votos"`
	Cargo            string  `gorm:"column:cargo;type:varchar(255);not null;index" json:"cargo"`
	Ano              int     `gorm:"column:ano;not null;index" json:"ano"`
	HistoricoDeFEFC  *int64  `gorm:"column:historico_de_fefc" json:"historico_de_fefc"`
	Partido          string  `gorm:"column:partido;type:varchar(100);not null;index" json:"partido"`
	Genero           *string `gorm:"column:genero;type:varchar(50);index" json:"genero"`
	RacaCor          *string `gorm:"column:raca_cor;type:varchar(100);index" json:"raca_cor"`
	Situacao         *string `gorm:"column:situacao;type:varchar(255);index" json:"situacao"`
}

// CandidatoGrid guarda as projeções livres exibidas no grid do painel.
// Os campos numéricos ficam como texto porque chegam formatados (faixas, valores com máscara).
type CandidatoGrid struct {
	ID               int64   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	PosicaoCandidato int     `gorm:"column:posicao_candidato;not null;index" json:"posicao_candidato"`
	Vaga             *string `gorm:"column:vaga;type:varchar(50)" json:"vaga"`
	NomeUrna         string  `gorm:"column:nome_urna;type:varchar(255);not null;index" json:"nome_urna"`
	VotoProjMax      *string `gorm:"column:voto_proj_max;type:varchar(100)" json:"voto_proj_max"`
	VotoProjMin      *string `gorm:"column:voto_proj_min;type:varchar(100)" json:"voto_proj_min"`
	HistoricoVotos   *string `gorm:"column:historico_votos;type:varchar(100)" json:"historico_votos"`
	CargoDisputado   *string `gorm:"column:cargo_disputado;type:varchar(255)" json:"cargo_disputado"`
	Ano              *string `gorm:"column:ano;type:varchar(10)" json:"ano"`
	FEFCProjetado    *string `gorm:"column:fefc_projetado;type:varchar(255)" json:"fefc_projetado"`
	FEFCHistorico    *string `gorm:"column:fefc_historico;type:varchar(255)" json:"fefc_historico"`
	Reduto           *string `gorm:"column:reduto;type:varchar(255)" json:"reduto"`
	Partido          *string `gorm:"column:partido;type:varchar(100);index" json:"partido"`
	Genero           *string `gorm:"column:genero;type:varchar(50)" json:"genero"`
	Raca             *string `gorm:"column:raca;type:varchar(100)" json:"raca"`
	Status           *string `gorm:"column:status;type:varchar(100);index" json:"status"`
	HasInfo          bool    `gorm:"column:has_info;not null;default:false" json:"has_info"`
}

// NaoEleitoSP é o formato compartilhado pelos deputados federais e estaduais não eleitos.
type NaoEleitoSP struct {
	ID               int64   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UF               string  `gorm:"column:uf;type:varchar(50);not null;index" json:"uf"`
	Candidato        string  `gorm:"column:candidato;type:varchar(255);not null;index" json:"candidato"`
	HistoricoDeVotos *int64  `gorm:"column:historico_de_votos" json:"historico_de_votos"`
	Cargo            string  `gorm:"column:cargo;type:varchar(255);not null;index" json:"cargo"`
	HistoricoDeFEFC  *int64  `gorm:"column:historico_de_fefc" json:"historico_de_fefc"`
	Partido          string  `gorm:"column:partido;type:varchar(100);not null;index" json:"partido"`
	Genero           *string `gorm:"column:genero;type:varchar(50);index" json:"genero"`
	Situacao         *string `gorm:"column:situacao;type:varchar(255);index" json:"situacao"`
}

type FederalNaoEleitoSP struct {
	NaoEleitoSP
}

type EstadualNaoEleitoSP struct {
	NaoEleitoSP
}

// CandidatoSP2224 junta resultados e fundos das eleições de 2022 e 2024.
// A coluna sequencial_restultado mantém a grafia do arquivo de origem.
type CandidatoSP2224 struct {
	ID                  int64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	SequencialResultado *string  `gorm:"column:sequencial_restultado;type:varchar(50)" json:"sequencial_restultado"`
	SequencialCandidato *string  `gorm:"column:sequencial_candidato;type:varchar(50)" json:"sequencial_candidato"`
	SequencialFundo     *string  `gorm:"column:sequencial_fundo;type:varchar(50)" json:"sequencial_fundo"`
	Ano                 *int     `gorm:"column:ano;index" json:"ano"`
	TituloEleitoral     *string  `gorm:"column:titulo_eleitoral;type:varchar(50)" json:"titulo_eleitoral"`
	Nome                *string  `gorm:"column:nome;type:varchar(255);index" json:"nome"`
	NomeUrna            *string  `gorm:"column:nome_urna;type:varchar(255);index" json:"nome_urna"`
	Raca                *string  `gorm:"column:raca;type:varchar(50);index" json:"raca"`
	Genero              *string  `gorm:"column:genero;type:varchar(50);index" json:"genero"`
	Cargo               *string  `gorm:"column:cargo;type:varchar(255);index" json:"cargo"`
	Partido             *string  `gorm:"column:partido;type:varchar(100);index" json:"partido"`
	Resultado           *string  `gorm:"column:resultado;type:varchar(100);index" json:"resultado"`
	ResultadoAgregado   *string  `gorm:"column:resultado_agregado;type:varchar(100);index" json:"resultado_agregado"`
	Votos               *int64   `gorm:"column:votos" json:"votos"`
	FundoEspecial       *float64 `gorm:"column:fundo_especial" json:"fundo_especial"`
	FundoPartidario     *float64 `gorm:"column:fundo_partidario" json:"fundo_partidario"`
	FundoTotal          *float64 `gorm:"column:fundo_total" json:"fundo_total"`
	Ordem               *int     `gorm:"column:ordem" json:"ordem"`
}

func (Usuario) TableName() string { return "users" }

func (CandidatoSP) TableName() string { return "candidatos_sp" }

func (CandidatoGrid) TableName() string { return "candidatos_grid" }

func (FederalNaoEleitoSP) TableName() string { return "federais_nao_eleitos_sp" }

func (EstadualNaoEleitoSP) TableName() string { return "estaduais_nao_eleitos_sp" }

func (CandidatoSP2224) TableName() string { return "candidatos_sp_22_24" }
