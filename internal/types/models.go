package types

// Student is one roster entry. IDs are the students' RUT without dots or dash.
type Student struct {
	ID   string `json:"id" yaml:"id" validate:"required"`
	Name string `json:"name" yaml:"name" validate:"required"`
}

// VoteRecord is one submitted ballot as written by the voting program.
type VoteRecord struct {
	Values        map[string][]string `json:"valores,omitempty"`
	BestCompanion []string            `json:"mejor_companero,omitempty"`
}

// Collection is the full list of ballots loaded for a session. It is never
// modified after load.
type Collection []VoteRecord

type CountRow struct {
	Name  string `json:"alumno"`
	Votes int    `json:"votos"`
}

type RankEntry struct {
	TotalNominations int `json:"votos_totales"`
	Score            int `json:"puntaje"`
}

type RankRow struct {
	Name string `json:"alumno"`
	RankEntry
}
