package postgres

import (
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/ovrplay/fantasy-cricket/internal/domain/tournament"
)

type tournamentTableModel struct {
	ID         int64     `db:"id"`
	ExternalID int64     `db:"external_id"`
	Name       string    `db:"name"`
	Season     string    `db:"season"`
	Status     string    `db:"status"`
	Metadata   []byte    `db:"metadata"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

type tournamentInsertModel struct {
	ExternalID int64  `db:"external_id"`
	Name       string `db:"name"`
	Season     string `db:"season"`
	Status     string `db:"status"`
	Metadata   []byte `db:"metadata"`
}

func tournamentFromRow(row tournamentTableModel) tournament.Tournament {
	out := tournament.Tournament{
		ID:         row.ID,
		ExternalID: row.ExternalID,
		Name:       row.Name,
		Season:     row.Season,
		Status:     row.Status,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
	if len(row.Metadata) > 0 {
		_ = sonic.Unmarshal(row.Metadata, &out.Metadata)
	}
	return out
}

func marshalMetadata(metadata map[string]any) []byte {
	if len(metadata) == 0 {
		return nil
	}
	raw, err := sonic.Marshal(metadata)
	if err != nil {
		return nil
	}
	return raw
}
