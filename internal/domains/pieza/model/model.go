package model

import (
	"registro/shared/model"

	"github.com/lib/pq"
)

const (
	TableName  = "piezas_instaladas"
	EntityName = "pieza"

	FieldID            = "id"
	FieldInstalacionID = "instalacion_id"
	FieldNombrePieza   = "nombre_pieza"
	FieldMedidasPieza  = "medidas_pieza"
	FieldFotosPieza    = "fotos_pieza"
)

// Pieza is an advertising piece installed during an installation visit.
// Every row belongs to exactly one instalacion.
type Pieza struct {
	ID            string         `db:"id"`
	InstalacionID string         `db:"instalacion_id"`
	NombrePieza   string         `db:"nombre_pieza"`
	MedidasPieza  string         `db:"medidas_pieza"`
	FotosPieza    pq.StringArray `db:"fotos_pieza"`
	model.Metadata
}
