package dto

import "time"

// SchemaVersion is bumped whenever the draft payload shape changes. Stored
// drafts with another version are discarded on read; a lost draft is not
// data loss.
const SchemaVersion = 1

// PiezaDraft carries the scalar fields of one form pieza so the form
// re-expands to the saved pieza count. Photos are never drafted.
type PiezaDraft struct {
	NombrePieza  string `json:"nombre_pieza" validate:"max=200"`
	MedidasPieza string `json:"medidas_pieza" validate:"max=200"`
}

type SaveDraftRequest struct {
	SchemaVersion       int          `json:"schema_version" validate:"required,gte=1"`
	NombreLibreria      string       `json:"nombre_libreria" validate:"max=200"`
	Sede                string       `json:"sede" validate:"max=200"`
	DireccionLibreria   string       `json:"direccion_libreria" validate:"max=300"`
	Telefono            string       `json:"telefono" validate:"max=50"`
	CorreoElectronico   string       `json:"correo_electronico" validate:"max=200"`
	NombreAdministrador string       `json:"nombre_administrador" validate:"max=200"`
	HorarioAtencion     string       `json:"horario_atencion_libreria" validate:"max=200"`
	HorarioPublicidad   string       `json:"horario_instalacion_publicidad" validate:"max=200"`
	HorarioPaquetes     string       `json:"horario_entrega_paquetes" validate:"max=200"`
	HorarioPiezas       string       `json:"horario_instalacion_piezas" validate:"max=200"`
	Comentarios         string       `json:"comentarios" validate:"max=2000"`
	IsEvento            bool         `json:"isevento"`
	NombrePersonaRecibe string       `json:"nombre_persona_recibe" validate:"max=200"`
	CargoPersonaRecibe  string       `json:"cargo_persona_recibe" validate:"max=200"`
	Latitud             *float64     `json:"latitud" validate:"omitempty,latitude"`
	Longitud            *float64     `json:"longitud" validate:"omitempty,longitude"`
	Piezas              []PiezaDraft `json:"piezas" validate:"dive"`
}

type DraftResponse struct {
	SaveDraftRequest
	SavedAt time.Time `json:"saved_at"`
}
