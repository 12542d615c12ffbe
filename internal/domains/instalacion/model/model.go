package model

import (
	"time"

	"registro/shared/model"

	"github.com/lib/pq"
)

const (
	TableName  = "instalaciones"
	EntityName = "instalacion"

	FieldID                    = "id"
	FieldNombreLibreria        = "nombre_libreria"
	FieldSede                  = "sede"
	FieldDireccionLibreria     = "direccion_libreria"
	FieldTelefono              = "telefono"
	FieldCorreoElectronico     = "correo_electronico"
	FieldNombreAdministrador   = "nombre_administrador"
	FieldHorarioAtencion       = "horario_atencion_libreria"
	FieldHoraInicioInstalacion = "hora_inicio_instalacion"
	FieldHoraFinInstalacion    = "hora_fin_instalacion"
	FieldHorarioPublicidad     = "horario_instalacion_publicidad"
	FieldHorarioPaquetes       = "horario_entrega_paquetes"
	FieldHorarioPiezas         = "horario_instalacion_piezas"
	FieldComentarios           = "comentarios"
	FieldIsEvento              = "isevento"
	FieldNombrePersonaRecibe   = "nombre_persona_recibe"
	FieldCargoPersonaRecibe    = "cargo_persona_recibe"
	FieldLatitud               = "latitud"
	FieldLongitud              = "longitud"
	FieldFotosLibreria         = "fotos_libreria"
	FieldFotosEspacio          = "fotos_espacio_brandeado"
)

// Instalacion is a registered installation visit at a library. Photo columns
// hold object storage URLs; latitud/longitud are set together or not at all.
type Instalacion struct {
	ID                    string         `db:"id"`
	NombreLibreria        string         `db:"nombre_libreria"`
	Sede                  string         `db:"sede"`
	DireccionLibreria     string         `db:"direccion_libreria"`
	Telefono              string         `db:"telefono"`
	CorreoElectronico     string         `db:"correo_electronico"`
	NombreAdministrador   string         `db:"nombre_administrador"`
	HorarioAtencion       string         `db:"horario_atencion_libreria"`
	HoraInicioInstalacion time.Time      `db:"hora_inicio_instalacion"`
	HoraFinInstalacion    time.Time      `db:"hora_fin_instalacion"`
	HorarioPublicidad     string         `db:"horario_instalacion_publicidad"`
	HorarioPaquetes       string         `db:"horario_entrega_paquetes"`
	HorarioPiezas         string         `db:"horario_instalacion_piezas"`
	Comentarios           string         `db:"comentarios"`
	IsEvento              bool           `db:"isevento"`
	NombrePersonaRecibe   string         `db:"nombre_persona_recibe"`
	CargoPersonaRecibe    string         `db:"cargo_persona_recibe"`
	Latitud               *float64       `db:"latitud"`
	Longitud              *float64       `db:"longitud"`
	FotosLibreria         pq.StringArray `db:"fotos_libreria"`
	FotosEspacio          pq.StringArray `db:"fotos_espacio_brandeado"`
	model.Metadata
}
