package model

import "registro/shared/model"

const (
	TableName  = "librerias"
	EntityName = "libreria"

	FieldID                  = "id"
	FieldNombreLibreria      = "nombre_libreria"
	FieldSede                = "sede"
	FieldDireccion           = "direccion"
	FieldTelefono            = "telefono"
	FieldEmailContacto       = "email_contacto"
	FieldNombreAdministrador = "nombre_administrador_contacto"
	FieldHorarioAtencion     = "horario_atencion"
)

// Libreria is a known library branch offered as a picklist on the
// registration form.
type Libreria struct {
	ID                  string `db:"id"`
	NombreLibreria      string `db:"nombre_libreria"`
	Sede                string `db:"sede"`
	Direccion           string `db:"direccion"`
	Telefono            string `db:"telefono"`
	EmailContacto       string `db:"email_contacto"`
	NombreAdministrador string `db:"nombre_administrador_contacto"`
	HorarioAtencion     string `db:"horario_atencion"`
	model.Metadata
}
