package dto

import (
	"registro/internal/domains/libreria/model"
	gModel "registro/shared/model"
	"registro/shared/timezone"

	"github.com/google/uuid"
)

type CreateLibreriaRequest struct {
	NombreLibreria      string `json:"nombre_libreria" validate:"required,min=2,max=200"`
	Sede                string `json:"sede" validate:"max=200"`
	Direccion           string `json:"direccion" validate:"max=300"`
	Telefono            string `json:"telefono" validate:"max=50"`
	EmailContacto       string `json:"email_contacto" validate:"omitempty,email"`
	NombreAdministrador string `json:"nombre_administrador_contacto" validate:"max=200"`
	HorarioAtencion     string `json:"horario_atencion" validate:"max=200"`
}

func (c *CreateLibreriaRequest) ToModel(user string) model.Libreria {
	return model.Libreria{
		ID:                  uuid.NewString(),
		NombreLibreria:      c.NombreLibreria,
		Sede:                c.Sede,
		Direccion:           c.Direccion,
		Telefono:            c.Telefono,
		EmailContacto:       c.EmailContacto,
		NombreAdministrador: c.NombreAdministrador,
		HorarioAtencion:     c.HorarioAtencion,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateLibreriaRequest struct {
	NombreLibreria      string `db:"nombre_libreria"               json:"nombre_libreria"               validate:"omitempty,min=2,max=200"`
	Sede                string `db:"sede"                          json:"sede"                          validate:"max=200"`
	Direccion           string `db:"direccion"                     json:"direccion"                     validate:"max=300"`
	Telefono            string `db:"telefono"                      json:"telefono"                      validate:"max=50"`
	EmailContacto       string `db:"email_contacto"                json:"email_contacto"                validate:"omitempty,email"`
	NombreAdministrador string `db:"nombre_administrador_contacto" json:"nombre_administrador_contacto" validate:"max=200"`
	HorarioAtencion     string `db:"horario_atencion"              json:"horario_atencion"              validate:"max=200"`
}

// LibreriaResponse is the picklist entry the public registration form
// consumes.
type LibreriaResponse struct {
	ID             string `json:"id"`
	NombreLibreria string `json:"nombre_libreria"`
	Sede           string `json:"sede"`
}

func (r *LibreriaResponse) FromModel(model model.Libreria) {
	r.ID = model.ID
	r.NombreLibreria = model.NombreLibreria
	r.Sede = model.Sede
}

type GetLibreriasResponse struct {
	Librerias []LibreriaResponse `json:"librerias"`
	TotalData int                `json:"total_data"`
}

func (r *GetLibreriasResponse) FromModels(models []model.Libreria) {
	r.TotalData = len(models)

	r.Librerias = make([]LibreriaResponse, len(models))
	for i, m := range models {
		r.Librerias[i].FromModel(m)
	}
}
