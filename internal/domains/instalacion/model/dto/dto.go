package dto

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"registro/internal/domains/instalacion/model"
	piezaModel "registro/internal/domains/pieza/model"
	"registro/shared"
	"registro/shared/constant"
	gDto "registro/shared/dto"
	"registro/shared/failure"
	gModel "registro/shared/model"
	"registro/shared/timezone"

	"github.com/google/uuid"
)

const mapsURLFormat = "https://www.google.com/maps?q=%v,%v"

// CreatePiezaRequest is one entry of the `piezas` JSON field of the
// registration form. Photos travel separately as fotos_pieza_<n> file parts.
type CreatePiezaRequest struct {
	NombrePieza  string `json:"nombre_pieza" validate:"required,min=1,max=200"`
	MedidasPieza string `json:"medidas_pieza" validate:"max=200"`
}

func (c *CreatePiezaRequest) ToModel(instalacionID, user string) piezaModel.Pieza {
	return piezaModel.Pieza{
		ID:            uuid.NewString(),
		InstalacionID: instalacionID,
		NombrePieza:   c.NombrePieza,
		MedidasPieza:  c.MedidasPieza,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type CreateInstalacionRequest struct {
	NombreLibreria        string               `json:"nombre_libreria" validate:"required,min=2,max=200"`
	Sede                  string               `json:"sede" validate:"max=200"`
	DireccionLibreria     string               `json:"direccion_libreria" validate:"max=300"`
	Telefono              string               `json:"telefono" validate:"max=50"`
	CorreoElectronico     string               `json:"correo_electronico" validate:"omitempty,email"`
	NombreAdministrador   string               `json:"nombre_administrador" validate:"max=200"`
	HorarioAtencion       string               `json:"horario_atencion_libreria" validate:"max=200"`
	HoraInicioInstalacion time.Time            `json:"hora_inicio_instalacion"`
	HoraFinInstalacion    time.Time            `json:"hora_fin_instalacion"`
	HorarioPublicidad     string               `json:"horario_instalacion_publicidad" validate:"max=200"`
	HorarioPaquetes       string               `json:"horario_entrega_paquetes" validate:"max=200"`
	HorarioPiezas         string               `json:"horario_instalacion_piezas" validate:"max=200"`
	Comentarios           string               `json:"comentarios" validate:"max=2000"`
	IsEvento              bool                 `json:"isevento"`
	NombrePersonaRecibe   string               `json:"nombre_persona_recibe" validate:"max=200"`
	CargoPersonaRecibe    string               `json:"cargo_persona_recibe" validate:"max=200"`
	Latitud               *float64             `json:"latitud" validate:"omitempty,latitude"`
	Longitud              *float64             `json:"longitud" validate:"omitempty,longitude"`
	Piezas                []CreatePiezaRequest `json:"piezas" validate:"required,min=1,dive"`

	FotosLibreria []*multipart.FileHeader   `json:"-" validate:"omitempty,dive,mimetypes=image/png image/jpg image/jpeg,maxfilesize=5"`
	FotosEspacio  []*multipart.FileHeader   `json:"-" validate:"omitempty,dive,mimetypes=image/png image/jpg image/jpeg,maxfilesize=5"`
	FotosPiezas   [][]*multipart.FileHeader `json:"-" validate:"omitempty,dive,dive,mimetypes=image/png image/jpg image/jpeg,maxfilesize=5"`
}

// FromMultipart fills the request from a multipart form. Scalar fields come
// from value parts, piezas from the `piezas` JSON part, files from the
// fotos_libreria, fotos_espacio_brandeado and fotos_pieza_<n> parts. Unknown
// parts are ignored. The hora fields default to the current time when absent.
func (c *CreateInstalacionRequest) FromMultipart(r *http.Request) error {
	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		return failure.BadRequest(fmt.Errorf("failed to parse multipart form: %w", err))
	}

	c.NombreLibreria = r.FormValue(model.FieldNombreLibreria)
	c.Sede = r.FormValue(model.FieldSede)
	c.DireccionLibreria = r.FormValue(model.FieldDireccionLibreria)
	c.Telefono = r.FormValue(model.FieldTelefono)
	c.CorreoElectronico = r.FormValue(model.FieldCorreoElectronico)
	c.NombreAdministrador = r.FormValue(model.FieldNombreAdministrador)
	c.HorarioAtencion = r.FormValue(model.FieldHorarioAtencion)
	c.HorarioPublicidad = r.FormValue(model.FieldHorarioPublicidad)
	c.HorarioPaquetes = r.FormValue(model.FieldHorarioPaquetes)
	c.HorarioPiezas = r.FormValue(model.FieldHorarioPiezas)
	c.Comentarios = r.FormValue(model.FieldComentarios)
	c.NombrePersonaRecibe = r.FormValue(model.FieldNombrePersonaRecibe)
	c.CargoPersonaRecibe = r.FormValue(model.FieldCargoPersonaRecibe)

	if isEvento := shared.ConvertStringToBool(r.FormValue(model.FieldIsEvento)); isEvento != nil {
		c.IsEvento = *isEvento
	}

	var err error

	if c.Latitud, err = parseCoordinate(r.FormValue(model.FieldLatitud), model.FieldLatitud); err != nil {
		return err
	}

	if c.Longitud, err = parseCoordinate(r.FormValue(model.FieldLongitud), model.FieldLongitud); err != nil {
		return err
	}

	if (c.Latitud == nil) != (c.Longitud == nil) {
		return failure.BadRequestFromString("latitud and longitud must be provided together")
	}

	if c.HoraInicioInstalacion, err = parseHora(r.FormValue(model.FieldHoraInicioInstalacion), model.FieldHoraInicioInstalacion); err != nil {
		return err
	}

	if c.HoraFinInstalacion, err = parseHora(r.FormValue(model.FieldHoraFinInstalacion), model.FieldHoraFinInstalacion); err != nil {
		return err
	}

	piezasValue := r.FormValue(constant.FormFieldPiezas)
	if piezasValue != constant.Empty {
		if err = json.Unmarshal([]byte(piezasValue), &c.Piezas); err != nil {
			return failure.BadRequest(fmt.Errorf("failed to decode piezas: %w", err))
		}
	}

	c.FotosLibreria = r.MultipartForm.File[constant.FormFieldFotosLibreria]
	c.FotosEspacio = r.MultipartForm.File[constant.FormFieldFotosEspacio]

	c.FotosPiezas = make([][]*multipart.FileHeader, len(c.Piezas))
	for idx := range c.Piezas {
		key := fmt.Sprintf("%s_%d", constant.FormFieldFotosPieza, idx)
		c.FotosPiezas[idx] = r.MultipartForm.File[key]
	}

	return nil
}

func (c *CreateInstalacionRequest) ToModel(user string) model.Instalacion {
	return model.Instalacion{
		ID:                    uuid.NewString(),
		NombreLibreria:        c.NombreLibreria,
		Sede:                  c.Sede,
		DireccionLibreria:     c.DireccionLibreria,
		Telefono:              c.Telefono,
		CorreoElectronico:     c.CorreoElectronico,
		NombreAdministrador:   c.NombreAdministrador,
		HorarioAtencion:       c.HorarioAtencion,
		HoraInicioInstalacion: c.HoraInicioInstalacion,
		HoraFinInstalacion:    c.HoraFinInstalacion,
		HorarioPublicidad:     c.HorarioPublicidad,
		HorarioPaquetes:       c.HorarioPaquetes,
		HorarioPiezas:         c.HorarioPiezas,
		Comentarios:           c.Comentarios,
		IsEvento:              c.IsEvento,
		NombrePersonaRecibe:   c.NombrePersonaRecibe,
		CargoPersonaRecibe:    c.CargoPersonaRecibe,
		Latitud:               c.Latitud,
		Longitud:              c.Longitud,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

// UpdatePiezaRequest is one entry of the `piezas` JSON field of the edit
// form. The eliminar flag deletes the referenced row, an entry with id
// updates it, an entry without id inserts a new one.
type UpdatePiezaRequest struct {
	ID           string `json:"id" validate:"omitempty,uuid"`
	NombrePieza  string `json:"nombre_pieza" validate:"max=200"`
	MedidasPieza string `json:"medidas_pieza" validate:"max=200"`
	Eliminar     bool   `json:"eliminar"`
}

type UpdateInstalacionRequest struct {
	NombreLibreria        string               `db:"nombre_libreria"               json:"nombre_libreria"                validate:"omitempty,min=2,max=200"`
	Sede                  string               `db:"sede"                          json:"sede"                           validate:"max=200"`
	DireccionLibreria     string               `db:"direccion_libreria"            json:"direccion_libreria"             validate:"max=300"`
	Telefono              string               `db:"telefono"                      json:"telefono"                       validate:"max=50"`
	CorreoElectronico     string               `db:"correo_electronico"            json:"correo_electronico"             validate:"omitempty,email"`
	NombreAdministrador   string               `db:"nombre_administrador"          json:"nombre_administrador"           validate:"max=200"`
	HorarioAtencion       string               `db:"horario_atencion_libreria"     json:"horario_atencion_libreria"      validate:"max=200"`
	HoraInicioInstalacion time.Time            `db:"hora_inicio_instalacion"       json:"hora_inicio_instalacion"`
	HoraFinInstalacion    time.Time            `db:"hora_fin_instalacion"          json:"hora_fin_instalacion"`
	HorarioPublicidad     string               `db:"horario_instalacion_publicidad" json:"horario_instalacion_publicidad" validate:"max=200"`
	HorarioPaquetes       string               `db:"horario_entrega_paquetes"      json:"horario_entrega_paquetes"       validate:"max=200"`
	HorarioPiezas         string               `db:"horario_instalacion_piezas"    json:"horario_instalacion_piezas"     validate:"max=200"`
	Comentarios           string               `db:"comentarios"                   json:"comentarios"                    validate:"max=2000"`
	IsEvento              *bool                `db:"isevento"                      json:"isevento"`
	NombrePersonaRecibe   string               `db:"nombre_persona_recibe"         json:"nombre_persona_recibe"          validate:"max=200"`
	CargoPersonaRecibe    string               `db:"cargo_persona_recibe"          json:"cargo_persona_recibe"           validate:"max=200"`
	Piezas                []UpdatePiezaRequest `json:"piezas" validate:"dive"`

	FotosPiezas [][]*multipart.FileHeader `json:"-" validate:"omitempty,dive,dive,mimetypes=image/png image/jpg image/jpeg,maxfilesize=5"`
}

// FromMultipart fills the edit request. The parent's photo arrays are never
// touched here; only per-pieza photo parts are read, aligned by the position
// of the pieza entry in the `piezas` JSON field. Absent hora and isevento
// parts leave the stored values untouched.
func (u *UpdateInstalacionRequest) FromMultipart(r *http.Request) error {
	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		return failure.BadRequest(fmt.Errorf("failed to parse multipart form: %w", err))
	}

	u.NombreLibreria = r.FormValue(model.FieldNombreLibreria)
	u.Sede = r.FormValue(model.FieldSede)
	u.DireccionLibreria = r.FormValue(model.FieldDireccionLibreria)
	u.Telefono = r.FormValue(model.FieldTelefono)
	u.CorreoElectronico = r.FormValue(model.FieldCorreoElectronico)
	u.NombreAdministrador = r.FormValue(model.FieldNombreAdministrador)
	u.HorarioAtencion = r.FormValue(model.FieldHorarioAtencion)
	u.HorarioPublicidad = r.FormValue(model.FieldHorarioPublicidad)
	u.HorarioPaquetes = r.FormValue(model.FieldHorarioPaquetes)
	u.HorarioPiezas = r.FormValue(model.FieldHorarioPiezas)
	u.Comentarios = r.FormValue(model.FieldComentarios)
	u.NombrePersonaRecibe = r.FormValue(model.FieldNombrePersonaRecibe)
	u.CargoPersonaRecibe = r.FormValue(model.FieldCargoPersonaRecibe)
	u.IsEvento = shared.ConvertStringToBool(r.FormValue(model.FieldIsEvento))

	var err error

	if value := r.FormValue(model.FieldHoraInicioInstalacion); value != constant.Empty {
		if u.HoraInicioInstalacion, err = parseHora(value, model.FieldHoraInicioInstalacion); err != nil {
			return err
		}
	}

	if value := r.FormValue(model.FieldHoraFinInstalacion); value != constant.Empty {
		if u.HoraFinInstalacion, err = parseHora(value, model.FieldHoraFinInstalacion); err != nil {
			return err
		}
	}

	piezasValue := r.FormValue(constant.FormFieldPiezas)
	if piezasValue != constant.Empty {
		if err = json.Unmarshal([]byte(piezasValue), &u.Piezas); err != nil {
			return failure.BadRequest(fmt.Errorf("failed to decode piezas: %w", err))
		}
	}

	u.FotosPiezas = make([][]*multipart.FileHeader, len(u.Piezas))
	for idx := range u.Piezas {
		key := fmt.Sprintf("%s_%d", constant.FormFieldFotosPieza, idx)
		u.FotosPiezas[idx] = r.MultipartForm.File[key]
	}

	return nil
}

type CreateInstalacionResponse struct {
	ID string `json:"id"`
}

type PiezaResponse struct {
	ID           string   `json:"id"`
	NombrePieza  string   `json:"nombre_pieza"`
	MedidasPieza string   `json:"medidas_pieza"`
	FotosPieza   []string `json:"fotos_pieza"`
	gDto.Metadata
}

func (r *PiezaResponse) FromModel(model piezaModel.Pieza) {
	r.ID = model.ID
	r.NombrePieza = model.NombrePieza
	r.MedidasPieza = model.MedidasPieza
	r.FotosPieza = model.FotosPieza
	r.Metadata.FromModel(model.Metadata)
}

type InstalacionResponse struct {
	ID                    string    `json:"id"`
	NombreLibreria        string    `json:"nombre_libreria"`
	Sede                  string    `json:"sede"`
	HoraInicioInstalacion time.Time `json:"hora_inicio_instalacion"`
	HoraFinInstalacion    time.Time `json:"hora_fin_instalacion"`
	IsEvento              bool      `json:"isevento"`
	gDto.Metadata
}

func (r *InstalacionResponse) FromModel(model model.Instalacion) {
	r.ID = model.ID
	r.NombreLibreria = model.NombreLibreria
	r.Sede = model.Sede
	r.HoraInicioInstalacion = model.HoraInicioInstalacion
	r.HoraFinInstalacion = model.HoraFinInstalacion
	r.IsEvento = model.IsEvento
	r.Metadata.FromModel(model.Metadata)
}

// AppliedFilters echoes the dashboard filters that produced the result set so
// the client can render precise empty-state messages.
type AppliedFilters struct {
	Libreria string `json:"libreria,omitempty"`
	Sede     string `json:"sede,omitempty"`
	Fecha    string `json:"fecha,omitempty"`
}

type GetInstalacionesResponse struct {
	Instalaciones []InstalacionResponse `json:"instalaciones"`
	TotalPage     int                   `json:"total_page"`
	TotalData     int                   `json:"total_data"`
	Filtros       AppliedFilters        `json:"filtros"`
}

func (r *GetInstalacionesResponse) FromModels(models []model.Instalacion, totalData, limit int, filtros AppliedFilters) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)
	r.Filtros = filtros

	r.Instalaciones = make([]InstalacionResponse, len(models))
	for i, m := range models {
		r.Instalaciones[i].FromModel(m)
	}
}

type InstalacionDetailResponse struct {
	ID                    string          `json:"id"`
	NombreLibreria        string          `json:"nombre_libreria"`
	Sede                  string          `json:"sede"`
	DireccionLibreria     string          `json:"direccion_libreria"`
	Telefono              string          `json:"telefono"`
	CorreoElectronico     string          `json:"correo_electronico"`
	NombreAdministrador   string          `json:"nombre_administrador"`
	HorarioAtencion       string          `json:"horario_atencion_libreria"`
	HoraInicioInstalacion time.Time       `json:"hora_inicio_instalacion"`
	HoraFinInstalacion    time.Time       `json:"hora_fin_instalacion"`
	HorarioPublicidad     string          `json:"horario_instalacion_publicidad"`
	HorarioPaquetes       string          `json:"horario_entrega_paquetes"`
	HorarioPiezas         string          `json:"horario_instalacion_piezas"`
	Comentarios           string          `json:"comentarios"`
	IsEvento              bool            `json:"isevento"`
	NombrePersonaRecibe   string          `json:"nombre_persona_recibe,omitempty"`
	CargoPersonaRecibe    string          `json:"cargo_persona_recibe,omitempty"`
	Latitud               *float64        `json:"latitud,omitempty"`
	Longitud              *float64        `json:"longitud,omitempty"`
	MapsURL               string          `json:"maps_url,omitempty"`
	FotosLibreria         []string        `json:"fotos_libreria"`
	FotosEspacio          []string        `json:"fotos_espacio_brandeado"`
	Piezas                []PiezaResponse `json:"piezas"`
	gDto.Metadata
}

func (r *InstalacionDetailResponse) FromModel(model model.Instalacion, piezas []piezaModel.Pieza) {
	r.ID = model.ID
	r.NombreLibreria = model.NombreLibreria
	r.Sede = model.Sede
	r.DireccionLibreria = model.DireccionLibreria
	r.Telefono = model.Telefono
	r.CorreoElectronico = model.CorreoElectronico
	r.NombreAdministrador = model.NombreAdministrador
	r.HorarioAtencion = model.HorarioAtencion
	r.HoraInicioInstalacion = model.HoraInicioInstalacion
	r.HoraFinInstalacion = model.HoraFinInstalacion
	r.HorarioPublicidad = model.HorarioPublicidad
	r.HorarioPaquetes = model.HorarioPaquetes
	r.HorarioPiezas = model.HorarioPiezas
	r.Comentarios = model.Comentarios
	r.IsEvento = model.IsEvento
	r.Latitud = model.Latitud
	r.Longitud = model.Longitud
	r.FotosLibreria = model.FotosLibreria
	r.FotosEspacio = model.FotosEspacio

	// Receiving-person fields only apply to event installations.
	if model.IsEvento {
		r.NombrePersonaRecibe = model.NombrePersonaRecibe
		r.CargoPersonaRecibe = model.CargoPersonaRecibe
	}

	if model.Latitud != nil && model.Longitud != nil {
		r.MapsURL = fmt.Sprintf(mapsURLFormat, *model.Latitud, *model.Longitud)
	}

	r.Piezas = make([]PiezaResponse, len(piezas))
	for i, p := range piezas {
		r.Piezas[i].FromModel(p)
	}
}

// BuildDashboardFilter combines the dashboard query params into one AND
// filter group: case-insensitive substring match on libreria and sede, and a
// calendar-day window on created_at for fecha (YYYY-MM-DD, app timezone).
func BuildDashboardFilter(libreria, sede, fecha string) (gDto.FilterGroup, error) {
	filters := []any{}

	if libreria != constant.Empty {
		filters = append(filters, gDto.Filter{
			Field:    model.FieldNombreLibreria,
			Value:    libreria,
			Operator: gDto.FilterOperatorLike,
			Table:    model.TableName,
		})
	}

	if sede != constant.Empty {
		filters = append(filters, gDto.Filter{
			Field:    model.FieldSede,
			Value:    sede,
			Operator: gDto.FilterOperatorLike,
			Table:    model.TableName,
		})
	}

	if fecha != constant.Empty {
		dayStart, err := time.ParseInLocation(constant.DateDayFormat, fecha, timezone.GetLocation())
		if err != nil {
			return gDto.FilterGroup{}, failure.BadRequestFromString("fecha must use the YYYY-MM-DD format")
		}

		filters = append(filters,
			gDto.Filter{
				ArgName:  "fecha_desde",
				Field:    constant.FieldCreatedAt,
				Value:    dayStart,
				Operator: gDto.FilterOperatorGreaterEq,
				Table:    model.TableName,
			},
			gDto.Filter{
				ArgName:  "fecha_hasta",
				Field:    constant.FieldCreatedAt,
				Value:    dayStart.AddDate(0, 0, 1),
				Operator: gDto.FilterOperatorLess,
				Table:    model.TableName,
			},
		)
	}

	return gDto.FilterGroup{
		Filters:  filters,
		Operator: gDto.FilterGroupOperatorAnd,
	}, nil
}

func parseCoordinate(value, field string) (*float64, error) {
	if value == constant.Empty {
		return nil, nil
	}

	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, failure.BadRequestFromString(field + " must be a number")
	}

	return &parsed, nil
}

func parseHora(value, field string) (time.Time, error) {
	if value == constant.Empty {
		return timezone.Now(), nil
	}

	parsed, err := timezone.Parse(constant.DateFormat, value)
	if err != nil {
		return time.Time{}, failure.BadRequestFromString(field + " must use the RFC3339 format")
	}

	return parsed, nil
}
