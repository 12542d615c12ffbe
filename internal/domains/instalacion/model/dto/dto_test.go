package dto_test

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"registro/internal/domains/instalacion/model"
	"registro/internal/domains/instalacion/model/dto"
	piezaModel "registro/internal/domains/pieza/model"
	"registro/shared/constant"
	gDto "registro/shared/dto"
	"registro/shared/timezone"
	"registro/shared/validator"
)

func TestCreateInstalacionRequest_FromMultipart(t *testing.T) {
	build := func(t *testing.T, fields map[string]string, files map[string][]string) (body *bytes.Buffer, contentType string) {
		t.Helper()

		body = &bytes.Buffer{}
		writer := multipart.NewWriter(body)

		for key, value := range fields {
			assert.NoError(t, writer.WriteField(key, value))
		}

		for key, names := range files {
			for _, name := range names {
				part, err := writer.CreateFormFile(key, name)
				assert.NoError(t, err)

				_, err = part.Write([]byte("fake image bytes"))
				assert.NoError(t, err)
			}
		}

		assert.NoError(t, writer.Close())

		return body, writer.FormDataContentType()
	}

	t.Run("parses scalars, piezas and aligned photo parts", func(t *testing.T) {
		body, contentType := build(t, map[string]string{
			model.FieldNombreLibreria:      "Libreria Nacional",
			model.FieldSede:                "Centro",
			model.FieldIsEvento:            "true",
			model.FieldNombrePersonaRecibe: "Ana",
			model.FieldLatitud:             "4.60971",
			model.FieldLongitud:            "-74.08175",
			constant.FormFieldPiezas:       `[{"nombre_pieza":"Pendon"},{"nombre_pieza":"Afiche","medidas_pieza":"50x70"}]`,
		}, map[string][]string{
			constant.FormFieldFotosLibreria:     {"fachada.jpg"},
			constant.FormFieldFotosPieza + "_1": {"afiche.jpg"},
		})

		r := httptest.NewRequest("POST", "/v1/instalaciones", body)
		r.Header.Set("Content-Type", contentType)

		req := dto.CreateInstalacionRequest{}
		err := req.FromMultipart(r)

		assert.NoError(t, err)
		assert.Equal(t, "Libreria Nacional", req.NombreLibreria)
		assert.True(t, req.IsEvento)
		assert.NotNil(t, req.Latitud)
		assert.InDelta(t, 4.60971, *req.Latitud, 0.00001)
		assert.Len(t, req.Piezas, 2)
		assert.Len(t, req.FotosLibreria, 1)
		assert.Len(t, req.FotosPiezas, 2)
		assert.Empty(t, req.FotosPiezas[0])
		assert.Len(t, req.FotosPiezas[1], 1)
		assert.Equal(t, "afiche.jpg", req.FotosPiezas[1][0].Filename)
	})

	t.Run("latitud without longitud is rejected", func(t *testing.T) {
		body, contentType := build(t, map[string]string{
			model.FieldNombreLibreria: "Libreria Nacional",
			model.FieldLatitud:        "4.60971",
			constant.FormFieldPiezas:  `[{"nombre_pieza":"Pendon"}]`,
		}, nil)

		r := httptest.NewRequest("POST", "/v1/instalaciones", body)
		r.Header.Set("Content-Type", contentType)

		req := dto.CreateInstalacionRequest{}
		err := req.FromMultipart(r)

		assert.Error(t, err)
	})

	t.Run("malformed piezas json is rejected", func(t *testing.T) {
		body, contentType := build(t, map[string]string{
			model.FieldNombreLibreria: "Libreria Nacional",
			constant.FormFieldPiezas:  `{not json`,
		}, nil)

		r := httptest.NewRequest("POST", "/v1/instalaciones", body)
		r.Header.Set("Content-Type", contentType)

		req := dto.CreateInstalacionRequest{}
		err := req.FromMultipart(r)

		assert.Error(t, err)
	})

	t.Run("missing nombre_libreria fails validation", func(t *testing.T) {
		body, contentType := build(t, map[string]string{
			constant.FormFieldPiezas: `[{"nombre_pieza":"Pendon"}]`,
		}, nil)

		r := httptest.NewRequest("POST", "/v1/instalaciones", body)
		r.Header.Set("Content-Type", contentType)

		req := dto.CreateInstalacionRequest{}
		assert.NoError(t, req.FromMultipart(r))
		assert.Error(t, validator.ValidateStruct(&req))
	})

	t.Run("empty pieza list fails validation", func(t *testing.T) {
		body, contentType := build(t, map[string]string{
			model.FieldNombreLibreria: "Libreria Nacional",
		}, nil)

		r := httptest.NewRequest("POST", "/v1/instalaciones", body)
		r.Header.Set("Content-Type", contentType)

		req := dto.CreateInstalacionRequest{}
		assert.NoError(t, req.FromMultipart(r))
		assert.Error(t, validator.ValidateStruct(&req))
	})
}

func TestCreateInstalacionRequest_PhotoValidation(t *testing.T) {
	build := func(t *testing.T, contentType string, size int) dto.CreateInstalacionRequest {
		t.Helper()

		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)

		assert.NoError(t, writer.WriteField(model.FieldNombreLibreria, "Libreria Nacional"))
		assert.NoError(t, writer.WriteField(constant.FormFieldPiezas, `[{"nombre_pieza":"Pendon"}]`))

		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, constant.FormFieldFotosLibreria, "fachada.bin"))
		header.Set("Content-Type", contentType)

		part, err := writer.CreatePart(header)
		assert.NoError(t, err)

		_, err = part.Write(bytes.Repeat([]byte("x"), size))
		assert.NoError(t, err)

		assert.NoError(t, writer.Close())

		r := httptest.NewRequest("POST", "/v1/instalaciones", body)
		r.Header.Set("Content-Type", writer.FormDataContentType())

		req := dto.CreateInstalacionRequest{}
		assert.NoError(t, req.FromMultipart(r))

		return req
	}

	t.Run("accepts an image within the size limit", func(t *testing.T) {
		req := build(t, "image/png", 1024)

		assert.NoError(t, validator.ValidateStruct(&req))
	})

	t.Run("rejects a non-image content type", func(t *testing.T) {
		req := build(t, "application/pdf", 1024)

		assert.Error(t, validator.ValidateStruct(&req))
	})

	t.Run("rejects an oversized photo", func(t *testing.T) {
		req := build(t, "image/png", 6*1024*1024)

		assert.Error(t, validator.ValidateStruct(&req))
	})
}

func TestUpdateInstalacionRequest_FromMultipart(t *testing.T) {
	build := func(t *testing.T, fields map[string]string) *http.Request {
		t.Helper()

		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)

		for key, value := range fields {
			assert.NoError(t, writer.WriteField(key, value))
		}

		assert.NoError(t, writer.Close())

		r := httptest.NewRequest("PATCH", "/v1/instalaciones/inst-1", body)
		r.Header.Set("Content-Type", writer.FormDataContentType())

		return r
	}

	t.Run("parses horas and isevento", func(t *testing.T) {
		r := build(t, map[string]string{
			model.FieldSede:                  "Norte",
			model.FieldIsEvento:              "false",
			model.FieldHoraInicioInstalacion: "2026-08-15T10:00:00Z",
			model.FieldHoraFinInstalacion:    "2026-08-15T12:30:00Z",
		})

		req := dto.UpdateInstalacionRequest{}
		err := req.FromMultipart(r)

		assert.NoError(t, err)
		assert.Equal(t, "Norte", req.Sede)
		assert.NotNil(t, req.IsEvento)
		assert.False(t, *req.IsEvento)
		assert.True(t, req.HoraInicioInstalacion.Equal(time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)))
		assert.True(t, req.HoraFinInstalacion.Equal(time.Date(2026, 8, 15, 12, 30, 0, 0, time.UTC)))
	})

	t.Run("absent horas and isevento stay unset", func(t *testing.T) {
		r := build(t, map[string]string{model.FieldSede: "Norte"})

		req := dto.UpdateInstalacionRequest{}
		err := req.FromMultipart(r)

		assert.NoError(t, err)
		assert.Nil(t, req.IsEvento)
		assert.True(t, req.HoraInicioInstalacion.IsZero())
		assert.True(t, req.HoraFinInstalacion.IsZero())
	})

	t.Run("malformed hora is rejected", func(t *testing.T) {
		r := build(t, map[string]string{
			model.FieldHoraInicioInstalacion: "15/08/2026 10:00",
		})

		req := dto.UpdateInstalacionRequest{}
		err := req.FromMultipart(r)

		assert.Error(t, err)
	})
}

func TestGetInstalacionesResponse_FromModels(t *testing.T) {
	tests := []struct {
		name      string
		totalData int
		limit     int
		wantPages int
	}{
		{name: "exact division", totalData: 20, limit: 10, wantPages: 2},
		{name: "partial last page", totalData: 21, limit: 10, wantPages: 3},
		{name: "empty result keeps one page", totalData: 0, limit: 10, wantPages: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := dto.GetInstalacionesResponse{}
			res.FromModels([]model.Instalacion{{ID: "a"}}, tt.totalData, tt.limit, dto.AppliedFilters{})

			assert.Equal(t, tt.totalData, res.TotalData)
			assert.Equal(t, tt.wantPages, res.TotalPage)
		})
	}
}

func TestBuildDashboardFilter(t *testing.T) {
	t.Run("combines libreria, sede and fecha with AND", func(t *testing.T) {
		group, err := dto.BuildDashboardFilter("Nacional", "Centro", "2026-08-15")

		assert.NoError(t, err)
		assert.Equal(t, gDto.FilterGroupOperatorAnd, group.Operator)
		assert.Len(t, group.Filters, 4)
	})

	t.Run("fecha covers the whole calendar day", func(t *testing.T) {
		group, err := dto.BuildDashboardFilter("", "", "2026-08-15")

		assert.NoError(t, err)
		assert.Len(t, group.Filters, 2)

		desde := group.Filters[0].(gDto.Filter)
		hasta := group.Filters[1].(gDto.Filter)

		dayStart, perr := time.ParseInLocation(constant.DateDayFormat, "2026-08-15", timezone.GetLocation())
		assert.NoError(t, perr)

		assert.Equal(t, gDto.FilterOperatorGreaterEq, desde.Operator)
		assert.Equal(t, dayStart, desde.Value)
		assert.Equal(t, gDto.FilterOperatorLess, hasta.Operator)
		assert.Equal(t, dayStart.AddDate(0, 0, 1), hasta.Value)
	})

	t.Run("invalid fecha is rejected", func(t *testing.T) {
		_, err := dto.BuildDashboardFilter("", "", "15/08/2026")

		assert.Error(t, err)
	})

	t.Run("no params yields an empty group", func(t *testing.T) {
		group, err := dto.BuildDashboardFilter("", "", "")

		assert.NoError(t, err)
		assert.Empty(t, group.Filters)
	})
}

func TestInstalacionDetailResponse_FromModel(t *testing.T) {
	lat, lng := 4.60971, -74.08175

	t.Run("event fields and maps url when present", func(t *testing.T) {
		m := model.Instalacion{
			ID:                  "inst-1",
			IsEvento:            true,
			NombrePersonaRecibe: "Ana",
			CargoPersonaRecibe:  "Coordinadora",
			Latitud:             &lat,
			Longitud:            &lng,
		}

		res := dto.InstalacionDetailResponse{}
		res.FromModel(m, []piezaModel.Pieza{{ID: "p1"}})

		assert.Equal(t, "Ana", res.NombrePersonaRecibe)
		assert.Equal(t, "https://www.google.com/maps?q=4.60971,-74.08175", res.MapsURL)
		assert.Len(t, res.Piezas, 1)
	})

	t.Run("non-event hides the receiving person", func(t *testing.T) {
		m := model.Instalacion{
			ID:                  "inst-1",
			NombrePersonaRecibe: "Ana",
		}

		res := dto.InstalacionDetailResponse{}
		res.FromModel(m, nil)

		assert.Empty(t, res.NombrePersonaRecibe)
		assert.Empty(t, res.MapsURL)
	})
}
