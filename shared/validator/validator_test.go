package validator_test

import (
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"
	"villa/shared/failure"
	"villa/shared/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type guest struct {
	FirstName   string `json:"first_name"   validate:"required,personname"`
	Email       string `json:"email"        validate:"required,email"`
	Adults      int    `json:"adults"       validate:"gte=1,lte=10"`
	ArrivalTime string `json:"arrival_time" validate:"omitempty,hhmm"`
	Currency    string `json:"currency"     validate:"required,currency"`
	Internal    string `json:"-"            validate:"omitempty,max=3"`
}

func validGuest() guest {
	return guest{FirstName: "Ayu", Email: "ayu@example.com", Adults: 2, ArrivalTime: "14:00", Currency: "IDR"}
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(g *guest)
		wantMsg string
	}{
		{name: "valid", mutate: func(*guest) {}},
		{name: "missing name", mutate: func(g *guest) { g.FirstName = "" }, wantMsg: "first_name is required"},
		{name: "bad email", mutate: func(g *guest) { g.Email = "ayu" }, wantMsg: "email must be a valid email address"},
		{name: "no adults", mutate: func(g *guest) { g.Adults = 0 }, wantMsg: "adults must be greater than or equal to 1"},
		{name: "bad arrival", mutate: func(g *guest) { g.ArrivalTime = "2pm" }, wantMsg: "arrival_time must be a time in HH:MM format"},
		{name: "unsupported currency", mutate: func(g *guest) { g.Currency = "JPY" }, wantMsg: "currency must be one of IDR USD EUR AUD"},
		{name: "untagged field keeps go name", mutate: func(g *guest) { g.Internal = "toolong" }, wantMsg: "Internal must be at most 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := validGuest()
			tt.mutate(&g)

			err := validator.ValidateStruct(&g)

			if tt.wantMsg == "" {
				assert.NoError(t, err)

				return
			}

			var fail *failure.Failure

			require.ErrorAs(t, err, &fail)
			assert.Equal(t, failure.KindValidation, fail.Kind)
			assert.Equal(t, tt.wantMsg, fail.Message)
		})
	}
}

func TestValidate(t *testing.T) {
	t.Run("decodes and validates", func(t *testing.T) {
		g := guest{}
		body := `{"first_name":"Ayu","email":"ayu@example.com","adults":2,"currency":"usd"}`

		require.NoError(t, validator.Validate(strings.NewReader(body), &g))
		assert.Equal(t, "Ayu", g.FirstName)
	})

	t.Run("malformed body", func(t *testing.T) {
		g := guest{}

		err := validator.Validate(strings.NewReader(`{"first_name":`), &g)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode request body")
	})

	t.Run("empty object", func(t *testing.T) {
		g := guest{}

		assert.EqualError(t, validator.Validate(strings.NewReader(`{}`), &g), "first_name is required")
	})
}

func TestCustomTags(t *testing.T) {
	tests := []struct {
		name    string
		field   any
		tag     string
		wantErr bool
	}{
		{name: "person name", field: "Anne-Marie O'Neil", tag: "personname"},
		{name: "person name with accents", field: "José Ñúñez", tag: "personname"},
		{name: "person name with digits", field: "R2D2", tag: "personname", wantErr: true},
		{name: "person name leading hyphen", field: "-Bob", tag: "personname", wantErr: true},
		{name: "clock time", field: "14:00", tag: "hhmm"},
		{name: "clock time out of range", field: "24:10", tag: "hhmm", wantErr: true},
		{name: "clock time missing zero", field: "9:30", tag: "hhmm", wantErr: true},
		{name: "discount code", field: "MEGAN", tag: "discountcode"},
		{name: "discount code with space", field: "TEST FREE", tag: "discountcode", wantErr: true},
		{name: "currency lower case", field: "eur", tag: "currency"},
		{name: "unsupported currency", field: "JPY", tag: "currency", wantErr: true},
		{name: "date string", field: "2025-07-10", tag: "datestring"},
		{name: "bad date string", field: "10/07/2025", tag: "datestring", wantErr: true},
		{name: "uuid", field: "4f8f7d1e-2b7a-4c39-9a51-0b3c41c2f6a0", tag: "uuid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateVar(tt.field, tt.tag)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

type upload struct {
	File multipart.FileHeader `json:"file" validate:"mimetypes=text/calendar application/octet-stream,maxfilesize=1"`
}

func fileHeader(contentType string, size int64) multipart.FileHeader {
	header := textproto.MIMEHeader{}
	header.Set("Content-Type", contentType)

	return multipart.FileHeader{Filename: "calendar.ics", Header: header, Size: size}
}

func TestFileTags(t *testing.T) {
	tests := []struct {
		name    string
		file    multipart.FileHeader
		wantMsg string
	}{
		{name: "calendar", file: fileHeader("text/calendar", 512)},
		{name: "calendar with charset", file: fileHeader("text/calendar; charset=utf-8", 512)},
		{name: "image", file: fileHeader("image/png", 512), wantMsg: "file must be one of text/calendar application/octet-stream"},
		{name: "too large", file: fileHeader("text/calendar", 2*1024*1024), wantMsg: "file must not exceed 1 MB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(&upload{File: tt.file})

			if tt.wantMsg == "" {
				assert.NoError(t, err)
			} else {
				assert.EqualError(t, err, tt.wantMsg)
			}
		})
	}
}
