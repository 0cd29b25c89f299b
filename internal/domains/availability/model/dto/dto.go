package dto

import (
	"mime/multipart"
	"villa/internal/domains/availability/model"
)

type BlockedRangeResponse struct {
	Start  string `json:"start"`
	End    string `json:"end"`
	Source string `json:"source,omitempty"`
}

type BlockedDatesResponse struct {
	Ranges   []BlockedRangeResponse `json:"ranges"`
	Dates    []string               `json:"dates"`
	Warnings []string               `json:"warnings,omitempty"`
}

// FromModel expands each range into the individual blocked days.
func (r *BlockedDatesResponse) FromModel(availability model.Availability) {
	r.Ranges = make([]BlockedRangeResponse, len(availability.Ranges))
	r.Dates = []string{}

	for i, blocked := range availability.Ranges {
		r.Ranges[i] = BlockedRangeResponse{
			Start:  blocked.Start.String(),
			End:    blocked.End.String(),
			Source: blocked.Source,
		}

		for _, day := range blocked.Days() {
			r.Dates = append(r.Dates, day.String())
		}
	}

	r.Warnings = availability.Warnings
}

type UploadCalendarRequest struct {
	File multipart.FileHeader `validate:"mimetypes=text/calendar application/octet-stream text/plain,maxfilesize=2"`
}

type UploadCalendarResponse struct {
	Events int `json:"events"`
}
