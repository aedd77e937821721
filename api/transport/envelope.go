package transport

import (
	"encoding/json"

	"github.com/shoplite/client/domain"
)

// The backend speaks two envelope dialects. Auth endpoints wrap payloads as
// {status:"success", message, data}; the commerce endpoints (cart, product,
// debt, expenditure, reports) use {success:true, message, data} plus optional
// list metadata at the top level.

// AuthEnvelope is the auth-service response wrapper.
type AuthEnvelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// OK reports whether the server marked the call successful.
func (e *AuthEnvelope) OK() bool {
	return e != nil && e.Status == "success"
}

// DecodeData unmarshals the data payload into out. A missing payload is not
// an error; callers that require data check for it themselves.
func (e *AuthEnvelope) DecodeData(out interface{}) error {
	if e == nil || len(e.Data) == 0 {
		return nil
	}
	return json.Unmarshal(e.Data, out)
}

// Envelope is the commerce-service response wrapper.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`

	// List metadata, present on paginated collection responses.
	Total       int `json:"total,omitempty"`
	TotalCount  int `json:"totalCount,omitempty"`
	TotalPages  int `json:"totalPages,omitempty"`
	CurrentPage int `json:"currentPage,omitempty"`
	Count       int `json:"count,omitempty"`

	// Operation-specific extras.
	OrderID            string                   `json:"orderId,omitempty"`
	DeletedCount       int                      `json:"deletedCount,omitempty"`
	DeletedReports     int                      `json:"deletedReports,omitempty"`
	TotalOverdueAmount float64                  `json:"totalOverdueAmount,omitempty"`
	UnavailableItems   []domain.UnavailableItem `json:"unavailableItems,omitempty"`
}

// OK reports whether the server marked the call successful.
func (e *Envelope) OK() bool {
	return e != nil && e.Success
}

// DecodeData unmarshals the data payload into out.
func (e *Envelope) DecodeData(out interface{}) error {
	if e == nil || len(e.Data) == 0 {
		return nil
	}
	return json.Unmarshal(e.Data, out)
}

// Page carries the pagination metadata of a collection response.
type Page struct {
	Total       int `json:"total"`
	TotalPages  int `json:"totalPages"`
	CurrentPage int `json:"currentPage"`
}

// PageOf extracts pagination metadata from an envelope.
func PageOf(e *Envelope) Page {
	if e == nil {
		return Page{}
	}
	total := e.Total
	if total == 0 {
		total = e.TotalCount
	}
	return Page{
		Total:       total,
		TotalPages:  e.TotalPages,
		CurrentPage: e.CurrentPage,
	}
}
