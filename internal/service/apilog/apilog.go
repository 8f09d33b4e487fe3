// internal/service/apilog/apilog.go
package apilog

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Type groups backend calls in the developer panel.
type Type string

const (
	TypeGet            Type = "GET"
	TypePost           Type = "POST"
	TypeScenario       Type = "SCENARIO"
	TypeAddressSearch  Type = "ADDRESS_SEARCH"
	TypeAddressDetails Type = "ADDRESS_DETAILS"
	TypeCompanySearch  Type = "COMPANY_SEARCH"
	TypeSigning        Type = "SIGNING"
)

// Backend endpoints as they appear in the logs.
const (
	EndpointScenario    = "/api/scenario/determine"
	EndpointAddresses   = "/api/address/search"
	EndpointApartments  = "/api/address/apartments"
	EndpointRegion      = "/api/region/detect"
	EndpointCompany     = "/api/company"
	EndpointExtras      = "/api/extra-services"
	EndpointSigning     = "/api/signing"
	EndpointCreateOrder = "/api/orders"
)

// Entry is one backend call.
type Entry struct {
	ID         uuid.UUID `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	CaseID     string    `json:"caseId,omitempty"`
	Endpoint   string    `json:"endpoint"`
	Type       Type      `json:"type"`
	Request    any       `json:"request,omitempty"`
	Response   any       `json:"response,omitempty"`
	DurationMs int64     `json:"durationMs"`
	Error      string    `json:"error,omitempty"`

	err error
}

// Err is the error the call returned, if any.
func (e Entry) Err() error { return e.err }

func (e Entry) Duration() time.Duration {
	return time.Duration(e.DurationMs) * time.Millisecond
}

// Recorder receives every completed backend call. Implementations must not
// block the caller for long.
type Recorder interface {
	Record(ctx context.Context, e Entry)
}

// Call describes a backend call to run and record.
type Call struct {
	CaseID   string
	Endpoint string
	Type     Type
	// Request is what gets logged; mask personal data before setting it.
	Request any
}

// Do runs fn and hands the outcome to rec. A nil recorder only runs fn.
func Do[T any](ctx context.Context, rec Recorder, call Call, fn func(context.Context) (T, error)) (T, error) {
	start := time.Now()
	resp, err := fn(ctx)
	if rec == nil {
		return resp, err
	}

	entry := Entry{
		ID:         uuid.New(),
		Timestamp:  time.Now(),
		CaseID:     call.CaseID,
		Endpoint:   call.Endpoint,
		Type:       call.Type,
		Request:    call.Request,
		DurationMs: time.Since(start).Milliseconds(),
		err:        err,
	}
	if err != nil {
		entry.Error = err.Error()
		entry.Response = map[string]string{"error": err.Error()}
	} else {
		entry.Response = resp
	}
	rec.Record(ctx, entry)

	return resp, err
}
