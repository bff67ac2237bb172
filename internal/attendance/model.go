package attendance

import (
	"net/url"
	"time"
)

// Kind tags a validation outcome.
type Kind string

const (
	KindSuccess        Kind = "success"
	KindVisitorFound   Kind = "visitor_found"
	KindInvalid        Kind = "invalid"
	KindNetworkFailure Kind = "network_failure"
)

const (
	// MessageInvalidQR is shown when the backend accepts the call but the
	// payload lacks the identifiers we need.
	MessageInvalidQR = "QR inválido"
	// MessageValidationFailed is the fallback for application errors without a
	// server message.
	MessageValidationFailed = "No se pudo validar el código QR. Inténtalo de nuevo."
	// MessageNoConnection is shown when the backend could not be reached.
	MessageNoConnection = "Sin conexión. Verifica tu conexión a internet e inténtalo de nuevo."
)

const (
	BiometricsRoute     = "/biometrics"
	VisitorDetailsRoute = "/visitors/details"
)

// Outcome is the classified result of validating one scanned payload. Only
// the fields for its Kind are set.
type Outcome struct {
	Kind           Kind   `json:"kind"`
	LocationID     string `json:"location_id,omitempty"`
	OrganizationID string `json:"organization_id,omitempty"`
	VisitorID      string `json:"visitor_id,omitempty"`
	Name           string `json:"name,omitempty"`
	Message        string `json:"message,omitempty"`
}

func Success(locationID, organizationID string) Outcome {
	return Outcome{Kind: KindSuccess, LocationID: locationID, OrganizationID: organizationID}
}

func VisitorFound(visitorID, name string) Outcome {
	return Outcome{Kind: KindVisitorFound, VisitorID: visitorID, Name: name}
}

func Invalid(message string) Outcome {
	return Outcome{Kind: KindInvalid, Message: message}
}

func NetworkFailure(message string) Outcome {
	return Outcome{Kind: KindNetworkFailure, Message: message}
}

// Failed reports whether the outcome should present a retry affordance.
func (o Outcome) Failed() bool {
	return o.Kind == KindInvalid || o.Kind == KindNetworkFailure
}

// Route returns the screen the front end should open for a successful
// outcome, carrying the identifiers as query parameters. It is empty for
// failures.
func (o Outcome) Route() string {
	switch o.Kind {
	case KindSuccess:
		q := url.Values{}
		q.Set("location_id", o.LocationID)
		q.Set("organization_id", o.OrganizationID)
		return BiometricsRoute + "?" + q.Encode()
	case KindVisitorFound:
		q := url.Values{}
		q.Set("visitor_id", o.VisitorID)
		q.Set("name", o.Name)
		return VisitorDetailsRoute + "?" + q.Encode()
	default:
		return ""
	}
}

// QRValidation is the backend answer to an attendance QR validation.
type QRValidation struct {
	LocationID     string `json:"location_id"`
	OrganizationID string `json:"organization_id"`
}

// Visitor is the backend record returned for a visitor QR.
type Visitor struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Company   string     `json:"company,omitempty"`
	HostID    string     `json:"host_id,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Event is an attendance event recorded by the backend.
type Event struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	LocationID     string     `json:"location_id"`
	OrganizationID string     `json:"organization_id"`
	CheckIn        time.Time  `json:"check_in"`
	CheckOut       *time.Time `json:"check_out,omitempty"`
}
