package attendance

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/skyhr/skyhr/internal/backend"
)

// Client calls the attendance and visitor endpoints of the backend.
type Client struct {
	doer backend.Doer
}

// NewClient builds an attendance client over a backend transport.
func NewClient(doer backend.Doer) *Client {
	return &Client{doer: doer}
}

type qrRequest struct {
	QRData string `json:"qr_data"`
}

// ValidateQR asks the backend to resolve an attendance QR payload.
func (c *Client) ValidateQR(ctx context.Context, payload string) (QRValidation, error) {
	resp, err := c.doer.Do(ctx, backend.Request{
		Method: http.MethodPost,
		Path:   "/api/attendance/validate-qr",
		Body:   qrRequest{QRData: payload},
	})
	if err != nil {
		return QRValidation{}, err
	}
	var out QRValidation
	if err := resp.Decode(&out); err != nil {
		return QRValidation{}, err
	}
	return out, nil
}

// ValidateVisitorQR asks the backend to resolve a visitor QR payload.
func (c *Client) ValidateVisitorQR(ctx context.Context, payload string) (Visitor, error) {
	resp, err := c.doer.Do(ctx, backend.Request{
		Method: http.MethodPost,
		Path:   "/api/visitors/validate-qr",
		Body:   qrRequest{QRData: payload},
	})
	if err != nil {
		return Visitor{}, err
	}
	var out Visitor
	if err := resp.Decode(&out); err != nil {
		return Visitor{}, err
	}
	return out, nil
}

type faceRequest struct {
	Image string `json:"image"`
}

// RegisterFace uploads a captured face image. The response shape is not
// fixed, so it is returned as a generic JSON object for the liveness gate.
func (c *Client) RegisterFace(ctx context.Context, image string) (map[string]any, error) {
	resp, err := c.doer.Do(ctx, backend.Request{
		Method: http.MethodPost,
		Path:   "/api/attendance/register-face",
		Body:   faceRequest{Image: image},
	})
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if len(resp.Body) == 0 {
		return out, nil
	}
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetTodayAttendanceEvent returns the user's attendance event for today. A
// 404 means there is no event yet and yields (nil, nil).
func (c *Client) GetTodayAttendanceEvent(ctx context.Context, userID string) (*Event, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id cannot be empty")
	}
	resp, err := c.doer.Do(ctx, backend.Request{
		Method: http.MethodGet,
		Path:   "/api/attendance/today/" + url.PathEscape(userID),
	})
	if err != nil {
		if backend.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get today's attendance event: %w", err)
	}
	var ev Event
	if err := resp.Decode(&ev); err != nil {
		return nil, err
	}
	return &ev, nil
}
