package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/telvana/fleet-console/internal/core/domain"
	"github.com/telvana/fleet-console/internal/core/port"
)

type attributionPayload struct {
	ID             flexID    `json:"id"`
	UserID         flexID    `json:"userId"`
	PhoneID        *flexID   `json:"phoneId,omitempty"`
	SimCardID      *flexID   `json:"simCardId,omitempty"`
	AssignedBy     string    `json:"assignedBy,omitempty"`
	AssignmentDate wireTime  `json:"assignmentDate"`
	ReturnDate     *wireTime `json:"returnDate,omitempty"`
	Status         string    `json:"status"`
	Notes          string    `json:"notes,omitempty"`
}

func (p attributionPayload) toDomain() domain.Attribution {
	return domain.Attribution{
		ID:             p.ID.String(),
		UserID:         p.UserID.String(),
		PhoneID:        p.PhoneID.ptr(),
		SimCardID:      p.SimCardID.ptr(),
		AssignedBy:     p.AssignedBy,
		AssignmentDate: p.AssignmentDate.Time,
		ReturnDate:     p.ReturnDate.timePtr(),
		Status:         domain.AttributionStatus(p.Status),
		Notes:          p.Notes,
	}
}

func attributionToPayload(a domain.Attribution) attributionPayload {
	return attributionPayload{
		ID:             flexID(a.ID),
		UserID:         flexID(a.UserID),
		PhoneID:        idPtr(a.PhoneID),
		SimCardID:      idPtr(a.SimCardID),
		AssignedBy:     a.AssignedBy,
		AssignmentDate: wireTime{Time: a.AssignmentDate},
		ReturnDate:     wireTimePtr(a.ReturnDate),
		Status:         string(a.Status),
		Notes:          a.Notes,
	}
}

// ListAttributions fetches a single page of attribution records.
func (c *Client) ListAttributions(ctx context.Context, q port.ListQuery) ([]domain.Attribution, error) {
	body, err := c.get(ctx, "/attributions", listQueryValues(q))
	if err != nil {
		return nil, err
	}

	payloads := []attributionPayload{}
	decodeCollection(body, "attributions", &payloads)

	attributions := make([]domain.Attribution, 0, len(payloads))
	for _, p := range payloads {
		attributions = append(attributions, p.toDomain())
	}
	return attributions, nil
}

// FetchAllAttributions walks every page of the attribution collection.
func (c *Client) FetchAllAttributions(ctx context.Context) ([]domain.Attribution, error) {
	var all []domain.Attribution
	for page := 1; ; page++ {
		batch, err := c.ListAttributions(ctx, port.ListQuery{Page: page, Limit: fetchAllPageCap})
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < fetchAllPageCap {
			return all, nil
		}
	}
}

// CreateAttribution posts a new attribution and returns the stored record.
func (c *Client) CreateAttribution(ctx context.Context, attribution domain.Attribution) (*domain.Attribution, error) {
	body, err := c.do(ctx, http.MethodPost, "/attributions", nil, attributionToPayload(attribution))
	if err != nil {
		return nil, err
	}
	return decodeAttribution(body)
}

// UpdateAttribution replaces an existing attribution and returns the stored record.
func (c *Client) UpdateAttribution(ctx context.Context, attribution domain.Attribution) (*domain.Attribution, error) {
	if attribution.ID == "" {
		return nil, fmt.Errorf("attribution id is required")
	}

	body, err := c.do(ctx, http.MethodPut, "/attributions/"+url.PathEscape(attribution.ID), nil, attributionToPayload(attribution))
	if err != nil {
		return nil, err
	}
	return decodeAttribution(body)
}

// ReturnAttribution marks an attribution RETURNED upstream.
func (c *Client) ReturnAttribution(ctx context.Context, id string) (*domain.Attribution, error) {
	if id == "" {
		return nil, fmt.Errorf("attribution id is required")
	}

	body, err := c.do(ctx, http.MethodPost, "/attributions/"+url.PathEscape(id)+"/return", nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeAttribution(body)
}

// DeleteAttribution removes an attribution upstream.
func (c *Client) DeleteAttribution(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("attribution id is required")
	}

	_, err := c.do(ctx, http.MethodDelete, "/attributions/"+url.PathEscape(id), nil, nil)
	return err
}

func decodeAttribution(body []byte) (*domain.Attribution, error) {
	var payload attributionPayload
	if err := decodeRecord(body, &payload); err != nil {
		return nil, fmt.Errorf("decode attribution record: %w", err)
	}
	record := payload.toDomain()
	return &record, nil
}
