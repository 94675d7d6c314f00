package pagination

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/trackinventory/internal/client/client"
	"github.com/dmitrijs2005/trackinventory/internal/common"
)

const (
	defaultItemsField = "items"
	totalCountField   = "totalCount"
)

// Endpoint describes a list endpoint.
type Endpoint struct {
	// Method is POST (query sent as a JSON body) or GET (query parameters).
	Method string
	Path   string
	// Type is the list discriminator sent with every request.
	Type string
	// ItemsField names the array in the response; "items" when empty.
	ItemsField string
}

type listBody struct {
	Type string `json:"type"`
	Skip int    `json:"skip"`
	Take int    `json:"take"`
	Days *int   `json:"days,omitempty"`
}

type remoteSource[W, T any] struct {
	doer  client.Doer
	ep    Endpoint
	mapFn func(W) T
}

// NewRemoteSource builds a Source that reads pages of W from ep through doer
// and maps each record with mapFn.
func NewRemoteSource[W, T any](doer client.Doer, ep Endpoint, mapFn func(W) T) Source[T] {
	if ep.ItemsField == "" {
		ep.ItemsField = defaultItemsField
	}
	if ep.Method == "" {
		ep.Method = http.MethodPost
	}
	return &remoteSource[W, T]{doer: doer, ep: ep, mapFn: mapFn}
}

func (s *remoteSource[W, T]) Fetch(ctx context.Context, q Query) (Page[T], error) {
	req := client.Request{Method: s.ep.Method, Path: s.ep.Path}
	if s.ep.Method == http.MethodGet {
		v := url.Values{}
		v.Set("type", s.ep.Type)
		v.Set("skip", strconv.Itoa(q.Skip))
		v.Set("take", strconv.Itoa(q.Take))
		if q.Days != nil {
			v.Set("days", strconv.Itoa(*q.Days))
		}
		req.Query = v
	} else {
		req.Body = listBody{Type: s.ep.Type, Skip: q.Skip, Take: q.Take, Days: q.Days}
	}

	var raw map[string]json.RawMessage
	if err := s.doer.Do(ctx, req, &raw); err != nil {
		return Page[T]{}, err
	}

	var page Page[T]

	if b, ok := raw[totalCountField]; ok && !isNull(b) {
		if err := json.Unmarshal(b, &page.TotalCount); err != nil {
			return Page[T]{}, decodeError(s.ep.Path, totalCountField, err)
		}
	}

	b, ok := raw[s.ep.ItemsField]
	if !ok || isNull(b) {
		page.Items = []T{}
		return page, nil
	}
	if t := bytes.TrimSpace(b); len(t) == 0 || t[0] != '[' {
		return Page[T]{}, decodeError(s.ep.Path, s.ep.ItemsField, fmt.Errorf("expected array"))
	}

	var records []W
	if err := json.Unmarshal(b, &records); err != nil {
		return Page[T]{}, decodeError(s.ep.Path, s.ep.ItemsField, err)
	}
	page.Items = make([]T, len(records))
	for i, r := range records {
		page.Items[i] = s.mapFn(r)
	}
	return page, nil
}

func isNull(b json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(b), []byte("null"))
}

func decodeError(path, field string, err error) error {
	return &client.APIError{
		Kind:    common.ErrDecode,
		Status:  http.StatusOK,
		Message: "unexpected response from server",
		Err:     fmt.Errorf("%s: field %q: %w", path, field, err),
	}
}
