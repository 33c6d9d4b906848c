// Package service maps the backend's REST resources onto typed calls. Every
// call goes through the Session Guard.
package service

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"alcyxob/gym-backoffice/internal/api"
	"alcyxob/gym-backoffice/internal/directory"
)

// Requester is the part of *api.Guard the services use.
type Requester interface {
	Authorized(ctx context.Context, req api.Request) (json.RawMessage, error)
	Public(ctx context.Context, req api.Request) (json.RawMessage, error)
}

// pageQuery encodes a directory query the way list endpoints expect it.
func pageQuery(q directory.Query) url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("size", strconv.Itoa(q.Size))
	if q.SortBy != "" {
		v.Set("sortBy", q.SortBy)
		v.Set("order", string(q.Order))
	}
	return v
}

func resourcePath(collection, id string) string {
	return collection + "/" + url.PathEscape(id)
}
