package api

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/nerrad567/hydroponics-core/internal/query"
)

// pageResponse is the list envelope. Next and Previous are absolute URLs,
// or null at either end of the collection.
type pageResponse[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

func newPageResponse[T any](r *http.Request, res query.Result[T]) pageResponse[T] {
	out := pageResponse[T]{
		Count:   res.Count,
		Results: res.Items,
	}
	if out.Results == nil {
		out.Results = []T{}
	}
	if res.HasNext() {
		out.Next = pageURL(r, res.Page.Number+1)
	}
	if res.HasPrevious() {
		out.Previous = pageURL(r, res.Page.Number-1)
	}
	return out
}

// pageURL rebuilds the request URL with the page parameter set to n.
// Every other parameter is kept; page 1 is expressed by dropping the
// parameter altogether.
func pageURL(r *http.Request, n int) *string {
	params := r.URL.Query()
	if n <= 1 {
		params.Del(query.PageParam)
	} else {
		params.Set(query.PageParam, strconv.Itoa(n))
	}

	u := url.URL{
		Scheme:   requestScheme(r),
		Host:     r.Host,
		Path:     r.URL.Path,
		RawQuery: params.Encode(),
	}
	link := u.String()
	return &link
}

func requestScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	return "http"
}
