package query

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/nerrad567/hydroponics-core/internal/validation"
)

// PageParam is the query parameter selecting a page.
const PageParam = "page"

// lastPage is accepted in place of a page number.
const lastPage = "last"

// Page selects one fixed-size slice of an ordered collection.
type Page struct {
	// Number is 1-based.
	Number int
	Size   int

	// last defers the page number until the collection size is known.
	last bool
}

// ParsePage reads the page parameter. An empty value selects page 1 and
// "last" selects the final page. Anything else must be a positive integer;
// otherwise the error is a validation.Error on "page", which the API
// renders as 400 (not 404). Numbers whose offset would overflow an int are
// clamped to maxPage, which lies past the end of any stored collection.
func ParsePage(raw string, size int) (Page, error) {
	raw = strings.TrimSpace(raw)
	switch raw {
	case "":
		return Page{Number: 1, Size: size}, nil
	case lastPage:
		return Page{Number: 1, Size: size, last: true}, nil
	}

	n, err := strconv.Atoi(raw)
	if errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(raw, "-") {
		n, err = math.MaxInt, nil
	}
	if err != nil || n < 1 {
		return Page{}, validation.New(PageParam, "Invalid page.")
	}
	return Page{Number: min(n, maxPage(size)), Size: size}, nil
}

// maxPage is the largest page number whose offset fits in an int.
func maxPage(size int) int {
	if size < 1 {
		return math.MaxInt
	}
	return math.MaxInt / size
}

// Resolve fixes the page number once the total count is known.
// Only a "last" page changes; numbered pages past the end stay as they
// are and produce an empty slice.
func (p Page) Resolve(count int) Page {
	if !p.last {
		return p
	}
	p.last = false
	p.Number = max(pageCount(count, p.Size), 1)
	return p
}

// pageCount is the number of pages count records fill.
func pageCount(count, size int) int {
	if count < 1 || size < 1 {
		return 0
	}
	n := count / size
	if count%size != 0 {
		n++
	}
	return n
}

// Offset is the number of records preceding this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// Result is one page of a collection plus the navigation facts a client needs.
type Result[T any] struct {
	Items []T
	// Count is the size of the whole filtered collection, not of this page.
	Count int
	Page  Page
}

// HasNext reports whether records exist after this page.
func (r Result[T]) HasNext() bool {
	return r.Page.Number < pageCount(r.Count, r.Page.Size)
}

// HasPrevious reports whether this is not the first page.
func (r Result[T]) HasPrevious() bool {
	return r.Page.Number > 1
}
