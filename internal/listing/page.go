// Package listing slices the record set into pages for the listing section.
package listing

import (
	"math"
	"strconv"

	"gitlab.com/dirk.krummacker/registration-form/internal/model"
)

// DefaultPageSize is the number of records per page.
const DefaultPageSize = 10

// Page is one page of the listing together with the navigation state.
type Page struct {
	Records     []model.Record
	TotalRows   int
	TotalPages  int
	CurrentPage int
	PageSize    int
}

// ParsePage reads the page query parameter. Values that are not a positive number mean page 1.
func ParsePage(param string) int {
	page, err := strconv.Atoi(param)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// PageCount returns how many pages of the given size are needed for n records.
func PageCount(n int, pageSize int) int {
	if n <= 0 {
		return 0
	}
	return int(math.Ceil(float64(n) / float64(pageSize)))
}

// Paginate returns the requested page of records. A page beyond the last one is clamped to the last
// page, a page below 1 to the first page.
func Paginate(records []model.Record, page int, pageSize int) Page {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	totalPages := PageCount(len(records), pageSize)
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	end := min(start+pageSize, len(records))
	if start > end {
		start = end
	}
	return Page{
		Records:     records[start:end],
		TotalRows:   len(records),
		TotalPages:  totalPages,
		CurrentPage: page,
		PageSize:    pageSize,
	}
}

// HasPrev tells whether there is a page before the current one.
func (p Page) HasPrev() bool {
	return p.CurrentPage > 1
}

// HasNext tells whether there is a page after the current one.
func (p Page) HasNext() bool {
	return p.CurrentPage < p.TotalPages
}

// PrevPage returns the number of the previous page, but never less than 1.
func (p Page) PrevPage() int {
	return max(1, p.CurrentPage-1)
}

// NextPage returns the number of the next page, but never more than the last page.
func (p Page) NextPage() int {
	return max(1, min(p.TotalPages, p.CurrentPage+1))
}
