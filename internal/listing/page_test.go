package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gitlab.com/dirk.krummacker/registration-form/internal/model"
)

func records(n int) []model.Record {
	rs := make([]model.Record, n)
	for i := range rs {
		rs[i] = model.Record{Id: int64(i + 1)}
	}
	return rs
}

func ids(p Page) []int64 {
	var out []int64
	for _, r := range p.Records {
		out = append(out, r.Id)
	}
	return out
}

// TestPaginate25Records slices 25 records into pages of 10.
func TestPaginate25Records(t *testing.T) {
	all := records(25)

	first := Paginate(all, 1, DefaultPageSize)
	assert.Equal(t, []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, ids(first))
	assert.Equal(t, 3, first.TotalPages)
	assert.Equal(t, 25, first.TotalRows)
	assert.False(t, first.HasPrev())
	assert.True(t, first.HasNext())

	second := Paginate(all, 2, DefaultPageSize)
	assert.Equal(t, []int64{11, 12, 13, 14, 15, 16, 17, 18, 19, 20}, ids(second))

	third := Paginate(all, 3, DefaultPageSize)
	assert.Equal(t, []int64{21, 22, 23, 24, 25}, ids(third))
	assert.False(t, third.HasNext())
	assert.Equal(t, 3, third.NextPage())
	assert.Equal(t, 2, third.PrevPage())
}

func TestPaginateClampsOutOfRange(t *testing.T) {
	all := records(25)

	beyond := Paginate(all, 99, DefaultPageSize)
	assert.Equal(t, 3, beyond.CurrentPage)
	assert.Equal(t, []int64{21, 22, 23, 24, 25}, ids(beyond))

	below := Paginate(all, -4, DefaultPageSize)
	assert.Equal(t, 1, below.CurrentPage)
	assert.Len(t, below.Records, 10)
}

func TestPaginateEmpty(t *testing.T) {
	p := Paginate(nil, 5, DefaultPageSize)
	assert.Equal(t, 1, p.CurrentPage)
	assert.Equal(t, 0, p.TotalPages)
	assert.Empty(t, p.Records)
	assert.False(t, p.HasNext())
	assert.Equal(t, 1, p.NextPage())
}

func TestParsePage(t *testing.T) {
	assert.Equal(t, 1, ParsePage(""))
	assert.Equal(t, 1, ParsePage("abc"))
	assert.Equal(t, 1, ParsePage("0"))
	assert.Equal(t, 1, ParsePage("-3"))
	assert.Equal(t, 7, ParsePage("7"))
}

func TestPageCount(t *testing.T) {
	assert.Equal(t, 0, PageCount(0, 10))
	assert.Equal(t, 1, PageCount(10, 10))
	assert.Equal(t, 2, PageCount(11, 10))
	assert.Equal(t, 3, PageCount(25, 10))
}
