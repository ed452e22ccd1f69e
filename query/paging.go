package query

import (
	"net/url"
	"strconv"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// Page is the requested window of a read.
type Page struct {
	Page  int
	Limit int
}

// ParsePage reads _page and _limit. Values that are not positive integers
// fall back to the defaults.
func ParsePage(values url.Values) Page {
	return Page{
		Page:  positiveInt(values.Get(KeyPage), DefaultPage),
		Limit: positiveInt(values.Get(KeyLimit), DefaultLimit),
	}
}

func positiveInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

// Paging is the public pagination block. The engine calls the page size
// "size"; the public contract calls it "limit". The value comes from the
// engine, which may have clamped the requested limit.
type Paging struct {
	Limit int `json:"limit"`
	Page  int `json:"page"`
	Total int `json:"total"`
}

// RenameSize maps engine paging metadata to the public vocabulary.
func RenameSize(size, page, total int) Paging {
	return Paging{
		Limit: size,
		Page:  page,
		Total: total,
	}
}
