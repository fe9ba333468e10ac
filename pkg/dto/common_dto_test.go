package dto

import "testing"

func TestPaginationDefaults(t *testing.T) {
	f := PaginationFilter{}
	if offset := f.Normalize(); offset != 0 {
		t.Errorf("offset = %d", offset)
	}
	if f.Page != 1 || f.Limit != 10 {
		t.Errorf("defaults = %+v", f)
	}
}

func TestPaginationMeta(t *testing.T) {
	tests := []struct {
		page, limit int
		total       int64
		offset      int
		pages       int
	}{
		{1, 10, 0, 0, 0},
		{1, 10, 10, 0, 1},
		{2, 10, 11, 10, 2},
		{3, 5, 23, 10, 5},
	}

	for _, tt := range tests {
		f := PaginationFilter{Page: tt.page, Limit: tt.limit}
		if offset := f.Normalize(); offset != tt.offset {
			t.Errorf("page %d limit %d: offset = %d, want %d", tt.page, tt.limit, offset, tt.offset)
		}
		meta := NewPaginationMeta(f, tt.total)
		if meta.TotalPages != tt.pages || meta.CurrentPage != tt.page || meta.TotalItems != tt.total {
			t.Errorf("meta = %+v, want %d pages", meta, tt.pages)
		}
	}
}
