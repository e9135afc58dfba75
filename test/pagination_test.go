package main

import (
	"testing"

	"forecastapp/utils"
)

func TestCreatePagination(t *testing.T) {
	p := utils.CreatePagination(25, 2, 10)
	if p.TotalPages != 3 {
		t.Fatalf("expected 3 total pages, got %d", p.TotalPages)
	}
	if p.CurrentPage != 2 || p.PageSize != 10 || p.TotalItems != 25 {
		t.Fatalf("unexpected pagination: %+v", p)
	}
}

func TestCreatePaginationDefaults(t *testing.T) {
	p := utils.CreatePagination(5, 0, 0)
	if p.CurrentPage != 1 {
		t.Fatalf("expected default page 1, got %d", p.CurrentPage)
	}
	if p.PageSize != 10 {
		t.Fatalf("expected default page size 10, got %d", p.PageSize)
	}
	if p.TotalPages != 1 {
		t.Fatalf("expected 1 total page, got %d", p.TotalPages)
	}
}
