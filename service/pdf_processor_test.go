package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortImagesByPagePastPageNine(t *testing.T) {
	paths := []string{
		"/work/vol_1_Im0.png",
		"/work/vol_10_Im0.png",
		"/work/vol_11_Im0.png",
		"/work/vol_2_Im0.png",
	}

	sortImagesByPage(paths)

	assert.Equal(t, []string{
		"/work/vol_1_Im0.png",
		"/work/vol_2_Im0.png",
		"/work/vol_10_Im0.png",
		"/work/vol_11_Im0.png",
	}, paths)
}

func TestSortImagesByPageUnparseableNamesSortLast(t *testing.T) {
	paths := []string{"/work/cover.png", "/work/vol_2_Im0.png", "/work/vol_1_Im0.png"}

	sortImagesByPage(paths)

	assert.Equal(t, []string{"/work/vol_1_Im0.png", "/work/vol_2_Im0.png", "/work/cover.png"}, paths)
}

func TestOrderByListingFollowsEmbeddedOrder(t *testing.T) {
	paths := []string{"/out/a_r2.xlsx", "/out/extra.bin", "/out/z_r1d.xlsx"}

	orderByListing(paths, []string{"z_r1d.xlsx", "a_r2.xlsx"})

	assert.Equal(t, []string{"/out/z_r1d.xlsx", "/out/a_r2.xlsx", "/out/extra.bin"}, paths)
}

func TestOrderByListingWithoutNamesKeepsOrder(t *testing.T) {
	paths := []string{"/out/b.xlsx", "/out/a.xlsx"}

	orderByListing(paths, nil)

	assert.Equal(t, []string{"/out/b.xlsx", "/out/a.xlsx"}, paths)
}
