package product

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter(t *testing.T) {
	products := []Product{
		{ID: "1", Category: "visited"},
		{ID: "2", Category: "in-sale"},
		{ID: "3", Category: "visited"},
	}

	assert.Len(t, Filter(products, ""), 3)

	visited := Filter(products, "visited")
	assert.Equal(t, []Product{{ID: "1", Category: "visited"}, {ID: "3", Category: "visited"}}, visited)

	assert.Empty(t, Filter(products, "none"))
}

func TestFormatThousands(t *testing.T) {
	tests := map[float64]string{
		0:         "0",
		100:       "100",
		1000:      "1.000",
		1234567:   "1.234.567",
		1000.5:    "1.000,50",
		-25000:    "-25.000",
		99.999999: "100",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatThousands(in), "input %v", in)
	}
}
