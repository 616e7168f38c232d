package product

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MaxImageSize is the largest accepted product image
const MaxImageSize = 5 * 1024 * 1024

var validate = validator.New()

// ImageMeta describes the image submitted with a product form
type ImageMeta struct {
	Filename string
	Size     int64
}

// productRules mirrors the product form; field names are the JSON keys errors are reported under
type productRules struct {
	Name        string  `validate:"required,min=10"`
	Price       float64 `validate:"gt=0"`
	Discount    float64 `validate:"gte=0,lte=100"`
	Description string  `validate:"required,min=20,max=500"`
	Category    string  `validate:"required"`
	Subcategory string  `validate:"required"`
	Brand       string  `validate:"required"`
	Section     string  `validate:"required"`
}

var fieldKeys = map[string]string{
	"Name":        "name",
	"Price":       "price",
	"Discount":    "discount",
	"Description": "description",
	"Category":    "category",
	"Subcategory": "subcategory",
	"Brand":       "brand",
	"Section":     "section",
}

var messages = map[string]string{
	"Name.required":        "name is required",
	"Name.min":             "name must be at least 10 characters",
	"Price.gt":             "price is required",
	"Discount.gte":         "discount must be a number between 0 and 100",
	"Discount.lte":         "discount must be a number between 0 and 100",
	"Description.required": "description is required",
	"Description.min":      "description must be at least 20 characters",
	"Description.max":      "description cannot be longer than 500 characters",
	"Category.required":    "category is required",
	"Subcategory.required": "subcategory is required",
	"Brand.required":       "brand is required",
	"Section.required":     "section is required",
}

// Validate checks a product form and returns field -> message for every
// invalid field. An empty map means the product is valid.
func Validate(p *Product, image *ImageMeta, imageRequired bool) map[string]string {
	problems := make(map[string]string)

	rules := productRules{
		Name:        strings.TrimSpace(p.Name),
		Price:       p.Price,
		Discount:    p.Discount,
		Description: strings.TrimSpace(p.Description),
		Category:    strings.TrimSpace(p.Category),
		Subcategory: strings.TrimSpace(p.Subcategory),
		Brand:       strings.TrimSpace(p.Brand),
		Section:     strings.TrimSpace(p.Section),
	}

	if err := validate.Struct(rules); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				key := fieldKeys[fe.Field()]
				if _, seen := problems[key]; seen {
					continue
				}
				msg, ok := messages[fe.Field()+"."+fe.Tag()]
				if !ok {
					msg = key + " is invalid"
				}
				problems[key] = msg
			}
		}
	}

	switch {
	case image == nil && imageRequired:
		problems["image"] = "image is required"
	case image != nil && image.Size > MaxImageSize:
		problems["image"] = "image cannot be larger than 5MB"
	}

	return problems
}
