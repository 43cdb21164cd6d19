package products

import "github.com/goliatone/go-errors"

const (
	// TextCodeProductNotFound indicates the listing does not exist, or the
	// caller is not allowed to know that it does.
	TextCodeProductNotFound = "PRODUCT_NOT_FOUND"
	// TextCodeImageRequired indicates a create request arrived without an
	// image file.
	TextCodeImageRequired = "IMAGE_REQUIRED"
)

var (
	ErrProductNotFound = errors.New("Product not found", errors.CategoryNotFound).
				WithCode(errors.CodeNotFound).
				WithTextCode(TextCodeProductNotFound)

	ErrImageRequired = errors.New("image file is required", errors.CategoryBadInput).
				WithCode(errors.CodeBadRequest).
				WithTextCode(TextCodeImageRequired)
)
