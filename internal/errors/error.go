// Package errors provides custom error types for storefront operations.
package errors

import "errors"

var ErrInvalidArgument = errors.New("invalid argument")

var ErrProductNotFound = errors.New("product not found")
var ErrInvalidCatalog = errors.New("invalid catalog")

var ErrEmptyCart = errors.New("cart is empty")
