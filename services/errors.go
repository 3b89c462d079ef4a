package services

import "errors"

// Error validasi diselesaikan lokal dan dikembalikan tanpa efek parsial.
// ErrTransientWrite membungkus kegagalan I/O ke store; urutan multi-write
// (Bind, Checkout) tidak di-rollback dan mengandalkan retry dari caller.
var (
	ErrMalformedPayload   = errors.New("scanned payload is malformed or missing required fields")
	ErrInvalidCodeFormat  = errors.New("invalid table code format, expected RESTAURANTID_SUFFIX")
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrTableCodeNotFound  = errors.New("table code not found in this restaurant")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrRatingRequired     = errors.New("please select a star rating")
	ErrTransientWrite     = errors.New("transient write failure")
)
