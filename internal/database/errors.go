package database

import "errors"

var (
	ErrPropertyNotFound = errors.New("property not found")
	ErrInquiryNotFound  = errors.New("inquiry not found")
	ErrNewsNotFound     = errors.New("news not found")
	ErrValidation       = errors.New("validation failed")
)
