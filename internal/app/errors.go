package app

import "errors"

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrDocumentNotFound = errors.New("document not found")
	ErrNoFile           = errors.New("no file uploaded")
	ErrFileTooLarge     = errors.New("uploaded file is too large")
)
