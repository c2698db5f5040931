package domain

import "errors"

var (
	// ErrNotFound indicates the referenced record does not exist
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates a rule cannot be submitted as entered
	ErrValidation = errors.New("validation failed")

	// ErrOptionNotVisible indicates an id that is not in the level's visible list
	ErrOptionNotVisible = errors.New("option is not available at this level")

	// ErrStaleResponse indicates a fetch result for a selection that has since changed
	ErrStaleResponse = errors.New("response no longer matches the current selection")

	// ErrCatalogNotLoaded indicates the catalog has not been fetched yet
	ErrCatalogNotLoaded = errors.New("catalog not loaded")

	// ErrUnknownFamily indicates an unsupported rule family name
	ErrUnknownFamily = errors.New("unknown rule family")
)
