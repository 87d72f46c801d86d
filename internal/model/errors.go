package model

import "errors"

var (
	// ErrInsufficientText means a document yielded too little text to extract from
	ErrInsufficientText = errors.New("insufficient text")

	// ErrUnsupportedFormat means no page text extractor could read the document
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrEmptyQuery means a lookup query had nothing searchable in it
	ErrEmptyQuery = errors.New("empty query")

	// ErrRobotsDisallowed means robots.txt forbids fetching a URL
	ErrRobotsDisallowed = errors.New("disallowed by robots.txt")

	// ErrStoreUnavailable means the fact store could not be opened or reached
	ErrStoreUnavailable = errors.New("fact store unavailable")
)
