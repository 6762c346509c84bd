package usecase

import "errors"

var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrOfferNotFound          = errors.New("offer not found")
	ErrAmbiguousOffer         = errors.New("offer id is shared by several sources")
	ErrUnknownSource          = errors.New("unknown source")
	ErrCollectorNotConfigured = errors.New("collector not configured")
	ErrCollectInProgress      = errors.New("collection already in progress")
	ErrEmbeddingUnavailable   = errors.New("embedding model unavailable")
	ErrInternal               = errors.New("internal error")
)
