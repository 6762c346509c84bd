package handler

import (
	"errors"
	"strings"

	"job-insight/internal/delivery/http/middleware"
	"job-insight/internal/domain/offer"
	"job-insight/internal/pkg/response"
	"job-insight/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type fieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

func badRequest(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]fieldError, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, fieldError{Field: fe.Namespace(), Rule: fe.Tag()})
		}
		return middleware.NewAppError(fiber.StatusBadRequest, "Validation failed", out, err)
	}
	return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
}

func bindBody(c fiber.Ctx, out any) error {
	if err := c.Bind().Body(out); err != nil {
		return badRequest(err)
	}
	if err := validate.Struct(out); err != nil {
		return badRequest(err)
	}
	return nil
}

func bindQuery(c fiber.Ctx, out any) error {
	if err := c.Bind().Query(out); err != nil {
		return badRequest(err)
	}
	if err := validate.Struct(out); err != nil {
		return badRequest(err)
	}
	return nil
}

// parseSource maps a user supplied source to its tag. An empty value means
// "all sources" when optional is set.
func parseSource(raw string, optional bool) (offer.Source, error) {
	if strings.TrimSpace(raw) == "" {
		if optional {
			return "", nil
		}
		return "", middleware.NewAppError(fiber.StatusBadRequest, "Source is required", nil, nil)
	}
	src, ok := offer.ParseSource(raw)
	if !ok {
		return "", middleware.NewAppError(fiber.StatusBadRequest, "Unknown source", nil, usecase.ErrUnknownSource)
	}
	return src, nil
}

func mapUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, usecase.ErrUnknownSource):
		return middleware.NewAppError(fiber.StatusBadRequest, "Unknown source", nil, err)
	case errors.Is(err, usecase.ErrOfferNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Offer not found", nil, err)
	case errors.Is(err, usecase.ErrAmbiguousOffer):
		return middleware.NewAppError(fiber.StatusConflict, "Offer id exists in several sources, pass source", nil, err)
	case errors.Is(err, usecase.ErrCollectInProgress):
		return middleware.NewAppError(fiber.StatusConflict, "Collection already in progress", nil, err)
	case errors.Is(err, usecase.ErrCollectorNotConfigured):
		return middleware.NewAppError(fiber.StatusServiceUnavailable, "Collector not configured", nil, err)
	case errors.Is(err, usecase.ErrEmbeddingUnavailable):
		return middleware.NewAppError(fiber.StatusServiceUnavailable, "Embedding model unavailable", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
