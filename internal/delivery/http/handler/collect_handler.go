package handler

import (
	"job-insight/internal/delivery/http/dto"
	"job-insight/internal/delivery/http/middleware"
	"job-insight/internal/domain/offer"
	"job-insight/internal/pkg/response"
	"job-insight/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type CollectHandler struct {
	uc usecase.CollectUsecase
}

func NewCollectHandler(uc usecase.CollectUsecase) *CollectHandler {
	return &CollectHandler{uc: uc}
}

func (h *CollectHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/collect", h.Collect)
}

// Collect runs synchronously and answers with one report per source. Sources
// that failed are reported in the body; the status stays 200 as long as the
// request was usable.
func (h *CollectHandler) Collect(c fiber.Ctx) error {
	var req dto.CollectRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	if req.MinYears != nil && req.MaxYears != nil && *req.MinYears > *req.MaxYears {
		return middleware.NewAppError(fiber.StatusBadRequest, "min_years exceeds max_years", nil, nil)
	}

	sources := make([]offer.Source, 0, len(req.Sources))
	for _, raw := range req.Sources {
		src, err := parseSource(raw, false)
		if err != nil {
			return err
		}
		sources = append(sources, src)
	}

	rep, err := h.uc.Collect(c.Context(), usecase.CollectRequest{
		Sources:      sources,
		Keywords:     req.Keywords,
		Location:     req.Location,
		ContractType: req.ContractType,
		MaxResults:   req.MaxResults,
		MaxPages:     req.MaxPages,
		Locations:    req.Locations,
		Contracts:    req.Contracts,
		MinYears:     req.MinYears,
		MaxYears:     req.MaxYears,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, rep)
}
