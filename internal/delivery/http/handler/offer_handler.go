package handler

import (
	"job-insight/internal/delivery/http/dto"
	"job-insight/internal/pkg/response"
	"job-insight/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type OfferHandler struct {
	uc usecase.OfferUsecase
}

func NewOfferHandler(uc usecase.OfferUsecase) *OfferHandler {
	return &OfferHandler{uc: uc}
}

func (h *OfferHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/offers")
	grp.Get("/", h.List)
	grp.Get("/stats", h.Stats)
}

func (h *OfferHandler) List(c fiber.Ctx) error {
	var q dto.OfferListQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	src, err := parseSource(q.Source, true)
	if err != nil {
		return err
	}

	page, err := h.uc.List(c.Context(), src, q.Limit, q.Offset)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, page)
}

func (h *OfferHandler) Stats(c fiber.Ctx) error {
	stats, err := h.uc.Stats(c.Context())
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, stats)
}
