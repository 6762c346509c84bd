package handler

import (
	"strings"

	"job-insight/internal/delivery/http/dto"
	"job-insight/internal/delivery/http/middleware"
	"job-insight/internal/domain/matching"
	"job-insight/internal/pkg/response"
	"job-insight/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type MatchHandler struct {
	uc       usecase.MatchUsecase
	defaults matching.Options
	minScore float64
}

// NewMatchHandler takes the options and minimum market score applied when a
// request leaves them out.
func NewMatchHandler(uc usecase.MatchUsecase, defaults matching.Options, minScore float64) *MatchHandler {
	return &MatchHandler{uc: uc, defaults: defaults, minScore: minScore}
}

func (h *MatchHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/match")
	grp.Post("/offers/:id", h.MatchOffer)
	grp.Post("/market", h.MatchMarket)
}

func (h *MatchHandler) MatchOffer(c fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	if id == "" {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, nil)
	}

	src, err := parseSource(c.Query("source"), true)
	if err != nil {
		return err
	}

	var req dto.MatchOfferRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	res, err := h.uc.MatchOffer(c.Context(), src, id, req.CV, req.Options.Apply(h.defaults))
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *MatchHandler) MatchMarket(c fiber.Ctx) error {
	var req dto.MatchMarketRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	src, err := parseSource(req.Source, true)
	if err != nil {
		return err
	}

	minScore := h.minScore
	if req.MinScore != nil {
		minScore = *req.MinScore
	}

	res, err := h.uc.MatchMarket(c.Context(), req.CV, usecase.MarketParams{
		Options:  req.Options.Apply(h.defaults),
		MinScore: minScore,
		Source:   src,
		Limit:    req.Limit,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}
