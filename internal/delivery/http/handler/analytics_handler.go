package handler

import (
	"job-insight/internal/delivery/http/dto"
	"job-insight/internal/pkg/response"
	"job-insight/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

const (
	defaultRelatedTopN          = 10
	defaultRelatedMinSimilarity = 0.7
)

type AnalyticsHandler struct {
	uc usecase.AnalyticsUsecase
}

func NewAnalyticsHandler(uc usecase.AnalyticsUsecase) *AnalyticsHandler {
	return &AnalyticsHandler{uc: uc}
}

func (h *AnalyticsHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/analytics")
	grp.Get("/skills", h.Skills)
	grp.Get("/salary", h.Salary)
	grp.Get("/geography", h.Geography)
	grp.Get("/titles/related", h.RelatedTitles)
}

func (h *AnalyticsHandler) Skills(c fiber.Ctx) error {
	var q dto.SourceQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	src, err := parseSource(q.Source, false)
	if err != nil {
		return err
	}

	rep, err := h.uc.Skills(c.Context(), src)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, rep)
}

func (h *AnalyticsHandler) Salary(c fiber.Ctx) error {
	var q dto.SourceQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	src, err := parseSource(q.Source, false)
	if err != nil {
		return err
	}

	rep, err := h.uc.Salary(c.Context(), src)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, rep)
}

func (h *AnalyticsHandler) Geography(c fiber.Ctx) error {
	var q dto.GeographyQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	src, err := parseSource(q.Source, true)
	if err != nil {
		return err
	}

	rep, err := h.uc.Geography(c.Context(), src, q.TopN)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, rep)
}

func (h *AnalyticsHandler) RelatedTitles(c fiber.Ctx) error {
	var q dto.RelatedTitlesQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	if q.TopN == 0 {
		q.TopN = defaultRelatedTopN
	}
	if q.MinSimilarity == 0 {
		q.MinSimilarity = defaultRelatedMinSimilarity
	}

	rep, err := h.uc.RelatedTitles(c.Context(), q.Query, q.TopN, q.MinSimilarity)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, rep)
}
