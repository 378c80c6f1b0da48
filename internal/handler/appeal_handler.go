package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"legalis-admin/internal/domain"
	"legalis-admin/internal/ratelimit"
	"legalis-admin/internal/repository"
	"legalis-admin/internal/service"
)

const (
	defaultPage     = 1
	defaultPageSize = 20
	maxPageSize     = 100
)

type AppealService interface {
	GetByID(ctx context.Context, id string) (*domain.Appeal, error)
	List(ctx context.Context, params repository.AppealListParams) ([]domain.Appeal, int64, error)
	Decide(ctx context.Context, id string, adminID string, input service.DecisionInput) (*domain.Appeal, error)
	Delete(ctx context.Context, id string) error
}

type AppealHandler struct {
	service AppealService
}

func NewAppealHandler(appealService AppealService) (*AppealHandler, error) {
	if appealService == nil {
		return nil, fmt.Errorf("appeal service is required")
	}
	return &AppealHandler{service: appealService}, nil
}

func RegisterAppealRoutes(router fiber.Router, appealService AppealService, limiter ratelimit.RateLimiter, logger *zap.Logger) error {
	h, err := NewAppealHandler(appealService)
	if err != nil {
		return err
	}

	v1 := router.Group("/v1")
	appeals := v1.Group("/appeals-management", AdminAuth())
	appeals.Get("/", h.ListAppeals)
	appeals.Get("/:id", h.GetAppeal)
	appeals.Patch("/:id", RateLimit(limiter, logger), h.UpdateAppeal)
	appeals.Delete("/:id", h.DeleteAppeal)

	return nil
}

type updateAppealRequest struct {
	Status          *string `json:"status"`
	AdminNotes      *string `json:"admin_notes"`
	RejectionReason *string `json:"rejection_reason"`
}

type appealResponse struct {
	ID               string     `json:"id"`
	UserID           string     `json:"user_id"`
	SuspensionID     string     `json:"suspension_id"`
	AppealReason     string     `json:"appeal_reason"`
	Status           string     `json:"status"`
	ReviewedBy       *string    `json:"reviewed_by,omitempty"`
	ReviewedAt       *time.Time `json:"reviewed_at,omitempty"`
	RejectionReason  *string    `json:"rejection_reason,omitempty"`
	AdminNotes       *string    `json:"admin_notes,omitempty"`
	UserFullName     string     `json:"user_full_name,omitempty"`
	SuspensionReason string     `json:"suspension_reason,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

type listAppealsResponse struct {
	Success    bool             `json:"success"`
	Data       []appealResponse `json:"data"`
	Pagination paginationMeta   `json:"pagination"`
}

type paginationMeta struct {
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	Total   int64 `json:"total"`
	Pages   int64 `json:"pages"`
	HasNext bool  `json:"hasNext"`
	HasPrev bool  `json:"hasPrev"`
}

func (h *AppealHandler) ListAppeals(c *fiber.Ctx) error {
	params, err := parseListParams(c)
	if err != nil {
		return toHTTPError(err)
	}

	appeals, total, err := h.service.List(c.Context(), params)
	if err != nil {
		return toHTTPError(err)
	}

	pages := total / int64(params.PageSize)
	if total%int64(params.PageSize) != 0 {
		pages++
	}

	return c.Status(fiber.StatusOK).JSON(listAppealsResponse{
		Success: true,
		Data:    toAppealResponses(appeals),
		Pagination: paginationMeta{
			Page:    params.Page,
			Limit:   params.PageSize,
			Total:   total,
			Pages:   pages,
			HasNext: int64(params.Page) < pages,
			HasPrev: params.Page > 1,
		},
	})
}

func (h *AppealHandler) GetAppeal(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	appeal, err := h.service.GetByID(c.Context(), id)
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    toAppealResponse(appeal),
	})
}

func (h *AppealHandler) UpdateAppeal(c *fiber.Ctx) error {
	var req updateAppealRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	id := strings.TrimSpace(c.Params("id"))
	appeal, err := h.service.Decide(c.Context(), id, AdminID(c), service.DecisionInput{
		Status:          req.Status,
		AdminNotes:      req.AdminNotes,
		RejectionReason: req.RejectionReason,
	})
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Appeal updated successfully",
		"data":    toAppealResponse(appeal),
	})
}

func (h *AppealHandler) DeleteAppeal(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	if err := h.service.Delete(c.Context(), id); err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Appeal deleted successfully",
	})
}

func parseListParams(c *fiber.Ctx) (repository.AppealListParams, error) {
	params := repository.AppealListParams{
		Page:     c.QueryInt("page", defaultPage),
		PageSize: c.QueryInt("limit", defaultPageSize),
		Search:   strings.TrimSpace(c.Query("search")),
	}

	if params.Page < 1 {
		return repository.AppealListParams{}, fmt.Errorf("%w: page must be >= 1", domain.ErrValidation)
	}
	if params.PageSize < 1 || params.PageSize > maxPageSize {
		return repository.AppealListParams{}, fmt.Errorf("%w: limit must be between 1 and %d", domain.ErrValidation, maxPageSize)
	}

	if rawStatus := strings.TrimSpace(c.Query("status")); rawStatus != "" {
		status, err := domain.ParseAppealStatusFromString(rawStatus)
		if err != nil {
			return repository.AppealListParams{}, err
		}
		params.Status = &status
	}

	return params, nil
}

func toAppealResponses(appeals []domain.Appeal) []appealResponse {
	responses := make([]appealResponse, 0, len(appeals))
	for _, appeal := range appeals {
		a := appeal
		responses = append(responses, toAppealResponse(&a))
	}
	return responses
}

func toAppealResponse(a *domain.Appeal) appealResponse {
	if a == nil {
		return appealResponse{}
	}

	return appealResponse{
		ID:               a.ID,
		UserID:           a.UserID,
		SuspensionID:     a.SuspensionID,
		AppealReason:     a.AppealReason,
		Status:           a.Status.String(),
		ReviewedBy:       a.ReviewedBy,
		ReviewedAt:       a.ReviewedAt,
		RejectionReason:  a.RejectionReason,
		AdminNotes:       a.AdminNotes,
		UserFullName:     a.UserFullName,
		SuspensionReason: a.SuspensionReason,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}

func toHTTPError(err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Appeal not found")
	case errors.Is(err, domain.ErrConflict):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrApprovalCascade):
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to process appeal approval")
	case errors.Is(err, service.ErrRejectionNotify):
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to send rejection notification")
	default:
		return err
	}
}
