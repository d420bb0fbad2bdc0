package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/arogya-bot/internal/ports"
)

// ConsultationHandler exposes read-only access to stored consultations for
// operators. The bot itself never calls these routes.
type ConsultationHandler struct {
	repo ports.ConsultationRepository
	log  *zap.Logger
}

func NewConsultationHandler(repo ports.ConsultationRepository, log *zap.Logger) *ConsultationHandler {
	return &ConsultationHandler{
		repo: repo,
		log:  log,
	}
}

func (h *ConsultationHandler) List(c *fiber.Ctx) error {
	records, err := h.repo.FindAll(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(records)
}

func (h *ConsultationHandler) ByUser(c *fiber.Ctx) error {
	userID, err := strconv.ParseInt(c.Params("userId"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user id"})
	}

	records, err := h.repo.FindByUserID(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(records)
}

func (h *ConsultationHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.repo.Stats(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(stats)
}
