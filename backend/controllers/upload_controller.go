package controllers

import (
	"fmt"
	"time"

	"sirb_backend/backend/config"
	"sirb_backend/backend/services"
	"sirb_backend/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// UploadController issues upload object URLs. On top of the IP-level fiber
// limiter on the route, issuance is throttled per user by a process-local
// window; that limiter is deliberately not durable or multi-instance
// consistent.
type UploadController struct {
	Cfg     *config.Config
	Limiter services.RateLimiter
}

func NewUploadController(cfg *config.Config) *UploadController {
	return &UploadController{
		Cfg:     cfg,
		Limiter: services.NewMemoryRateLimiter(10, time.Minute),
	}
}

type UploadURLInput struct {
	FileName    string `json:"file_name" validate:"required,max=255"`
	ContentType string `json:"content_type" validate:"required,max=100"`
}

func (uc *UploadController) CreateUploadURL(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var input UploadURLInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if err := utils.ValidateStruct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if err := uc.Limiter.Allow(userID, "upload"); err != nil {
		return domainError(c, err)
	}

	key := fmt.Sprintf("u%d/%s/%s", userID, uuid.NewString(), input.FileName)

	return c.JSON(fiber.Map{
		"upload_url": fmt.Sprintf("%s/%s", uc.Cfg.UploadBase, key),
		"key":        key,
		"expires_in": 900,
	})
}
