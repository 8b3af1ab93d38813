package api

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ResetResponse acknowledges a successful collection reset.
type ResetResponse struct {
	Reset bool `json:"reset"`
}

// handleReset handles DELETE /v1/documents. It drops every stored chunk and
// recreates an empty collection.
func (s *Server) handleReset(c *fiber.Ctx) error {
	if err := s.svc.Reset(c.Context()); err != nil {
		s.logger.Error("reset failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: err.Error(),
		})
	}

	return c.JSON(ResetResponse{Reset: true})
}
