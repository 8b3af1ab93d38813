package api

import (
	"github.com/gofiber/fiber/v2"
)

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// handleStatus reports service connectivity, the stored point count, and the
// active configuration.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(s.svc.Status(c.Context()))
}
