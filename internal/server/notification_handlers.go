package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetNotifications handles GET /api/notifications
// @Summary List notifications
// @Description Return the caller's notifications, newest first, with the unread count
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{notifications=[]models.Notification,unread_count=int64}
// @Router /notifications [get]
func (s *Server) GetNotifications(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	p := parsePagination(c, 50)

	feed, err := s.notificationService.ListForUser(c.Context(), userID, p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"notifications": feed.Notifications,
		"unread_count":  feed.UnreadCount,
	})
}

// MarkAllNotificationsRead handles PUT /api/notifications/mark-all-read
// @Summary Mark all notifications read
// @Description Mark every one of the caller's notifications as read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{message=string}
// @Router /notifications/mark-all-read [put]
func (s *Server) MarkAllNotificationsRead(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	if err := s.notificationService.MarkAllRead(c.Context(), userID); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "All notifications marked as read"})
}

// DeleteAllNotifications handles DELETE /api/notifications/all
// @Summary Delete all notifications
// @Description Delete every one of the caller's notifications; other users' rows are untouched
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{message=string}
// @Router /notifications/all [delete]
func (s *Server) DeleteAllNotifications(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	if err := s.notificationService.DeleteAll(c.Context(), userID); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "All notifications deleted"})
}
