package services

import (
	"encoding/json"

	"fixer_backend/internal/logger"
	"fixer_backend/internal/models"
	"fixer_backend/internal/repositories"
	"fixer_backend/internal/services/dto"
	"fixer_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type NotificationService interface {
	List(db *gorm.DB, userID string, query *dto.NotificationListQuery) (*dto.NotificationListResponse, error)
	MarkRead(db *gorm.DB, userID, notificationID string) error
}

type NotificationServiceImpl struct {
	notificationRepo repositories.NotificationRepository
}

func NewNotificationService(notificationRepo repositories.NotificationRepository) NotificationService {
	return &NotificationServiceImpl{notificationRepo: notificationRepo}
}

func (s *NotificationServiceImpl) List(db *gorm.DB, userID string, query *dto.NotificationListQuery) (*dto.NotificationListResponse, error) {
	page, pageSize := normalizePagination(query.Page, query.PageSize)

	notifications, total, err := s.notificationRepo.FindByUser(db, userID, query.UnreadOnly, page, pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	unread, err := s.notificationRepo.CountUnread(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.NotificationListResponse{
		Notifications: make([]dto.NotificationResponse, 0, len(notifications)),
		Total:         total,
		Unread:        unread,
		Page:          page,
		PageSize:      pageSize,
	}

	for i := range notifications {
		n := &notifications[i]
		var payload interface{}
		if len(n.Payload) > 0 {
			_ = json.Unmarshal(n.Payload, &payload)
		}
		resp.Notifications = append(resp.Notifications, dto.NotificationResponse{
			ID:        n.ID,
			Type:      n.Type,
			Title:     n.Title,
			Message:   n.Message,
			Payload:   payload,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		})
	}

	return resp, nil
}

func (s *NotificationServiceImpl) MarkRead(db *gorm.DB, userID, notificationID string) error {
	err := s.notificationRepo.MarkRead(db, notificationID, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrNotificationNotFound) {
			return apperrors.ErrNotificationNotFound
		}
		return apperrors.InternalError(err)
	}
	return nil
}

// notify records an in-app notification. Delivery is best effort: a
// failure is logged, never propagated, so it cannot fail the operation
// that triggered it.
func notify(db *gorm.DB, repo repositories.NotificationRepository, userID string,
	kind models.NotificationType, title, message string, payload map[string]interface{}) {

	var payloadJSON []byte
	if payload != nil {
		payloadJSON, _ = json.Marshal(payload)
	}

	n := &models.Notification{
		UserID:  userID,
		Type:    kind,
		Title:   title,
		Message: message,
		Payload: payloadJSON,
	}

	if err := repo.Create(db, n); err != nil {
		logger.Warn("failed to record notification", "user_id", userID, "type", string(kind), "error", err)
	}
}
