package dto

import (
	"encoding/json"
	"studio/internal/domains/notification/model"
	"studio/shared/constant"
	"studio/shared/timezone"
)

type NotificationResponse struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Title     string          `json:"title"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"       swaggertype:"object"`
	Read      bool            `json:"read"`
	CreatedAt string          `json:"created_at"`
}

func (r *NotificationResponse) FromModel(model model.Notification) {
	r.ID = model.ID
	r.Type = model.Type
	r.Title = model.Title
	r.Message = model.Message
	r.Data = json.RawMessage(model.Data)
	r.Read = model.Read
	r.CreatedAt = timezone.Format(model.CreatedAt, constant.DateFormat)

	if len(r.Data) == 0 {
		r.Data = json.RawMessage("{}")
	}
}

type GetNotificationsResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
}

func (r *GetNotificationsResponse) FromModels(models []model.Notification) {
	r.Notifications = make([]NotificationResponse, len(models))
	for i, mod := range models {
		r.Notifications[i].FromModel(mod)
	}
}

type UnreadCountResponse struct {
	Count int `json:"count"`
}
