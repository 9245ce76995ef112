// Package queue enqueues background work on asynq, backed by redis.
package queue

import (
	"encoding/json"
	"fmt"

	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/shipment"
	"fastship/internal/core/ports"

	"github.com/hibiken/asynq"
)

const (
	DefaultQueue = "default"

	// TaskShipmentNotify asks the worker to notify the client about a status change.
	TaskShipmentNotify = "shipment:notify"
)

// ShipmentNotifyPayload is the body of a TaskShipmentNotify task.
type ShipmentNotifyPayload struct {
	ShipmentID string `json:"shipment_id"`
	Status     string `json:"status"`
}

func NewShipmentNotifyTask(notice ports.ShipmentNotice) (*asynq.Task, error) {
	body, err := json.Marshal(ShipmentNotifyPayload{
		ShipmentID: notice.ShipmentID.String(),
		Status:     string(notice.Status),
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskShipmentNotify, body), nil
}

// ParseShipmentNotifyTask decodes and validates a TaskShipmentNotify body.
func ParseShipmentNotifyTask(body []byte) (ports.ShipmentNotice, error) {
	var payload ShipmentNotifyPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return ports.ShipmentNotice{}, fmt.Errorf("decode %s payload: %w", TaskShipmentNotify, err)
	}

	id, err := kernel.UUIDFromString(payload.ShipmentID)
	if err != nil {
		return ports.ShipmentNotice{}, fmt.Errorf("decode %s payload: %w", TaskShipmentNotify, err)
	}
	status, err := shipment.ParseStatus(payload.Status)
	if err != nil {
		return ports.ShipmentNotice{}, fmt.Errorf("decode %s payload: %w", TaskShipmentNotify, err)
	}
	return ports.ShipmentNotice{ShipmentID: id, Status: status}, nil
}
