package redis

import (
	"encoding/json"
	"time"

	"fulfillment/internal/core/application/views"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
)

// Message is one payload ready to be published on a channel.
type Message struct {
	Channel string
	Payload []byte
}

type assignmentChange struct {
	AssignmentID   string `json:"assignmentId"`
	Category       string `json:"category"`
	Status         string `json:"status"`
	TotalCompleted int    `json:"totalCompleted"`
	Quantity       int    `json:"quantity"`
}

type dispatcherMessage struct {
	Kind        string             `json:"kind"`
	OrderNumber string             `json:"orderNumber"`
	ItemID      string             `json:"itemId,omitempty"`
	Categories  []string           `json:"categories"`
	Assignments []assignmentChange `json:"assignments"`
	OrderStatus string             `json:"orderStatus"`
	QCStatus    string             `json:"qcStatus"`
	OccurredAt  time.Time          `json:"occurredAt"`
	Order       views.OrderView    `json:"order"`
}

type teamMessage struct {
	Kind        string          `json:"kind"`
	OrderNumber string          `json:"orderNumber"`
	Category    string          `json:"category"`
	OrderStatus string          `json:"orderStatus"`
	OccurredAt  time.Time       `json:"occurredAt"`
	Order       views.OrderView `json:"order"`
}

type customerMessage struct {
	OccurredAt time.Time          `json:"occurredAt"`
	Progress   views.ProgressView `json:"progress"`
}

// Channels names the pub/sub channels of one deployment.
type Channels struct {
	Prefix string
}

// Dispatcher is the channel carrying full order snapshots.
func (c Channels) Dispatcher() string {
	return c.Prefix + ":dispatcher"
}

// Team is the channel of one production team.
func (c Channels) Team(category string) string {
	return c.Prefix + ":team:" + category
}

// Customer is the tracking channel of one order.
func (c Channels) Customer(orderNumber string) string {
	return c.Prefix + ":customer:" + orderNumber
}

// BuildMessages renders one change event into the dispatcher message, one message
// per affected team and the customer progress message. Teams only see their own
// category and only orders that still have assignments of it.
func BuildMessages(channels Channels, e order.FulfillmentChanged, progress services.ProgressCalculator) ([]Message, error) {
	out := make([]Message, 0, len(e.Categories)+2)

	dispatcher := dispatcherMessage{
		Kind:        string(e.Kind),
		OrderNumber: e.OrderNumber.String(),
		Categories:  make([]string, 0, len(e.Categories)),
		Assignments: make([]assignmentChange, 0, len(e.Assignments)),
		OrderStatus: e.OrderStatus.String(),
		QCStatus:    e.QCStatus.String(),
		OccurredAt:  e.OccurredAt,
		Order:       views.FromOrder(e.Order),
	}
	if e.ItemID != nil {
		dispatcher.ItemID = e.ItemID.String()
	}
	for _, c := range e.Categories {
		dispatcher.Categories = append(dispatcher.Categories, c.String())
	}
	for _, a := range e.Assignments {
		dispatcher.Assignments = append(dispatcher.Assignments, assignmentChange{
			AssignmentID:   a.AssignmentID.String(),
			Category:       a.Category.String(),
			Status:         a.Status.String(),
			TotalCompleted: a.TotalCompleted,
			Quantity:       a.Quantity,
		})
	}
	msg, err := encode(channels.Dispatcher(), dispatcher)
	if err != nil {
		return nil, err
	}
	out = append(out, msg)

	for _, c := range e.Categories {
		view := views.ForCategory(e.Order, c)
		if len(view.Items) == 0 {
			continue
		}
		msg, err = encode(channels.Team(c.String()), teamMessage{
			Kind:        string(e.Kind),
			OrderNumber: e.OrderNumber.String(),
			Category:    c.String(),
			OrderStatus: e.OrderStatus.String(),
			OccurredAt:  e.OccurredAt,
			Order:       view,
		})
		if err != nil {
			return nil, err
		}
		out = append(out, msg)
	}

	msg, err = encode(channels.Customer(e.OrderNumber.String()), customerMessage{
		OccurredAt: e.OccurredAt,
		Progress:   views.FromProgress(e.Order, progress.Calculate(e.Order)),
	})
	if err != nil {
		return nil, err
	}
	out = append(out, msg)

	return out, nil
}

func encode(channel string, v any) (Message, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return Message{}, err
	}
	return Message{Channel: channel, Payload: payload}, nil
}
