package orders

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/ecoelite/booking-backend/internal/addresses"
	"github.com/ecoelite/booking-backend/internal/invoices"
	"github.com/ecoelite/booking-backend/internal/scheduling"
	"github.com/ecoelite/booking-backend/pkg/db/models"
	"github.com/ecoelite/booking-backend/pkg/enums"
)

const (
	maxNotesLength = 1000

	MessageRequired  = "this field is required"
	MessagePastDate  = "cannot select a past date"
	MessageBadDate   = "enter a valid date"
	MessageBadTime   = "enter a valid time"
	MessageBadID     = "select a valid address"
	MessageLongNotes = "ensure this field has no more than 1000 characters"
)

// CreateOrderRequest is the payload of POST /orders/create.
type CreateOrderRequest struct {
	AddressID   string `json:"address_id" validate:"required"`
	ServiceDate string `json:"service_date" validate:"required"`
	ServiceTime string `json:"service_time" validate:"required"`
	Notes       string `json:"notes" validate:"max=1000"`
}

// OrderInput is a validated CreateOrderRequest.
type OrderInput struct {
	AddressID   uuid.UUID
	ServiceDate time.Time
	ServiceTime string
	Notes       string
}

// Parse validates the request against today (a UTC-midnight calendar date) and
// returns one message per invalid field.
func (r CreateOrderRequest) Parse(today time.Time) (*OrderInput, map[string]string) {
	problems := map[string]string{}
	in := &OrderInput{Notes: strings.TrimSpace(r.Notes)}

	if raw := strings.TrimSpace(r.AddressID); raw == "" {
		problems["address_id"] = MessageRequired
	} else if id, err := uuid.Parse(raw); err != nil {
		problems["address_id"] = MessageBadID
	} else {
		in.AddressID = id
	}

	if raw := strings.TrimSpace(r.ServiceDate); raw == "" {
		problems["service_date"] = MessageRequired
	} else if date, err := time.Parse(scheduling.DateLayout, raw); err != nil {
		problems["service_date"] = MessageBadDate
	} else if date.Before(today) {
		problems["service_date"] = MessagePastDate
	} else {
		in.ServiceDate = date
	}

	if raw := strings.TrimSpace(r.ServiceTime); raw == "" {
		problems["service_time"] = MessageRequired
	} else if t, err := scheduling.ParseTime(raw); err != nil {
		problems["service_time"] = MessageBadTime
	} else {
		in.ServiceTime = t
	}

	if utf8.RuneCountInString(in.Notes) > maxNotesLength {
		problems["notes"] = MessageLongNotes
	}

	if len(problems) > 0 {
		return nil, problems
	}
	return in, nil
}

// OrderSummaryDTO is one row of the order history.
type OrderSummaryDTO struct {
	ID          uuid.UUID         `json:"id"`
	OrderNumber string            `json:"order_number"`
	ServiceDate string            `json:"service_date"`
	ServiceTime string            `json:"service_time"`
	Status      enums.OrderStatus `json:"status"`
	StatusLabel string            `json:"status_label"`
	TotalAmount string            `json:"total_amount"`
	CreatedAt   time.Time         `json:"created_at"`
}

// OrderDetailDTO adds the address and invoice to the summary.
type OrderDetailDTO struct {
	OrderSummaryDTO
	Notes     string                `json:"notes"`
	UpdatedAt time.Time             `json:"updated_at"`
	Address   *addresses.AddressDTO `json:"address,omitempty"`
	Invoice   *invoices.InvoiceDTO  `json:"invoice,omitempty"`
}

// CreateFormDTO is what a client needs to fill the booking form.
type CreateFormDTO struct {
	Addresses []addresses.AddressDTO `json:"addresses"`
	TimeSlots []string               `json:"time_slots"`
}

// PlacedOrderDTO is the 201 body of a successful booking.
type PlacedOrderDTO struct {
	Order   OrderDetailDTO `json:"order"`
	Message string         `json:"message"`
}

// PlacedMessage is the confirmation shown after a booking.
func PlacedMessage(orderNumber string) string {
	return "order #" + orderNumber + " created"
}

func SummaryFromModel(m models.ServiceOrder) OrderSummaryDTO {
	return OrderSummaryDTO{
		ID:          m.ID,
		OrderNumber: m.OrderNumber,
		ServiceDate: m.ServiceDate.Format(scheduling.DateLayout),
		ServiceTime: scheduling.FormatStoredTime(m.ServiceTime),
		Status:      m.Status,
		StatusLabel: m.Status.Label(),
		TotalAmount: m.TotalAmount.StringFixed(2),
		CreatedAt:   m.CreatedAt,
	}
}

func SummariesFromModels(rows []models.ServiceOrder) []OrderSummaryDTO {
	out := make([]OrderSummaryDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, SummaryFromModel(row))
	}
	return out
}

func DetailFromModel(m models.ServiceOrder) OrderDetailDTO {
	detail := OrderDetailDTO{
		OrderSummaryDTO: SummaryFromModel(m),
		Notes:           m.Notes,
		UpdatedAt:       m.UpdatedAt,
		Invoice:         invoices.FromModel(m.Invoice),
	}
	if m.Address != nil {
		addr := addresses.FromModel(*m.Address)
		detail.Address = &addr
	}
	return detail
}
