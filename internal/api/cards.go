package api

import (
	"context"
	"fmt"
)

// PaymentCard is a saved card as returned by the backend: the number is
// stored encrypted server-side and only a masked form ever crosses the
// wire.
type PaymentCard struct {
	ID               uint64 `json:"id"`
	Brand            string `json:"brand"`
	Expiration       string `json:"expiration"`
	MaskedCardNumber string `json:"masked_card_number"`
	IsExpired        bool   `json:"is_expired"`
}

// AddCardRequest carries the write-only fields for saving a new card.
type AddCardRequest struct {
	Brand      string `json:"brand"`
	CardNumber string `json:"card_number"`
	Expiration string `json:"expiration"`
	BillingZip string `json:"billing_zip,omitempty"`
}

// ListPaymentCards fetches the signed-in user's saved cards.
func (c *Client) ListPaymentCards(ctx context.Context) ([]PaymentCard, error) {
	var out []PaymentCard
	if err := c.get(ctx, "/auth/payment-cards/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddPaymentCard saves a new card for the signed-in user.
func (c *Client) AddPaymentCard(ctx context.Context, req AddCardRequest) (*PaymentCard, error) {
	var out PaymentCard
	if err := c.post(ctx, "/auth/payment-cards/", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeletePaymentCard removes one of the user's saved cards.
func (c *Client) DeletePaymentCard(ctx context.Context, id uint64) error {
	return c.del(ctx, fmt.Sprintf("/auth/payment-cards/%d/", id))
}
