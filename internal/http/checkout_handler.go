package httpapi

import (
	"net/http"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/pricing"
)

type checkoutRequest struct {
	SuccessURL string `json:"success_url" validate:"omitempty,url"`
	CancelURL  string `json:"cancel_url" validate:"omitempty,url"`
}

type guestItem struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Qty       int   `json:"qty" validate:"gte=1,lte=999"`
}

type guestCheckoutRequest struct {
	Items      []guestItem `json:"items" validate:"dive"`
	SuccessURL string      `json:"success_url" validate:"omitempty,url"`
	CancelURL  string      `json:"cancel_url" validate:"omitempty,url"`
}

func (h *Handler) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	sess, err := h.checkout.StartCheckout(r.Context(), currentUser(r), checkout.Overrides{
		SuccessURL: req.SuccessURL,
		CancelURL:  req.CancelURL,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (h *Handler) CreateGuestCheckoutSession(w http.ResponseWriter, r *http.Request) {
	var req guestCheckoutRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	items := make([]pricing.Requested, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, pricing.Requested{ProductID: it.ProductID, Quantity: it.Qty})
	}

	sess, err := h.checkout.StartGuestCheckout(r.Context(), items, checkout.Overrides{
		SuccessURL: req.SuccessURL,
		CancelURL:  req.CancelURL,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}
