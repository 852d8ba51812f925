package httpapi

import (
	"net/http"
)

type addCartItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Qty       int   `json:"qty" validate:"gte=1,lte=999"`
}

// Qty below 1 is allowed here: it removes the line.
type updateCartItemRequest struct {
	Qty *int `json:"qty" validate:"required,lte=999"`
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	quote, err := h.pricer.Price(r.Context(), currentUser(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var req addCartItemRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	id, err := h.carts.Add(r.Context(), currentUser(r), req.ProductID, req.Qty)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r, "itemId")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req updateCartItemRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.carts.Update(r.Context(), currentUser(r), itemID, *req.Qty); err != nil {
		h.fail(w, r, err)
		return
	}
	writeMsg(w, http.StatusOK, "updated")
}

func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r, "itemId")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.carts.Remove(r.Context(), currentUser(r), itemID); err != nil {
		h.fail(w, r, err)
		return
	}
	writeMsg(w, http.StatusOK, "removed")
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.carts.Clear(r.Context(), currentUser(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	writeMsg(w, http.StatusOK, "cleared")
}
