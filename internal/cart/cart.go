package cart

import (
	"kleankart/internal/model"
)

// Cart is the normalized, priced view of a checkout request. It is
// ephemeral: recomputed on every call and consumed by the order
// composer, never persisted on its own.
type Cart struct {
	Items    []model.LineItem
	Subtotal model.Money
}

// Aggregate canonicalizes raw cart entries into line items and computes
// the subtotal. Pure function: no side effects, no I/O.
//
// Quantity defaults to 1 when absent (zero) for both items and add-ons.
func Aggregate(items []model.CartItemInput) (*Cart, error) {
	if len(items) == 0 {
		return nil, model.ErrEmptyCart
	}

	cart := &Cart{
		Items: make([]model.LineItem, 0, len(items)),
	}

	for i, in := range items {
		if in.ReferenceID == "" {
			return nil, &model.InvalidLineItemError{Index: i, Reason: "reference id is required"}
		}
		if in.UnitPrice < 0 {
			return nil, &model.InvalidLineItemError{Index: i, Reason: "unit price cannot be negative"}
		}
		if in.Quantity < 0 {
			return nil, &model.InvalidLineItemError{Index: i, Reason: "quantity cannot be negative"}
		}

		qty := in.Quantity
		if qty == 0 {
			qty = 1
		}

		kind := in.Kind
		if kind == "" {
			kind = model.KindGeneric
		}
		if !kind.Valid() {
			return nil, &model.InvalidLineItemError{Index: i, Reason: "unknown booking kind: " + string(kind)}
		}

		lineTotal := in.UnitPrice.MulInt(qty)

		addOns := make([]model.AddOn, 0, len(in.AddOns))
		for _, a := range in.AddOns {
			if a.Name == "" {
				return nil, &model.InvalidLineItemError{Index: i, Reason: "add-on name is required"}
			}
			if a.UnitPrice < 0 {
				return nil, &model.InvalidLineItemError{Index: i, Reason: "add-on price cannot be negative"}
			}
			if a.Quantity < 0 {
				return nil, &model.InvalidLineItemError{Index: i, Reason: "add-on quantity cannot be negative"}
			}

			aQty := a.Quantity
			if aQty == 0 {
				aQty = 1
			}

			addOns = append(addOns, model.AddOn{
				Name:      a.Name,
				UnitPrice: a.UnitPrice,
				Quantity:  aQty,
			})
			lineTotal = lineTotal.Add(a.UnitPrice.MulInt(aQty))
		}

		cart.Items = append(cart.Items, model.LineItem{
			ReferenceID:  in.ReferenceID,
			Kind:         kind,
			Title:        in.Title,
			UnitPrice:    in.UnitPrice,
			Quantity:     qty,
			AddOns:       addOns,
			SubLineTotal: lineTotal,
		})
		cart.Subtotal = cart.Subtotal.Add(lineTotal)
	}

	return cart, nil
}
