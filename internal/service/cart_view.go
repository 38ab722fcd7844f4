package service

import "github.com/abc-fitness/storefront/internal/models"

// CartLine 购物车行（含小计）
type CartLine struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Type     string       `json:"type"`
	Price    models.Money `json:"price"`
	Quantity int          `json:"quantity"`
	Subtotal models.Money `json:"subtotal"`
}

// CartView 购物车渲染视图
type CartView struct {
	Items      []CartLine   `json:"items"`
	TotalCount int          `json:"total_count"`
	TotalPrice models.Money `json:"total_price"`
	Empty      bool         `json:"empty"`
}

// BuildCartView 由购物车生成视图
func BuildCartView(cart models.Cart) CartView {
	lines := make([]CartLine, 0, len(cart.Items))
	for _, item := range cart.Items {
		lines = append(lines, CartLine{
			ID:       item.ID,
			Name:     item.Name,
			Type:     item.Type,
			Price:    item.Price,
			Quantity: item.Quantity,
			Subtotal: item.Subtotal(),
		})
	}
	return CartView{
		Items:      lines,
		TotalCount: cart.TotalCount(),
		TotalPrice: cart.TotalPrice(),
		Empty:      len(lines) == 0,
	}
}
