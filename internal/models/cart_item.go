package models

import "math"

// CartItem 购物车项（按 id 唯一）
type CartItem struct {
	ID       string `json:"id"`       // 商品标识
	Name     string `json:"name"`     // 展示名称
	Price    Money  `json:"price"`    // 单价
	Type     string `json:"type"`     // 分类标签（membership / equipment）
	Quantity int    `json:"quantity"` // 数量，始终 >= 1
}

// Subtotal 单项小计
func (i CartItem) Subtotal() Money {
	return i.Price.Mul(i.Quantity)
}

// Cart 购物车持久化结构
type Cart struct {
	Items []CartItem `json:"items"`
}

// NewCart 创建空购物车
func NewCart() Cart {
	return Cart{Items: []CartItem{}}
}

// IndexOf 按 id 查找购物车项位置，不存在返回 -1
func (c Cart) IndexOf(id string) int {
	for i := range c.Items {
		if c.Items[i].ID == id {
			return i
		}
	}
	return -1
}

// AddQuantity 数量相加，溢出时封顶为 math.MaxInt / math.MinInt
func AddQuantity(quantity, delta int) int {
	if delta > 0 && quantity > math.MaxInt-delta {
		return math.MaxInt
	}
	if delta < 0 && quantity < math.MinInt-delta {
		return math.MinInt
	}
	return quantity + delta
}

// TotalCount 商品总件数
func (c Cart) TotalCount() int {
	total := 0
	for _, item := range c.Items {
		total = AddQuantity(total, item.Quantity)
	}
	return total
}

// TotalPrice 商品总价
func (c Cart) TotalPrice() Money {
	total := ZeroMoney()
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Clone 深拷贝，避免监听者修改内部状态
func (c Cart) Clone() Cart {
	items := make([]CartItem, len(c.Items))
	copy(items, c.Items)
	return Cart{Items: items}
}
