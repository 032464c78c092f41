package model

import "time"

type OrderStatus string

const (
	OrderStatusPlaced    OrderStatus = "placed"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusFailed    OrderStatus = "failed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type PaymentMethod string

const (
	PaymentMethodRazorpay PaymentMethod = "razorpay"
	PaymentMethodCOD      PaymentMethod = "cod"
	PaymentMethodSandbox  PaymentMethod = "sandbox"
)

type DeliveryMethod string

const (
	DeliveryStandard DeliveryMethod = "standard"
	DeliveryExpress  DeliveryMethod = "express"
)

type Order struct {
	ID         uint    `gorm:"primarykey" json:"id"`
	UserID     uint    `gorm:"not null;index" json:"user_id"`
	Fullname   string  `gorm:"not null" json:"fullname"`
	Phone      string  `gorm:"not null" json:"phone"`
	Address    string  `gorm:"not null" json:"address"`
	City       string  `gorm:"not null" json:"city"`
	State      string  `json:"state"`
	Pincode    string  `json:"pincode"`
	TotalPrice float64 `gorm:"not null" json:"total_price"`

	PaymentMethod PaymentMethod `gorm:"type:varchar(20);not null" json:"payment_method"`
	Status        OrderStatus   `gorm:"type:varchar(20);not null;default:'placed';index" json:"status"`
	IsPaid        bool          `gorm:"default:false" json:"is_paid"`

	DeliveryMethod DeliveryMethod `gorm:"type:varchar(20);not null;default:'standard'" json:"delivery_method"`
	DeliveryDays   int            `gorm:"not null" json:"delivery_days"`

	// Gateway fields are populated only for razorpay orders.
	GatewayOrderID   string `gorm:"index" json:"gateway_order_id,omitempty"`
	PaymentID        string `json:"payment_id,omitempty"`
	GatewaySignature string `json:"-"`

	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	User  User        `gorm:"foreignKey:UserID" json:"-"`
	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// Cancellable reports whether the order can still be cancelled by the buyer.
// Paid orders and already-cancelled orders cannot.
func (o *Order) Cancellable() bool {
	return o.Status == OrderStatusPlaced || o.Status == OrderStatusFailed
}

// OrderItem freezes the product price at purchase time. Later price changes
// never affect a placed order.
type OrderItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	OrderID   uint      `gorm:"not null;index" json:"order_id"`
	ProductID uint      `gorm:"not null;index" json:"product_id"`
	Size      string    `json:"size,omitempty"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	Price     float64   `gorm:"not null" json:"price"`
	CreatedAt time.Time `json:"created_at"`

	Order   Order   `gorm:"foreignKey:OrderID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

func (i *OrderItem) Total() float64 {
	return i.Price * float64(i.Quantity)
}
