package model

import (
	"strings"
	"time"
)

type ProductTag string

const (
	TagSummer    ProductTag = "summer"
	TagWorkspace ProductTag = "workspace"
	TagGifts     ProductTag = "gifts"
)

type Product struct {
	ID               uint       `gorm:"primarykey" json:"id"`
	CategoryID       *uint      `gorm:"index" json:"category_id,omitempty"`
	Title            string     `gorm:"not null" json:"title"`
	Slug             string     `gorm:"uniqueIndex;not null" json:"slug"` // immutable URL identity
	Brand            string     `gorm:"index" json:"brand,omitempty"`
	Sizes            string     `json:"sizes,omitempty"` // comma-separated, e.g. "S, M, L"
	Price            float64    `gorm:"not null;check:price >= 0" json:"price"`
	OldPrice         *float64   `json:"old_price,omitempty"`
	ShortDescription string     `json:"short_description,omitempty"`
	Features         string     `gorm:"type:text" json:"features,omitempty"`
	Tag              ProductTag `gorm:"type:varchar(50);index" json:"tag,omitempty"`
	IsBestSeller     bool       `gorm:"default:false" json:"is_best_seller"`
	IsFeatured       bool       `gorm:"default:false" json:"is_featured"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	Category   *Category      `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Images     []ProductImage `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
	CartItems  []CartItem     `gorm:"foreignKey:ProductID" json:"-"`
	OrderItems []OrderItem    `gorm:"foreignKey:ProductID" json:"-"`
}

func (Product) TableName() string {
	return "products"
}

// DiscountPercentage returns the whole-number discount derived from the old
// price. Always in [0, 100); zero when there is no old price or no markdown.
func (p *Product) DiscountPercentage() int {
	if p.OldPrice == nil || *p.OldPrice <= p.Price || *p.OldPrice <= 0 {
		return 0
	}
	return int((*p.OldPrice - p.Price) / *p.OldPrice * 100)
}

// SizeList splits the comma-separated size string into trimmed entries.
func (p *Product) SizeList() []string {
	var sizes []string
	for _, s := range strings.Split(p.Sizes, ",") {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			sizes = append(sizes, trimmed)
		}
	}
	return sizes
}

// OnSale reports whether the product carries a markdown.
func (p *Product) OnSale() bool {
	return p.DiscountPercentage() > 0
}

type ProductImage struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	ProductID uint      `gorm:"not null;index" json:"product_id"`
	URL       string    `gorm:"not null" json:"url"`
	CreatedAt time.Time `json:"created_at"`

	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

func (ProductImage) TableName() string {
	return "product_images"
}
