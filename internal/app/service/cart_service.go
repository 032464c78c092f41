package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/urbanoshop/urbano-backend/internal/app/model"
	"github.com/urbanoshop/urbano-backend/internal/app/repository"
	"github.com/urbanoshop/urbano-backend/pkg/logger"
)

var (
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrSizeRequired     = errors.New("size selection is required for this product")
	ErrInvalidSize      = errors.New("size is not offered for this product")
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
)

// Identity names the cart owner. Signed-in users carry a UserID and their
// cart lives in the database; visitors carry only the session ID and their
// cart lives in the session store.
type Identity struct {
	UserID    *uint
	SessionID string
}

func (id Identity) Authenticated() bool {
	return id.UserID != nil
}

// CartLine is one rendered cart row. Prices are always the product's current
// price, never a stored snapshot. ProductMissing marks lines whose product
// was removed from the catalog after it was added.
type CartLine struct {
	ItemID         uint           `json:"item_id,omitempty"`
	Product        *model.Product `json:"product,omitempty"`
	ProductID      uint           `json:"product_id"`
	ProductMissing bool           `json:"product_missing,omitempty"`
	Size           string         `json:"size,omitempty"`
	Quantity       int            `json:"quantity"`
	Subtotal       float64        `json:"subtotal"`
}

type CartView struct {
	Items []CartLine `json:"items"`
	// TotalItems sums line quantities; Total sums live-priced subtotals.
	TotalItems int     `json:"total_items"`
	Total      float64 `json:"total"`
}

type CartService interface {
	AddToCart(ctx context.Context, identity Identity, productID uint, size string, quantity int) error
	ViewCart(ctx context.Context, identity Identity) (*CartView, error)
	UpdateQuantity(ctx context.Context, identity Identity, productID uint, size string, quantity int) error
	RemoveFromCart(ctx context.Context, identity Identity, productID uint, size string) error
	ClearCart(ctx context.Context, identity Identity) error
	MergeGuestCart(ctx context.Context, sessionID string, userID uint) error
}

type cartService struct {
	cartRepo      repository.CartRepository
	guestCartRepo repository.GuestCartRepository
	productRepo   repository.ProductRepository
	// sizeRequired holds category names whose products need an explicit
	// size before entering a cart.
	sizeRequired map[string]bool
}

func NewCartService(
	cartRepo repository.CartRepository,
	guestCartRepo repository.GuestCartRepository,
	productRepo repository.ProductRepository,
	sizeRequiredCategories []string,
) CartService {
	required := make(map[string]bool, len(sizeRequiredCategories))
	for _, name := range sizeRequiredCategories {
		required[name] = true
	}
	return &cartService{
		cartRepo:      cartRepo,
		guestCartRepo: guestCartRepo,
		productRepo:   productRepo,
		sizeRequired:  required,
	}
}

func (s *cartService) requiresSize(product *model.Product) bool {
	return product.Category != nil && s.sizeRequired[product.Category.Name]
}

func (s *cartService) AddToCart(ctx context.Context, identity Identity, productID uint, size string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	if size == "" && s.requiresSize(product) {
		// Stash the requested amount so the follow-up request with a size
		// does not make the visitor re-enter it.
		if err := s.guestCartRepo.SetPendingQuantity(ctx, identity.SessionID, productID, quantity); err != nil {
			logger.Warn("Failed to stash pending quantity", map[string]interface{}{
				"session_id": identity.SessionID,
				"product_id": productID,
			})
		}
		return ErrSizeRequired
	}

	if size != "" {
		if !containsSize(product.SizeList(), size) {
			return ErrInvalidSize
		}
		// A default-quantity request after a size prompt picks up the
		// stashed amount.
		if quantity == 1 {
			if pending, err := s.guestCartRepo.TakePendingQuantity(ctx, identity.SessionID, productID); err == nil && pending > 0 {
				quantity = pending
			}
		}
	}

	if identity.Authenticated() {
		return s.cartRepo.Upsert(&model.CartItem{
			UserID:    *identity.UserID,
			ProductID: productID,
			Size:      size,
			Quantity:  quantity,
		})
	}

	return s.guestCartRepo.Add(ctx, identity.SessionID, repository.GuestCartEntry{
		ProductID: productID,
		Size:      size,
		Quantity:  quantity,
	})
}

func containsSize(sizes []string, size string) bool {
	if len(sizes) == 0 {
		return true
	}
	for _, s := range sizes {
		if s == size {
			return true
		}
	}
	return false
}

func (s *cartService) ViewCart(ctx context.Context, identity Identity) (*CartView, error) {
	if identity.Authenticated() {
		return s.viewUserCart(*identity.UserID)
	}
	return s.viewGuestCart(ctx, identity.SessionID)
}

func (s *cartService) viewUserCart(userID uint) (*CartView, error) {
	items, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}

	view := &CartView{Items: make([]CartLine, 0, len(items))}
	for i := range items {
		item := &items[i]
		line := CartLine{
			ItemID:    item.ID,
			ProductID: item.ProductID,
			Size:      item.Size,
			Quantity:  item.Quantity,
		}
		if item.Product.ID == 0 {
			line.ProductMissing = true
		} else {
			product := item.Product
			line.Product = &product
			line.Subtotal = item.Subtotal()
			view.Total += line.Subtotal
			view.TotalItems += line.Quantity
		}
		view.Items = append(view.Items, line)
	}
	return view, nil
}

func (s *cartService) viewGuestCart(ctx context.Context, sessionID string) (*CartView, error) {
	entries, err := s.guestCartRepo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	view := &CartView{Items: make([]CartLine, 0, len(entries))}
	for _, entry := range entries {
		line := CartLine{
			ProductID: entry.ProductID,
			Size:      entry.Size,
			Quantity:  entry.Quantity,
		}
		product, err := s.productRepo.FindByID(entry.ProductID)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			line.ProductMissing = true
		case err != nil:
			return nil, err
		default:
			line.Product = product
			line.Subtotal = product.Price * float64(entry.Quantity)
			view.Total += line.Subtotal
			view.TotalItems += line.Quantity
		}
		view.Items = append(view.Items, line)
	}
	return view, nil
}

func (s *cartService) UpdateQuantity(ctx context.Context, identity Identity, productID uint, size string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	if identity.Authenticated() {
		item, err := s.cartRepo.FindByUserProductSize(*identity.UserID, productID, size)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCartItemNotFound
			}
			return err
		}
		item.Quantity = quantity
		return s.cartRepo.Update(item)
	}

	return s.guestCartRepo.SetQuantity(ctx, identity.SessionID, productID, size, quantity)
}

// RemoveFromCart deletes a cart line. Removing a line that is already gone
// succeeds.
func (s *cartService) RemoveFromCart(ctx context.Context, identity Identity, productID uint, size string) error {
	if identity.Authenticated() {
		item, err := s.cartRepo.FindByUserProductSize(*identity.UserID, productID, size)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		return s.cartRepo.Delete(item.ID)
	}

	return s.guestCartRepo.Remove(ctx, identity.SessionID, productID, size)
}

func (s *cartService) ClearCart(ctx context.Context, identity Identity) error {
	if identity.Authenticated() {
		return s.cartRepo.DeleteByUserID(*identity.UserID)
	}
	return s.guestCartRepo.Clear(ctx, identity.SessionID)
}

// MergeGuestCart folds a visitor's session cart into their database cart
// after sign-in, accumulating quantities on matching lines, then drops the
// session cart. Entries whose product disappeared are skipped.
func (s *cartService) MergeGuestCart(ctx context.Context, sessionID string, userID uint) error {
	if sessionID == "" {
		return nil
	}

	entries, err := s.guestCartRepo.Get(ctx, sessionID)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if _, err := s.productRepo.FindByID(entry.ProductID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return err
		}
		if err := s.cartRepo.Upsert(&model.CartItem{
			UserID:    userID,
			ProductID: entry.ProductID,
			Size:      entry.Size,
			Quantity:  entry.Quantity,
		}); err != nil {
			return err
		}
	}

	if err := s.guestCartRepo.Clear(ctx, sessionID); err != nil {
		logger.Warn("Failed to clear guest cart after merge", map[string]interface{}{
			"session_id": sessionID,
			"user_id":    userID,
		})
	}

	logger.Info("Guest cart merged", map[string]interface{}{
		"user_id": userID,
		"count":   len(entries),
	})
	return nil
}
