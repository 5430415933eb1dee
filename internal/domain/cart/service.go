// internal/domain/cart/service.go
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"gorm.io/gorm"
)

// Service handles cart business logic.
//
// Guest carts live in Redis under their session id. Authenticated users get
// a Redis working copy that absorbs every edit immediately, plus a persisted
// row that the Mirror overwrites after the debounce quiet period.
type Service struct {
	db          *gorm.DB
	redisClient *redis.Client
	config      *config.Config
	logger      *logrus.Logger
	mirror      *Mirror
}

// NewService creates a new cart service
func NewService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, logger *logrus.Logger) *Service {
	return &Service{
		db:          db,
		redisClient: redisClient,
		config:      cfg,
		logger:      logger,
		mirror:      NewMirror(db, cfg.Cart.SaveDebounce, logger),
	}
}

// Mirror exposes the mirror writer so the server can stop it on shutdown
func (s *Service) Mirror() *Mirror {
	return s.mirror
}

// CartResponse represents a shopping cart with items and totals
type CartResponse struct {
	SessionID string     `json:"session_id,omitempty"`
	UserID    *uint      `json:"user_id,omitempty"`
	Items     ItemList   `json:"items"`
	Totals    CartTotals `json:"totals"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// AddToCartRequest represents add to cart request
type AddToCartRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

// UpdateCartItemRequest represents update cart item request
type UpdateCartItemRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity" binding:"min=0"`
}

// SelectVariantRequest changes the size/color of an existing cart line
type SelectVariantRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	NewSize   string `json:"new_size"`
	NewColor  string `json:"new_color"`
}

// GetCart retrieves the cart for a user or guest session
func (s *Service) GetCart(userID *uint, sessionID string) (*CartResponse, error) {
	items, updatedAt, err := s.loadItems(userID, sessionID)
	if err != nil {
		return nil, err
	}
	return s.buildResponse(userID, sessionID, items, updatedAt), nil
}

// AddToCart adds a product to the cart. A line with the same product, size
// and color gets its quantity bumped; anything else becomes a new line.
func (s *Service) AddToCart(userID *uint, sessionID string, req *AddToCartRequest) (*CartResponse, error) {
	var prod product.Product
	if err := s.db.Where("id = ? AND is_active = ?", req.ProductID, true).First(&prod).Error; err != nil {
		return nil, fmt.Errorf("product not found")
	}

	items, _, err := s.loadItems(userID, sessionID)
	if err != nil {
		return nil, err
	}

	idx := findLine(items, req.ProductID, req.Size, req.Color)
	if idx >= 0 {
		items[idx].Quantity += req.Quantity
	} else {
		items = append(items, Item{
			ProductID: prod.ID,
			Name:      prod.Name,
			Price:     prod.Price,
			ImageURL:  prod.ImageURL,
			Quantity:  req.Quantity,
			Size:      req.Size,
			Color:     req.Color,
			AddedAt:   time.Now().UTC(),
		})
	}

	if err := s.storeItems(userID, sessionID, items); err != nil {
		return nil, err
	}
	return s.buildResponse(userID, sessionID, items, time.Now().UTC()), nil
}

// UpdateItemQuantity sets the quantity of an existing line. Quantity zero
// removes the line.
func (s *Service) UpdateItemQuantity(userID *uint, sessionID string, req *UpdateCartItemRequest) (*CartResponse, error) {
	items, _, err := s.loadItems(userID, sessionID)
	if err != nil {
		return nil, err
	}

	idx := findLine(items, req.ProductID, req.Size, req.Color)
	if idx < 0 {
		return nil, fmt.Errorf("cart item not found")
	}

	if req.Quantity == 0 {
		items = append(items[:idx], items[idx+1:]...)
	} else {
		items[idx].Quantity = req.Quantity
	}

	if err := s.storeItems(userID, sessionID, items); err != nil {
		return nil, err
	}
	return s.buildResponse(userID, sessionID, items, time.Now().UTC()), nil
}

// SelectVariant moves a line to a different size/color. When a line with the
// target variant already exists the two lines collapse into one.
func (s *Service) SelectVariant(userID *uint, sessionID string, req *SelectVariantRequest) (*CartResponse, error) {
	items, _, err := s.loadItems(userID, sessionID)
	if err != nil {
		return nil, err
	}

	idx := findLine(items, req.ProductID, req.Size, req.Color)
	if idx < 0 {
		return nil, fmt.Errorf("cart item not found")
	}

	target := findLine(items, req.ProductID, req.NewSize, req.NewColor)
	if target >= 0 && target != idx {
		items[target].Quantity += items[idx].Quantity
		items = append(items[:idx], items[idx+1:]...)
	} else {
		items[idx].Size = req.NewSize
		items[idx].Color = req.NewColor
	}

	if err := s.storeItems(userID, sessionID, items); err != nil {
		return nil, err
	}
	return s.buildResponse(userID, sessionID, items, time.Now().UTC()), nil
}

// RemoveItem removes a line from the cart
func (s *Service) RemoveItem(userID *uint, sessionID string, productID uint, size, color string) (*CartResponse, error) {
	items, _, err := s.loadItems(userID, sessionID)
	if err != nil {
		return nil, err
	}

	idx := findLine(items, productID, size, color)
	if idx < 0 {
		return nil, fmt.Errorf("cart item not found")
	}
	items = append(items[:idx], items[idx+1:]...)

	if err := s.storeItems(userID, sessionID, items); err != nil {
		return nil, err
	}
	return s.buildResponse(userID, sessionID, items, time.Now().UTC()), nil
}

// ClearCart removes all items from the cart
func (s *Service) ClearCart(userID *uint, sessionID string) error {
	return s.storeItems(userID, sessionID, ItemList{})
}

// GetCartCount returns the total quantity of items in the cart
func (s *Service) GetCartCount(userID *uint, sessionID string) (int, error) {
	items, _, err := s.loadItems(userID, sessionID)
	if err != nil {
		return 0, err
	}
	return items.TotalQuantity(), nil
}

// MergeGuestCartToUser folds a guest session cart into a user cart after
// login. A Redis guard key makes the merge run at most once per
// (session, user) pair even when the client repeats the login callback. The
// guard is set regardless of merge outcome; a failed merge is logged and
// never retried, so the login itself cannot be broken by cart state.
func (s *Service) MergeGuestCartToUser(userID uint, sessionID string) error {
	ctx := context.Background()
	guardKey := fmt.Sprintf("cart:merged:%s:%d", sessionID, userID)

	set, err := s.redisClient.SetNX(ctx, guardKey, time.Now().UTC().Format(time.RFC3339), s.config.Cart.SessionTTL).Result()
	if err != nil {
		return fmt.Errorf("failed to set merge guard: %w", err)
	}
	if !set {
		// Already merged for this session/user pair
		return nil
	}

	guest, err := s.getGuestCart(sessionID)
	if err != nil {
		return fmt.Errorf("failed to load guest cart: %w", err)
	}
	if len(guest.Items) == 0 {
		return nil
	}

	uid := userID
	userItems, _, err := s.loadItems(&uid, "")
	if err != nil {
		return fmt.Errorf("failed to load user cart: %w", err)
	}

	merged := MergeItems(userItems, guest.Items)

	if err := s.storeItems(&uid, "", merged); err != nil {
		return fmt.Errorf("failed to store merged cart: %w", err)
	}
	// A merge that changed the cart is persisted immediately rather than
	// waiting out the debounce.
	if err := s.mirror.FlushNow(userID); err != nil {
		return fmt.Errorf("failed to persist merged cart: %w", err)
	}

	if err := s.redisClient.Del(ctx, s.guestKey(sessionID)).Err(); err != nil {
		s.logger.WithError(err).WithField("session_id", sessionID).
			Warn("Failed to delete guest cart after merge")
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":    userID,
		"session_id": sessionID,
		"items":      len(merged),
	}).Info("Guest cart merged into user cart")

	return nil
}

// Internal helpers

func (s *Service) guestKey(sessionID string) string {
	return fmt.Sprintf("cart:session:%s", sessionID)
}

func (s *Service) userKey(userID uint) string {
	return fmt.Sprintf("cart:user:%d", userID)
}

// workingCart is the Redis working copy for an authenticated user
type workingCart struct {
	Items     ItemList  `json:"items"`
	UpdatedAt time.Time `json:"updated_at"`
}

func findLine(items ItemList, productID uint, size, color string) int {
	for i := range items {
		if items[i].ProductID == productID && items[i].Size == size && items[i].Color == color {
			return i
		}
	}
	return -1
}

func (s *Service) loadItems(userID *uint, sessionID string) (ItemList, time.Time, error) {
	if userID != nil {
		return s.loadUserItems(*userID)
	}
	guest, err := s.getGuestCart(sessionID)
	if err != nil {
		return nil, time.Time{}, err
	}
	return guest.Items, guest.UpdatedAt, nil
}

// loadUserItems reads the Redis working copy, falling back to the persisted
// row when the working copy has expired or was never created.
func (s *Service) loadUserItems(userID uint) (ItemList, time.Time, error) {
	ctx := context.Background()

	data, err := s.redisClient.Get(ctx, s.userKey(userID)).Result()
	if err == nil {
		var wc workingCart
		if jerr := json.Unmarshal([]byte(data), &wc); jerr == nil {
			return wc.Items, wc.UpdatedAt, nil
		}
		s.logger.WithField("user_id", userID).Warn("Corrupt cart working copy, falling back to persisted cart")
	} else if !errors.Is(err, redis.Nil) {
		return nil, time.Time{}, fmt.Errorf("failed to read cart working copy: %w", err)
	}

	var row UserCart
	if err := s.db.Where("user_id = ?", userID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ItemList{}, time.Now().UTC(), nil
		}
		return nil, time.Time{}, fmt.Errorf("failed to read persisted cart: %w", err)
	}

	// Re-seed the working copy so subsequent reads stay in Redis
	if err := s.saveUserWorkingCopy(userID, row.Items); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Warn("Failed to re-seed cart working copy")
	}

	return row.Items, row.UpdatedAt, nil
}

func (s *Service) storeItems(userID *uint, sessionID string, items ItemList) error {
	if userID != nil {
		if err := s.saveUserWorkingCopy(*userID, items); err != nil {
			return err
		}
		s.mirror.Schedule(*userID, items)
		return nil
	}
	return s.saveGuestCart(sessionID, items)
}

func (s *Service) saveUserWorkingCopy(userID uint, items ItemList) error {
	ctx := context.Background()

	if items == nil {
		items = ItemList{}
	}
	data, err := json.Marshal(&workingCart{Items: items, UpdatedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("failed to marshal cart working copy: %w", err)
	}

	if err := s.redisClient.Set(ctx, s.userKey(userID), data, s.config.Cart.SessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to save cart working copy: %w", err)
	}
	return nil
}

func (s *Service) getGuestCart(sessionID string) (*SessionCart, error) {
	ctx := context.Background()

	data, err := s.redisClient.Get(ctx, s.guestKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		now := time.Now().UTC()
		return &SessionCart{SessionID: sessionID, Items: ItemList{}, CreatedAt: now, UpdatedAt: now}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read guest cart: %w", err)
	}

	var sc SessionCart
	if err := json.Unmarshal([]byte(data), &sc); err != nil {
		return nil, fmt.Errorf("failed to decode guest cart: %w", err)
	}
	return &sc, nil
}

func (s *Service) saveGuestCart(sessionID string, items ItemList) error {
	ctx := context.Background()

	if items == nil {
		items = ItemList{}
	}
	sc := &SessionCart{
		SessionID: sessionID,
		Items:     items,
		UpdatedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(sc)
	if err != nil {
		return fmt.Errorf("failed to marshal guest cart: %w", err)
	}

	if err := s.redisClient.Set(ctx, s.guestKey(sessionID), data, s.config.Cart.SessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to save guest cart: %w", err)
	}
	return nil
}

func (s *Service) buildResponse(userID *uint, sessionID string, items ItemList, updatedAt time.Time) *CartResponse {
	if items == nil {
		items = ItemList{}
	}
	resp := &CartResponse{
		Items: items,
		Totals: CartTotals{
			ItemCount:     len(items),
			TotalQuantity: items.TotalQuantity(),
			SubTotal:      items.SubTotal(),
		},
		UpdatedAt: updatedAt,
	}
	if userID != nil {
		resp.UserID = userID
	} else {
		resp.SessionID = sessionID
	}
	return resp
}
