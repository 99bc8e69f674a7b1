package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/foodorder-backend/internal/catalog"
	"github.com/angelmondragon/foodorder-backend/pkg/db"
	"github.com/angelmondragon/foodorder-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/foodorder-backend/pkg/errors"
	"github.com/angelmondragon/foodorder-backend/pkg/logger"
)

const (
	msgInvalidItemID   = "Invalid item ID format"
	msgInvalidQuantity = "Quantity must be a positive number"
	msgQuantityLimit   = "Quantity must not exceed 1000"
	msgCartNotFound    = "Cart not found"
	msgItemNotInCart   = "Item not found in cart"
)

// Service is the per-user basket.
type Service interface {
	Add(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*CartDTO, error)
	List(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
	UpdateItem(ctx context.Context, userID uuid.UUID, itemID string, req UpdateItemRequest) (*CartDTO, error)
	DeleteItem(ctx context.Context, userID uuid.UUID, itemID string) (*CartDTO, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

// ServiceParams bundles the cart service dependencies.
type ServiceParams struct {
	Repo    CartRepository
	Tx      txRunner
	Catalog catalog.ItemLookup
	Metrics mutationRecorder
	Logger  *logger.Logger
}

type service struct {
	repo    CartRepository
	tx      txRunner
	catalog catalog.ItemLookup
	metrics mutationRecorder
	logg    *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog lookup is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		repo:    params.Repo,
		tx:      params.Tx,
		catalog: params.Catalog,
		metrics: params.Metrics,
		logg:    logg,
	}, nil
}

func (s *service) Add(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*CartDTO, error) {
	itemID, err := parseItemID(req.ItemID)
	if err != nil {
		return nil, err
	}
	if req.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, msgInvalidQuantity)
	}
	if req.Quantity > models.MaxLineQuantity {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, msgQuantityLimit)
	}

	src, err := s.catalog.LookupItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	var cart *models.Cart
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		current, err := repo.FindOrCreate(ctx, userID)
		if err != nil {
			return err
		}
		if existing := findLine(current, itemID); existing != nil {
			if existing.Quantity+req.Quantity > models.MaxLineQuantity {
				return pkgerrors.New(pkgerrors.CodeValidation, msgQuantityLimit).
					WithDetails(map[string]any{"inCart": existing.Quantity})
			}
			if err := repo.IncrementQuantity(ctx, current.ID, itemID, req.Quantity); err != nil {
				return err
			}
		} else {
			line := &models.CartItem{
				CartID:   current.ID,
				ItemID:   src.ID,
				Name:     src.Name,
				Price:    src.Price,
				Category: src.Category,
				Image:    src.Image,
				Quantity: req.Quantity,
			}
			if err := repo.InsertItem(ctx, line); err != nil {
				return err
			}
		}
		cart, err = repo.FindByUser(ctx, userID)
		return err
	})
	if err != nil {
		return nil, wrapInternal(err, "add cart item")
	}

	s.recordMutation(ctx, userID, itemID, "add")
	return FromModel(cart), nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	cart, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if db.IsNotFound(err) {
			return EmptyCart(), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	return FromModel(cart), nil
}

func (s *service) UpdateItem(ctx context.Context, userID uuid.UUID, rawItemID string, req UpdateItemRequest) (*CartDTO, error) {
	itemID, err := parseItemID(rawItemID)
	if err != nil {
		return nil, err
	}
	if req.Quantity != nil && *req.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, msgInvalidQuantity)
	}
	if req.Quantity != nil && *req.Quantity > models.MaxLineQuantity {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, msgQuantityLimit)
	}

	var cart *models.Cart
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		current, err := s.loadExisting(ctx, repo, userID)
		if err != nil {
			return err
		}
		if findLine(current, itemID) == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, msgItemNotInCart)
		}

		if req.Quantity != nil && *req.Quantity == 0 {
			if _, err := repo.DeleteItem(ctx, current.ID, itemID); err != nil {
				return err
			}
		} else {
			fields := map[string]any{}
			if req.Quantity != nil {
				fields["quantity"] = *req.Quantity
			}
			if req.SpecialInstructions != nil {
				fields["special_instructions"] = strings.TrimSpace(*req.SpecialInstructions)
			}
			if len(fields) > 0 {
				if err := repo.UpdateItem(ctx, current.ID, itemID, fields); err != nil {
					return err
				}
			}
		}
		cart, err = repo.FindByUser(ctx, userID)
		return err
	})
	if err != nil {
		return nil, wrapInternal(err, "update cart item")
	}

	s.recordMutation(ctx, userID, itemID, "update")
	return FromModel(cart), nil
}

func (s *service) DeleteItem(ctx context.Context, userID uuid.UUID, rawItemID string) (*CartDTO, error) {
	itemID, err := parseItemID(rawItemID)
	if err != nil {
		return nil, err
	}

	var cart *models.Cart
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		current, err := s.loadExisting(ctx, repo, userID)
		if err != nil {
			return err
		}
		deleted, err := repo.DeleteItem(ctx, current.ID, itemID)
		if err != nil {
			return err
		}
		if !deleted {
			return pkgerrors.New(pkgerrors.CodeNotFound, msgItemNotInCart)
		}
		cart, err = repo.FindByUser(ctx, userID)
		return err
	})
	if err != nil {
		return nil, wrapInternal(err, "delete cart item")
	}

	s.recordMutation(ctx, userID, itemID, "delete")
	return FromModel(cart), nil
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.ClearItems(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
	}
	s.recordMutation(ctx, userID, uuid.Nil, "clear")
	return nil
}

func (s *service) loadExisting(ctx context.Context, repo CartRepository, userID uuid.UUID) (*models.Cart, error) {
	cart, err := repo.FindByUser(ctx, userID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, msgCartNotFound)
		}
		return nil, err
	}
	return cart, nil
}

func (s *service) recordMutation(ctx context.Context, userID, itemID uuid.UUID, op string) {
	if s.metrics != nil {
		s.metrics.CartMutation(op)
	}
	fields := map[string]any{"user_id": userID.String(), "op": op}
	if itemID != uuid.Nil {
		fields["item_id"] = itemID.String()
	}
	s.logg.Debug(s.logg.WithFields(ctx, fields), "cart mutated")
}

func findLine(cart *models.Cart, itemID uuid.UUID) *models.CartItem {
	for i := range cart.Items {
		if cart.Items[i].ItemID == itemID {
			return &cart.Items[i]
		}
	}
	return nil
}

func parseItemID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, msgInvalidItemID)
	}
	return id, nil
}

// wrapInternal keeps typed errors raised inside a transaction and wraps the rest.
func wrapInternal(err error, msg string) error {
	var typed *pkgerrors.Error
	if errors.As(err, &typed) {
		return typed
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, msg)
}
