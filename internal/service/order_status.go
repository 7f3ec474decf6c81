package service

import (
	"strings"

	"github.com/fournil-next/internal/authz"
	"github.com/fournil-next/internal/constants"
	"github.com/fournil-next/internal/logger"
	"github.com/fournil-next/internal/models"
	"github.com/fournil-next/internal/repository"

	"gorm.io/gorm"
)

// allowedTransitions maps each status to the statuses reachable from it.
// Annulée is terminal. Récupérée may be corrected back to Enregistrée when
// a pickup was marked by mistake.
var allowedTransitions = map[string][]string{
	constants.OrderStatusRegistered: {
		constants.OrderStatusRegisteredModified,
		constants.OrderStatusInDelivery,
		constants.OrderStatusPickedUp,
		constants.OrderStatusCancelled,
	},
	constants.OrderStatusRegisteredModified: {
		constants.OrderStatusInDelivery,
		constants.OrderStatusPickedUp,
		constants.OrderStatusCancelled,
	},
	constants.OrderStatusInDelivery: {
		constants.OrderStatusPickedUp,
		constants.OrderStatusCancelled,
	},
	constants.OrderStatusPickedUp: {
		constants.OrderStatusRegistered,
		constants.OrderStatusCancelled,
	},
	constants.OrderStatusCancelled: {},
}

// TransitionAllowed reports whether the state machine permits moving from
// one status to another, ignoring role capabilities.
func TransitionAllowed(from, to string) bool {
	if from == to {
		return false
	}
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// StatusTransitionInput carries one requested status change.
type StatusTransitionInput struct {
	OrderID   uint
	NewStatus string
	Actor     string
	Comment   string
	Policy    authz.StatusPolicy
}

// OrderStatusService applies status transitions under the transition table
// and the actor's capability policy, writing exactly one ledger entry per
// applied transition.
type OrderStatusService struct {
	db        *gorm.DB
	orderRepo repository.OrderRepository
	stock     *StockService
}

// NewOrderStatusService creates the status service.
func NewOrderStatusService(db *gorm.DB, orderRepo repository.OrderRepository, stock *StockService) *OrderStatusService {
	return &OrderStatusService{db: db, orderRepo: orderRepo, stock: stock}
}

// Transition moves one order to a new status. The whole change, including
// the ledger entry and any stock restitution on cancellation, commits in a
// single transaction or not at all.
func (s *OrderStatusService) Transition(in StatusTransitionInput) (*models.Order, error) {
	if in.NewStatus == constants.OrderStatusCancelled && strings.TrimSpace(in.Comment) == "" {
		return nil, ErrCancelReasonRequired
	}

	var updated *models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.orderRepo.WithTx(tx)

		order, err := repo.GetByID(in.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		if !TransitionAllowed(order.Status, in.NewStatus) {
			return ErrInvalidTransition
		}
		if !in.Policy.Allows(in.NewStatus) {
			return ErrStatusNotAllowed
		}

		affected, err := repo.UpdateWithVersion(order.ID, order.Version, map[string]interface{}{
			"status": in.NewStatus,
		})
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrOrderConflict
		}

		comment := in.Comment
		if comment == "" {
			comment = constants.HistoryCommentStatusChanged
		}
		if err := repo.CreateHistory(&models.OrderStatusHistory{
			OrderID:   order.ID,
			OldStatus: order.Status,
			NewStatus: in.NewStatus,
			ChangedBy: in.Actor,
			Comment:   comment,
		}); err != nil {
			return err
		}

		// Cancelling returns tracked stock to the shelf.
		if in.NewStatus == constants.OrderStatusCancelled && s.stock != nil {
			adjustments, err := s.stock.Reconcile(tx, order.Lines, constants.StockDirectionIncrement)
			if err != nil {
				return err
			}
			for _, adj := range adjustments {
				logger.Infow("stock restituted on cancellation",
					"order_id", order.ID,
					"product_id", adj.ProductID,
					"before", adj.Before,
					"after", adj.After,
				)
			}
		}

		order.Status = in.NewStatus
		order.Version++
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("order status changed",
		"order_id", updated.ID,
		"order_number", updated.OrderNumber,
		"status", updated.Status,
		"changed_by", in.Actor,
	)
	return updated, nil
}

// Cancel is a convenience wrapper that always targets Annulée.
func (s *OrderStatusService) Cancel(orderID uint, actor, reason string, policy authz.StatusPolicy) (*models.Order, error) {
	return s.Transition(StatusTransitionInput{
		OrderID:   orderID,
		NewStatus: constants.OrderStatusCancelled,
		Actor:     actor,
		Comment:   reason,
		Policy:    policy,
	})
}
