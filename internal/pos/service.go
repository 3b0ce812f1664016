package pos

import (
	"context"
	"strings"

	"github.com/fekuna/omnipos-retail-service/internal/auth"
	"github.com/fekuna/omnipos-retail-service/internal/ledger"
	"github.com/fekuna/omnipos-retail-service/internal/ledger/dto"
	"github.com/fekuna/omnipos-retail-service/internal/logger"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/product"
	"go.uber.org/zap"
)

// Service drives terminal sessions against the live catalog and the ledger.
type Service struct {
	registry *Registry
	products product.UseCase
	ledger   ledger.UseCase
	logger   logger.ZapLogger
}

func NewService(registry *Registry, products product.UseCase, ledgerUC ledger.UseCase, log logger.ZapLogger) *Service {
	return &Service{
		registry: registry,
		products: products,
		ledger:   ledgerUC,
		logger:   log,
	}
}

func (s *Service) session(ctx context.Context, terminalID string) (*Session, error) {
	if !auth.HasRole(ctx, auth.RoleCashier) {
		return nil, model.ErrForbidden
	}
	terminalID = strings.TrimSpace(terminalID)
	if terminalID == "" {
		return nil, model.ErrInvalidInput
	}
	return s.registry.Get(terminalID), nil
}

// Cart returns the session with its prices refreshed.
func (s *Service) Cart(ctx context.Context, terminalID string) (*Session, error) {
	sess, err := s.session(ctx, terminalID)
	if err != nil {
		return nil, err
	}
	if err := s.refresh(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Select re-reads the product before adding it so the stock check is not
// made against a stale copy. ErrOutOfStock is returned with the session.
func (s *Service) Select(ctx context.Context, terminalID, productID string) (*Session, error) {
	sess, err := s.session(ctx, terminalID)
	if err != nil {
		return nil, err
	}
	p, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return sess, sess.Select(*p)
}

func (s *Service) SetQuantity(ctx context.Context, terminalID, productID string, n int) (*Session, error) {
	sess, err := s.session(ctx, terminalID)
	if err != nil {
		return nil, err
	}
	sess.SetQuantity(productID, n)
	return sess, s.refresh(ctx, sess)
}

func (s *Service) Remove(ctx context.Context, terminalID, productID string) (*Session, error) {
	sess, err := s.session(ctx, terminalID)
	if err != nil {
		return nil, err
	}
	sess.Remove(productID)
	return sess, nil
}

func (s *Service) SetAmountPaid(ctx context.Context, terminalID, amount string) (*Session, error) {
	sess, err := s.session(ctx, terminalID)
	if err != nil {
		return nil, err
	}
	sess.SetAmountPaid(strings.TrimSpace(amount))
	return sess, nil
}

// Checkout prices the cart at current sell prices and records it.
func (s *Service) Checkout(ctx context.Context, terminalID string) (*dto.CheckoutResult, error) {
	sess, err := s.session(ctx, terminalID)
	if err != nil {
		return nil, err
	}
	if err := s.refresh(ctx, sess); err != nil {
		return nil, err
	}

	res, err := sess.Checkout(ctx, s.ledger)
	if err != nil {
		s.logger.Warn("checkout rejected", zap.String("terminal_id", sess.TerminalID()), zap.Error(err))
		return nil, err
	}
	s.logger.Info("checkout completed",
		zap.String("terminal_id", sess.TerminalID()),
		zap.Int("lines", len(res.Sold)),
		zap.String("total", res.Total.String()),
	)
	return res, nil
}

// refresh reloads the cart's products in one lookup. Deleted products drop
// out of the known list.
func (s *Service) refresh(ctx context.Context, sess *Session) error {
	known, err := s.products.GetProducts(ctx, sess.ProductIDs())
	if err != nil {
		return err
	}
	sess.Refresh(known)
	return nil
}
