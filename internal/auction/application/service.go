package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mvallespi/cargobid/internal/auction/domain"
	"github.com/mvallespi/cargobid/internal/shared/logger"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// Config carries the engine tunables the use cases depend on.
type Config struct {
	MinAuctionDuration time.Duration
	MaxAuctionDuration time.Duration
	ReopenGraceWindow  time.Duration
	SweepBatchSize     int
	Policy             domain.ResolvePolicy
}

// AuctionService is the application interface of the auction engine.
// Every mutating operation returns the notification intents it produced;
// dispatching them is the caller's concern.
type AuctionService interface {
	CreateAuction(ctx context.Context, cmd CreateAuctionDTO) (*domain.Auction, []domain.NotificationIntent, error)
	PlaceBid(ctx context.Context, cmd PlaceBidDTO) (*domain.Bid, []domain.NotificationIntent, error)
	CancelBid(ctx context.Context, bidID, requesterID uuid.UUID) ([]domain.NotificationIntent, error)
	// Close resolves an Active auction. actorID nil means a system trigger
	// (the sweep); non-nil callers must be the consignor.
	Close(ctx context.Context, auctionID uuid.UUID, actorID *uuid.UUID) (*ClosureResult, error)
	CancelByConsignor(ctx context.Context, auctionID, requesterID uuid.UUID) ([]domain.NotificationIntent, error)
	CancelByWinner(ctx context.Context, auctionID, requesterID uuid.UUID) (*ReassignResult, error)
	Sweep(ctx context.Context) (*SweepResult, error)

	GetAuction(ctx context.Context, auctionID uuid.UUID) (*AuctionStateDTO, error)
	ListAuctions(ctx context.Context, status domain.AuctionStatus) ([]*domain.Auction, error)
	GetAuditLog(ctx context.Context, auctionID uuid.UUID) ([]*domain.AuditEntry, error)
}

type auctionService struct {
	createAuctionUC     *CreateAuctionUseCase
	placeBidUC          *PlaceBidUseCase
	cancelBidUC         *CancelBidUseCase
	closeAuctionUC      *CloseAuctionUseCase
	cancelByConsignorUC *CancelByConsignorUseCase
	cancelByWinnerUC    *CancelByWinnerUseCase
	sweepUC             *SweepUseCase
	getAuctionUC        *GetAuctionUseCase
}

// NewAuctionService wires every use case against the same store and clock.
func NewAuctionService(store domain.Store, clock domain.Clock, cfg Config) AuctionService {
	closeUC := NewCloseAuctionUseCase(store, clock, cfg.Policy)
	return &auctionService{
		createAuctionUC:     NewCreateAuctionUseCase(store, clock, cfg.MinAuctionDuration, cfg.MaxAuctionDuration),
		placeBidUC:          NewPlaceBidUseCase(store, clock),
		cancelBidUC:         NewCancelBidUseCase(store, clock),
		closeAuctionUC:      closeUC,
		cancelByConsignorUC: NewCancelByConsignorUseCase(store, clock),
		cancelByWinnerUC:    NewCancelByWinnerUseCase(store, clock, cfg.Policy, cfg.ReopenGraceWindow),
		sweepUC:             NewSweepUseCase(store, clock, closeUC, cfg.SweepBatchSize),
		getAuctionUC:        NewGetAuctionUseCase(store),
	}
}

func (s *auctionService) CreateAuction(ctx context.Context, cmd CreateAuctionDTO) (*domain.Auction, []domain.NotificationIntent, error) {
	return s.createAuctionUC.Execute(ctx, cmd)
}

func (s *auctionService) PlaceBid(ctx context.Context, cmd PlaceBidDTO) (*domain.Bid, []domain.NotificationIntent, error) {
	return s.placeBidUC.Execute(ctx, cmd)
}

func (s *auctionService) CancelBid(ctx context.Context, bidID, requesterID uuid.UUID) ([]domain.NotificationIntent, error) {
	return s.cancelBidUC.Execute(ctx, bidID, requesterID)
}

func (s *auctionService) Close(ctx context.Context, auctionID uuid.UUID, actorID *uuid.UUID) (*ClosureResult, error) {
	return s.closeAuctionUC.Execute(ctx, auctionID, actorID)
}

func (s *auctionService) CancelByConsignor(ctx context.Context, auctionID, requesterID uuid.UUID) ([]domain.NotificationIntent, error) {
	return s.cancelByConsignorUC.Execute(ctx, auctionID, requesterID)
}

func (s *auctionService) CancelByWinner(ctx context.Context, auctionID, requesterID uuid.UUID) (*ReassignResult, error) {
	return s.cancelByWinnerUC.Execute(ctx, auctionID, requesterID)
}

func (s *auctionService) Sweep(ctx context.Context) (*SweepResult, error) {
	return s.sweepUC.Execute(ctx)
}

func (s *auctionService) GetAuction(ctx context.Context, auctionID uuid.UUID) (*AuctionStateDTO, error) {
	return s.getAuctionUC.Execute(ctx, auctionID)
}

func (s *auctionService) ListAuctions(ctx context.Context, status domain.AuctionStatus) ([]*domain.Auction, error) {
	return s.getAuctionUC.List(ctx, status)
}

func (s *auctionService) GetAuditLog(ctx context.Context, auctionID uuid.UUID) ([]*domain.AuditEntry, error) {
	return s.getAuctionUC.AuditLog(ctx, auctionID)
}

// runTx wraps fn in a transaction: rollback on error or panic, commit
// otherwise. Every mutating use case funnels through here so the
// commit/rollback choreography lives in one place.
func runTx(ctx context.Context, store domain.Store, fn func(tx domain.Tx) error) (err error) {
	tx, err := store.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error("Recovered from panic during transaction", zap.Any("panic", r))
			_ = tx.Rollback(ctx)
			panic(r)
		}
	}()

	if err = fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	if commitErr := tx.Commit(ctx); commitErr != nil {
		return fmt.Errorf("failed to commit transaction: %w", commitErr)
	}
	return nil
}
