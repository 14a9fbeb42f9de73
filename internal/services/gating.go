package services

import (
	"context"
	"ditoolz-coins/internal/domain/dto"
	"ditoolz-coins/internal/metrics"
	"fmt"
	"github.com/google/uuid"
	"log/slog"
	"strings"
)

// PurchaseRedirect is where a denied caller is sent to top up.
const PurchaseRedirect = "/purchase-coins"

// ToolGate is the per-tool-call integration point between pages and the
// ledger. It never carries its own cost table; cost truth lives solely in the
// catalog consulted by SpendForTool.
type ToolGate struct {
	log   *slog.Logger
	coins ToolSpender
}

type ToolSpender interface {
	SpendForTool(ctx context.Context, userID uuid.UUID, toolID string) (dto.MutationResult, error)
}

func NewToolGate(log *slog.Logger, coins ToolSpender) *ToolGate {
	return &ToolGate{
		log:   log,
		coins: coins,
	}
}

// AuthorizeAction gates an explicit user action ("Generate" click).
func (g *ToolGate) AuthorizeAction(ctx context.Context, userID uuid.UUID, toolPath string) (dto.GateDecision, error) {
	return g.authorize(ctx, userID, toolPath, "action")
}

// AuthorizeAccess gates page-level entry to a tool route, fired on load
// rather than on a click.
func (g *ToolGate) AuthorizeAccess(ctx context.Context, userID uuid.UUID, toolPath string) (dto.GateDecision, error) {
	return g.authorize(ctx, userID, toolPath, "access")
}

func (g *ToolGate) authorize(ctx context.Context, userID uuid.UUID, toolPath, kind string) (dto.GateDecision, error) {
	const op = "services.ToolGate.authorize"

	toolID := strings.TrimPrefix(strings.TrimSpace(toolPath), "/")

	log := g.log.With(
		slog.String("op", op),
		slog.String("user_id", userID.String()),
		slog.String("tool", toolID),
		slog.String("kind", kind),
	)

	result, err := g.coins.SpendForTool(ctx, userID, toolID)
	if err != nil {
		return dto.GateDecision{}, fmt.Errorf("%s: %w", op, err)
	}

	if !result.Allowed {
		metrics.GateDenied.WithLabelValues(toolID).Inc()

		decision := dto.GateDecision{
			Reason:  result.Reason,
			Balance: result.Balance,
		}
		if result.Reason == dto.ReasonInsufficientBalance {
			decision.RedirectTo = PurchaseRedirect
		}

		log.Info("tool denied", slog.String("reason", result.Reason))

		return decision, nil
	}

	return dto.GateDecision{
		Allowed: true,
		Reason:  result.Reason,
		Balance: result.Balance,
	}, nil
}
