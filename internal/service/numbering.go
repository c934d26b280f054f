package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/repository"
	apperrors "github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/pkg/util/errorutil"
)

const (
	ticketNumberDateLayout = "20060102"
	maxDailyTicketSequence = 9999
)

// TicketNumberGenerator mints YYYYMMDD-NNNN numbers, restarting the
// sequence every UTC day. Uniqueness under concurrency is enforced by the
// store; callers retry on a duplicate.
type TicketNumberGenerator struct {
	tickets repository.TicketRepository
	now     func() time.Time
}

// NewTicketNumberGenerator builds a generator. A nil clock uses time.Now.
func NewTicketNumberGenerator(tickets repository.TicketRepository, now func() time.Time) *TicketNumberGenerator {
	if now == nil {
		now = time.Now
	}
	return &TicketNumberGenerator{tickets: tickets, now: now}
}

// Next returns the number following the highest one issued today. The
// sequence stops at 9999; beyond that Next returns a conflict.
func (g *TicketNumberGenerator) Next(ctx context.Context) (string, error) {
	prefix := g.now().UTC().Format(ticketNumberDateLayout) + "-"
	last, err := g.tickets.LastNumberWithPrefix(ctx, prefix)
	if err != nil {
		return "", err
	}

	seq := 1
	if last != "" {
		n, err := strconv.Atoi(strings.TrimPrefix(last, prefix))
		if err != nil {
			return "", apperrors.NewInfrastructureError("ticket numbering", fmt.Errorf("parse ticket number %q: %w", last, err))
		}
		seq = n + 1
	}
	if seq > maxDailyTicketSequence {
		return "", apperrors.NewConflict("daily ticket numbers exhausted", map[string]any{"prefix": strings.TrimSuffix(prefix, "-")})
	}
	return fmt.Sprintf("%s%04d", prefix, seq), nil
}
