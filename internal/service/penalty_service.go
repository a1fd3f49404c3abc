package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"revportal/internal/domain"
	"revportal/internal/port"
	"revportal/internal/taxcalc"
)

// PenaltyService defines the penalty accrual contract.
type PenaltyService interface {
	// AccruePenalties never fails; store faults are logged and reported as
	// warnings on the result so dashboard reads are never blocked.
	AccruePenalties(ctx context.Context, asOf domain.Date) *domain.AccrualResult
}

type penaltyService struct {
	configs      port.TaxConfigRepository
	installments port.InstallmentRepository
	log          *zap.Logger
}

// NewPenaltyService creates a new PenaltyService implementation.
func NewPenaltyService(configs port.TaxConfigRepository, installments port.InstallmentRepository, log *zap.Logger) PenaltyService {
	return &penaltyService{configs: configs, installments: installments, log: log}
}

func (s *penaltyService) AccruePenalties(ctx context.Context, asOf domain.Date) *domain.AccrualResult {
	res := &domain.AccrualResult{
		AsOf:              asOf,
		TotalPenaltyAdded: decimal.Zero,
		Warnings:          []string{},
	}
	log := s.log.With(zap.String("as_of", asOf.String()))

	res.PenaltyPercent = s.penaltyPercent(ctx, asOf, res, log)

	marked, err := s.installments.MarkDue(ctx, asOf)
	if err != nil {
		s.warn(res, log, "marking installments due", err)
	} else {
		res.MarkedDue = marked
	}

	due, err := s.installments.ListAccruable(ctx, asOf)
	if err != nil {
		s.warn(res, log, "listing unpaid installments", err)
		return res
	}
	res.Scanned = len(due)

	for i := range due {
		if ctx.Err() != nil {
			s.warn(res, log, "accrual interrupted", ctx.Err())
			break
		}

		inst := &due[i]
		if !inst.PaymentStatus.CanTransitionTo(domain.PaymentStatusOverdue) {
			continue
		}

		daysLate := taxcalc.DaysLate(inst.DueDate, asOf, inst.DaysLate)
		penalty := taxcalc.Penalty(inst.TotalQuarterlyTax, res.PenaltyPercent, taxcalc.MonthsLate(daysLate))
		if !penalty.GreaterThan(inst.PenaltyAmount) {
			continue
		}

		updated, err := s.installments.ApplyPenalty(ctx, domain.PenaltyUpdate{
			InstallmentID: inst.ID,
			PenaltyAmount: penalty,
			DaysLate:      daysLate,
		})
		if err != nil {
			s.warn(res, log, fmt.Sprintf("updating installment %d", inst.ID), err)
			continue
		}
		if !updated {
			continue
		}

		res.UpdatedRecords++
		res.TotalPenaltyAdded = res.TotalPenaltyAdded.Add(penalty.Sub(inst.PenaltyAmount))
	}

	log.Info("penalty accrual finished",
		zap.Int("scanned", res.Scanned),
		zap.Int("updated_records", res.UpdatedRecords),
		zap.String("total_penalty_added", res.TotalPenaltyAdded.StringFixed(2)),
		zap.Int64("marked_due", res.MarkedDue),
		zap.Int("warnings", len(res.Warnings)))
	return res
}

// penaltyPercent reads the latest active penalty config, falling back to the
// built-in rate.
func (s *penaltyService) penaltyPercent(ctx context.Context, asOf domain.Date, res *domain.AccrualResult, log *zap.Logger) decimal.Decimal {
	cfg, err := s.configs.LatestActive(ctx, domain.ConfigKindPenalty, asOf)
	if err == nil && cfg.Percent != nil {
		return *cfg.Percent
	}
	if err == nil || domain.IsNotFound(err) {
		log.Debug("no active penalty config, using default rate")
		return taxcalc.DefaultPenaltyPercent
	}
	s.warn(res, log, "loading penalty rate, using default", err)
	return taxcalc.DefaultPenaltyPercent
}

func (s *penaltyService) warn(res *domain.AccrualResult, log *zap.Logger, op string, err error) {
	log.Warn("penalty accrual: "+op, zap.Error(err))
	res.Warnings = append(res.Warnings, fmt.Sprintf("%s: %v", op, err))
}
