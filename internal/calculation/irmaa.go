package calculation

import (
	"github.com/rgehrsitz/wtp/internal/domain"
	"github.com/shopspring/decimal"
)

// ClassifySurcharge determines the IRMAA risk for a placement in a surcharge
// table: any tier above the first is a breach, and the first tier is a
// warning once MAGI is within warningDistance of the next threshold.
func ClassifySurcharge(p domain.Placement, warningDistance decimal.Decimal) domain.SurchargeStatus {
	switch {
	case !p.Found():
		return domain.SurchargeSafe
	case p.Index > 0:
		return domain.SurchargeBreach
	case !p.AtTop && p.RoomToNext.LessThanOrEqual(warningDistance):
		return domain.SurchargeWarning
	default:
		return domain.SurchargeSafe
	}
}

// ComputeHeadroom reports how much more could be withdrawn from traditional
// accounts before the next ordinary bracket or IRMAA tier. A traditional
// withdrawal raises ordinary income and MAGI dollar for dollar, so the unused
// part of the standard deduction adds to the bracket room.
func ComputeHeadroom(r domain.ScenarioResult) domain.Headroom {
	h := domain.Headroom{Binding: domain.BindingNone, Limit: decimal.Zero}

	if r.OrdinaryPlacement.AtTop || !r.OrdinaryPlacement.Found() {
		h.BracketUnbounded = true
	} else {
		unused := r.StandardDeduction.Sub(r.OrdinaryIncome)
		if unused.IsNegative() {
			unused = decimal.Zero
		}
		h.OrdinaryBracket = r.OrdinaryPlacement.RoomToNext.Add(unused)
	}

	if r.SurchargePlacement.AtTop || !r.SurchargePlacement.Found() {
		h.SurchargeUnbounded = true
	} else {
		h.Surcharge = r.SurchargePlacement.RoomToNext
	}

	switch {
	case h.BracketUnbounded && h.SurchargeUnbounded:
	case h.SurchargeUnbounded:
		h.Limit, h.Binding = h.OrdinaryBracket, domain.BindingOrdinary
	case h.BracketUnbounded:
		h.Limit, h.Binding = h.Surcharge, domain.BindingSurcharge
	case h.Surcharge.LessThan(h.OrdinaryBracket):
		h.Limit, h.Binding = h.Surcharge, domain.BindingSurcharge
	default:
		h.Limit, h.Binding = h.OrdinaryBracket, domain.BindingOrdinary
	}
	return h
}
