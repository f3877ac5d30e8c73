package compensation

import "github.com/shopspring/decimal"

const (
	RoleTypeProduction = "production"
	RoleTypeBonus      = "bonus"
)

// Input is one employee-month: contract type, base salary, gross production
// (non-gratification entries) and the gratification total.
type Input struct {
	RoleType        string
	BaseSalary      decimal.Decimal
	GrossProduction decimal.Decimal
	BonusTotal      decimal.Decimal
}

type Result struct {
	GrossProduction decimal.Decimal
	NetProduction   decimal.Decimal
	AmountToPay     decimal.Decimal
}

// Compute applies the contract rules. Under a production contract the base
// salary is a floor: production replaces it once it exceeds the floor, and
// net production is the excess. Under a bonus contract the base salary is
// always paid and production is purely additive. Gratifications are additive
// under both contracts.
func Compute(in Input) Result {
	out := Result{GrossProduction: in.GrossProduction}

	switch in.RoleType {
	case RoleTypeProduction:
		net := in.GrossProduction.Sub(in.BaseSalary)
		if net.IsNegative() {
			net = decimal.Zero
		}
		out.NetProduction = net

		pay := in.BaseSalary
		if in.GrossProduction.GreaterThan(pay) {
			pay = in.GrossProduction
		}
		out.AmountToPay = pay.Add(in.BonusTotal)
	default:
		out.NetProduction = in.GrossProduction
		out.AmountToPay = in.BaseSalary.Add(in.GrossProduction).Add(in.BonusTotal)
	}

	return out
}
