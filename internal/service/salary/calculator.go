package salary

import (
	"fmt"

	"github.com/ktv-ledger/ktv-backend-go/internal/domain/ruleset"
	"github.com/ktv-ledger/ktv-backend-go/internal/domain/salary"
	"github.com/shopspring/decimal"
)

// ComputeBreakdown derives one day's salary, commission and profit figures.
// A day not worked yields an all-zero breakdown whatever clientCount says.
// A negative clientCount is rejected with salary.ErrInvalidInput.
func ComputeBreakdown(clientCount int, isWorking bool, rules ruleset.RuleSet) (salary.Breakdown, error) {
	if clientCount < 0 {
		return salary.Breakdown{}, fmt.Errorf("%w: client count must not be negative, got %d", salary.ErrInvalidInput, clientCount)
	}
	if !isWorking {
		return salary.ZeroBreakdown(), nil
	}

	clients := decimal.NewFromInt(int64(clientCount))

	base := rules.BaseSalaryNoClient
	if clientCount > 0 {
		base = rules.BaseSalaryWithClient
	}

	commission := decimal.Zero
	broker := decimal.Zero
	if clientCount > 0 {
		commission = commission.Add(rules.FirstClientBonus)
		broker = broker.Add(rules.BrokerFirstClient)
	}
	if clientCount > 1 {
		extra := decimal.NewFromInt(int64(clientCount - 1))
		commission = commission.Add(extra.Mul(rules.AdditionalClientBonus))
		broker = broker.Add(extra.Mul(rules.BrokerAdditionalClient))
	}

	total := base.Add(commission)
	revenue := clients.Mul(rules.ClientPayment)
	venue := clients.Mul(rules.VenueFee)

	return salary.Breakdown{
		BaseSalary:       base,
		Commission:       commission,
		TotalSalary:      total,
		BrokerCommission: broker,
		OwnerProfit:      revenue.Sub(venue).Sub(total).Sub(broker),
	}, nil
}
