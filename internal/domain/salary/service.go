package salary

import "context"

type Service interface {
	Preview(ctx context.Context, req PreviewRequest) (Breakdown, error)
	GetEmployeeSettlement(ctx context.Context, employeeID string) (Settlement, error)
	ListSettlements(ctx context.Context) (SettlementListResponse, error)
	UpdatePayoutDate(ctx context.Context, req UpdatePayoutDateRequest) (SettlementSummary, error)
}
