package model

// Allowed status transitions per entity, as explicit allow-lists. Terminal
// states simply have no outgoing edges. Services consult these before any
// status write; an absent edge is a conflict error, not a silent no-op.

var saleTransitions = map[string][]string{
	SaleCompleted: {SaleVoided, SaleRefunded},
}

var purchaseTransitions = map[string][]string{
	PurchasePending: {PurchaseReceived, PurchaseCancelled},
}

var repairTransitions = map[string][]string{
	RepairReceived:     {RepairDiagnosing, RepairCancelled},
	RepairDiagnosing:   {RepairWaitingParts, RepairRepairing, RepairCancelled},
	RepairWaitingParts: {RepairRepairing, RepairCancelled},
	RepairRepairing:    {RepairCompleted, RepairCancelled},
	RepairCompleted:    {RepairDelivered},
}

var tradeInTransitions = map[string][]string{
	TradeInPending:  {TradeInAccepted, TradeInRejected},
	TradeInAccepted: {TradeInResold},
}

var warrantyTransitions = map[string][]string{
	WarrantyActive: {WarrantyClaimed, WarrantyVoided},
}

var installmentTransitions = map[string][]string{
	InstallmentActive: {InstallmentCompleted, InstallmentDefaulted},
}

func allowed(table map[string][]string, from, to string) bool {
	for _, next := range table[from] {
		if next == to {
			return true
		}
	}
	return false
}

func SaleCanTransition(from, to string) bool     { return allowed(saleTransitions, from, to) }
func PurchaseCanTransition(from, to string) bool { return allowed(purchaseTransitions, from, to) }
func RepairCanTransition(from, to string) bool   { return allowed(repairTransitions, from, to) }
func TradeInCanTransition(from, to string) bool  { return allowed(tradeInTransitions, from, to) }
func WarrantyCanTransition(from, to string) bool { return allowed(warrantyTransitions, from, to) }
func InstallmentCanTransition(from, to string) bool {
	return allowed(installmentTransitions, from, to)
}
