package inventory

import "github.com/jhoicas/Equipos-api/internal/domain/entity"

// Effect devuelve el efecto con signo de un movimiento sobre la cantidad del producto:
// In suma la cantidad, Out la resta.
func Effect(movementType string, quantity int) int {
	if movementType == entity.MovementTypeOut {
		return -quantity
	}
	return quantity
}

// Reversal devuelve el efecto que anula un movimiento ya aplicado.
func Reversal(movementType string, quantity int) int {
	return -Effect(movementType, quantity)
}

// UpdateDelta calcula el ajuste a aplicar cuando un movimiento cambia de (oldType, oldQty)
// a (newType, newQty): se revierte el viejo y se aplica el nuevo.
func UpdateDelta(oldType string, oldQty int, newType string, newQty int) int {
	return Reversal(oldType, oldQty) + Effect(newType, newQty)
}

// StatusForQuantity deriva el estado del producto tras un movimiento.
// No hay piso en cero: una cantidad negativa también queda como Depleted.
func StatusForQuantity(quantity int) string {
	if quantity > 0 {
		return entity.StatusInStock
	}
	return entity.StatusDepleted
}

// NetReversals agrupa por producto las reversiones de un lote de movimientos.
// La suma es conmutativa, por lo que el orden del lote no afecta el resultado.
func NetReversals(movements []entity.Movement) map[string]int {
	net := make(map[string]int, len(movements))
	for _, m := range movements {
		net[m.ProductID] += Reversal(m.Type, m.Quantity)
	}
	return net
}

// LedgerBalance suma los efectos de todos los movimientos por producto.
func LedgerBalance(movements []entity.Movement) map[string]int {
	balance := make(map[string]int)
	for _, m := range movements {
		balance[m.ProductID] += Effect(m.Type, m.Quantity)
	}
	return balance
}
