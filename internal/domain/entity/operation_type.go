package entity

// Códigos de tipo de operación de stock.
const (
	OperationCodeIncoming = "incoming" // recepción
	OperationCodeInternal = "internal" // transferencia interna
	OperationCodeOutgoing = "outgoing" // despacho
)

// OperationType representa un tipo de operación de stock de una bodega
// (el "picking type": recepción, transferencia interna o despacho).
type OperationType struct {
	ID                    string
	CompanyID             string
	WarehouseID           string
	Name                  string
	Code                  string // ver OperationCode*
	DefaultDestLocationID string // ubicación destino por defecto de la operación
}
