package entity

import "strings"

// Usos de ubicación.
const (
	LocationUsageInternal = "internal" // ubicación física dentro de una bodega
	LocationUsageSupplier = "supplier"
	LocationUsageCustomer = "customer"
	LocationUsageView     = "view" // agrupadora, sin stock propio
)

// Location representa una ubicación de stock dentro de una bodega.
// ParentPath es la ruta materializada de ancestros ("id1/id2/.../" incluyendo
// el propio ID al final) y permite chequear descendencia sin recorrer el árbol.
type Location struct {
	ID          string
	CompanyID   string
	WarehouseID string
	Name        string
	Usage       string // ver LocationUsage*
	ParentPath  string
}

// IsDescendantOf indica si la ubicación es la misma que other o desciende de ella.
func (l *Location) IsDescendantOf(other *Location) bool {
	if l == nil || other == nil {
		return false
	}
	if l.ID == other.ID {
		return true
	}
	if l.ParentPath == "" || other.ParentPath == "" {
		return false
	}
	return strings.HasPrefix(l.ParentPath, other.ParentPath)
}
