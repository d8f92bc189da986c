package models

// Alert levels, in display priority order.
const (
	AlertCritical  = "critical"
	AlertImportant = "important"
	AlertInfo      = "info"
)

// Alert flags a shipment needing attention on the operations dashboard.
type Alert struct {
	Level         string `json:"level"`
	Title         string `json:"title"`
	Message       string `json:"message"`
	ShipmentID    int64  `json:"shipment_id"`
	ContainerCode string `json:"container_code"`
	URL           string `json:"url"`
}
