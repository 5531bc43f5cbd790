package domain

import "time"

// ContractStatus represents the lifecycle state of a service contract.
type ContractStatus string

const (
	ContractPending ContractStatus = "pending"
	ContractActive  ContractStatus = "active"
	ContractDebt    ContractStatus = "debt"
)

// ServiceType identifies the subscribed service bundle.
type ServiceType string

const (
	ServiceInternet   ServiceType = "internet"
	ServiceInternetTV ServiceType = "internet_tv"
)

// Monthly rates in UAH per service type.
const (
	RateInternet   = 300.0
	RateInternetTV = 450.0
)

// MonthlyRate returns the monthly charge for a service type. Unknown types
// are billed at the bundle rate, matching the original tariff fallback.
func MonthlyRate(st ServiceType) float64 {
	if st == ServiceInternet {
		return RateInternet
	}
	return RateInternetTV
}

// ValidServiceType reports whether st is a known service type.
func ValidServiceType(st ServiceType) bool {
	return st == ServiceInternet || st == ServiceInternetTV
}

// Contract records a client's subscribed service. The name/phone/email fields
// are a denormalized copy of the client's submitted info at creation time and
// are independently editable afterwards.
type Contract struct {
	ID          string         `json:"id"`
	ClientID    string         `json:"client_id"`
	FullName    string         `json:"full_name"`
	Phone       string         `json:"phone"`
	Email       string         `json:"email"`
	Address     string         `json:"address"`
	ServiceType ServiceType    `json:"service_type"`
	EquipmentID string         `json:"equipment_id"`
	Status      ContractStatus `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
}
