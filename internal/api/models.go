package api

import (
	"encoding/json"
	"fmt"
	"strings"
)

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Role      string `json:"role,omitempty"`
}

// AuthResponse is returned by a successful login or registration.
type AuthResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// MessageResponse is the error body of the auth endpoints. Errors carries identity
// validation failures on registration.
type MessageResponse struct {
	Message string `json:"message"`
	Errors  []struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"errors,omitempty"`
}

// VehicleStatus mirrors the backend enum.
type VehicleStatus int

const (
	VehicleAvailable VehicleStatus = iota
	VehicleReserved
	VehicleRented
	VehicleMaintenance
	VehicleRetired
)

var vehicleStatusNames = map[VehicleStatus]string{
	VehicleAvailable:   "Available",
	VehicleReserved:    "Reserved",
	VehicleRented:      "Rented",
	VehicleMaintenance: "Maintenance",
	VehicleRetired:     "Retired",
}

func (s VehicleStatus) String() string {
	if name, ok := vehicleStatusNames[s]; ok {
		return name
	}
	return "Unknown"
}

// UnmarshalJSON accepts the numeric enum value or its name.
func (s *VehicleStatus) UnmarshalJSON(b []byte) error {
	var n int
	if err := json.Unmarshal(b, &n); err == nil {
		*s = VehicleStatus(n)
		return nil
	}
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return fmt.Errorf("vehicle status: %w", err)
	}
	for k, v := range vehicleStatusNames {
		if strings.EqualFold(v, name) {
			*s = k
			return nil
		}
	}
	return fmt.Errorf("vehicle status: unknown value %q", name)
}

// Vehicle is one catalogue entry.
type Vehicle struct {
	ID                 int           `json:"id"`
	Brand              string        `json:"brand"`
	Model              string        `json:"model"`
	RegistrationNumber string        `json:"registrationNumber"`
	Year               int           `json:"year"`
	CategoryID         int           `json:"categoryId"`
	CategoryName       string        `json:"categoryName,omitempty"`
	DailyRate          float64       `json:"dailyRate"`
	Status             VehicleStatus `json:"status"`
	ImageURL           string        `json:"imageUrl,omitempty"`
	Mileage            int           `json:"mileage"`
	FuelType           string        `json:"fuelType,omitempty"`
	SeatingCapacity    int           `json:"seatingCapacity"`
}

// VehicleHistory is the admin view of a vehicle's rentals and maintenance.
type VehicleHistory struct {
	Vehicle            Vehicle             `json:"vehicle"`
	Rentals            []RentalRecord      `json:"rentals"`
	MaintenanceRecords []MaintenanceRecord `json:"maintenanceRecords"`
}

// Dates are kept as the backend sends them; they carry no UTC offset.
type RentalRecord struct {
	ID               int     `json:"id"`
	StartDate        string  `json:"startDate"`
	EndDate          string  `json:"endDate"`
	ActualReturnDate string  `json:"actualReturnDate,omitempty"`
	TotalCost        float64 `json:"totalCost"`
	Status           int     `json:"status"`
}

type MaintenanceRecord struct {
	ID            int     `json:"id"`
	ScheduledDate string  `json:"scheduledDate"`
	CompletedDate string  `json:"completedDate,omitempty"`
	Description   string  `json:"description"`
	Cost          float64 `json:"cost"`
}
