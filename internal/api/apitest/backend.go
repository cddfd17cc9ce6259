// Package apitest runs an in-process stand-in for the rental backend so the API client
// and fixtures can be tested without the real service.
package apitest

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/carrental-io/carrental-qa/internal/api"
)

const (
	Issuer    = "CarRentalAPI"
	Audience  = "CarRentalClient"
	SecretKey = "test-signing-key-that-is-long-enough"
)

type user struct {
	id       string
	username string
	email    string
	password string
	role     string
}

// Backend is a running stub. Field changes take effect on the next request.
type Backend struct {
	*httptest.Server

	mu       sync.Mutex
	users    map[string]user
	vehicles []api.Vehicle

	// RequireAuth makes the vehicle list endpoints answer 401 without a token.
	RequireAuth atomic.Bool
	// Delay is added before every response.
	Delay atomic.Int64

	requests atomic.Int64
	lastAuth atomic.Value
}

// NewBackend starts a stub seeded with the three default accounts and a small fleet.
// It is closed when the test ends.
func NewBackend(t testing.TB) *Backend {
	t.Helper()
	gin.SetMode(gin.TestMode)

	b := &Backend{
		users:    map[string]user{},
		vehicles: SeedVehicles(),
	}
	b.lastAuth.Store("")
	for _, u := range []user{
		{username: "admin", email: "admin@carrental.com", password: "Admin@123", role: "Admin"},
		{username: "employee", email: "employee@carrental.com", password: "Employee@123", role: "Employee"},
		{username: "customer", email: "customer@carrental.com", password: "Customer@123", role: "Customer"},
	} {
		u.id = uuid.NewString()
		b.users[u.username] = u
	}

	router := gin.New()
	router.Use(b.track)
	auth := router.Group("/api/auth")
	auth.POST("/login", b.login)
	auth.POST("/register", b.register)

	vehicles := router.Group("/api/vehicles")
	vehicles.GET("", b.listVehicles)
	vehicles.GET("/:id", b.vehicleByID)
	vehicles.GET("/:id/:sub", b.vehicleSub)

	b.Server = httptest.NewServer(router)
	t.Cleanup(b.Close)
	return b
}

// SeedVehicles is the fleet every stub starts with.
func SeedVehicles() []api.Vehicle {
	return []api.Vehicle{
		{ID: 1, Brand: "Toyota", Model: "Corolla", RegistrationNumber: "AB-123-CD", Year: 2022, CategoryID: 1, DailyRate: 45, Status: api.VehicleAvailable, Mileage: 15000, FuelType: "Petrol", SeatingCapacity: 5},
		{ID: 2, Brand: "BMW", Model: "X5", RegistrationNumber: "EF-456-GH", Year: 2023, CategoryID: 2, DailyRate: 120, Status: api.VehicleRented, Mileage: 8000, FuelType: "Diesel", SeatingCapacity: 5},
		{ID: 3, Brand: "Renault", Model: "Clio", RegistrationNumber: "IJ-789-KL", Year: 2021, CategoryID: 1, DailyRate: 35, Status: api.VehicleAvailable, Mileage: 30000, FuelType: "Petrol", SeatingCapacity: 5},
	}
}

// Requests returns how many requests the stub has served.
func (b *Backend) Requests() int64 { return b.requests.Load() }

// LastAuthorization returns the Authorization header of the latest request.
func (b *Backend) LastAuthorization() string { return b.lastAuth.Load().(string) }

func (b *Backend) track(c *gin.Context) {
	b.requests.Add(1)
	b.lastAuth.Store(c.GetHeader("Authorization"))
	if d := time.Duration(b.Delay.Load()); d > 0 {
		time.Sleep(d)
	}
	c.Next()
}

// IssueToken signs a token the way the backend does.
func IssueToken(id, username, email, role string) (string, error) {
	claims := jwt.MapClaims{
		"nameid":      id,
		"unique_name": email,
		"email":       email,
		"username":    username,
		"role":        role,
		"iss":         Issuer,
		"aud":         Audience,
		"exp":         time.Now().Add(time.Hour).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(SecretKey))
}

func (b *Backend) authResponse(c *gin.Context, u user) {
	token, err := IssueToken(u.id, u.username, u.email, u.role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, api.AuthResponse{Token: token, Username: u.username, Email: u.email, Role: u.role})
}

func (b *Backend) login(c *gin.Context) {
	var req api.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	b.mu.Lock()
	u, ok := b.users[req.Username]
	b.mu.Unlock()
	if !ok || req.Password == "" || u.password != req.Password {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid username or password"})
		return
	}
	b.authResponse(c, u)
}

func (b *Backend) register(c *gin.Context) {
	var req api.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	if req.Username == "" || req.Email == "" || len(req.Password) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "User creation failed",
			"errors":  []gin.H{{"code": "InvalidInput", "description": "Username, email and a password of at least 6 characters are required."}},
		})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, taken := b.users[req.Username]; taken {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Username already exists"})
		return
	}
	for _, u := range b.users {
		if strings.EqualFold(u.email, req.Email) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Email already exists"})
			return
		}
	}
	u := user{id: uuid.NewString(), username: req.Username, email: req.Email, password: req.Password, role: "Customer"}
	b.users[u.username] = u
	b.authResponse(c, u)
}

// bearer returns the claims of a valid bearer token, or nil.
func bearer(c *gin.Context) jwt.MapClaims {
	raw, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	if !ok {
		return nil
	}
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) { return []byte(SecretKey), nil },
		jwt.WithIssuer(Issuer), jwt.WithAudience(Audience), jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil
	}
	return claims
}

func (b *Backend) fleet() []api.Vehicle {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]api.Vehicle, len(b.vehicles))
	copy(out, b.vehicles)
	return out
}

func (b *Backend) guard(c *gin.Context) bool {
	if b.RequireAuth.Load() && bearer(c) == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return false
	}
	return true
}

func (b *Backend) listVehicles(c *gin.Context) {
	if !b.guard(c) {
		return
	}
	search := strings.ToLower(c.Query("search"))
	out := []api.Vehicle{}
	for _, v := range b.fleet() {
		if search == "" || strings.Contains(strings.ToLower(v.Brand+" "+v.Model), search) {
			out = append(out, v)
		}
	}
	c.JSON(http.StatusOK, out)
}

func (b *Backend) filter(c *gin.Context, keep func(api.Vehicle) bool) {
	if !b.guard(c) {
		return
	}
	out := []api.Vehicle{}
	for _, v := range b.fleet() {
		if keep(v) {
			out = append(out, v)
		}
	}
	c.JSON(http.StatusOK, out)
}

func (b *Backend) find(c *gin.Context, raw string) (api.Vehicle, bool) {
	id, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid vehicle id"})
		return api.Vehicle{}, false
	}
	for _, v := range b.fleet() {
		if v.ID == id {
			return v, true
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"message": "Vehicle not found"})
	return api.Vehicle{}, false
}

func (b *Backend) vehicleByID(c *gin.Context) {
	if c.Param("id") == "available" {
		b.filter(c, func(v api.Vehicle) bool { return v.Status == api.VehicleAvailable })
		return
	}
	if v, ok := b.find(c, c.Param("id")); ok {
		c.JSON(http.StatusOK, v)
	}
}

func (b *Backend) vehicleSub(c *gin.Context) {
	id, sub := c.Param("id"), c.Param("sub")
	switch {
	case id == "category":
		cat, _ := strconv.Atoi(sub)
		b.filter(c, func(v api.Vehicle) bool { return v.CategoryID == cat })
	case id == "status":
		b.filter(c, func(v api.Vehicle) bool { return strings.EqualFold(v.Status.String(), sub) })
	case sub == "history":
		claims := bearer(c)
		if claims == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		if role, _ := claims["role"].(string); role != "Admin" {
			c.JSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
			return
		}
		if v, ok := b.find(c, id); ok {
			c.JSON(http.StatusOK, api.VehicleHistory{Vehicle: v, Rentals: []api.RentalRecord{}, MaintenanceRecords: []api.MaintenanceRecord{}})
		}
	default:
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
	}
}
