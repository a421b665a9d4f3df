package storeclient

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tailorflow/internal/domain/entity"
)

// Credenciales del usuario demo del modo de respaldo.
const (
	DemoEmail    = "demo@tailor.com"
	DemoPassword = "demo"
)

// Dataset datos que posee un FallbackStore. Cada store recibe el suyo.
type Dataset struct {
	Users     []entity.User // Password se compara por igualdad
	Orders    []entity.Order
	Customers []entity.Customer
}

// DemoDataset usuario demo, dos clientes y dos órdenes, con fechas relativas a now.
func DemoDataset(now time.Time) *Dataset {
	day := func(offset int) string { return entity.FormatDate(now.AddDate(0, 0, offset)) }

	shirt := []entity.Measurement{
		{Label: "Neck", Value: entity.Number(15.5), Unit: entity.UnitInches},
		{Label: "Chest", Value: entity.Number(40), Unit: entity.UnitInches},
		{Label: "Shoulder", Value: entity.Number(18), Unit: entity.UnitInches},
		{Label: "Sleeve", Value: entity.Number(25), Unit: entity.UnitInches},
		{Label: "Length", Value: entity.Number(30), Unit: entity.UnitInches},
	}
	blouse := []entity.Measurement{
		{Label: "Length", Value: entity.Number(15), Unit: entity.UnitInches},
		{Label: "Chest", Value: entity.Number(34), Unit: entity.UnitInches},
		{Label: "Waist", Value: entity.Number(28), Unit: entity.UnitInches},
	}

	return &Dataset{
		Users: []entity.User{{
			ID:       "demo1",
			Name:     "Demo User",
			Email:    DemoEmail,
			Password: DemoPassword,
			Role:     entity.RoleAdmin,
		}},
		Customers: []entity.Customer{
			{
				ID:                "c1",
				Name:              "Rahul Sharma",
				Phone:             "9876543210",
				Email:             "rahul@example.com",
				SavedMeasurements: map[string][]entity.Measurement{string(entity.GarmentShirt): shirt},
				TotalOrders:       1,
				LastVisit:         day(-3),
			},
			{
				ID:                "c2",
				Name:              "Priya Patel",
				Phone:             "9123456780",
				SavedMeasurements: map[string][]entity.Measurement{string(entity.GarmentBlouse): blouse},
				TotalOrders:       1,
				LastVisit:         day(-7),
			},
		},
		Orders: []entity.Order{
			{
				ID:           "o1",
				CustomerID:   "c1",
				CustomerName: "Rahul Sharma",
				GarmentType:  entity.GarmentShirt,
				Description:  "White cotton formal shirt, french cuffs",
				Measurements: entity.CloneMeasurements(shirt),
				Status:       entity.StatusStitching,
				OrderDate:    day(-3),
				DueDate:      day(4),
				Price:        decimal.NewFromInt(1500),
				Advance:      decimal.NewFromInt(500),
			},
			{
				ID:           "o2",
				CustomerID:   "c2",
				CustomerName: "Priya Patel",
				GarmentType:  entity.GarmentBlouse,
				Description:  "Silk blouse with embroidered sleeves",
				Measurements: entity.CloneMeasurements(blouse),
				Status:       entity.StatusTrialReady,
				OrderDate:    day(-7),
				DueDate:      day(1),
				Price:        decimal.NewFromInt(2500),
				Advance:      decimal.NewFromInt(1000),
				IsUrgent:     true,
			},
		},
	}
}
