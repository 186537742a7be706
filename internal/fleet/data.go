package fleet

import (
	"time"

	"movemate-admin/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func item(id, name string, qty int, weight, dims string, fragile bool) model.OrderItem {
	return model.OrderItem{ID: id, Name: name, Quantity: qty, Weight: weight, Dimensions: dims, Fragile: fragile}
}

// DefaultOrders is the demo order book.
func DefaultOrders() []model.Order {
	return []model.Order{
		{
			ID: "1001", Date: day(2025, time.April, 28), Customer: "John Smith",
			Pickup: "123 Main St, New York, NY", Delivery: "456 Broad St, New York, NY",
			Status: model.OrderStatusCompleted, AmountCents: 5999, Driver: "Robert Johnson",
			Items:          []model.OrderItem{item("item-001", "Small Package", 1, "5 lbs", `12" x 8" x 6"`, false)},
			Notes:          "Leave at the front door if no one answers",
			TrackingNumber: "MM-1001-NY", PaymentMethod: "Credit Card", ContactPhone: "(212) 555-1234",
		},
		{
			ID: "1002", Date: day(2025, time.April, 27), Customer: "Lisa Johnson",
			Pickup: "789 Park Ave, New York, NY", Delivery: "101 Broadway, New York, NY",
			Status: model.OrderStatusInProgress, AmountCents: 12999, Driver: "Alice Smith",
			Items: []model.OrderItem{
				item("item-002", "Large Package", 1, "15 lbs", `24" x 18" x 12"`, true),
				item("item-003", "Document Envelope", 1, "0.5 lbs", `9" x 12" x 0.5"`, false),
			},
			Notes:          "Call customer before delivery",
			TrackingNumber: "MM-1002-NY", PaymentMethod: "PayPal", ContactPhone: "(212) 555-5678",
		},
		{
			ID: "1003", Date: day(2025, time.April, 27), Customer: "Michael Brown",
			Pickup: "202 5th Ave, New York, NY", Delivery: "303 Madison Ave, New York, NY",
			Status: model.OrderStatusScheduled, AmountCents: 8950, Driver: "John Doe",
			Items:          []model.OrderItem{item("item-004", "Medium Package", 2, "8 lbs each", `18" x 12" x 10"`, false)},
			Notes:          "Business delivery, reception closes at 6 PM",
			TrackingNumber: "MM-1003-NY", PaymentMethod: "Corporate Account", ContactPhone: "(212) 555-9012",
		},
		{
			ID: "1004", Date: day(2025, time.April, 26), Customer: "Emma Davis",
			Pickup: "404 Lexington Ave, New York, NY", Delivery: "505 3rd Ave, New York, NY",
			Status: model.OrderStatusCompleted, AmountCents: 7525, Driver: "Lisa Adams",
			Items:          []model.OrderItem{item("item-005", "Fragile Package", 1, "3 lbs", `10" x 10" x 10"`, true)},
			Notes:          "Handle with care, contains glass items",
			TrackingNumber: "MM-1004-NY", PaymentMethod: "Credit Card", ContactPhone: "(212) 555-3456",
		},
		{
			ID: "1005", Date: day(2025, time.April, 25), Customer: "David Wilson",
			Pickup: "606 7th Ave, New York, NY", Delivery: "707 8th Ave, New York, NY",
			Status: model.OrderStatusCancelled,
			Items:  []model.OrderItem{item("item-006", "Small Package", 1, "2 lbs", `8" x 6" x 4"`, false)},
			Notes:  "Customer cancelled due to change of plans",
			TrackingNumber: "MM-1005-NY", ContactPhone: "(212) 555-7890",
		},
		{
			ID: "1006", Date: day(2025, time.April, 25), Customer: "Sarah Martinez",
			Pickup: "808 9th Ave, New York, NY", Delivery: "909 10th Ave, New York, NY",
			Status: model.OrderStatusInProgress, AmountCents: 14999, Driver: "Robert Johnson",
			Items:          []model.OrderItem{item("item-007", "Large Package", 1, "20 lbs", `30" x 20" x 15"`, false)},
			Notes:          "Signature required upon delivery",
			TrackingNumber: "MM-1006-NY", PaymentMethod: "Credit Card", ContactPhone: "(212) 555-2345",
		},
		{
			ID: "1007", Date: day(2025, time.April, 24), Customer: "Daniel Lee",
			Pickup: "111 42nd St, New York, NY", Delivery: "222 34th St, New York, NY",
			Status: model.OrderStatusCompleted, AmountCents: 9575, Driver: "John Doe",
			Items:          []model.OrderItem{item("item-008", "Document Package", 1, "1 lb", `15" x 12" x 1"`, false)},
			Notes:          "Deliver to legal department, 15th floor",
			TrackingNumber: "MM-1007-NY", PaymentMethod: "Corporate Account", ContactPhone: "(212) 555-6789",
		},
	}
}

// DefaultDrivers is the demo driver roster.
func DefaultDrivers() []model.Driver {
	return []model.Driver{
		{
			ID: "1001", Name: "John Doe", Email: "john.doe@example.com", Phone: "+1 (555) 123-4567",
			Location: "New York, NY", Rating: 4.9, CompletedDeliveries: 342, Status: model.DriverStatusActive,
			Vehicles: []string{"Small Truck", "Van"}, JoinDate: day(2024, time.January, 15), Available: true,
		},
		{
			ID: "1002", Name: "Alice Smith", Email: "alice.smith@example.com", Phone: "+1 (555) 234-5678",
			Location: "Brooklyn, NY", Rating: 4.8, CompletedDeliveries: 186, Status: model.DriverStatusActive,
			Vehicles: []string{"Van"}, JoinDate: day(2024, time.March, 8), Available: true,
		},
		{
			ID: "1003", Name: "Robert Johnson", Email: "robert.johnson@example.com", Phone: "+1 (555) 345-6789",
			Location: "Queens, NY", Rating: 4.7, CompletedDeliveries: 215, Status: model.DriverStatusActive,
			Vehicles: []string{"Large Truck", "Small Truck"}, JoinDate: day(2024, time.February, 22),
		},
		{
			ID: "1004", Name: "Lisa Adams", Email: "lisa.adams@example.com", Phone: "+1 (555) 456-7890",
			Location: "Manhattan, NY", Rating: 4.9, CompletedDeliveries: 298, Status: model.DriverStatusOnLeave,
			Vehicles: []string{"Van"}, JoinDate: day(2023, time.December, 5),
		},
		{
			ID: "1005", Name: "David Wilson", Email: "david.wilson@example.com", Phone: "+1 (555) 567-8901",
			Location: "Bronx, NY", Rating: 4.5, CompletedDeliveries: 127, Status: model.DriverStatusActive,
			Vehicles: []string{"Small Truck"}, JoinDate: day(2024, time.April, 18), Available: true,
		},
		{
			ID: "1006", Name: "Sarah Martinez", Email: "sarah.martinez@example.com", Phone: "+1 (555) 678-9012",
			Location: "Staten Island, NY", Rating: 4.6, CompletedDeliveries: 159, Status: model.DriverStatusInactive,
			Vehicles: []string{"Van", "Small Truck"}, JoinDate: day(2023, time.November, 30),
		},
	}
}
