package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"staywise/pkg/model"
)

// Seeds the database with demo accounts, a small catalog, and a handful of
// bookings in each lifecycle state. Destructive: existing data is wiped first.
func main() {
	_ = godotenv.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}
	dbName := os.Getenv("MONGO_DATABASE_NAME")
	if dbName == "" {
		dbName = "staywise"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("❌ Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)
	fmt.Println("✅ Connected to MongoDB")

	db := client.Database(dbName)
	users := db.Collection("Users")
	properties := db.Collection("Properties")
	bookings := db.Collection("Bookings")

	for _, coll := range []*mongo.Collection{users, properties, bookings} {
		if _, err := coll.DeleteMany(ctx, bson.M{}); err != nil {
			log.Fatalf("❌ Failed to clear %s: %v", coll.Name(), err)
		}
	}
	fmt.Println("🧹 Cleared existing data")

	adminID := insertUser(ctx, users, "Admin", "User", "admin@gmail.com", "admin123", model.RoleAdmin)
	johnID := insertUser(ctx, users, "John", "Doe", "john@gmail.com", "user123", model.RoleUser)
	janeID := insertUser(ctx, users, "Jane", "Smith", "jane@gmail.com", "user123", model.RoleUser)
	fmt.Println("👥 Users created")

	propertyIDs := make([]string, 0, 4)
	for _, p := range sampleProperties(adminID) {
		propertyIDs = append(propertyIDs, insertProperty(ctx, properties, p))
	}
	fmt.Println("🏠 Properties created")

	sampleBookings := []model.Booking{
		{
			PropertyID:      propertyIDs[0],
			UserID:          johnID,
			CheckIn:         date(2025, 10, 15),
			CheckOut:        date(2025, 10, 18),
			Guests:          4,
			TotalPrice:      1350, // 3 nights * $450
			Status:          model.BookingStatusPending,
			PaymentStatus:   model.PaymentStatusPending,
			SpecialRequests: "Late check-in preferred",
		},
		{
			PropertyID:    propertyIDs[1],
			UserID:        janeID,
			CheckIn:       date(2025, 11, 1),
			CheckOut:      date(2025, 11, 5),
			Guests:        2,
			TotalPrice:    720, // 4 nights * $180
			Status:        model.BookingStatusConfirmed,
			PaymentStatus: model.PaymentStatusPaid,
		},
		{
			PropertyID:      propertyIDs[2],
			UserID:          johnID,
			CheckIn:         date(2025, 12, 20),
			CheckOut:        date(2025, 12, 25),
			Guests:          6,
			TotalPrice:      1600, // 5 nights * $320
			Status:          model.BookingStatusPending,
			PaymentStatus:   model.PaymentStatusPending,
			SpecialRequests: "Need early check-in for family with kids",
		},
		{
			PropertyID:    propertyIDs[3],
			UserID:        janeID,
			CheckIn:       date(2025, 9, 1),
			CheckOut:      date(2025, 9, 3),
			Guests:        2,
			TotalPrice:    560, // 2 nights * $280
			Status:        model.BookingStatusCompleted,
			PaymentStatus: model.PaymentStatusPaid,
		},
	}
	for _, b := range sampleBookings {
		b.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
		if _, err := bookings.InsertOne(ctx, b); err != nil {
			log.Fatalf("❌ Failed to insert booking: %v", err)
		}
	}
	fmt.Println("📅 Sample bookings created")

	fmt.Println("\n🎉 Sample data seeded successfully!")
	fmt.Println("\n📝 Login credentials:")
	fmt.Println("Admin: admin@gmail.com / admin123")
	fmt.Println("User 1: john@gmail.com / user123")
	fmt.Println("User 2: jane@gmail.com / user123")
}

func insertUser(ctx context.Context, coll *mongo.Collection, firstName, lastName, email, password, role string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("❌ Failed to hash password for %s: %v", email, err)
	}

	user := model.User{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
	}
	result, err := coll.InsertOne(ctx, user)
	if err != nil {
		log.Fatalf("❌ Failed to insert user %s: %v", email, err)
	}
	return result.InsertedID.(primitive.ObjectID).Hex()
}

func insertProperty(ctx context.Context, coll *mongo.Collection, property model.Property) string {
	property.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := coll.InsertOne(ctx, property)
	if err != nil {
		log.Fatalf("❌ Failed to insert property %q: %v", property.Title, err)
	}
	return result.InsertedID.(primitive.ObjectID).Hex()
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func sampleProperties(ownerID string) []model.Property {
	return []model.Property{
		{
			Title:       "Luxury Beach Villa in Malibu",
			Description: "Experience ultimate luxury in this stunning beachfront villa overlooking the Pacific Ocean. Features include a private beach access, infinity pool, gourmet kitchen, and panoramic ocean views from every room.",
			Price:       450,
			Location:    "Malibu, California",
			Images: []string{
				"https://images.unsplash.com/photo-1566073771259-6a8506099945?w=800&h=600&fit=crop",
				"https://images.unsplash.com/photo-1582268611958-ebfd161ef9cf?w=800&h=600&fit=crop",
			},
			Amenities:    []string{"Private Beach", "Infinity Pool", "Ocean View", "Gourmet Kitchen", "WiFi", "Parking"},
			MaxGuests:    8,
			Bedrooms:     4,
			Bathrooms:    3,
			PropertyType: model.PropertyTypeVilla,
			IsAvailable:  true,
			OwnerID:      ownerID,
		},
		{
			Title:       "Modern Downtown Apartment",
			Description: "Stylish and contemporary apartment in the heart of downtown. Walking distance to restaurants, shopping, and entertainment.",
			Price:       180,
			Location:    "Downtown Los Angeles, California",
			Images: []string{
				"https://images.unsplash.com/photo-1545324418-cc1a3fa10c00?w=800&h=600&fit=crop",
				"https://images.unsplash.com/photo-1560448204-e02f11c3d0e2?w=800&h=600&fit=crop",
			},
			Amenities:    []string{"City View", "Gym Access", "WiFi", "Kitchen", "Parking"},
			MaxGuests:    4,
			Bedrooms:     2,
			Bathrooms:    2,
			PropertyType: model.PropertyTypeApartment,
			IsAvailable:  true,
			OwnerID:      ownerID,
		},
		{
			Title:       "Cozy Mountain House in Aspen",
			Description: "Charming mountain retreat surrounded by stunning alpine scenery. Perfect for ski trips or summer hiking adventures.",
			Price:       320,
			Location:    "Aspen, Colorado",
			Images: []string{
				"https://images.unsplash.com/photo-1518780664697-55e3ad937233?w=800&h=600&fit=crop",
				"https://images.unsplash.com/photo-1449824913935-59a10b8d2000?w=800&h=600&fit=crop",
			},
			Amenities:    []string{"Mountain View", "Fireplace", "Ski Access", "WiFi", "Kitchen"},
			MaxGuests:    6,
			Bedrooms:     3,
			Bathrooms:    2,
			PropertyType: model.PropertyTypeHouse,
			IsAvailable:  true,
			OwnerID:      ownerID,
		},
		{
			Title:       "Boutique Hotel Suite in SoHo",
			Description: "Elegant hotel suite in trendy SoHo district. Combines luxury amenities with personalized service.",
			Price:       280,
			Location:    "SoHo, New York",
			Images: []string{
				"https://images.unsplash.com/photo-1564013799919-ab600027ffc6?w=800&h=600&fit=crop",
				"https://images.unsplash.com/photo-1551882547-ff40c63fe5fa?w=800&h=600&fit=crop",
			},
			Amenities:    []string{"Concierge", "Spa Access", "Room Service", "WiFi", "Mini Bar"},
			MaxGuests:    2,
			Bedrooms:     1,
			Bathrooms:    1,
			PropertyType: model.PropertyTypeHotel,
			IsAvailable:  true,
			OwnerID:      ownerID,
		},
	}
}
