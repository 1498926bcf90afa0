package main

import (
	"log"
	"time"

	"learnhub-be/internal/config"
	"learnhub-be/internal/model"
	"learnhub-be/pkg/database"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	demoCreatorID = uuid.MustParse("6a1c2f0e-8b7d-4c3a-9e5f-1d2b3c4a5e6f")
	demoStudentID = uuid.MustParse("2e4d6c8b-0a1f-4e3d-8c5b-7a9f1e3d5c7b")
	demoAdminID   = uuid.MustParse("b3a5c7e9-1d2f-4a6b-8c0d-2e4f6a8b0c1d")
)

func main() {
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, cfg.Database.LogLevel)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Seeding demo accounts and courses...")
	SeedCatalog(db)

	log.Println("Seeding reward configuration...")
	SeedRewardConfigs(db)

	log.Println("Seeding problems...")
	SeedProblems(db)

	log.Println("Seeding completed!")
}

// create inserts row unless one already matches the lookup.
func create(db *gorm.DB, label string, row interface{}, query string, args ...interface{}) {
	var count int64
	if err := db.Model(row).Where(query, args...).Count(&count).Error; err != nil {
		log.Printf("Error checking %s: %v", label, err)
		return
	}
	if count > 0 {
		log.Printf("%s already exists, skipping...", label)
		return
	}
	if err := db.Create(row).Error; err != nil {
		log.Printf("Error creating %s: %v", label, err)
		return
	}
	log.Printf("Created %s", label)
}

func price(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func SeedCatalog(db *gorm.DB) {
	users := []model.User{
		{Id: demoAdminID, Email: "admin@learnhub.local", FullName: "LearnHub Admin", Role: "admin"},
		{Id: demoCreatorID, Email: "creator@learnhub.local", FullName: "Demo Creator", Role: "creator"},
		{Id: demoStudentID, Email: "student@learnhub.local", FullName: "Demo Student", Role: "user"},
	}
	for i := range users {
		create(db, "user "+users[i].Email, &users[i], "email = ?", users[i].Email)
	}

	courses := []model.Course{
		{InstructorId: demoCreatorID, Title: "Go for Backend Engineers", Status: "published", Price: price(499000), OriginalPrice: price(699000), IsPremium: true},
		{InstructorId: demoCreatorID, Title: "Data Structures Crash Course", Status: "published", Price: price(199000)},
		{InstructorId: demoCreatorID, Title: "Intro to Programming", Status: "published"},
	}
	for i := range courses {
		create(db, "course "+courses[i].Title, &courses[i], "title = ?", courses[i].Title)
	}

	limit := 100
	maxOff := decimal.NewFromInt(150000)
	now := time.Now().UTC()
	coupons := []model.CourseCoupon{
		{Code: "WELCOME20", Description: "20% off your first course", DiscountType: "percentage", DiscountValue: decimal.NewFromInt(20), MaxDiscountAmount: &maxOff, UsageLimit: &limit, ValidFrom: now, ValidUntil: now.AddDate(0, 3, 0), IsActive: true, CreatedBy: &demoAdminID},
		{Code: "FLAT50K", Description: "50.000 VND off", DiscountType: "fixed_amount", DiscountValue: decimal.NewFromInt(50000), MinPurchaseAmount: decimal.NewFromInt(150000), ValidFrom: now, ValidUntil: now.AddDate(0, 1, 0), IsActive: true, CreatedBy: &demoAdminID},
	}
	for i := range coupons {
		create(db, "coupon "+coupons[i].Code, &coupons[i], "code = ?", coupons[i].Code)
	}
}
