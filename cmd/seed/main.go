// Command seed populates the database with the well-known test accounts and
// a starter catalog. Safe to run repeatedly.
package main

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/tvanngo/clothes-shop/internal/config"
	"github.com/tvanngo/clothes-shop/internal/hash"
	"github.com/tvanngo/clothes-shop/internal/models"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := config.OpenDB(context.Background(), cfg)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	if err := seedUsers(db); err != nil {
		log.Fatalf("seed users: %v", err)
	}
	if err := seedProducts(db); err != nil {
		log.Fatalf("seed products: %v", err)
	}

	log.Println("seed complete")
}

func seedUsers(db *gorm.DB) error {
	userHash, err := hash.HashPassword("password123")
	if err != nil {
		return err
	}
	user := models.User{
		Name:         "Test User",
		Email:        "test@example.com",
		PasswordHash: userHash,
		Role:         models.RoleUser,
	}
	if err := db.Where("email = ?", user.Email).FirstOrCreate(&user).Error; err != nil {
		return err
	}

	adminHash, err := hash.HashPassword("admin123")
	if err != nil {
		return err
	}
	var admin models.User
	err = db.Where("email = ?", "admin@clothes.com").First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		admin = models.User{
			Name:         "Admin Manager",
			Email:        "admin@clothes.com",
			PasswordHash: adminHash,
			Role:         models.RoleAdmin,
		}
		return db.Create(&admin).Error
	}
	if err != nil {
		return err
	}
	// make sure an existing record really is the admin
	admin.Role = models.RoleAdmin
	admin.PasswordHash = adminHash
	return db.Save(&admin).Error
}

func seedProducts(db *gorm.DB) error {
	products := []models.Product{
		{
			Name:        "Classic White Tee",
			Description: "Soft cotton crew-neck t-shirt",
			Price:       150000,
			ImageURL:    "uploads/classic-white-tee.jpg",
			Category:    "Shirts",
			Gender:      "Unisex",
			Colors:      []string{"White", "Black"},
			Sizes:       []string{"S", "M", "L", "XL"},
			IsFeatured:  true,
		},
		{
			Name:         "Slim Fit Chinos",
			Description:  "Stretch cotton chinos with a tapered leg",
			Price:        450000,
			ImageURL:     "uploads/slim-fit-chinos.jpg",
			Category:     "Pants",
			Gender:       "Men",
			Colors:       []string{"Khaki", "Navy"},
			Sizes:        []string{"29", "30", "32", "34"},
			IsBestSeller: true,
		},
		{
			Name:        "Summer Floral Dress",
			Description: "Lightweight dress with an all-over floral print",
			Price:       520000,
			ImageURL:    "uploads/summer-floral-dress.jpg",
			Category:    "Women",
			Gender:      "Women",
			Colors:      []string{"Yellow", "Blue"},
			Sizes:       []string{"S", "M", "L"},
			IsFeatured:  true,
		},
		{
			Name:        "Canvas Tote Bag",
			Description: "Everyday tote with an inner zip pocket",
			Price:       180000,
			ImageURL:    "uploads/canvas-tote-bag.jpg",
			Category:    "Accessories",
			Gender:      "Unisex",
			Colors:      []string{"Natural"},
			Sizes:       []string{"One Size"},
		},
	}

	for i := range products {
		if err := db.Where("name = ?", products[i].Name).FirstOrCreate(&products[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
