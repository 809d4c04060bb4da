package infrastructure

import (
	"context"
	"fmt"
	"log"

	"github.com/andrewlin1368/grace-shopper-e-commerce/internal/model"
	"github.com/andrewlin1368/grace-shopper-e-commerce/internal/service"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SeedDataManager handles sample data initialization
type SeedDataManager struct {
	db             *gorm.DB
	userService    service.UserService
	productService service.ProductService
}

// NewSeedDataManager creates a new seed data manager
func NewSeedDataManager(db *gorm.DB, userService service.UserService, productService service.ProductService) *SeedDataManager {
	return &SeedDataManager{
		db:             db,
		userService:    userService,
		productService: productService,
	}
}

// SeedAll initializes the admin account and sample catalog
func (s *SeedDataManager) SeedAll() error {
	if err := s.setupAdminUser(); err != nil {
		return fmt.Errorf("failed to setup admin user: %w", err)
	}

	if err := s.setupSampleProducts(); err != nil {
		return fmt.Errorf("failed to setup sample products: %w", err)
	}

	return nil
}

// setupAdminUser creates the initial admin account if no admin exists
func (s *SeedDataManager) setupAdminUser() error {
	ctx := context.Background()

	var count int64
	if err := s.db.WithContext(ctx).Model(&model.User{}).Where("role = ?", model.RoleAdmin).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check existing admins: %w", err)
	}
	if count > 0 {
		log.Println("Admin user already exists, skipping creation")
		return nil
	}

	admin, err := s.userService.CreateUser(ctx, &service.CreateUserRequest{
		FirstName: "Grace",
		LastName:  "Hopper",
		Username:  getEnv("ADMIN_USERNAME", "admin"),
		Password:  getEnv("ADMIN_PASSWORD", "changeme123"),
		Role:      model.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	log.Printf("Created admin user: %s (ID: %s)", admin.Username, admin.ID)
	return nil
}

// setupSampleProducts seeds the catalog when it is empty
func (s *SeedDataManager) setupSampleProducts() error {
	ctx := context.Background()

	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Product{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check existing products: %w", err)
	}
	if count > 0 {
		log.Println("Sample products already exist, skipping creation")
		return nil
	}

	sampleProducts := []model.ProductRequest{
		{
			Name:        "Mechanical Keyboard",
			Description: "Tenkeyless mechanical keyboard with brown switches",
			Category:    "electronics",
			Price:       decimal.NewFromFloat(89.99),
		},
		{
			Name:        "Espresso Grinder",
			Description: "Conical burr grinder with 40 grind settings",
			Category:    "kitchen",
			Price:       decimal.NewFromFloat(149.50),
		},
		{
			Name:        "Canvas Backpack",
			Description: "Water-resistant 25L canvas backpack",
			Category:    "outdoors",
			Price:       decimal.NewFromFloat(59.00),
		},
		{
			Name:        "Desk Lamp",
			Description: "Adjustable LED desk lamp with USB charging port",
			Category:    "home",
			Price:       decimal.NewFromFloat(32.75),
		},
	}

	for _, req := range sampleProducts {
		product, err := s.productService.CreateProduct(ctx, &req)
		if err != nil {
			log.Printf("Warning: failed to create sample product %s: %v", req.Name, err)
		} else {
			log.Printf("Created sample product: %s (ID: %s)", product.Name, product.ID)
		}
	}

	log.Println("Sample product data setup completed")
	return nil
}
