// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/inventory"
	"github.com/your-org/storefront-backend/internal/domain/ootd"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"github.com/your-org/storefront-backend/internal/domain/timesale"
	"github.com/your-org/storefront-backend/internal/domain/user"
	"github.com/your-org/storefront-backend/internal/domain/wishlist"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	// Models in dependency order
	models := []interface{}{
		&user.User{},

		&product.Product{},

		&cart.UserCart{},

		&inventory.InventoryLog{},

		&wishlist.WishlistItem{},

		&timesale.TimeSale{},

		&ootd.Post{},
		&ootd.PostLike{},
	}

	for _, model := range models {
		log.Printf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	log.Println("🔄 Creating additional database indexes...")

	indexes := []string{
		// User indexes
		"CREATE INDEX IF NOT EXISTS idx_users_email_active ON users(email, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_users_created_at ON users(created_at DESC)",

		// Product indexes
		"CREATE INDEX IF NOT EXISTS idx_products_category_active ON products(category, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_featured ON products(is_featured, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_price ON products(price)",
		"CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at DESC)",

		// Inventory ledger indexes
		"CREATE INDEX IF NOT EXISTS idx_inventory_logs_product ON inventory_logs(product_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_inventory_logs_type ON inventory_logs(movement_type)",
		"CREATE INDEX IF NOT EXISTS idx_inventory_logs_created_at ON inventory_logs(created_at DESC)",

		// Wishlist indexes
		"CREATE INDEX IF NOT EXISTS idx_wishlist_items_user_created ON wishlist_items(user_id, created_at DESC)",

		// Time sale indexes
		"CREATE INDEX IF NOT EXISTS idx_time_sales_active_updated ON time_sales(is_active, updated_at DESC)",

		// OOTD feed indexes
		"CREATE INDEX IF NOT EXISTS idx_ootd_posts_user ON ootd_posts(user_id)",
		"CREATE INDEX IF NOT EXISTS idx_ootd_posts_created_at ON ootd_posts(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_ootd_post_likes_post ON ootd_post_likes(post_id)",
	}

	successCount := 0
	failCount := 0

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			log.Printf("⚠️ Failed to create index: %v", err)
			failCount++
		} else {
			successCount++
		}
	}

	log.Printf("✅ Created %d indexes successfully (%d failed)", successCount, failCount)
	return nil
}

// SeedInitialData inserts initial data into the database
func (m *Migration) SeedInitialData() error {
	log.Println("🌱 Seeding initial data...")

	if err := m.seedAdminUser(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	if err := m.seedTestUser(); err != nil {
		return fmt.Errorf("failed to seed test user: %w", err)
	}

	if err := m.seedTestProducts(); err != nil {
		return fmt.Errorf("failed to seed test products: %w", err)
	}

	if err := m.seedTimeSale(); err != nil {
		return fmt.Errorf("failed to seed time sale: %w", err)
	}

	log.Println("✅ Initial data seeded successfully")
	return nil
}

func (m *Migration) seedAdminUser() error {
	log.Println("👤 Seeding admin user...")

	var existing user.User
	result := m.db.Where("email = ?", "admin@example.com").First(&existing)
	if result.Error != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte("admin123"), 10)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		adminUser := user.User{
			Email:         "admin@example.com",
			Password:      string(hashedPassword),
			FirstName:     "Admin",
			LastName:      "User",
			IsActive:      true,
			IsAdmin:       true,
			EmailVerified: true,
		}

		if err := m.db.Create(&adminUser).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		log.Println("✅ Created admin user: admin@example.com (password: admin123)")
	} else {
		log.Printf("⏭️ Admin user already exists with ID: %d", existing.ID)
	}

	return nil
}

func (m *Migration) seedTestUser() error {
	log.Println("👤 Seeding test user...")

	var existing user.User
	result := m.db.Where("email = ?", "test1@example.com").First(&existing)
	if result.Error != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte("test123"), 10)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		testUser := user.User{
			Email:         "test1@example.com",
			Password:      string(hashedPassword),
			FirstName:     "Test",
			LastName:      "User",
			Phone:         "+821012345678",
			IsActive:      true,
			IsAdmin:       false,
			EmailVerified: true,
		}

		if err := m.db.Create(&testUser).Error; err != nil {
			return err
		}

		log.Println("✅ Created test user: test1@example.com (password: test123)")
	} else {
		log.Println("⏭️ Test user already exists")
	}

	return nil
}

// seedTestProducts creates sample products with per-variant stock tables
func (m *Migration) seedTestProducts() error {
	log.Println("🛍️ Seeding test products...")

	var productCount int64
	m.db.Model(&product.Product{}).Count(&productCount)
	if productCount >= 3 {
		log.Println("⏭️ Test products already exist")
		return nil
	}

	testProducts := []product.Product{
		{
			SKU:          "OOTD-TEE-001",
			Name:         "Oversized Cotton Tee",
			Slug:         "oversized-cotton-tee",
			Description:  "Relaxed-fit heavyweight cotton tee. Pre-shrunk, drop shoulder cut.",
			Price:        29000,
			ComparePrice: 39000,
			Category:     "tops",
			ImageURL:     "https://example.com/images/oversized-cotton-tee.jpg",
			IsActive:     true,
			IsFeatured:   true,
			SizeColorStocks: product.SizeColorStockTable{
				{Size: "M", Color: "black", Quantity: 20},
				{Size: "M", Color: "white", Quantity: 15},
				{Size: "L", Color: "black", Quantity: 10},
			},
			Quantity: 45,
		},
		{
			SKU:          "OOTD-DNM-001",
			Name:         "Wide Leg Denim",
			Slug:         "wide-leg-denim",
			Description:  "High-waisted wide leg jeans in rigid denim. Raw hem finish.",
			Price:        69000,
			ComparePrice: 0,
			Category:     "bottoms",
			ImageURL:     "https://example.com/images/wide-leg-denim.jpg",
			IsActive:     true,
			IsFeatured:   false,
			SizeColorStocks: product.SizeColorStockTable{
				{Size: "S", Color: "indigo", Quantity: 8},
				{Size: "M", Color: "indigo", Quantity: 12},
				{Size: "M", Color: "washed", Quantity: 6},
			},
			Quantity: 26,
		},
		{
			SKU:          "OOTD-KNT-001",
			Name:         "Cropped Cable Knit",
			Slug:         "cropped-cable-knit",
			Description:  "Chunky cable knit sweater in a cropped boxy silhouette.",
			Price:        55000,
			ComparePrice: 72000,
			Category:     "knitwear",
			ImageURL:     "https://example.com/images/cropped-cable-knit.jpg",
			IsActive:     true,
			IsFeatured:   true,
			SizeColorStocks: product.SizeColorStockTable{
				{Size: "FREE", Color: "cream", Quantity: 18},
				{Size: "FREE", Color: "charcoal", Quantity: 14},
			},
			Quantity: 32,
		},
	}

	for _, prod := range testProducts {
		var existing product.Product
		result := m.db.Where("sku = ?", prod.SKU).First(&existing)
		if result.Error != nil {
			if err := m.db.Create(&prod).Error; err != nil {
				log.Printf("⚠️ Failed to create test product %s: %v", prod.SKU, err)
			} else {
				log.Printf("✅ Created test product: %s", prod.Name)
			}
		} else {
			log.Printf("⏭️ Product already exists: %s", prod.Name)
		}
	}

	return nil
}

// seedTimeSale creates a sample active time sale for development
func (m *Migration) seedTimeSale() error {
	log.Println("⏰ Seeding time sale...")

	var saleCount int64
	m.db.Model(&timesale.TimeSale{}).Count(&saleCount)
	if saleCount > 0 {
		log.Println("⏭️ Time sale already exists")
		return nil
	}

	sale := timesale.TimeSale{
		Title:           "Season Off Sale",
		Description:     "Up to 30% off selected styles",
		DiscountPercent: 30,
		BackgroundColor: "#111111",
		TextColor:       "#ffffff",
		ProductIDs:      []uint{1, 3},
		StartDate:       "2026-08-01",
		EndDate:         "2026-09-15",
		IsActive:        true,
	}

	if err := m.db.Create(&sale).Error; err != nil {
		return err
	}

	log.Printf("✅ Created time sale: %s (ends %s)", sale.Title, sale.EndDate)
	return nil
}

// DropAllTables drops all tables (use with extreme caution)
func (m *Migration) DropAllTables() error {
	log.Println("⚠️ WARNING: Dropping all database tables...")

	// Reverse dependency order
	tables := []string{
		"ootd_post_likes",
		"ootd_posts",
		"time_sales",
		"wishlist_items",
		"inventory_logs",
		"user_carts",
		"products",
		"users",
	}

	for _, table := range tables {
		if err := m.db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)).Error; err != nil {
			log.Printf("⚠️ Failed to drop table %s: %v", table, err)
		} else {
			log.Printf("🗑️ Dropped table: %s", table)
		}
	}

	log.Println("✅ All tables dropped successfully")
	return nil
}

// GetTableInfo returns information about database tables
func (m *Migration) GetTableInfo() error {
	var tables []string

	if err := m.db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public' ORDER BY tablename").Scan(&tables).Error; err != nil {
		return err
	}

	log.Println("📊 Database Tables Information:")
	log.Println("================================")

	totalRecords := int64(0)
	for _, table := range tables {
		var count int64
		m.db.Table(table).Count(&count)
		totalRecords += count

		status := "✅"
		if count == 0 {
			status = "📭"
		}

		log.Printf("%s %-25s | %d records", status, table, count)
	}

	log.Println("================================")
	log.Printf("📈 Total records across all tables: %d", totalRecords)
	log.Printf("🗂️ Total tables: %d", len(tables))

	return nil
}

// CleanupTestData removes test data (useful for production setup)
func (m *Migration) CleanupTestData() error {
	log.Println("🧹 Cleaning up test data...")

	result := m.db.Where("sku LIKE ?", "OOTD-%").Delete(&product.Product{})
	log.Printf("🗑️ Removed %d test products", result.RowsAffected)

	result = m.db.Where("email = ? AND is_admin = ?", "test1@example.com", false).Delete(&user.User{})
	log.Printf("🗑️ Removed %d test users", result.RowsAffected)

	log.Println("✅ Test data cleanup completed")
	return nil
}
