package main

import (
	"fmt"
	"time"

	"github.com/vcaremart/offerlink/internal/config"
	"github.com/vcaremart/offerlink/internal/constants"
	"github.com/vcaremart/offerlink/internal/logger"
	"github.com/vcaremart/offerlink/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 管理员与店主账号
	users := []struct {
		Username     string
		Password     string
		Role         string
		BusinessName string
		ShopName     string
		Location     string
		ClientID     string
		Phone        string
	}{
		{Username: "admin", Password: "admin123", Role: constants.UserRoleAdmin, ClientID: "CL01"},
		{Username: "misel_CL01", Password: "owner123", Role: constants.UserRoleUser, BusinessName: "VCare Mart", ShopName: "VCare Mart", Location: "MG Road", ClientID: "CL01"},
		{Username: "misel_CL02", Password: "owner123", Role: constants.UserRoleUser, BusinessName: "Daily Bazaar", ShopName: "Daily Bazaar", Location: "Fort Road", ClientID: "CL02"},
	}

	userIDs := map[string]uint{}
	for _, u := range users {
		var existing models.User
		if err := models.DB.Where("username = ?", u.Username).First(&existing).Error; err != nil {
			hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
			if err != nil {
				stdLog.Fatalf("Failed to hash password: %v", err)
			}
			user := models.User{
				Username:     u.Username,
				PasswordHash: string(hash),
				Role:         u.Role,
				BusinessName: u.BusinessName,
				ShopName:     u.ShopName,
				Location:     u.Location,
				Status:       constants.UserStatusActive,
				ClientID:     u.ClientID,
				Phone:        u.Phone,
			}
			if err := models.DB.Create(&user).Error; err != nil {
				stdLog.Printf("Failed to create user %s: %v", u.Username, err)
				continue
			}
			userIDs[u.Username] = user.ID
			stdLog.Printf("Created user: %s", u.Username)
		} else {
			userIDs[u.Username] = existing.ID
			stdLog.Printf("User already exists: %s", u.Username)
		}
	}

	// 门店
	branches := []models.Branch{
		{
			UserID:     userIDs["misel_CL01"],
			BranchName: "VCare Mart Central",
			BranchCode: "VC-001",
			Address:    "12 MG Road",
			Location:   "MG Road",
			City:       "Kochi",
			Pincode:    "682016",
			Phone:      "9876500001",
			Status:     constants.BranchStatusActive,
		},
		{
			UserID:     userIDs["misel_CL01"],
			BranchName: "VCare Mart North",
			BranchCode: "VC-002",
			Address:    "4 Beach Road",
			Location:   "Beach Road",
			City:       "Kozhikode",
			Pincode:    "673001",
			Phone:      "9876500002",
			Status:     constants.BranchStatusActive,
		},
		{
			UserID:     userIDs["misel_CL02"],
			BranchName: "Daily Bazaar Fort",
			BranchCode: "DB-001",
			Address:    "88 Fort Road",
			Location:   "Fort Road",
			City:       "Kochi",
			Pincode:    "682001",
			Phone:      "9876500003",
			Status:     constants.BranchStatusActive,
		},
	}

	branchIDs := map[string]uint{}
	for _, b := range branches {
		if b.UserID == 0 {
			stdLog.Printf("Skip branch %s: owner missing", b.BranchCode)
			continue
		}
		var existing models.Branch
		if err := models.DB.Where("branch_code = ?", b.BranchCode).First(&existing).Error; err != nil {
			b.LinkToken = uuid.NewString()
			if err := models.DB.Create(&b).Error; err != nil {
				stdLog.Printf("Failed to create branch %s: %v", b.BranchCode, err)
				continue
			}
			branchIDs[b.BranchCode] = b.ID
			stdLog.Printf("Created branch: %s", b.BranchCode)
		} else {
			branchIDs[b.BranchCode] = existing.ID
			stdLog.Printf("Branch already exists: %s", b.BranchCode)
		}
	}

	// 优惠：覆盖全天生效、每日时段、已排期、人工下线几种形态
	now := time.Now()
	today := models.DateOf(now)
	lastWeek := models.DateOf(now.AddDate(0, 0, -7))
	nextMonth := models.DateOf(now.AddDate(0, 1, 0))
	nextWeek := models.DateOf(now.AddDate(0, 0, 7))
	happyHourStart := models.NewTimeOfDay(16, 0)
	happyHourEnd := models.NewTimeOfDay(19, 0)

	offers := []models.Offer{
		{
			UserID:      userIDs["misel_CL01"],
			Title:       "Flat 20% Off Groceries",
			Description: "Valid on all grocery items above Rs. 500.",
			ValidFrom:   lastWeek,
			ValidTo:     nextMonth,
			Status:      models.OfferStatusActive,
		},
		{
			UserID:         userIDs["misel_CL01"],
			Title:          "Evening Happy Hours",
			Description:    "Extra 10% off on fresh produce, 4pm to 7pm.",
			ValidFrom:      lastWeek,
			ValidTo:        nextMonth,
			DailyStartTime: &happyHourStart,
			DailyEndTime:   &happyHourEnd,
			Status:         models.OfferStatusActive,
		},
		{
			UserID:      userIDs["misel_CL02"],
			Title:       "Festival Season Preview",
			Description: "Opens next week with festival bundles.",
			ValidFrom:   nextWeek,
			ValidTo:     nextMonth,
			Status:      models.OfferStatusScheduled,
		},
		{
			UserID:      userIDs["misel_CL02"],
			Title:       "Clearance Sale",
			Description: "Paused manually, not visible anywhere.",
			ValidFrom:   lastWeek,
			ValidTo:     today,
			Status:      models.OfferStatusInactive,
		},
	}

	offerBranchCodes := [][]string{
		{"VC-001", "VC-002"},
		{"VC-001"},
		{"DB-001"},
		{"DB-001"},
	}

	for i, o := range offers {
		if o.UserID == 0 {
			stdLog.Printf("Skip offer %s: owner missing", o.Title)
			continue
		}
		var existing models.Offer
		if err := models.DB.Where("title = ?", o.Title).First(&existing).Error; err != nil {
			for _, code := range offerBranchCodes[i] {
				if id, ok := branchIDs[code]; ok {
					o.Branches = append(o.Branches, models.Branch{ID: id})
				}
			}
			if err := models.DB.Create(&o).Error; err != nil {
				stdLog.Printf("Failed to create offer %s: %v", o.Title, err)
			} else {
				stdLog.Printf("Created offer: %s", o.Title)
			}
		} else {
			stdLog.Printf("Offer already exists: %s", o.Title)
		}
	}

	// 账务系统数据：客户、商铺、发票
	customers := []models.Customer{
		{Code: "C001", Name: "Anand Traders", Place: "Kochi", Phone: "9876543210", Points: "1250.50CR", ClientID: "CL01"},
		{Code: "C002", Name: "Blue Hills Stores", Place: "Kozhikode", Phone: "9876543211", Points: "310.00DR", ClientID: "CL01"},
		{Code: "C003", Name: "Fort Supplies", Place: "Kochi", Phone: "9876543212", Points: "0", ClientID: "CL02"},
	}
	for _, cust := range customers {
		var existing models.Customer
		if err := models.DB.Where("code = ?", cust.Code).First(&existing).Error; err != nil {
			if err := models.DB.Create(&cust).Error; err != nil {
				stdLog.Printf("Failed to create customer %s: %v", cust.Code, err)
			} else {
				stdLog.Printf("Created customer: %s", cust.Code)
			}
		} else {
			stdLog.Printf("Customer already exists: %s", cust.Code)
		}
	}

	shops := []models.LedgerShop{
		{FirmName: "VCare Mart", Address: "12 MG Road, Kochi", ClientID: "CL01"},
		{FirmName: "Daily Bazaar", Address: "88 Fort Road, Kochi", ClientID: "CL02"},
	}
	for _, shop := range shops {
		var existing models.LedgerShop
		if err := models.DB.Where("firm_name = ?", shop.FirmName).First(&existing).Error; err != nil {
			if err := models.DB.Create(&shop).Error; err != nil {
				stdLog.Printf("Failed to create ledger shop %s: %v", shop.FirmName, err)
			} else {
				stdLog.Printf("Created ledger shop: %s", shop.FirmName)
			}
		} else {
			stdLog.Printf("Ledger shop already exists: %s", shop.FirmName)
		}
	}

	for i := 1; i <= 25; i++ {
		serial := fmt.Sprintf("INV%03d", i)
		var existing models.Invoice
		if err := models.DB.Where("serial_no = ?", serial).First(&existing).Error; err == nil {
			continue
		}
		invoiceDate := models.DateOf(now.AddDate(0, 0, -i))
		invoice := models.Invoice{
			SerialNo:   serial,
			CustomerID: customers[i%len(customers)].Code,
			InvoiceAt:  &invoiceDate,
			NetTotal:   models.NewMoneyFromDecimal(decimal.NewFromFloat(float64(250 + i*37))),
			ClientID:   customers[i%len(customers)].ClientID,
		}
		if err := models.DB.Create(&invoice).Error; err != nil {
			stdLog.Printf("Failed to create invoice %s: %v", serial, err)
		}
	}
	stdLog.Printf("Seeded invoices")

	fmt.Println("\n✅ Test data created successfully!")
	fmt.Println("Summary:")
	fmt.Println("- 1 Admin + 2 shop owners")
	fmt.Println("- 3 Branches with QR link tokens")
	fmt.Println("- 4 Offers (all-day, happy-hour, scheduled, inactive)")
	fmt.Println("- 3 Ledger customers, 2 shops, 25 invoices")
}
