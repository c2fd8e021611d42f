package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"burim-estate/internal/config"
	"burim-estate/internal/database"
	"burim-estate/internal/logger"
	"burim-estate/internal/models"
	"burim-estate/internal/search"
)

var (
	districts        = []string{"매교동", "세류동", "인계동", "교동", "행궁동"}
	propertyTypes    = []string{"아파트", "원룸", "투룸", "오피스텔", "상가"}
	transactionTypes = []models.TransactionType{models.TransactionSale, models.TransactionJeonse, models.TransactionMonthly}
	directions       = []models.Direction{models.DirectionSouth, models.DirectionEast, models.DirectionSouthEast, models.DirectionSouthWest, models.DirectionWest}
)

func main() {
	count := flag.Int("n", 50, "number of listings to insert")
	keep := flag.Bool("keep", false, "keep existing listings and inquiries")
	flag.Parse()

	configPath := getEnv("CONFIG_PATH", "config/config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.New().Fatal("Failed to load config from %s: %v", configPath, err)
	}
	log := logger.NewWithOptions(cfg.Logging.Level, cfg.Logging.Console, os.Stderr)

	gormDB, err := database.Open(cfg)
	if err != nil {
		log.Fatal("Failed to connect to %s: %v", cfg.Database.Type, err)
	}
	defer gormDB.Close()

	if err := gormDB.InitSchema(); err != nil {
		log.Fatal("Failed to initialize schema: %v", err)
	}

	ctx := context.Background()
	log.Info("Seeding process started")

	if !*keep {
		log.Info("Clearing existing data...")
		db := gormDB.DB().WithContext(ctx)
		if err := db.Exec("DELETE FROM inquiries").Error; err != nil {
			log.Fatal("Failed to clear inquiries: %v", err)
		}
		if err := db.Exec("DELETE FROM properties").Error; err != nil {
			log.Fatal("Failed to clear properties: %v", err)
		}
	}

	log.Info("Starting insertion of %d properties...", *count)
	created := make([]models.Property, 0, *count)
	for i := 1; i <= *count; i++ {
		p := randomProperty(i)
		if err := gormDB.CreateProperty(ctx, p); err != nil {
			log.Fatal("Failed to insert property %d: %v", i, err)
		}
		created = append(created, *p)
		if i%10 == 0 {
			log.Info("Inserted %d properties...", i)
		}
	}

	if host := cfg.Search.Meilisearch.Host; host != "" {
		client := search.NewSearchClient(host, cfg.Search.Meilisearch.APIKey, cfg.Search.Meilisearch.Index)
		if err := client.InitIndex(); err != nil {
			log.Warn("[Search API] Skipping index: %v", err)
		} else if err := client.IndexProperties(created); err != nil {
			log.Warn("[Search API] Failed to index seeded properties: %v", err)
		} else {
			log.Info("[Search API] Indexed %d properties", len(created))
		}
	}

	log.Info("Seeding finished successfully!")
}

func randomProperty(i int) *models.Property {
	propertyType := pick(propertyTypes)
	district := pick(districts)
	transactionType := pick(transactionTypes)

	p := &models.Property{
		Title:           fmt.Sprintf("[%s] %s %s 특급 매물 %d", transactionType, district, propertyType, i),
		Slug:            fmt.Sprintf("property-%d-%s", i, database.NewPropertySlug(time.Now())),
		District:        district,
		PropertyType:    propertyType,
		TransactionType: transactionType,
		Area:            float64(between(2000, 15000)) / 100,
		Floor:           fmt.Sprintf("%d층", between(1, 15)),
		TotalFloor:      fmt.Sprintf("%d층", between(5, 20)),
		MaintenanceFee:  intPtr(between(5, 30)),
		Elevator:        rand.Intn(2) == 0,
		Parking:         rand.Intn(2) == 0,
		Lat:             floatPtr(37.266 + (rand.Float64()-0.5)*0.01),
		Lng:             floatPtr(127.016 + (rand.Float64()-0.5)*0.01),
		Thumbnail:       fmt.Sprintf("https://picsum.photos/seed/%d/800/600", i*10),
		Images: []string{
			fmt.Sprintf("https://picsum.photos/seed/%d/800/600", i*10+1),
			fmt.Sprintf("https://picsum.photos/seed/%d/800/600", i*10+2),
			fmt.Sprintf("https://picsum.photos/seed/%d/800/600", i*10+3),
		},
		IsFeatured: i <= 6,
		IsShared:   rand.Float64() > 0.7,
		ViewCount:  between(0, 1000),
		Status:     models.PropertyStatusActive,
	}
	if rand.Float64() > 0.9 {
		p.MarkAsSold()
	}

	switch transactionType {
	case models.TransactionSale:
		p.SalePrice = int64Ptr(int64(between(30000, 150000)))
	case models.TransactionJeonse:
		p.Deposit = int64Ptr(int64(between(10000, 50000)))
	case models.TransactionMonthly:
		p.Deposit = int64Ptr(int64(between(500, 3000)))
		p.Rent = int64Ptr(int64(between(30, 150)))
	}

	p.Options = models.PropertyOptions{
		Amenities: models.NewAmenities(models.Amenities{
			AirConditioner: rand.Intn(2) == 0,
			WashingMachine: rand.Intn(2) == 0,
			Refrigerator:   rand.Intn(2) == 0,
		}),
		Direction:     pick(directions),
		RoomCount:     intPtr(between(1, 5)),
		BathroomCount: intPtr(between(1, 3)),
	}
	return p
}

// between returns a random int in [lo, hi)
func between(lo, hi int) int {
	return lo + rand.Intn(hi-lo)
}

func pick[T any](values []T) T {
	return values[rand.Intn(len(values))]
}

func intPtr(v int) *int           { return &v }
func int64Ptr(v int64) *int64     { return &v }
func floatPtr(v float64) *float64 { return &v }

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
