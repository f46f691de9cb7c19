package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/park1112/next-snp-management-sub002/config"
	"github.com/park1112/next-snp-management-sub002/internal/app/service"
	"github.com/park1112/next-snp-management-sub002/internal/db"
	"github.com/park1112/next-snp-management-sub002/internal/docstore"
	"github.com/park1112/next-snp-management-sub002/internal/identity"
)

func main() {
	farmersFile := flag.String("farmers", "", "농가 목록 xlsx 파일 (선택)")
	flag.Usage = func() {
		fmt.Println("Usage: go run ./cmd/seed [-farmers farmers.xlsx] seed.yaml")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() < 1 && *farmersFile == "" {
		flag.Usage()
		log.Fatal("seed file or -farmers is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	ctx := context.Background()
	var store docstore.Store = docstore.NewGormStore(db.GetDB())
	if cfg.DocStore.Backend == "mongo" {
		client, err := docstore.ConnectMongo(ctx, cfg.DocStore.MongoURI)
		if err != nil {
			log.Fatal("Failed to connect to mongo:", err)
		}
		mongoStore := docstore.NewMongoStore(client, cfg.DocStore.MongoDatabase)
		defer mongoStore.Close(ctx)
		store = mongoStore
	}

	actor := identity.Fixed("seed")
	s := &seeder{
		lookups:    service.NewLookupService(store, actor),
		categories: service.NewCategoryService(store, actor),
		directory:  service.NewDirectoryService(store, actor),
	}

	if flag.NArg() > 0 {
		seed, err := loadSeedFile(flag.Arg(0))
		if err != nil {
			log.Fatal(err)
		}
		result, err := s.apply(ctx, seed)
		if err != nil {
			log.Fatal("Seeding failed:", err)
		}
		fmt.Printf("Seeded %d lookups, %d categories, %d rates\n", result.Lookups, result.Categories, result.Rates)
	}

	if *farmersFile != "" {
		fmt.Printf("Reading XLSX file: %s\n", *farmersFile)
		farmers, err := readFarmersFromXLSX(*farmersFile)
		if err != nil {
			log.Fatal("Failed to read XLSX:", err)
		}

		fmt.Printf("Total farmers to import: %d\n", len(farmers))
		fmt.Print("Do you want to proceed with the import? (yes/no): ")
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "yes" && confirm != "y" {
			fmt.Println("Import cancelled.")
			return
		}

		n, err := s.importFarmers(ctx, farmers)
		if err != nil {
			log.Fatalf("Import stopped after %d farmers: %v", n, err)
		}
		fmt.Printf("Total farmers imported: %d\n", n)
	}
}
