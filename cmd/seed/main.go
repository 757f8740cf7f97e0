package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/ikkim/canteen-backend/config"
	"github.com/ikkim/canteen-backend/internal/app/model"
	"github.com/ikkim/canteen-backend/internal/app/repository"
	"github.com/ikkim/canteen-backend/internal/app/service"
	"github.com/ikkim/canteen-backend/internal/db"
)

func main() {
	// 명령줄 인자 확인
	if len(os.Args) < 3 {
		log.Fatal("Usage: go run ./cmd/seed <store_id> <xlsx_file_path>")
	}

	storeID, err := strconv.ParseUint(os.Args[1], 10, 32)
	if err != nil || storeID == 0 {
		log.Fatal("Invalid store id:", os.Args[1])
	}
	filePath := os.Args[2]

	// 설정 로드
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// DB 연결
	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	// XLSX 파일 읽기
	fmt.Printf("Reading XLSX file: %s\n", filePath)
	rows, skipped, err := readMenuFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}
	fmt.Printf("Menu items to import: %d (skipped %d invalid rows)\n", len(rows), skipped)

	// 사용자 확인
	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	database := db.GetDB()
	itemService := service.NewItemService(database, repository.NewItemRepository(database), repository.NewStoreRepository(database))

	// 관리자 권한으로 등록 (매장 소유자 검사 생략, 승인 여부와 가격 검증은 동일)
	admin := service.Actor{Role: model.RoleAdmin}
	imported, failed := importMenu(itemService, admin, uint(storeID), rows)

	fmt.Println("Import completed!")
	fmt.Printf("Imported: %d, failed: %d\n", imported, failed)
}

func importMenu(items service.ItemService, actor service.Actor, storeID uint, rows []menuRow) (int, int) {
	imported, failed := 0, 0
	for _, row := range rows {
		_, err := items.Create(actor, service.ItemInput{
			StoreID:     storeID,
			Name:        row.Name,
			Description: row.Description,
			Price:       row.Price,
			Quantity:    row.Quantity,
		})
		if err != nil {
			fmt.Printf("  line %d (%s): %v\n", row.Line, row.Name, err)
			failed++
			continue
		}
		imported++
	}
	return imported, failed
}
