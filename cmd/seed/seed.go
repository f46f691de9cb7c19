package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/park1112/next-snp-management-sub002/internal/app/model"
	"github.com/park1112/next-snp-management-sub002/internal/app/service"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// SeedFile 기초 데이터 파일 구조
type SeedFile struct {
	PaymentGroups []SeedLookup   `yaml:"paymentGroups"`
	CropTypes     []SeedLookup   `yaml:"cropTypes"`
	WorkTypes     []SeedLookup   `yaml:"workTypes"`
	Categories    []SeedCategory `yaml:"categories"` // 나열 순서대로 next 로 연결된다
}

type SeedLookup struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type SeedCategory struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Rates       []SeedRate `yaml:"rates"`
}

type SeedRate struct {
	Name         string `yaml:"name"`
	Description  string `yaml:"description"`
	DefaultPrice int64  `yaml:"defaultPrice"`
	Unit         string `yaml:"unit"`
}

func loadSeedFile(path string) (*SeedFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return parseSeed(raw)
}

func parseSeed(raw []byte) (*SeedFile, error) {
	var seed SeedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	for i, c := range seed.Categories {
		if strings.TrimSpace(c.Name) == "" {
			return nil, fmt.Errorf("category #%d has no name", i+1)
		}
	}
	return &seed, nil
}

// SeedResult 생성 건수 요약
type SeedResult struct {
	Lookups    int
	Categories int
	Rates      int
	Farmers    int
}

type seeder struct {
	lookups    service.LookupService
	categories service.CategoryService
	directory  service.DirectoryService
}

func (s *seeder) apply(ctx context.Context, seed *SeedFile) (SeedResult, error) {
	var result SeedResult

	for kind, items := range map[model.LookupKind][]SeedLookup{
		model.LookupPaymentGroup: seed.PaymentGroups,
		model.LookupCropType:     seed.CropTypes,
		model.LookupWorkType:     seed.WorkTypes,
	} {
		for _, item := range items {
			if _, err := s.lookups.Create(ctx, kind, service.LookupInput{Name: item.Name, Description: item.Description}); err != nil {
				return result, fmt.Errorf("%s %q: %w", kind, item.Name, err)
			}
			result.Lookups++
		}
	}

	var prev *model.Category
	for _, sc := range seed.Categories {
		category, err := s.categories.Create(ctx, service.CreateCategoryInput{Name: sc.Name, Description: sc.Description})
		if err != nil {
			return result, fmt.Errorf("category %q: %w", sc.Name, err)
		}
		result.Categories++

		for _, r := range sc.Rates {
			if _, err := s.categories.AddRate(ctx, category.ID, service.RateInput{
				Name:         r.Name,
				Description:  r.Description,
				DefaultPrice: r.DefaultPrice,
				Unit:         r.Unit,
			}); err != nil {
				return result, fmt.Errorf("rate %q of %q: %w", r.Name, sc.Name, err)
			}
			result.Rates++
		}

		if prev != nil {
			next := category.ID
			if _, err := s.categories.SetNext(ctx, prev.ID, &next); err != nil {
				return result, fmt.Errorf("link %q -> %q: %w", prev.Name, sc.Name, err)
			}
		}
		prev = category
	}
	return result, nil
}

func (s *seeder) importFarmers(ctx context.Context, farmers []model.Farmer) (int, error) {
	for i := range farmers {
		if _, err := s.directory.CreateFarmer(ctx, farmers[i]); err != nil {
			return i, fmt.Errorf("farmer %q: %w", farmers[i].Name, err)
		}
	}
	return len(farmers), nil
}

// 농가 엑셀 컬럼: 이름, 연락처, 주소, 은행, 계좌번호, 예금주, 메모
const (
	colName = iota
	colPhone
	colAddress
	colBank
	colAccount
	colHolder
	colMemo
)

func readFarmersFromXLSX(filePath string) ([]model.Farmer, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}
	return farmersFromRows(rows[1:]), nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

// farmersFromRows skips rows without a name and repeats of the same
// name+phone pair.
func farmersFromRows(rows [][]string) []model.Farmer {
	var farmers []model.Farmer
	seen := make(map[string]bool)
	for _, row := range rows {
		name := cell(row, colName)
		if name == "" {
			continue
		}
		phone := cell(row, colPhone)
		key := name + "|" + phone
		if seen[key] {
			continue
		}
		seen[key] = true

		farmer := model.Farmer{
			Name:    name,
			Phone:   phone,
			Address: cell(row, colAddress),
			Memo:    cell(row, colMemo),
		}
		if account := cell(row, colAccount); account != "" {
			farmer.Bank = &model.BankInfo{
				BankName:      cell(row, colBank),
				AccountNumber: account,
				AccountHolder: cell(row, colHolder),
			}
		}
		farmers = append(farmers, farmer)
	}
	return farmers
}
