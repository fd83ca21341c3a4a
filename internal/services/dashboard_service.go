package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"ticketlogger/server/internal/models"
	"ticketlogger/server/internal/repository"
)

// DashboardService: сводка и выгрузка справочников для администратора
type DashboardService struct {
	store       repository.Store
	supermarket *SupermarketService
	logger      *log.Logger
}

func NewDashboardService(store repository.Store, supermarkets *SupermarketService, logger *log.Logger) *DashboardService {
	return &DashboardService{store: store, supermarket: supermarkets, logger: logger}
}

type DashboardCounts struct {
	Regions      int64 `json:"regions"`
	Provinces    int64 `json:"provinces"`
	Supermarkets int64 `json:"supermarkets"`
	Locations    int64 `json:"locations"`
	Categories   int64 `json:"categories"`
}

func (s *DashboardService) Counts(ctx context.Context) (*DashboardCounts, error) {
	store := s.store.WithContext(ctx)
	var counts DashboardCounts
	var err error
	if counts.Regions, err = store.Regions().Count(); err != nil {
		return nil, fmt.Errorf("ошибка подсчета регионов: %w", err)
	}
	if counts.Provinces, err = store.Provinces().Count(); err != nil {
		return nil, fmt.Errorf("ошибка подсчета провинций: %w", err)
	}
	if counts.Supermarkets, err = store.Supermarkets().Count(); err != nil {
		return nil, fmt.Errorf("ошибка подсчета супермаркетов: %w", err)
	}
	if counts.Locations, err = store.Locations().Count(); err != nil {
		return nil, fmt.Errorf("ошибка подсчета локаций: %w", err)
	}
	if counts.Categories, err = store.Categories().Count(); err != nil {
		return nil, fmt.Errorf("ошибка подсчета категорий: %w", err)
	}
	return &counts, nil
}

// ExportXLSX выгружает все справочники, по листу на сущность
func (s *DashboardService) ExportXLSX(ctx context.Context) ([]byte, error) {
	store := s.store.WithContext(ctx)

	regions, err := store.Regions().FindAll()
	if err != nil {
		return nil, err
	}
	provinces, err := store.Provinces().FindAll()
	if err != nil {
		return nil, err
	}
	supermarkets, err := store.Supermarkets().FindAll()
	if err != nil {
		return nil, err
	}
	locations, err := store.Locations().FindAll()
	if err != nil {
		return nil, err
	}
	categories, err := store.Categories().FindAll()
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheets := []struct {
		name   string
		header []interface{}
		rows   [][]interface{}
	}{
		{"Regions", []interface{}{"ID", "Code", "Name"}, regionRows(regions)},
		{"Provinces", []interface{}{"ID", "Code", "Name", "Region"}, provinceRows(provinces)},
		{"Supermarkets", []interface{}{"ID", "Name"}, supermarketRows(supermarkets)},
		{"Locations", []interface{}{"ID", "Address", "City", "Supermarket", "Province"}, locationRows(locations)},
		{"Categories", []interface{}{"ID", "Name", "Parent", "Image"}, categoryRows(categories)},
	}

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet.name); err != nil {
				return nil, fmt.Errorf("ошибка создания листа %s: %w", sheet.name, err)
			}
		} else if _, err := f.NewSheet(sheet.name); err != nil {
			return nil, fmt.Errorf("ошибка создания листа %s: %w", sheet.name, err)
		}
		if err := f.SetSheetRow(sheet.name, "A1", &sheet.header); err != nil {
			return nil, err
		}
		for r, row := range sheet.rows {
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return nil, err
			}
			row := row
			if err := f.SetSheetRow(sheet.name, cell, &row); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("ошибка записи XLSX: %w", err)
	}
	s.logger.Printf("📊 Экспорт справочников: %d регионов, %d провинций, %d супермаркетов, %d локаций, %d категорий",
		len(regions), len(provinces), len(supermarkets), len(locations), len(categories))
	return buf.Bytes(), nil
}

// ImportResult: итог загрузки супермаркетов из XLSX
type ImportResult struct {
	Created int      `json:"created"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

// ImportSupermarketsXLSX создает супермаркеты из первого столбца первого листа.
// Строка заголовка ("name"/"nombre") пропускается, существующие названия тоже.
func (s *DashboardService) ImportSupermarketsXLSX(ctx context.Context, r io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия XLSX файла: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("файл не содержит листов")
	}
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения листа: %w", err)
	}

	result := &ImportResult{}
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		name := strings.TrimSpace(row[0])
		if name == "" {
			continue
		}
		if i == 0 {
			if h := strings.ToLower(name); h == "name" || h == "nombre" {
				continue
			}
		}
		if utf8.RuneCountInString(name) > 100 {
			result.Errors = append(result.Errors, fmt.Sprintf("строка %d: название длиннее 100 символов", i+1))
			continue
		}
		err := s.supermarket.Create(ctx, &models.Supermarket{Name: name})
		switch {
		case err == nil:
			result.Created++
		case isConflict(err):
			result.Skipped++
		default:
			result.Errors = append(result.Errors, fmt.Sprintf("строка %d: %v", i+1, err))
		}
	}
	s.logger.Printf("📥 Импорт супермаркетов: создано %d, пропущено %d, ошибок %d", result.Created, result.Skipped, len(result.Errors))
	return result, nil
}

func regionRows(items []models.Region) [][]interface{} {
	rows := make([][]interface{}, 0, len(items))
	for _, r := range items {
		rows = append(rows, []interface{}{r.ID, r.Code, r.Name})
	}
	return rows
}

func provinceRows(items []models.Province) [][]interface{} {
	rows := make([][]interface{}, 0, len(items))
	for _, p := range items {
		region := ""
		if p.Region != nil {
			region = p.Region.Name
		}
		rows = append(rows, []interface{}{p.ID, p.Code, p.Name, region})
	}
	return rows
}

func supermarketRows(items []models.Supermarket) [][]interface{} {
	rows := make([][]interface{}, 0, len(items))
	for _, s := range items {
		rows = append(rows, []interface{}{s.ID, s.Name})
	}
	return rows
}

func locationRows(items []models.Location) [][]interface{} {
	rows := make([][]interface{}, 0, len(items))
	for _, l := range items {
		var supermarket, province string
		if l.Supermarket != nil {
			supermarket = l.Supermarket.Name
		}
		if l.Province != nil {
			province = l.Province.Name
		}
		rows = append(rows, []interface{}{l.ID, l.Address, l.City, supermarket, province})
	}
	return rows
}

func categoryRows(items []models.Category) [][]interface{} {
	rows := make([][]interface{}, 0, len(items))
	for _, c := range items {
		var parent, image string
		if c.Parent != nil {
			parent = c.Parent.Name
		}
		if c.Image != nil {
			image = *c.Image
		}
		rows = append(rows, []interface{}{c.ID, c.Name, parent, image})
	}
	return rows
}
