package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// menuRow 시트의 한 줄 (헤더: name, description, price, quantity)
type menuRow struct {
	Line        int
	Name        string
	Description string
	Price       decimal.Decimal
	Quantity    int
}

func readMenuFromXLSX(filePath string) ([]menuRow, int, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	// 첫 번째 시트만 사용
	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, 0, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("no data found in XLSX file")
	}

	var menu []menuRow
	skipped := 0
	for i, row := range rows {
		if i == 0 {
			continue
		}
		parsed, ok := parseMenuRow(row)
		if !ok {
			skipped++
			continue
		}
		parsed.Line = i + 1
		menu = append(menu, parsed)
	}
	return menu, skipped, nil
}

// parseMenuRow 이름과 가격은 필수, 수량이 비어 있으면 0
func parseMenuRow(row []string) (menuRow, bool) {
	cell := func(idx int) string {
		if idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	name := cell(0)
	if name == "" {
		return menuRow{}, false
	}

	price, err := decimal.NewFromString(strings.ReplaceAll(cell(2), ",", ""))
	if err != nil {
		return menuRow{}, false
	}

	quantity := 0
	if raw := cell(3); raw != "" {
		quantity, err = strconv.Atoi(raw)
		if err != nil {
			return menuRow{}, false
		}
	}

	return menuRow{
		Name:        name,
		Description: cell(1),
		Price:       price,
		Quantity:    quantity,
	}, true
}
