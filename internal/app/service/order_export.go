package service

import (
	"errors"
	"fmt"

	"github.com/ikkim/canteen-backend/internal/app/repository"
	"github.com/ikkim/canteen-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

const exportSheet = "Orders"

var exportHeader = []interface{}{
	"Order ID", "Created At", "State", "Customer", "Store", "Item", "Quantity", "Unit Price", "Subtotal",
}

// Export 주문 항목 단위 xlsx. 업체는 자기 매장, 관리자는 전체
func (s *orderService) Export(actor Actor, filter repository.OrderFilter) ([]byte, error) {
	switch {
	case actor.IsVendor():
		store, err := s.storeRepo.FindByOwnerID(actor.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrStoreNotFound
			}
			return nil, err
		}
		filter.StoreID = &store.ID
		filter.UserID = nil
	case !actor.IsAdmin():
		return nil, ErrForbidden
	}

	rows, err := s.orderRepo.ExportRows(filter)
	if err != nil {
		return nil, err
	}

	data, err := buildOrderWorkbook(rows)
	if err != nil {
		logger.Error("Failed to build order export", err, map[string]interface{}{
			"user_id": actor.UserID,
		})
		return nil, err
	}

	logger.Info("Orders exported", map[string]interface{}{
		"user_id": actor.UserID,
		"rows":    len(rows),
	})
	return data, nil
}

func buildOrderWorkbook(rows []repository.OrderExportRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return nil, err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		subtotal := row.ItemPrice.Mul(decimal.NewFromInt(int64(row.Quantity)))
		values := []interface{}{
			row.OrderID,
			row.CreatedAt.Format("2006-01-02 15:04:05"),
			string(row.State),
			row.UserName,
			row.StoreName,
			row.ItemName,
			row.Quantity,
			row.ItemPrice.InexactFloat64(),
			subtotal.InexactFloat64(),
		}
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write export row %d: %w", i+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
