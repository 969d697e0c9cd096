// file: controllers/csv_helpers.go
package controllers

import (
	"encoding/csv"
	"fmt"
	"mime/multipart"
	"strings"
)

// readCSVUpload 解析 multipart 上传的 CSV，跳过表头，返回数据行
// 行数从 2 起（表头算第 1 行），错误信息带行号好让前端定位
func readCSVUpload(fileHeader *multipart.FileHeader) ([][]string, error) {
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".csv") {
		return nil, fmt.Errorf("file must be a CSV file")
	}
	f, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty CSV file")
	}
	return rows[1:], nil
}

// rowError 统一逐行错误格式
func rowError(rowNum int, format string, args ...interface{}) string {
	return fmt.Sprintf("Row %d: %s", rowNum, fmt.Sprintf(format, args...))
}
