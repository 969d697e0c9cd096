// file: controllers/export_controller.go
package controllers

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sian-alcock/pairshead-2020/database"
	"github.com/sian-alcock/pairshead-2020/mappers"
	"github.com/sian-alcock/pairshead-2020/models"
	"github.com/sian-alcock/pairshead-2020/utils"
)

// writeCSVAttachment 统一往响应里写 CSV 附件
func writeCSVAttachment(c *gin.Context, filename string, header []string, rows [][]string) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		utils.Error(c, 5000, "导出失败: "+err.Error())
		return
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			utils.Error(c, 5000, "导出失败: "+err.Error())
			return
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		utils.Error(c, 5000, "导出失败: "+err.Error())
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportResultsCSV 成绩导出，格式与 BROE 回导模板一致
func ExportResultsCSV(c *gin.Context) {
	var crews []models.Crew
	if err := database.DB.Preload("Club").Preload("Event").Preload("Band").
		Where("status = ?", models.CrewStatusAccepted).
		Order("overall_rank asc, id asc").Find(&crews).Error; err != nil {
		utils.Error(c, 5000, "数据库错误: "+err.Error())
		return
	}

	rows := make([][]string, 0, len(crews))
	for i := range crews {
		rows = append(rows, mappers.MapCrewToResultRow(&crews[i]))
	}
	header := []string{
		"Crew ID", "Event ID", "Event", "Band", "Division",
		"Crew Name", "Club", "Position", "Raw Time", "Race Time", "Status",
	}
	writeCSVAttachment(c, "results.csv", header, rows)
}

// ExportBibDataCSV 号码布数据导出
func ExportBibDataCSV(c *gin.Context) {
	var crews []models.Crew
	if err := database.DB.
		Where("status = ?", models.CrewStatusAccepted).
		Order("calculated_start_order asc").Find(&crews).Error; err != nil {
		utils.Error(c, 5000, "数据库错误: "+err.Error())
		return
	}

	rows := make([][]string, 0, len(crews))
	for i := range crews {
		rows = append(rows, mappers.MapCrewToBibRow(&crews[i]))
	}
	writeCSVAttachment(c, "bib-data.csv",
		[]string{"Crew ID", "Crew Name", "Start Order"}, rows)
}

// ExportStartOrderCSV 出发顺序表，带列队分区和号码布领取地点
func ExportStartOrderCSV(c *gin.Context) {
	var crews []models.Crew
	if err := database.DB.Preload("Club").Preload("HostClub").
		Where("status = ?", models.CrewStatusAccepted).
		Order("calculated_start_order asc").Find(&crews).Error; err != nil {
		utils.Error(c, 5000, "数据库错误: "+err.Error())
		return
	}

	var divisions []models.MarshallingDivision
	database.DB.Order("bottom_range asc").Find(&divisions)

	var numberLocations []models.NumberLocation
	database.DB.Find(&numberLocations)
	locations := make(map[string]string, len(numberLocations))
	for _, loc := range numberLocations {
		locations[loc.Club] = loc.NumberLocation
	}

	rows := make([][]string, 0, len(crews))
	for i := range crews {
		rows = append(rows, mappers.MapCrewToStartOrderRow(&crews[i], divisions, locations))
	}
	header := []string{
		"Status", "Bib", "Crew", "Club", "Blade", "Composite Code",
		"Event Band", "Host Club", "Number Location", "Division", "Time Only",
	}
	writeCSVAttachment(c, "start-order.csv", header, rows)
}

// ExportWebscorerCSV Webscorer 导入格式
func ExportWebscorerCSV(c *gin.Context) {
	var crews []models.Crew
	if err := database.DB.Preload("Club").
		Where("status = ?", models.CrewStatusAccepted).
		Order("bib_number asc").Find(&crews).Error; err != nil {
		utils.Error(c, 5000, "数据库错误: "+err.Error())
		return
	}

	rows := make([][]string, 0, len(crews))
	for i := range crews {
		rows = append(rows, mappers.MapCrewToWebscorerRow(&crews[i]))
	}
	writeCSVAttachment(c, "webscorer.csv",
		[]string{"Name", "Team name", "Crew ID", "Category", "Bib", "Status"}, rows)
}

// ExportEventOrderTemplateCSV 抽签基数导入模板，预填当前所有 event_band
func ExportEventOrderTemplateCSV(c *gin.Context) {
	var bands []string
	if err := database.DB.Model(&models.Crew{}).
		Where("status = ? AND event_band <> ''", models.CrewStatusAccepted).
		Distinct("event_band").Order("event_band asc").
		Pluck("event_band", &bands).Error; err != nil {
		utils.Error(c, 5000, "数据库错误: "+err.Error())
		return
	}

	rows := make([][]string, 0, len(bands))
	for _, band := range bands {
		rows = append(rows, []string{band, ""})
	}
	writeCSVAttachment(c, "event-order-template.csv",
		[]string{"Event", "Event order"}, rows)
}

// ExportPenaltiesTemplateCSV 罚秒导入模板，预填 bib
func ExportPenaltiesTemplateCSV(c *gin.Context) {
	var crews []models.Crew
	if err := database.DB.
		Where("status = ? AND bib_number > 0", models.CrewStatusAccepted).
		Order("bib_number asc").Find(&crews).Error; err != nil {
		utils.Error(c, 5000, "数据库错误: "+err.Error())
		return
	}

	// 模板只预填 bib 列，其余留空由裁判填写
	templateRows := make([][]string, 0, len(crews))
	for i := range crews {
		templateRows = append(templateRows, []string{
			strconv.Itoa(crews[i].BibNumber), "", "", "", "", "",
		})
	}
	writeCSVAttachment(c, "penalties-template.csv",
		[]string{"Bib", "Penalty", "Time only", "Did not start", "Did not finish", "Disqualified"}, templateRows)
}
