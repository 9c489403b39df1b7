package report

import (
	"fmt"
	"strconv"

	"github.com/Dan9191/academy-service/internal/models"
	"github.com/beevik/etree"
)

// DashboardXML renders a dashboard as an XML document for accounting exports
func DashboardXML(d *models.Dashboard) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("dashboard")
	root.CreateAttr("reference", d.ReferenceDate.Format("2006-01-02"))
	root.CreateAttr("currency", d.CurrencySymbol)

	stats := root.CreateElement("stats")
	stats.CreateElement("activeStudents").SetText(strconv.Itoa(d.Stats.ActiveStudents))
	stats.CreateElement("overduePayments").SetText(strconv.Itoa(d.Stats.OverduePayments))
	stats.CreateElement("churnRisk").SetText(strconv.Itoa(d.Stats.ChurnRisk))
	stats.CreateElement("absentStudents").SetText(strconv.Itoa(d.Stats.AbsentStudents))
	stats.CreateElement("totalPredicted").SetText(d.Stats.TotalPredicted.StringFixed(2))
	stats.CreateElement("totalRealized").SetText(d.Stats.TotalRealized.StringFixed(2))

	forecast := root.CreateElement("forecast")
	for _, point := range d.ChartData {
		week := forecast.CreateElement("week")
		week.CreateAttr("name", point.Name)
		week.CreateAttr("from", strconv.Itoa(point.Range[0]))
		week.CreateAttr("to", strconv.Itoa(point.Range[1]))
		week.CreateAttr("predicted", point.Predicted.StringFixed(2))
		week.CreateAttr("realized", point.Realized.StringFixed(2))
	}

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to render dashboard XML: %w", err)
	}
	return out, nil
}
