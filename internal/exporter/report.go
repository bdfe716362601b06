package exporter

import (
	"bytes"
	"encoding/csv"
	"sort"
	"strconv"
	"time"

	"devanalytics/internal/analysis"
)

// MarshalReportCSV renders an insight report as a sectioned CSV document
// suitable for download alongside the JSON form.
func MarshalReportCSV(report *analysis.InsightReport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	writer.Write([]string{"Automated Insight Report"})
	writer.Write([]string{"Generated:", time.Now().UTC().Format("2006-01-02 15:04:05")})
	writer.Write([]string{"Total Records:", strconv.Itoa(report.BasicStats.TotalRecords)})
	writer.Write([]string{"Numeric Columns:", strconv.Itoa(report.BasicStats.NumericColumns)})
	writer.Write([]string{"Categorical Columns:", strconv.Itoa(report.BasicStats.CategoricalColumns)})
	writer.Write([]string{""})

	writer.Write([]string{"DATA QUALITY"})
	writer.Write([]string{"Duplicate Rows:", strconv.Itoa(report.QualityInsights.Duplicates)})
	if len(report.QualityInsights.MissingData) > 0 {
		writer.Write([]string{"Column", "Missing Count"})
		for _, column := range sortedKeys(report.QualityInsights.MissingData) {
			writer.Write([]string{column, strconv.Itoa(report.QualityInsights.MissingData[column])})
		}
	}
	writer.Write([]string{""})

	writeFindings(writer, "STATISTICAL INSIGHTS", report.StatisticalInsights)
	writeFindings(writer, "CORRELATION INSIGHTS", report.CorrelationInsights)
	writeFindings(writer, "TREND INSIGHTS", report.TrendInsights)

	writer.Write([]string{"OUTLIERS"})
	writer.Write([]string{"Column", "Outlier Count"})
	for _, column := range sortedKeys(report.OutlierInsights) {
		writer.Write([]string{column, strconv.Itoa(report.OutlierInsights[column])})
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeFindings(writer *csv.Writer, title string, findings []string) {
	writer.Write([]string{title})
	if len(findings) == 0 {
		writer.Write([]string{"(none)"})
	}
	for _, finding := range findings {
		writer.Write([]string{finding})
	}
	writer.Write([]string{""})
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
