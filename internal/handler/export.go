package handler

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"

	"rentflow-backend/internal/settings"

	"github.com/xuri/excelize/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// sheet is a tabular export rendered as csv or xlsx.
type sheet struct {
	Name   string
	Header []string
	Rows   [][]any
	Widths []float64
	// HeaderFill and HeaderFont are hex colors for the xlsx header row.
	HeaderFill string
	HeaderFont string
}

// themedSheet colors the header row like the dashboard tables.
func themedSheet(store *settings.Store, s sheet) sheet {
	s.HeaderFill, s.HeaderFont = "#1F2937", "#FFFFFF"
	if store != nil {
		colors := store.Current().Theme.Colors
		s.HeaderFill, s.HeaderFont = colors.TableHeaderBackground, colors.TableHeaderText
	}
	return s
}

func writeExport(w http.ResponseWriter, r *http.Request, filename string, s sheet) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	switch format {
	case "csv":
		data, err := s.csv()
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))
		_, _ = w.Write(data)
	case "xlsx", "excel":
		data, err := s.xlsx()
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))
		_, _ = w.Write(data)
	default:
		writeError(w, http.StatusBadRequest, "invalid format (use csv or xlsx)")
	}
}

func (s sheet) csv() ([]byte, error) {
	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)
	_ = w.Write(s.Header)
	for _, row := range s.Rows {
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = fmt.Sprint(v)
		}
		_ = w.Write(record)
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func (s sheet) xlsx() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	index, err := f.NewSheet(s.Name)
	if err != nil {
		return nil, err
	}
	_ = f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	for c, v := range s.Header {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		_ = f.SetCellValue(s.Name, cell, v)
	}
	for r, row := range s.Rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			_ = f.SetCellValue(s.Name, cell, v)
		}
	}
	for c, width := range s.Widths {
		col, _ := excelize.ColumnNumberToName(c + 1)
		_ = f.SetColWidth(s.Name, col, col, width)
	}

	if len(s.Header) > 0 {
		style, err := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Bold: true, Color: s.HeaderFont},
			Fill: excelize.Fill{Type: "pattern", Color: []string{s.HeaderFill}, Pattern: 1},
		})
		if err == nil {
			last, _ := excelize.CoordinatesToCellName(len(s.Header), 1)
			_ = f.SetCellStyle(s.Name, "A1", last, style)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
