package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"StockPredict/internal/domain/models"

	"github.com/olekukonko/tablewriter"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

func renderForecast(w io.Writer, fc *models.Forecast, format string) error {
	if format == formatJSON {
		return writeJSON(w, fc)
	}

	fmt.Fprintf(w, "Date:             %s\n", fc.Date.Format(time.DateOnly))
	fmt.Fprintf(w, "Features:         RSI=%.4f ROC=%.4f Volume=%.4f\n", fc.Features.RSI, fc.Features.ROC, fc.Features.Volume)
	fmt.Fprintf(w, "Predicted return: %.4f (%.2f%%)\n", fc.PredictedReturn, fc.PredictedReturn*100)
	fmt.Fprintf(w, "Base price:       %.2f\n", fc.BasePrice)

	table := tablewriter.NewWriter(w)
	withRef := len(fc.Trajectory.Reference) == len(fc.Trajectory.Predicted) && len(fc.Trajectory.Reference) > 0
	if withRef {
		table.Header("#", "Date", "Predicted", "Reference")
	} else {
		table.Header("#", "Date", "Predicted")
	}
	for i, p := range fc.Trajectory.Predicted {
		row := []any{fmt.Sprintf("%d", i), p.Date.Format(time.DateOnly), fmt.Sprintf("%.2f", p.Price)}
		if withRef {
			row = append(row, fmt.Sprintf("%.2f", fc.Trajectory.Reference[i].Price))
		}
		if err := table.Append(row...); err != nil {
			return err
		}
	}
	return table.Render()
}

func renderModel(w io.Writer, info models.ModelInfo, format string) error {
	if format == formatJSON {
		return writeJSON(w, info)
	}

	table := tablewriter.NewWriter(w)
	table.Header("Field", "Value")
	rows := [][]any{
		{"path", info.Path},
		{"state", string(info.State)},
	}
	if info.State == models.ModelLoaded {
		rows = append(rows,
			[]any{"kind", info.Descriptor.Kind},
			[]any{"features", fmt.Sprintf("%v", info.Descriptor.Features)},
			[]any{"fingerprint", info.Fingerprint},
			[]any{"loaded_at", info.LoadedAt.Format(time.RFC3339)},
		)
	}
	if info.Error != "" {
		rows = append(rows, []any{"error", info.Error})
	}
	for _, r := range rows {
		if err := table.Append(r...); err != nil {
			return err
		}
	}
	return table.Render()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
