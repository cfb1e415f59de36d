package session

import (
	"fmt"
	"strings"

	"smartchat/dataset"
)

// PlottingInstruction tells the model how to request a chart. It is sent
// ahead of every question asked while a dataset is loaded.
const PlottingInstruction = "IMPORTANT: If the user requests a plot (plot, chart, graph, draw), " +
	"you MUST respond with a single JSON string, without any explanations or markdown formatting.\n" +
	"Supported JSON formats are:\n" +
	`1. Histogram: {"plot": {"type": "histogram", "column": "column_name"}}` + "\n" +
	`2. Bar chart: {"plot": {"type": "bar", "x_column": "x_column_name", "y_column": "y_column_name"}}` + "\n" +
	"If not, answer the user's question as a data analysis expert."

// DefaultImagePrompt replaces an empty question when only an image is sent.
const DefaultImagePrompt = "Describe this image in detail."

// ComposePrompt builds the text sent to the model for one turn.
func ComposePrompt(text string, ds *dataset.Dataset, hasImage bool) string {
	if ds != nil {
		return fmt.Sprintf("%s\n\nData info: CSV data has columns: %s.\nUser question: '%s'",
			PlottingInstruction, strings.Join(ds.Columns(), ", "), text)
	}
	if hasImage && strings.TrimSpace(text) == "" {
		return DefaultImagePrompt
	}
	return text
}
