package bench

import (
	"encoding/json"
	"io"
	"os"
)

// ExportJSON writes the result to path, indented for readability.
func ExportJSON(path string, res *Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return writeJSON(file, res)
}

// WriteJSON writes the result to w.
func WriteJSON(w io.Writer, res *Result) error {
	return writeJSON(w, res)
}

func writeJSON(w io.Writer, res *Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
