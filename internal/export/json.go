package export

import (
	"encoding/json"
	"io"

	"github.com/xHacka/login-log-generator/internal/models"
)

const JSONContentType = "application/json"

// WriteJSON writes the table as a JSON array of records.
func WriteJSON(w io.Writer, table models.LogTable) error {
	if table == nil {
		table = models.LogTable{}
	}
	return json.NewEncoder(w).Encode(table)
}
