package report

import (
	"bytes"
	"encoding/json"

	"instarecon/pkg/errors"
	"instarecon/pkg/instagram"
	"instarecon/pkg/storage"
)

const jsonIndent = "    "

// JSONFileName is the snapshot file name for username
func JSONFileName(username string) string {
	return username + "_recon.json"
}

// FormatJSON pretty-prints the raw user record. Keys and values are kept
// exactly as received.
func FormatJSON(raw json.RawMessage) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", jsonIndent); err != nil {
		return nil, errors.Wrap(errors.ErrorTypeParsing, err, "failed to format user record")
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// WriteJSON writes the raw user record to <username>_recon.json
func WriteJSON(store *storage.Manager, p *instagram.Profile) (string, error) {
	data, err := FormatJSON(p.Raw)
	if err != nil {
		return "", err
	}
	return store.WriteFile(JSONFileName(p.Target), data)
}
