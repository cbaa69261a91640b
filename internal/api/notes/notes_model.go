package notes

import (
	"encoding/json"

	"github.com/FACorreiaa/go-notes-api/internal/types"
)

const (
	MsgNoteNotFound  = "Cet identifiant est inconnu"
	MsgNoteForbidden = "Accès non autorisé à cette note"
	MsgInternal      = "Internal server error."
)

// NotesResponse lists the caller's notes. Notes is never null.
type NotesResponse struct {
	Error *string      `json:"error"`
	Notes []types.Note `json:"notes"`
}

// NoteResponse carries a single note after a create or patch.
type NoteResponse struct {
	Error *string     `json:"error"`
	Note  *types.Note `json:"note"`
}

// ContentInput documents the body of create and patch requests.
type ContentInput struct {
	Content string `json:"content" example:"buy milk"`
}

// ContentField extracts the content of a create or patch body.
// It returns nil when the field is absent or null. Non-string values are kept
// as their JSON text.
func ContentField(body map[string]any) *string {
	v, ok := body["content"]
	if !ok || v == nil {
		return nil
	}
	if s, ok := v.(string); ok {
		return &s
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	s := string(raw)
	return &s
}
