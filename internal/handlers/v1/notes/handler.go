package notes

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/jeswinjohn/ledgerd/internal/ledger"
	"github.com/jeswinjohn/ledgerd/internal/service"
)

// noteKeeper is the slice of the report service this handler needs.
type noteKeeper interface {
	Notes(ctx context.Context) []ledger.Note
	SaveNote(ctx context.Context, id string, note ledger.Note) error
	DeleteNote(ctx context.Context, id string)
}

// Handler handles the reminder-note endpoints.
type Handler struct {
	Reports noteKeeper
}

// NewHandler creates a new notes Handler.
func NewHandler(svc noteKeeper) *Handler {
	return &Handler{Reports: svc}
}

// Register registers the note endpoints with the Huma API.
func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-notes",
		Method:      http.MethodGet,
		Path:        "/v1/notes",
		Summary:     "List notes",
		Description: "Lists reminder notes. Fetching also publishes a reminder event for every note dated today.",
		Tags:        []string{"Notes"},
	}, h.handleList)

	huma.Register(api, huma.Operation{
		OperationID:   "create-note",
		Method:        http.MethodPost,
		Path:          "/v1/notes",
		Summary:       "Create note",
		Tags:          []string{"Notes"},
		DefaultStatus: http.StatusAccepted,
	}, h.handleCreate)

	huma.Register(api, huma.Operation{
		OperationID: "update-note",
		Method:      http.MethodPut,
		Path:        "/v1/notes/{id}",
		Summary:     "Update note",
		Tags:        []string{"Notes"},
	}, h.handleUpdate)

	huma.Register(api, huma.Operation{
		OperationID: "delete-note",
		Method:      http.MethodDelete,
		Path:        "/v1/notes/{id}",
		Summary:     "Delete note",
		Tags:        []string{"Notes"},
	}, h.handleDelete)
}

// Note is the API model of a reminder note.
type Note struct {
	ID   string `json:"id" doc:"Note id"`
	Date string `json:"date" doc:"Calendar day, YYYY-MM-DD"`
	Text string `json:"text" doc:"Reminder text"`
}

// ListNotesOutput is the Huma output for the note list.
type ListNotesOutput struct {
	Body struct {
		Notes []Note `json:"notes" doc:"Reminder notes"`
	}
}

func (h *Handler) handleList(ctx context.Context, _ *struct{}) (*ListNotesOutput, error) {
	notes := h.Reports.Notes(ctx)

	response := &ListNotesOutput{}
	response.Body.Notes = make([]Note, len(notes))
	for i, n := range notes {
		response.Body.Notes[i] = Note{ID: n.ID, Date: n.Date, Text: n.Text}
	}
	return response, nil
}

// NoteBody is the writable part of a note.
type NoteBody struct {
	Date string `json:"date" required:"true" format:"date" doc:"Calendar day, YYYY-MM-DD"`
	Text string `json:"text" required:"true" minLength:"1" doc:"Reminder text"`
}

// CreateNoteInput is the Huma input for creating a note.
type CreateNoteInput struct {
	Body NoteBody
}

// NoteAckOutput acknowledges a queued note write.
type NoteAckOutput struct {
	Body Note
}

func (h *Handler) handleCreate(ctx context.Context, input *CreateNoteInput) (*NoteAckOutput, error) {
	note := ledger.Note{Date: input.Body.Date, Text: input.Body.Text}
	if err := h.Reports.SaveNote(ctx, "", note); err != nil {
		return nil, mapNoteError(err)
	}
	return &NoteAckOutput{Body: Note{Date: note.Date, Text: note.Text}}, nil
}

// UpdateNoteInput is the Huma input for editing a note.
type UpdateNoteInput struct {
	ID   string `path:"id" doc:"Note id"`
	Body NoteBody
}

func (h *Handler) handleUpdate(ctx context.Context, input *UpdateNoteInput) (*NoteAckOutput, error) {
	note := ledger.Note{ID: input.ID, Date: input.Body.Date, Text: input.Body.Text}
	if err := h.Reports.SaveNote(ctx, input.ID, note); err != nil {
		return nil, mapNoteError(err)
	}
	return &NoteAckOutput{Body: Note{ID: note.ID, Date: note.Date, Text: note.Text}}, nil
}

// DeleteNoteInput is the Huma input for deleting a note.
type DeleteNoteInput struct {
	ID string `path:"id" doc:"Note id"`
}

func (h *Handler) handleDelete(ctx context.Context, input *DeleteNoteInput) (*struct{}, error) {
	h.Reports.DeleteNote(ctx, input.ID)
	return &struct{}{}, nil
}

func mapNoteError(err error) error {
	if errors.Is(err, service.ErrInvalidNote) {
		return huma.Error400BadRequest(err.Error())
	}
	return huma.Error500InternalServerError("note operation failed", err)
}
