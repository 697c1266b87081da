package remote

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/ShubhamPP04/todo-list/internal/domain"
)

// apiItem is a single todo in the remote wire format. The text field
// appears under "todo" on some deployments and "title" on others, so both
// are decoded and coalesced.
type apiItem struct {
	ID        int64   `json:"id"`
	Todo      *string `json:"todo"`
	Title     *string `json:"title"`
	Completed bool    `json:"completed"`
	UserID    int64   `json:"userId"`
}

func (it apiItem) text() string {
	if it.Todo != nil {
		return *it.Todo
	}
	if it.Title != nil {
		return *it.Title
	}
	return ""
}

func (it apiItem) toRecord() domain.Record {
	return domain.Record{
		ID:        it.ID,
		Text:      it.text(),
		Completed: it.Completed,
		OwnerID:   it.UserID,
		Origin:    domain.OriginRemote,
	}
}

// apiPage is the object-shaped response. Item arrays appear under "todos"
// or "items" depending on deployment; "total" may be absent.
type apiPage struct {
	Todos []apiItem `json:"todos"`
	Items []apiItem `json:"items"`
	Total *int      `json:"total"`
}

// Page is the canonical result of a paginated fetch, resolved from
// whichever wire shape the remote produced. Records carry OriginRemote
// and no CreatedAt; creation timestamps are assigned downstream.
type Page struct {
	Records []domain.Record
	Total   int
}

// decodePage resolves the shape-polymorphic response: either a bare JSON
// array of items, or an object wrapping the array with a total count.
// The shape is detected from the payload itself, never from headers.
func decodePage(data []byte) (Page, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Page{}, fmt.Errorf("%w: empty body", ErrMalformed)
	}

	switch trimmed[0] {
	case '[':
		var items []apiItem
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return Page{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return Page{Records: toRecords(items), Total: len(items)}, nil

	case '{':
		var page apiPage
		if err := json.Unmarshal(trimmed, &page); err != nil {
			return Page{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		items := page.Todos
		if items == nil {
			items = page.Items
		}
		if items == nil {
			return Page{}, fmt.Errorf("%w: no item array", ErrMalformed)
		}
		total := len(items)
		if page.Total != nil {
			total = *page.Total
		}
		return Page{Records: toRecords(items), Total: total}, nil
	}

	return Page{}, fmt.Errorf("%w: unexpected leading byte %q", ErrMalformed, trimmed[0])
}

func decodeItem(data []byte) (domain.Record, error) {
	var item apiItem
	if err := json.Unmarshal(data, &item); err != nil {
		return domain.Record{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return item.toRecord(), nil
}

func toRecords(items []apiItem) []domain.Record {
	records := make([]domain.Record, len(items))
	for i, it := range items {
		records[i] = it.toRecord()
	}
	return records
}
